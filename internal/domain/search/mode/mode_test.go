package mode

import "testing"

func TestIsValid(t *testing.T) {
	valid := []Mode{ELSER, Text}
	for _, m := range valid {
		if !m.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", m)
		}
	}

	invalid := []Mode{"", "hybrid", "vector", "ELSER"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", m)
		}
	}
}

func TestIsServed(t *testing.T) {
	if !ELSER.IsServed() {
		t.Error("elser must be served")
	}
	if Text.IsServed() {
		t.Error("legacy text mode must not be served")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ELSER, false},
		{"elser", ELSER, false},
		{"text", Text, false},
		{"bm25", "", true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
