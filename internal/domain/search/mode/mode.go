package mode

import "fmt"

// Mode is the retrieval strategy used by the connector.
type Mode string

// Search mode constants.
const (
	// ELSER combines lexical matching with the sparse-vector semantic model.
	ELSER Mode = "elser"
	// Text is the legacy lexical-only mode. It parses but is not served.
	Text Mode = "text"
)

// Default is the mode a fresh connector starts in.
const Default = ELSER

// IsValid checks if the mode is one of the known values.
func (m Mode) IsValid() bool {
	return m == ELSER || m == Text
}

// IsServed reports whether the current build can execute the mode.
func (m Mode) IsServed() bool {
	return m == ELSER
}

// Parse converts user input into a Mode. Empty input yields Default.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Default, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("invalid search mode: %q", s)
	}
	return m, nil
}
