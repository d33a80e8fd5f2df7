package filter

import (
	"fmt"
	"strings"
)

// MaxSourceHosts is the maximum number of hostnames in a source filter.
const MaxSourceHosts = 32

// SourceField is the document field the source filter applies to.
const SourceField = "url_host"

// Set is the caller's structured filter set.
type Set struct {
	sourceHosts []string
}

// NewSet validates and creates a filter Set.
// Blank hostnames are dropped; duplicates keep their first position.
func NewSet(sourceHosts []string) (Set, error) {
	if len(sourceHosts) == 0 {
		return Set{}, nil
	}
	seen := make(map[string]struct{}, len(sourceHosts))
	hosts := make([]string, 0, len(sourceHosts))
	for _, h := range sourceHosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		hosts = append(hosts, h)
	}
	if len(hosts) > MaxSourceHosts {
		return Set{}, fmt.Errorf("too many source hosts (max %d)", MaxSourceHosts)
	}
	if len(hosts) == 0 {
		return Set{}, nil
	}
	return Set{sourceHosts: hosts}, nil
}

// SourceHosts returns the url_host inclusion list.
func (s Set) SourceHosts() []string { return s.sourceHosts }

// IsEmpty reports whether the set restricts nothing.
func (s Set) IsEmpty() bool { return len(s.sourceHosts) == 0 }
