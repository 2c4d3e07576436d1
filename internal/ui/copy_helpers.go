package ui

import (
	"fmt"
	"strings"

	"github.com/al-bashkir/edge-groups/internal/edge"
)

// maxCopySuffix is the longest suffix copyGroup appends.
const maxCopySuffix = len("-copy999")

// copyGroup returns an id-less copy of g named "<name>-copy", or
// "<name>-copyN" when that is taken. Names compare case-insensitively.
// The base is cut short so the result stays within edge.MaxNameLength.
func copyGroup(groups []edge.Group, g edge.Group) edge.Group {
	taken := make(map[string]bool, len(groups))
	for _, other := range groups {
		taken[strings.ToLower(strings.TrimSpace(other.Name))] = true
	}

	base := strings.TrimSpace(g.Name)
	if base == "" {
		base = "copy"
	}
	if r := []rune(base); len(r) > edge.MaxNameLength-maxCopySuffix {
		base = strings.TrimSpace(string(r[:edge.MaxNameLength-maxCopySuffix]))
	}
	name := base + "-copy"
	for i := 2; taken[strings.ToLower(name)] && i < 1000; i++ {
		name = fmt.Sprintf("%s-copy%d", base, i)
	}

	out := g.Clone()
	out.ID = 0
	out.Name = name
	return out
}
