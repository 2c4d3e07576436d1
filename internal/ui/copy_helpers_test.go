package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/al-bashkir/edge-groups/internal/edge"
	"github.com/stretchr/testify/require"
)

func TestCopyGroup_Suffixes(t *testing.T) {
	groups := []edge.Group{{ID: 1, Name: "lab"}, {ID: 2, Name: "LAB-copy"}}
	got := copyGroup(groups, groups[0])
	require.Equal(t, "lab-copy2", got.Name)
	require.Zero(t, got.ID)
}

func TestCopyGroup_LongNameFits(t *testing.T) {
	for _, name := range []string{
		strings.Repeat("a", edge.MaxNameLength),
		strings.Repeat("é", edge.MaxNameLength),
	} {
		g := edge.Group{ID: 1, Name: name, Endpoints: []int{1}}
		groups := []edge.Group{g}
		prev := ""
		for i := 0; i < 3; i++ {
			c := copyGroup(groups, g)
			require.LessOrEqual(t, utf8.RuneCountInString(c.Name), edge.MaxNameLength)
			require.NotEqual(t, prev, c.Name)
			require.Empty(t, edge.Validate(c).For(edge.FieldName))
			groups = append(groups, c)
			prev = c.Name
		}
	}
}
