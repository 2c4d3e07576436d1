package config

import (
	"fmt"
	"strings"

	"github.com/al-bashkir/edge-groups/internal/edge"
)

// Check reports the first structural problem in inv: non-positive or
// duplicate ids, and blank or duplicate group names.
func Check(inv Inventory) error {
	tagIDs := make(map[int]struct{}, len(inv.Tags))
	for _, t := range inv.Tags {
		if err := checkID("tag", t.ID, tagIDs); err != nil {
			return err
		}
	}
	epIDs := make(map[int]struct{}, len(inv.Endpoints))
	for _, e := range inv.Endpoints {
		if err := checkID("endpoint", e.ID, epIDs); err != nil {
			return err
		}
	}

	groupIDs := make(map[int]struct{}, len(inv.Groups))
	names := make(map[string]struct{}, len(inv.Groups))
	for _, g := range inv.Groups {
		if err := checkID("group", g.ID, groupIDs); err != nil {
			return err
		}
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return fmt.Errorf("group %d: name required", g.ID)
		}
		k := strings.ToLower(name)
		if _, ok := names[k]; ok {
			return fmt.Errorf("group %q: %w", name, edge.ErrDuplicateName)
		}
		names[k] = struct{}{}
	}
	return nil
}

func checkID(kind string, id int, seen map[int]struct{}) error {
	if id <= 0 {
		return fmt.Errorf("%s id %d: must be positive", kind, id)
	}
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%s id %d: duplicate", kind, id)
	}
	seen[id] = struct{}{}
	return nil
}
