package edge

import (
	"sort"
	"strconv"
	"strings"
)

// Mode is the membership mode of an edge group.
type Mode string

const (
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

const MaxNameLength = 128

// Group is a named set of endpoints. Static groups list their endpoints
// explicitly; dynamic groups select endpoints by tag.
//
// ID is zero until the group has been persisted.
type Group struct {
	ID           int    `toml:"id" json:"id" yaml:"id"`
	Name         string `toml:"name" json:"name" yaml:"name"`
	Dynamic      bool   `toml:"dynamic" json:"dynamic" yaml:"dynamic"`
	PartialMatch bool   `toml:"partial_match,omitempty" json:"partialMatch" yaml:"partial_match"`
	TagIDs       []int  `toml:"tag_ids,omitempty" json:"tagIds" yaml:"tag_ids"`
	Endpoints    []int  `toml:"endpoints,omitempty" json:"endpoints" yaml:"endpoints"`
}

type Tag struct {
	ID   int    `toml:"id" json:"id" yaml:"id"`
	Name string `toml:"name" json:"name" yaml:"name"`
}

type Endpoint struct {
	ID     int    `toml:"id" json:"id" yaml:"id"`
	Name   string `toml:"name" json:"name" yaml:"name"`
	URL    string `toml:"url,omitempty" json:"url" yaml:"url"`
	TagIDs []int  `toml:"tag_ids,omitempty" json:"tagIds" yaml:"tag_ids"`
}

// ReferenceData is what a group form needs besides the group itself.
type ReferenceData struct {
	Tags      []Tag
	Endpoints []Endpoint
}

func (g Group) Mode() Mode {
	if g.Dynamic {
		return ModeDynamic
	}
	return ModeStatic
}

// IsNew reports whether the group has not been persisted yet.
func (g Group) IsNew() bool { return g.ID == 0 }

// Clone returns a copy that shares no slices with g.
func (g Group) Clone() Group {
	out := g
	out.TagIDs = cloneIDs(g.TagIDs)
	out.Endpoints = cloneIDs(g.Endpoints)
	return out
}

// Normalized trims the name and sorts and dedupes the id lists.
func (g Group) Normalized() Group {
	out := g.Clone()
	out.Name = strings.TrimSpace(out.Name)
	out.TagIDs = uniqueSorted(out.TagIDs)
	out.Endpoints = uniqueSorted(out.Endpoints)
	return out
}

// SameAs reports whether g and o describe the same group once normalized.
func (g Group) SameAs(o Group) bool {
	a, b := g.Normalized(), o.Normalized()
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Dynamic == b.Dynamic &&
		a.PartialMatch == b.PartialMatch &&
		equalIDs(a.TagIDs, b.TagIDs) &&
		equalIDs(a.Endpoints, b.Endpoints)
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (r ReferenceData) TagByID(id int) (Tag, bool) {
	for _, t := range r.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return Tag{}, false
}

func (r ReferenceData) EndpointByID(id int) (Endpoint, bool) {
	for _, e := range r.Endpoints {
		if e.ID == id {
			return e, true
		}
	}
	return Endpoint{}, false
}

// TagNames resolves ids to names. Unknown ids render as "#<id>".
func (r ReferenceData) TagNames(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.TagByID(id); ok {
			out = append(out, t.Name)
			continue
		}
		out = append(out, unknownID(id))
	}
	return out
}

// EndpointNames resolves ids to names. Unknown ids render as "#<id>".
func (r ReferenceData) EndpointNames(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.EndpointByID(id); ok {
			out = append(out, e.Name)
			continue
		}
		out = append(out, unknownID(id))
	}
	return out
}

func unknownID(id int) string { return "#" + strconv.Itoa(id) }

func cloneIDs(ids []int) []int {
	if ids == nil {
		return nil
	}
	return append([]int(nil), ids...)
}

func uniqueSorted(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
