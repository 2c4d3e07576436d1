package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/al-bashkir/edge-groups/internal/config"
	"github.com/al-bashkir/edge-groups/internal/edge"
)

func seedStore(t *testing.T) (*Store, string) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "edge.toml")
	inv := config.DefaultInventory()
	inv.Tags = []edge.Tag{{ID: 1, Name: "env:prod"}, {ID: 2, Name: "env:dev"}}
	inv.Endpoints = []edge.Endpoint{
		{ID: 1, Name: "edge-01", TagIDs: []int{1}},
		{ID: 2, Name: "edge-02", TagIDs: []int{2}},
	}
	inv.Groups = []edge.Group{{ID: 4, Name: "lab", Endpoints: []int{2}}}
	if _, err := config.SaveInventory(p, inv); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, err := Open(p, zap.NewNop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return s, p
}

func TestCreateAssignsIDAndPersists(t *testing.T) {
	s, p := seedStore(t)
	ctx := context.Background()

	got, err := s.Create(ctx, edge.Group{
		Name:      "  prod-edges ",
		Dynamic:   true,
		TagIDs:    []int{1, 1},
		Endpoints: []int{2},
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	want := edge.Group{ID: 5, Name: "prod-edges", Dynamic: true, TagIDs: []int{1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Create mismatch (-want +got):\n%s", diff)
	}

	reopened, err := Open(p, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	g, err := reopened.Group(ctx, 5)
	if err != nil {
		t.Fatalf("Group error: %v", err)
	}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Fatalf("persisted mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateRejects(t *testing.T) {
	s, _ := seedStore(t)
	ctx := context.Background()

	tc := []struct {
		name  string
		group edge.Group
		want  error
	}{
		{"invalid", edge.Group{Name: ""}, edge.ErrInvalidGroup},
		{"id already set", edge.Group{ID: 9, Name: "x", Endpoints: []int{1}}, edge.ErrInvalidGroup},
		{"duplicate name", edge.Group{Name: "LAB", Endpoints: []int{1}}, edge.ErrDuplicateName},
		{"unknown tag", edge.Group{Name: "x", Dynamic: true, TagIDs: []int{42}}, edge.ErrObjectNotFound},
		{"unknown endpoint", edge.Group{Name: "x", Endpoints: []int{42}}, edge.ErrObjectNotFound},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.group)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v, want %v", err, tt.want)
			}
		})
	}

	groups, _ := s.Groups(ctx)
	if len(groups) != 1 {
		t.Fatalf("groups=%d after rejected creates, want 1", len(groups))
	}
}

func TestUpdate(t *testing.T) {
	s, _ := seedStore(t)
	ctx := context.Background()

	got, err := s.Update(ctx, edge.Group{ID: 4, Name: "lab", Dynamic: true, PartialMatch: true, TagIDs: []int{2, 1}})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	want := edge.Group{ID: 4, Name: "lab", Dynamic: true, PartialMatch: true, TagIDs: []int{1, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Update mismatch (-want +got):\n%s", diff)
	}

	_, err = s.Update(ctx, edge.Group{ID: 99, Name: "ghost", Endpoints: []int{1}})
	if !errors.Is(err, edge.ErrObjectNotFound) {
		t.Fatalf("err=%v, want ErrObjectNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s, _ := seedStore(t)
	ctx := context.Background()

	if err := s.Delete(ctx, 4); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Group(ctx, 4); !errors.Is(err, edge.ErrObjectNotFound) {
		t.Fatalf("Group after delete err=%v", err)
	}
	if err := s.Delete(ctx, 4); !errors.Is(err, edge.ErrObjectNotFound) {
		t.Fatalf("second Delete err=%v", err)
	}
}

func TestGroupByName(t *testing.T) {
	s, _ := seedStore(t)
	g, err := s.GroupByName(context.Background(), " Lab ")
	if err != nil {
		t.Fatalf("GroupByName error: %v", err)
	}
	if g.ID != 4 {
		t.Fatalf("id=%d, want 4", g.ID)
	}
}

func TestCanceledContext(t *testing.T) {
	s, _ := seedStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Create(ctx, edge.Group{Name: "x", Endpoints: []int{1}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Create err=%v, want context.Canceled", err)
	}
	if _, err := s.ReferenceData(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("ReferenceData err=%v, want context.Canceled", err)
	}
}
