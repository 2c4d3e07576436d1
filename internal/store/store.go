// Package store persists edge groups in the TOML inventory.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/al-bashkir/edge-groups/internal/config"
	"github.com/al-bashkir/edge-groups/internal/edge"
)

// Store is safe for concurrent use; UI commands call it off the event loop.
type Store struct {
	mu   sync.Mutex
	path string
	inv  config.Inventory
	log  *zap.Logger
}

// Open loads the inventory at path. A missing file yields an empty store
// that is created on the first write.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	inv, used, err := config.LoadInventory(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory %s: %w", used, err)
	}
	log.Debug("inventory loaded",
		zap.String("path", used),
		zap.Int("tags", len(inv.Tags)),
		zap.Int("endpoints", len(inv.Endpoints)),
		zap.Int("groups", len(inv.Groups)))
	return &Store{path: used, inv: inv, log: log}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Groups(ctx context.Context) ([]edge.Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]edge.Group, 0, len(s.inv.Groups))
	for _, g := range s.inv.Groups {
		out = append(out, g.Clone())
	}
	return out, nil
}

func (s *Store) Group(ctx context.Context, id int) (edge.Group, error) {
	if err := ctx.Err(); err != nil {
		return edge.Group{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return edge.Group{}, fmt.Errorf("edge group %d: %w", id, edge.ErrObjectNotFound)
	}
	return s.inv.Groups[i].Clone(), nil
}

// GroupByName matches case-insensitively after trimming.
func (s *Store) GroupByName(ctx context.Context, name string) (edge.Group, error) {
	if err := ctx.Err(); err != nil {
		return edge.Group{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByName(name, 0)
	if i < 0 {
		return edge.Group{}, fmt.Errorf("edge group %q: %w", strings.TrimSpace(name), edge.ErrObjectNotFound)
	}
	return s.inv.Groups[i].Clone(), nil
}

func (s *Store) ReferenceData(ctx context.Context) (edge.ReferenceData, error) {
	if err := ctx.Err(); err != nil {
		return edge.ReferenceData{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.ReferenceData(), nil
}

// Create assigns the next free id and persists g.
func (s *Store) Create(ctx context.Context, g edge.Group) (edge.Group, error) {
	if err := ctx.Err(); err != nil {
		return edge.Group{}, err
	}
	if g.ID != 0 {
		return edge.Group{}, fmt.Errorf("create edge group: id %d already set: %w", g.ID, edge.ErrInvalidGroup)
	}
	g = prune(g.Normalized())

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(g); err != nil {
		return edge.Group{}, fmt.Errorf("create edge group: %w", err)
	}
	g.ID = s.nextID()

	next := s.inv
	next.Groups = append(append([]edge.Group(nil), s.inv.Groups...), g)
	if err := s.commit(next); err != nil {
		return edge.Group{}, fmt.Errorf("create edge group: %w", err)
	}
	s.log.Info("edge group created", zap.Int("id", g.ID), zap.String("name", g.Name), zap.String("mode", string(g.Mode())))
	return g.Clone(), nil
}

func (s *Store) Update(ctx context.Context, g edge.Group) (edge.Group, error) {
	if err := ctx.Err(); err != nil {
		return edge.Group{}, err
	}
	g = prune(g.Normalized())

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(g.ID)
	if i < 0 {
		return edge.Group{}, fmt.Errorf("update edge group %d: %w", g.ID, edge.ErrObjectNotFound)
	}
	if err := s.check(g); err != nil {
		return edge.Group{}, fmt.Errorf("update edge group: %w", err)
	}

	next := s.inv
	next.Groups = append([]edge.Group(nil), s.inv.Groups...)
	next.Groups[i] = g
	if err := s.commit(next); err != nil {
		return edge.Group{}, fmt.Errorf("update edge group: %w", err)
	}
	s.log.Info("edge group updated", zap.Int("id", g.ID), zap.String("name", g.Name), zap.String("mode", string(g.Mode())))
	return g.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, id int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return fmt.Errorf("delete edge group %d: %w", id, edge.ErrObjectNotFound)
	}
	next := s.inv
	next.Groups = make([]edge.Group, 0, len(s.inv.Groups)-1)
	next.Groups = append(next.Groups, s.inv.Groups[:i]...)
	next.Groups = append(next.Groups, s.inv.Groups[i+1:]...)
	if err := s.commit(next); err != nil {
		return fmt.Errorf("delete edge group %d: %w", id, err)
	}
	s.log.Info("edge group deleted", zap.Int("id", id))
	return nil
}

// commit writes inv and swaps it in only when the write succeeded.
func (s *Store) commit(inv config.Inventory) error {
	path, err := config.SaveInventory(s.path, inv)
	if err != nil {
		s.log.Error("inventory write failed", zap.String("path", path), zap.Error(err))
		return err
	}
	s.path = path
	inv.Version = 1
	s.inv = inv
	return nil
}

func (s *Store) check(g edge.Group) error {
	if errs := edge.Validate(g); len(errs) > 0 {
		return errs
	}
	if j := s.indexByName(g.Name, g.ID); j >= 0 {
		return fmt.Errorf("%q: %w", g.Name, edge.ErrDuplicateName)
	}
	ref := s.inv.ReferenceData()
	for _, id := range g.TagIDs {
		if _, ok := ref.TagByID(id); !ok {
			return fmt.Errorf("tag %d: %w", id, edge.ErrObjectNotFound)
		}
	}
	for _, id := range g.Endpoints {
		if _, ok := ref.EndpointByID(id); !ok {
			return fmt.Errorf("endpoint %d: %w", id, edge.ErrObjectNotFound)
		}
	}
	return nil
}

func (s *Store) indexByID(id int) int {
	for i := range s.inv.Groups {
		if s.inv.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

// indexByName ignores the group with id skipID so a group can keep its name.
func (s *Store) indexByName(name string, skipID int) int {
	name = strings.TrimSpace(name)
	for i := range s.inv.Groups {
		g := s.inv.Groups[i]
		if g.ID != skipID && strings.EqualFold(strings.TrimSpace(g.Name), name) {
			return i
		}
	}
	return -1
}

func (s *Store) nextID() int {
	id := 0
	for _, g := range s.inv.Groups {
		if g.ID > id {
			id = g.ID
		}
	}
	return id + 1
}

// prune drops the criteria of the inactive membership mode.
func prune(g edge.Group) edge.Group {
	if g.Dynamic {
		g.Endpoints = nil
		return g
	}
	g.TagIDs = nil
	g.PartialMatch = false
	return g
}
