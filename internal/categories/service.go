package categories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

// Service provides CRUD over transaction categories.
type Service struct {
	store store.Store
	sess  *session.Session
	bus   *bus.Bus
	log   zerolog.Logger
}

// NewService creates a category Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, log: log}
}

// Create persists a new category.
func (s *Service) Create(ctx context.Context, c model.Category) (*model.Category, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, fmt.Errorf("category requires a name")
	}
	c.HouseholdID = householdID
	if err := s.store.CreateCategory(ctx, &c); err != nil {
		return nil, fmt.Errorf("saving category: %w", err)
	}
	s.bus.Publish(bus.TopicCategories)
	return &c, nil
}

// Get returns a category by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// GetAll returns the household's categories sorted by name.
func (s *Service) GetAll(ctx context.Context) ([]*model.Category, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, householdID)
}

// UpdateParams holds a partial category update.
type UpdateParams struct {
	Name          *string
	Color         *string
	SubCategories *[]model.SubCategory
}

// Update merges the partial onto the stored category and persists it.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading category %s: %w", id, err)
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.SubCategories != nil {
		c.SubCategories = *p.SubCategories
	}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("saving category %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicCategories)
	return c, nil
}

// Delete removes a category. Deleting an absent category is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting category %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicCategories)
	return nil
}

// Seed creates the default category set for a fresh household. Existing
// categories are left alone; seeding an already-seeded household only adds
// names not yet present.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[c.Name] = true
	}
	for _, c := range DefaultCategories() {
		if present[c.Name] {
			continue
		}
		if _, err := s.Create(ctx, c); err != nil {
			return fmt.Errorf("seeding category %s: %w", c.Name, err)
		}
	}
	return nil
}
