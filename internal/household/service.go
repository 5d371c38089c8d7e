// Package household manages the singleton household document: ownership,
// invite codes and membership.
package household

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/store"
)

// inviteCodeAlphabet avoids ambiguous characters (0/O, 1/I).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 6

// Service manages the household singleton.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

// NewService creates a household Service.
func NewService(st store.Store, log zerolog.Logger) *Service {
	return &Service{store: st, log: log}
}

// Get returns the household, or store.ErrNotFound before bootstrap.
func (s *Service) Get(ctx context.Context) (*model.Household, error) {
	return s.store.GetHousehold(ctx)
}

// Bootstrap returns the existing household or provisions a new one owned by
// the given user, with a fresh invite code.
func (s *Service) Bootstrap(ctx context.Context, name string, owner model.User) (*model.Household, error) {
	existing, err := s.store.GetHousehold(ctx)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading household: %w", err)
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}
	h := &model.Household{
		Name:       name,
		OwnerID:    owner.ID,
		InviteCode: code,
		Members: []model.Member{{
			UserID:   owner.ID,
			Name:     owner.Name,
			Role:     model.RoleOwner,
			JoinedAt: time.Now(),
		}},
		CreatedAt: time.Now(),
	}
	if err := s.store.PutHousehold(ctx, h); err != nil {
		return nil, fmt.Errorf("saving household: %w", err)
	}
	s.log.Info().Str("household", h.ID).Str("owner", owner.ID).Msg("household provisioned")
	return h, nil
}

// Join adds a user as a MEMBER when the invite code matches. Joining twice
// is a no-op.
func (s *Service) Join(ctx context.Context, inviteCode string, user model.User) (*model.Household, error) {
	h, err := s.store.GetHousehold(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading household: %w", err)
	}
	if h.InviteCode != inviteCode {
		return nil, fmt.Errorf("invalid invite code")
	}
	for _, m := range h.Members {
		if m.UserID == user.ID {
			return h, nil
		}
	}
	h.Members = append(h.Members, model.Member{
		UserID:   user.ID,
		Name:     user.Name,
		Role:     model.RoleMember,
		JoinedAt: time.Now(),
	})
	if err := s.store.PutHousehold(ctx, h); err != nil {
		return nil, fmt.Errorf("saving household: %w", err)
	}
	return h, nil
}

// RegenerateInviteCode replaces the invite code, invalidating the old one.
func (s *Service) RegenerateInviteCode(ctx context.Context) (*model.Household, error) {
	h, err := s.store.GetHousehold(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading household: %w", err)
	}
	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}
	h.InviteCode = code
	if err := s.store.PutHousehold(ctx, h); err != nil {
		return nil, fmt.Errorf("saving household: %w", err)
	}
	return h, nil
}

func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}
