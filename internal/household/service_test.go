package household

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkhata/gharkhata/internal/logging"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewMemory(), logging.Nop())
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, store.ErrNotFound)

	h, err := svc.Bootstrap(ctx, "Sharma family", model.User{ID: "u1", Name: "Asha"})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "u1", h.OwnerID)
	require.Len(t, h.Members, 1)
	assert.Equal(t, model.RoleOwner, h.Members[0].Role)

	require.Len(t, h.InviteCode, 6)
	for _, r := range h.InviteCode {
		assert.True(t, strings.ContainsRune(inviteCodeAlphabet, r), "unexpected rune %q", r)
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.Bootstrap(ctx, "Sharma family", model.User{ID: "u1", Name: "Asha"})
	require.NoError(t, err)

	// A second bootstrap returns the stored household untouched.
	second, err := svc.Bootstrap(ctx, "Other name", model.User{ID: "u2", Name: "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Sharma family", second.Name)
	assert.Len(t, second.Members, 1)
}

func TestJoin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	h, err := svc.Bootstrap(ctx, "Sharma family", model.User{ID: "u1", Name: "Asha"})
	require.NoError(t, err)

	_, err = svc.Join(ctx, "WRONG1", model.User{ID: "u2", Name: "Ravi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid invite code")

	joined, err := svc.Join(ctx, h.InviteCode, model.User{ID: "u2", Name: "Ravi"})
	require.NoError(t, err)
	require.Len(t, joined.Members, 2)
	assert.Equal(t, model.RoleMember, joined.Members[1].Role)

	// Joining twice is a no-op.
	again, err := svc.Join(ctx, h.InviteCode, model.User{ID: "u2", Name: "Ravi"})
	require.NoError(t, err)
	assert.Len(t, again.Members, 2)
}

func TestRegenerateInviteCode(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	h, err := svc.Bootstrap(ctx, "Sharma family", model.User{ID: "u1", Name: "Asha"})
	require.NoError(t, err)

	regen, err := svc.RegenerateInviteCode(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, h.InviteCode, regen.InviteCode)

	// The old code no longer admits anyone.
	_, err = svc.Join(ctx, h.InviteCode, model.User{ID: "u2", Name: "Ravi"})
	require.Error(t, err)
}
