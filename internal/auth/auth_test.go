package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"phoneshop/internal/apperr"
	"phoneshop/internal/models"
	"phoneshop/internal/store/memory"
)

func newTestService() *Service {
	return NewService(memory.New().Stores().Users, NewTokens("test-secret", 7*24*time.Hour), zap.NewNop())
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("k", time.Hour)
	user := models.User{ID: primitive.NewObjectID(), Email: "a@b.co", Role: models.RoleAdmin, Name: "A"}

	raw, err := tokens.Issue(user)
	require.NoError(t, err)

	identity, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "a@b.co", identity.Email)
	assert.True(t, identity.IsAdmin())
	assert.Equal(t, "A", identity.Name)
}

func TestTokensRejectExpiredAndForeign(t *testing.T) {
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := NewTokens("k", 7*24*time.Hour)
	tokens.now = func() time.Time { return issued }
	raw, err := tokens.Issue(models.User{ID: primitive.NewObjectID()})
	require.NoError(t, err)

	tokens.now = func() time.Time { return issued.Add(8 * 24 * time.Hour) }
	_, err = tokens.Verify(raw)
	assert.Error(t, err)

	other := NewTokens("other", time.Hour)
	other.now = func() time.Time { return issued }
	_, err = other.Verify(raw)
	assert.Error(t, err)
}

func TestRegisterLoginAndMe(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	session, err := svc.Register(ctx, RegisterInput{Name: "Lan", Email: " Lan@Shop.Local ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "lan@shop.local", session.User.Email)
	assert.Equal(t, models.RoleCustomer, session.User.Role)

	_, err = svc.Register(ctx, RegisterInput{Name: "Lan", Email: "LAN@shop.local", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Login(ctx, "lan@shop.local", "wrong-pass")
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	again, err := svc.Login(ctx, "LAN@shop.local", "secret1")
	require.NoError(t, err)

	me, err := svc.Me(ctx, again.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lan", me.Name)

	_, err = svc.Me(ctx, primitive.NewObjectID())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRegisterValidation(t *testing.T) {
	_, err := newTestService().Register(context.Background(), RegisterInput{Email: "nope", Password: "123"})
	require.Error(t, err)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Details, 3)
}

func TestRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	_, err := newTestService().Register(context.Background(), RegisterInput{
		Name:     "Lan",
		Email:    "lan@shop.local",
		Password: strings.Repeat("x", 80),
	})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Equal(t, []string{"password must be at most 72 bytes"}, appErr.Details)
}

func TestEnsureAdminRejectsUnhashablePassword(t *testing.T) {
	created, err := newTestService().EnsureAdmin(context.Background(), "admin@pk36.local", strings.Repeat("x", 73), "Administrator")

	assert.False(t, created)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	created, err := svc.EnsureAdmin(ctx, "admin@pk36.local", "admin123", "Administrator")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin@pk36.local", "admin123", "Administrator")
	require.NoError(t, err)
	assert.False(t, created)

	session, err := svc.Login(ctx, "admin@pk36.local", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
}
