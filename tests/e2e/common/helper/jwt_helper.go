//go:build e2e

package helper

import (
	"testing"
	"time"

	"digistore/internal/domain/actor"
	"digistore/internal/pkg/config"
	"digistore/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTTestHelper mints bearer tokens directly: the service trusts any token
// signed with its secret, so tests do not need a login endpoint.
type JWTTestHelper struct {
	cfg config.JWTConfig
}

func NewJWTTestHelper(cfg config.JWTConfig) *JWTTestHelper {
	return &JWTTestHelper{cfg: cfg}
}

func (h *JWTTestHelper) GenerateToken(t *testing.T, actorID uuid.UUID, role actor.Role) string {
	t.Helper()
	duration, _ := time.ParseDuration(h.cfg.Duration)
	service := jwt.NewService(h.cfg.Secret, duration)
	token, err := service.GenerateToken(actorID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTTestHelper) CreateExpiredToken(t *testing.T, actorID uuid.UUID, role actor.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond)
	token, err := service.GenerateToken(actorID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
