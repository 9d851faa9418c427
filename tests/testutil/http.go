package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stefanr/teamup-api/internal/services"
)

const testJWTSecret = "teamup-test-secret"

// TestJWTService returns the JWT service every HTTP-level test signs and
// verifies with, so tokens from GenerateTestToken validate against it.
func TestJWTService() *services.JWTService {
	return services.NewJWTService(testJWTSecret, 15*time.Minute)
}

// GenerateTestToken mints a valid access token for the given identity.
func GenerateTestToken(t *testing.T, userID uuid.UUID, email string) string {
	t.Helper()
	token, err := TestJWTService().GenerateAccessToken(userID, email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}
	return token
}

// AuthHeader formats a bearer Authorization header value.
func AuthHeader(token string) string {
	return "Bearer " + token
}
