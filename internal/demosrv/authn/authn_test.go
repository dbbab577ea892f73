package authn

import (
	"testing"
	"time"

	"github.com/roadguard/roadguard-go/internal/models"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	token, err := Generate("secret", "u-123", models.RoleOfficial, time.Minute)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := Parse("secret", token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "u-123" {
		t.Fatalf("subject = %q, want u-123", claims.Subject)
	}
	if claims.Role != models.RoleOfficial {
		t.Fatalf("role = %q, want official", claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := Generate("secret", "u-123", models.RoleCitizen, time.Minute)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := Parse("other-secret", token); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Generate("secret", "u-123", models.RoleCitizen, -time.Minute)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := Parse("secret", token); err != ErrInvalidToken {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, tok := range []string{"", "   ", "not.a.jwt"} {
		if _, err := Parse("secret", tok); err != ErrInvalidToken {
			t.Fatalf("Parse(%q) err = %v, want ErrInvalidToken", tok, err)
		}
	}
}
