package guard

import (
	"testing"

	"github.com/roadguard/roadguard-go/internal/models"
)

func TestCheck(t *testing.T) {
	citizen := models.User{ID: "c1", Role: models.RoleCitizen}
	official := models.User{ID: "o1", Role: models.RoleOfficial}

	tests := []struct {
		name          string
		user          models.User
		authenticated bool
		required      models.Role
		wantAllowed   bool
		wantRedirect  string
	}{
		{"anonymous to citizen area", models.User{}, false, models.RoleCitizen, false, LoginPath},
		{"anonymous to official area", models.User{}, false, models.RoleOfficial, false, LoginPath},
		{"citizen to citizen area", citizen, true, models.RoleCitizen, true, ""},
		{"official to official area", official, true, models.RoleOfficial, true, ""},
		{"citizen to official area", citizen, true, models.RoleOfficial, false, "/citizen/dashboard"},
		{"official to citizen area", official, true, models.RoleCitizen, false, "/official/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Check(tt.user, tt.authenticated, tt.required)
			if d.Allowed != tt.wantAllowed || d.RedirectTo != tt.wantRedirect {
				t.Fatalf("Check() = %+v, want allowed=%v redirect=%q", d, tt.wantAllowed, tt.wantRedirect)
			}
		})
	}
}
