// Package guard gates navigation to role-specific destinations. It is a
// pure predicate over the session state: no side effects beyond telling the
// caller where to go.
package guard

import "github.com/roadguard/roadguard-go/internal/models"

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// Decision says whether the guarded content may render, and where to
// redirect otherwise.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

// DashboardPath returns a role's own dashboard route.
func DashboardPath(role models.Role) string {
	if role == models.RoleOfficial {
		return "/official/dashboard"
	}
	return "/citizen/dashboard"
}

// Check evaluates access to a destination requiring the given role.
// Unauthenticated users go to login; authenticated users of the wrong role
// go to their own dashboard.
func Check(user models.User, authenticated bool, required models.Role) Decision {
	if !authenticated {
		return Decision{RedirectTo: LoginPath}
	}
	if user.Role != required {
		return Decision{RedirectTo: DashboardPath(user.Role)}
	}
	return Decision{Allowed: true}
}
