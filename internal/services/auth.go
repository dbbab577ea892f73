// Package services contains the fallback-aware façades over the remote
// gateway. Each operation attempts the live call first; on a connectivity
// failure it substitutes demonstration data so the client stays usable
// offline. Client-fault responses (4xx) are never masked.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roadguard/roadguard-go/internal/demo"
	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned when a demo-mode login does not match
// the demo directory. It is a client fault and is never masked.
var ErrInvalidCredentials = errors.New("invalid credentials: check email/password and try again")

// AuthService handles login and registration with demo fallback.
type AuthService struct {
	api    *gateway.Client
	logger *zap.SugaredLogger
}

// NewAuthService creates a new authentication façade.
func NewAuthService(api *gateway.Client, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{api: api, logger: logger}
}

// LoginResult is a successful login, live or demo.
type LoginResult struct {
	models.AuthResponse
	UsedFallback bool
}

// Login authenticates against the backend. When the backend is unreachable
// it checks the demo directory instead: the normalized email must exist and
// the password must match exactly, otherwise ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp models.AuthResponse
	err := s.api.Post(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err == nil {
		return &LoginResult{AuthResponse: resp}, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, err
	}

	s.logger.Warnw("backend unreachable, using demo login directory", "error", err)
	entry, ok := demo.Users()[normalizeEmail(email)]
	if !ok || entry.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &LoginResult{
		AuthResponse: models.AuthResponse{
			AccessToken:  demo.AccessToken,
			RefreshToken: demo.RefreshToken,
			Role:         entry.Role,
			Name:         entry.Name,
			UserID:       entry.UserID,
			Region:       entry.Region,
		},
		UsedFallback: true,
	}, nil
}

// Register creates a citizen account. When the backend is unreachable the
// registration is simulated: the caller receives demo tokens and a fresh
// citizen identity.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*LoginResult, error) {
	var resp models.AuthResponse
	err := s.api.Post(ctx, "/api/v1/auth/register", req, &resp)
	if err == nil {
		return &LoginResult{AuthResponse: resp}, nil
	}
	if !gateway.IsConnectivity(err) {
		return nil, err
	}

	s.logger.Warnw("backend unreachable, simulating registration", "error", err)
	return &LoginResult{
		AuthResponse: models.AuthResponse{
			AccessToken:  demo.AccessToken,
			RefreshToken: demo.RefreshToken,
			Role:         models.RoleCitizen,
			Name:         req.Name,
			UserID:       fmt.Sprintf("demo-new-%d", time.Now().UnixMilli()),
		},
		UsedFallback: true,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
