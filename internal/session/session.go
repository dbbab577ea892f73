// Package session owns the authenticated identity for the running client.
// Login and register are the only mutators that establish identity; logout
// and the gateway's session-ended broadcast are the only ways to drop it.
package session

import (
	"context"
	"sync"

	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"github.com/roadguard/roadguard-go/internal/token"
	"go.uber.org/zap"
)

// Context is the single source of truth for who is using the client and
// with what role.
type Context struct {
	auth   *services.AuthService
	tokens *token.Store
	logger *zap.SugaredLogger

	mu            sync.RWMutex
	user          models.User
	authenticated bool
}

// New creates a session context and subscribes it to the gateway's
// session-ended signal, so a rejected credential anywhere drops the
// identity centrally.
func New(auth *services.AuthService, api *gateway.Client, tokens *token.Store, logger *zap.SugaredLogger) *Context {
	c := &Context{auth: auth, tokens: tokens, logger: logger}
	api.OnSessionEnded(c.expire)
	return c
}

// Login authenticates and, on success, stores the credential pair and sets
// the identity atomically. Returns the authenticated role for routing.
func (c *Context) Login(ctx context.Context, email, password string) (models.Role, error) {
	res, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	c.tokens.Set(res.AccessToken, res.RefreshToken)
	c.mu.Lock()
	c.user = models.User{
		ID:     res.UserID,
		Name:   res.Name,
		Email:  email,
		Role:   res.Role,
		Region: res.Region,
	}
	c.authenticated = true
	c.mu.Unlock()

	c.logger.Infow("logged in", "user_id", res.UserID, "role", res.Role, "demo_mode", res.UsedFallback)
	return res.Role, nil
}

// Register creates a citizen account and establishes the session.
func (c *Context) Register(ctx context.Context, req models.RegisterRequest) error {
	res, err := c.auth.Register(ctx, req)
	if err != nil {
		return err
	}

	c.tokens.Set(res.AccessToken, res.RefreshToken)
	c.mu.Lock()
	c.user = models.User{
		ID:    res.UserID,
		Name:  res.Name,
		Email: req.Email,
		Role:  models.RoleCitizen,
		City:  req.City,
	}
	c.authenticated = true
	c.mu.Unlock()

	c.logger.Infow("registered", "user_id", res.UserID, "demo_mode", res.UsedFallback)
	return nil
}

// Logout clears the credential pair and then the identity. It is
// synchronous and cannot fail; tokens are cleared first so no subsequent
// call can read stale credentials.
func (c *Context) Logout() {
	c.tokens.Clear()
	c.mu.Lock()
	c.user = models.User{}
	c.authenticated = false
	c.mu.Unlock()
	c.logger.Infow("logged out")
}

// expire reacts to the gateway's session-ended broadcast.
func (c *Context) expire() {
	c.logger.Warnw("session ended by server, clearing identity")
	c.Logout()
}

// User returns the current identity and whether one is established.
func (c *Context) User() (models.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user, c.authenticated
}

// IsAuthenticated reports whether a login or registration has succeeded.
func (c *Context) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}
