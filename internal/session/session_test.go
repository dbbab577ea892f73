package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/services"
	"github.com/roadguard/roadguard-go/internal/token"
	"go.uber.org/zap"
)

func newSession(t *testing.T, handler http.Handler) (*Context, *gateway.Client, *token.Store) {
	t.Helper()
	var url string
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		url = srv.URL
	} else {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url = srv.URL
		srv.Close()
	}

	logger := zap.NewNop().Sugar()
	tokens := token.NewStore()
	api := gateway.NewClient(url, tokens, 2*time.Second, logger)
	auth := services.NewAuthService(api, logger)
	return New(auth, api, tokens, logger), api, tokens
}

func TestFreshSessionIsAnonymous(t *testing.T) {
	sess, _, _ := newSession(t, nil)
	if sess.IsAuthenticated() {
		t.Fatal("fresh session must not be authenticated")
	}
	if u, ok := sess.User(); ok || u.ID != "" {
		t.Fatalf("fresh session must hold no identity, got %+v", u)
	}
}

func TestOfflineLoginEstablishesSession(t *testing.T) {
	sess, _, tokens := newSession(t, nil)

	role, err := sess.Login(context.Background(), "prasanna@test.com", "Test@123")
	if err != nil {
		t.Fatal(err)
	}
	if role != models.RoleCitizen {
		t.Fatalf("expected citizen role, got %q", role)
	}
	u, ok := sess.User()
	if !ok || u.Name != "Prasanna Kumar" || u.Email != "prasanna@test.com" {
		t.Fatalf("unexpected identity: %+v", u)
	}
	if tokens.Access() == "" || tokens.Refresh() == "" {
		t.Fatal("login must persist the credential pair")
	}
}

func TestOfflineLoginBadPasswordLeavesSessionAnonymous(t *testing.T) {
	sess, _, tokens := newSession(t, nil)

	_, err := sess.Login(context.Background(), "prasanna@test.com", "wrong")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if sess.IsAuthenticated() || tokens.Access() != "" {
		t.Fatal("failed login must not establish a session")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/complaints/mine", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})
	sess, api, tokens := newSession(t, mux)

	tokens.Set("live-token", "live-refresh")
	sess.Logout()

	if sess.IsAuthenticated() || tokens.Access() != "" || tokens.Refresh() != "" {
		t.Fatal("logout must clear identity and credentials")
	}

	// A call after logout must carry no authorization data.
	if err := api.Get(context.Background(), "/api/v1/complaints/mine", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("request after logout still carried credentials: %q", gotAuth)
	}
}

func TestSessionEndedBroadcastClearsIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/complaints/mine", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid or expired token"}`, http.StatusUnauthorized)
	})
	sess, api, tokens := newSession(t, mux)

	tokens.Set("stale", "stale")
	// Simulate an established session whose token the server now rejects.
	err := api.Get(context.Background(), "/api/v1/complaints/mine", nil, nil)
	if err == nil {
		t.Fatal("expected 401 error")
	}
	if sess.IsAuthenticated() || tokens.Access() != "" {
		t.Fatal("rejected credential must end the session centrally")
	}
}

func TestRegisterRoleFixedToCitizen(t *testing.T) {
	sess, _, _ := newSession(t, nil)

	err := sess.Register(context.Background(), models.RegisterRequest{
		Name: "New Person", Email: "new@test.com", Password: "Secret@1", City: "Hyderabad",
	})
	if err != nil {
		t.Fatal(err)
	}
	u, ok := sess.User()
	if !ok || u.Role != models.RoleCitizen || u.City != "Hyderabad" {
		t.Fatalf("unexpected identity after register: %+v", u)
	}
}
