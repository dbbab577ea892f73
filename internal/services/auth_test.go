package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roadguard/roadguard-go/internal/gateway"
	"github.com/roadguard/roadguard-go/internal/models"
	"github.com/roadguard/roadguard-go/internal/token"
	"go.uber.org/zap"
)

// unreachableGateway returns a gateway whose target has already gone away,
// so every call fails at the transport level.
func unreachableGateway(t *testing.T) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return gateway.NewClient(url, token.NewStore(), 2*time.Second, zap.NewNop().Sugar())
}

func serverGateway(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.NewClient(srv.URL, token.NewStore(), 5*time.Second, zap.NewNop().Sugar())
}

func TestDemoLoginDirectory(t *testing.T) {
	svc := NewAuthService(unreachableGateway(t), zap.NewNop().Sugar())

	tests := []struct {
		name     string
		email    string
		password string
		wantRole models.Role
		wantErr  bool
	}{
		{"citizen ok", "prasanna@test.com", "Test@123", models.RoleCitizen, false},
		{"official ok", "ravi@telangana.gov.in", "Official@123", models.RoleOfficial, false},
		{"email normalized", "  PRASANNA@test.com ", "Test@123", models.RoleCitizen, false},
		{"wrong password", "prasanna@test.com", "wrong", "", true},
		{"password case sensitive", "prasanna@test.com", "test@123", "", true},
		{"unknown email", "nobody@test.com", "Test@123", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Fatalf("expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if res.Role != tt.wantRole {
				t.Fatalf("expected role %q, got %q", tt.wantRole, res.Role)
			}
			if !res.UsedFallback {
				t.Fatal("offline login must report fallback use")
			}
			if res.AccessToken == "" || res.RefreshToken == "" {
				t.Fatal("demo login must issue a token pair")
			}
		})
	}
}

func TestLoginServerFaultFallsBack(t *testing.T) {
	api := serverGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"upstream down"}`, http.StatusBadGateway)
	})
	svc := NewAuthService(api, zap.NewNop().Sugar())

	res, err := svc.Login(context.Background(), "prasanna@test.com", "Test@123")
	if err != nil {
		t.Fatal(err)
	}
	if !res.UsedFallback || res.Role != models.RoleCitizen {
		t.Fatalf("expected demo citizen fallback, got %+v", res)
	}
}

func TestLoginClientFaultPropagates(t *testing.T) {
	api := serverGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid credentials"}`, http.StatusBadRequest)
	})
	svc := NewAuthService(api, zap.NewNop().Sugar())

	_, err := svc.Login(context.Background(), "prasanna@test.com", "Test@123")
	if err == nil {
		t.Fatal("4xx must propagate, not fall back")
	}
	var se *gateway.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadRequest {
		t.Fatalf("expected StatusError 400, got %v", err)
	}
}

func TestLoginLiveResultVerbatim(t *testing.T) {
	api := serverGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"live-a","refresh_token":"live-r","role":"official","name":"Officer Ravi Kumar","user_id":"u1","region":"Kukatpally"}`))
	})
	svc := NewAuthService(api, zap.NewNop().Sugar())

	res, err := svc.Login(context.Background(), "ravi@telangana.gov.in", "Official@123")
	if err != nil {
		t.Fatal(err)
	}
	if res.UsedFallback {
		t.Fatal("live login must not report fallback")
	}
	if res.AccessToken != "live-a" || res.Region != "Kukatpally" {
		t.Fatalf("live result must pass through verbatim: %+v", res)
	}
}

func TestRegisterOfflineSimulatesCitizen(t *testing.T) {
	svc := NewAuthService(unreachableGateway(t), zap.NewNop().Sugar())

	res, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "New Citizen",
		Email:    "new@test.com",
		Password: "Secret@1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Role != models.RoleCitizen {
		t.Fatalf("demo registration role must be citizen, got %q", res.Role)
	}
	if !res.UsedFallback || res.UserID == "" || res.Name != "New Citizen" {
		t.Fatalf("unexpected demo registration result: %+v", res)
	}
}
