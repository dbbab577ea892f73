package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roadguard/roadguard-go/internal/demosrv/authn"
	"github.com/roadguard/roadguard-go/internal/demosrv/store"
	"github.com/roadguard/roadguard-go/internal/models"
)

// AuthHandler handles login and citizen registration.
type AuthHandler struct {
	st     store.Store
	secret string
	logger *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(st store.Store, secret string, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{st: st, secret: secret, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.st.UserByEmail(r.Context(), req.Email)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		h.logger.Errorw("Failed to issue tokens", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	h.logger.Infow("User logged in", "user_id", user.ID, "role", user.Role)
	respondJSON(w, http.StatusOK, resp)
}

// Register handles POST /api/v1/auth/register. Self-registration always
// creates a citizen account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: name, email, password")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := store.User{
		ID:           "u-" + uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Role:         models.RoleCitizen,
		City:         req.City,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := h.st.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			respondError(w, http.StatusConflict, "Email already registered")
			return
		}
		h.logger.Errorw("Failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	resp, err := h.issueTokens(user)
	if err != nil {
		h.logger.Errorw("Failed to issue tokens", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	h.logger.Infow("Citizen registered", "user_id", user.ID)
	respondJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) issueTokens(user store.User) (models.AuthResponse, error) {
	access, err := authn.Generate(h.secret, user.ID, user.Role, authn.AccessTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	refresh, err := authn.Generate(h.secret, user.ID, user.Role, authn.RefreshTTL)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         user.Role,
		Name:         user.Name,
		UserID:       user.ID,
		Region:       user.Region,
	}, nil
}
