// AngelaMos | 2026
// auth.go

package demo

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	IsVerified  bool      `json:"is_verified"`
	IsSuperuser bool      `json:"is_superuser"`
	Role        string    `json:"role"`
	Tier        string    `json:"stripe_subscription_tier"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *userRecord) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
		Role:        u.Role,
		Tier:        u.Tier,
		CreatedAt:   u.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// handleLogin mirrors the production collaborator: a form post with
// the email in the username field.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("username")))
	password := r.PostFormValue("password")

	s.mu.Lock()
	user, ok := s.byEmail[email]
	s.mu.Unlock()

	if !ok || !verifyPassword(password, user.PasswordHash) {
		writeDetail(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	if !user.IsActive {
		writeDetail(w, http.StatusForbidden, "inactive user")
		return
	}

	s.issueTokens(w, user)
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "validation failed: check email, username and password length")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		writeDetail(w, http.StatusBadRequest, "a user with this email already exists")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	record := &userRecord{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     req.Username,
		PasswordHash: hash,
		IsActive:     true,
		Role:         "user",
		Tier:         "free",
		CreatedAt:    time.Now(),
	}

	s.byEmail[email] = record
	s.byID[record.ID] = record

	writeJSON(w, http.StatusCreated, toUserResponse(record))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	userID, ok := s.refresh[req.RefreshToken]
	if ok {
		// Single use: a rotated token can never be replayed.
		delete(s.refresh, req.RefreshToken)
	}
	user := s.byID[userID]
	s.mu.Unlock()

	if !ok || user == nil {
		writeDetail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	s.issueTokens(w, user)
}

func (s *Server) issueTokens(w http.ResponseWriter, user *userRecord) {
	accessToken, err := s.issuer.createAccessToken(user)
	if err != nil {
		s.logger.Error("failed to sign access token", "error", err)
		writeDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	refreshToken := newRefreshToken()

	s.mu.Lock()
	s.refresh[refreshToken] = user.ID
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponse(currentUser(r)))
}

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Username *string `json:"username"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := currentUser(r)

	s.mu.Lock()
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Username != nil {
		if len(*req.Username) < 3 {
			s.mu.Unlock()
			writeDetail(w, http.StatusUnprocessableEntity, "username must be at least 3 characters")
			return
		}
		user.Username = *req.Username
	}
	resp := toUserResponse(user)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}
