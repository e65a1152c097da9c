// AngelaMos | 2026
// server.go

package demo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Server is the in-memory stand-in for the TradeSignal backend, used
// for showcase deployments and as the fixture in client tests. State
// lives for the process lifetime only.
type Server struct {
	router    chi.Router
	issuer    *tokenIssuer
	validator *validator.Validate
	logger    *slog.Logger

	mu       sync.Mutex
	byEmail  map[string]*userRecord
	byID     map[string]*userRecord
	refresh  map[string]string // refresh token -> user ID
	tickets  map[string][]ticketRecord
	comments map[string][]commentRecord
}

type userRecord struct {
	ID           string
	Email        string
	Username     string
	FullName     string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	IsSuperuser  bool
	Role         string
	Tier         string
	CreatedAt    time.Time
}

func NewServer(logger *slog.Logger) (*Server, error) {
	issuer, err := newTokenIssuer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    chi.NewRouter(),
		issuer:    issuer,
		validator: validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger,
		byEmail:   make(map[string]*userRecord),
		byID:      make(map[string]*userRecord),
		refresh:   make(map[string]string),
		tickets:   make(map[string][]ticketRecord),
		comments:  make(map[string][]commentRecord),
	}

	s.seedUsers()
	s.routes()

	return s, nil
}

func (s *Server) Router() http.Handler {
	return s.router
}

// SetAccessTokenTTL shortens token life; test hook for expiry paths.
func (s *Server) SetAccessTokenTTL(ttl time.Duration) {
	s.issuer.ttl = ttl
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.handleMe)
			r.Patch("/me", s.handleUpdateMe)
		})
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/billing/subscription", s.handleSubscription)
		r.Post("/billing/checkout", s.handleCheckout)
		r.Get("/billing/usage", s.handleUsage)

		r.Get("/market/quotes", s.handleQuotes)
		r.Get("/market/status", s.handleMarketStatus)
		r.Get("/market/news", s.handleNews)

		r.Get("/tickets", s.handleListTickets)
		r.Post("/tickets", s.handleCreateTicket)
		r.Get("/tickets/{ticketID}/comments", s.handleListComments)
		r.Post("/tickets/{ticketID}/comments", s.handleAddComment)

		r.Group(func(r chi.Router) {
			r.Use(s.requireElevated)
			r.Get("/admin/users", s.handleListUsers)
			r.Patch("/admin/users/{userID}/role", s.handleUpdateRole)
			r.Patch("/admin/users/{userID}/tier", s.handleUpdateTier)
		})
	})
}

func (s *Server) seedUsers() {
	seeds := []struct {
		email, username, fullName, password, role, tier string
		active, verified, superuser                     bool
	}{
		{"demo@tradesignal.io", "demo", "Demo Trader", "demo-pass-123", "user", "pro", true, true, false},
		{"starter@tradesignal.io", "starter", "Starter Account", "starter-pass-123", "user", "free", true, false, false},
		{"suspended@tradesignal.io", "suspended", "Suspended Account", "suspended-pass-123", "user", "basic", false, true, false},
		{"admin@tradesignal.io", "admin", "Site Admin", "admin-pass-123", "admin", "enterprise", true, true, true},
	}

	for _, seed := range seeds {
		hash, err := hashPassword(seed.password)
		if err != nil {
			continue
		}

		record := &userRecord{
			ID:           uuid.New().String(),
			Email:        seed.email,
			Username:     seed.username,
			FullName:     seed.fullName,
			PasswordHash: hash,
			IsActive:     seed.active,
			IsVerified:   seed.verified,
			IsSuperuser:  seed.superuser,
			Role:         seed.role,
			Tier:         seed.tier,
			CreatedAt:    time.Now(),
		}

		s.byEmail[record.Email] = record
		s.byID[record.ID] = record
	}
}

type contextKey string

const userKey contextKey = "demo_user"

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeDetail(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		userID, err := s.issuer.verifyAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		s.mu.Lock()
		user, ok := s.byID[userID]
		s.mu.Unlock()
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireElevated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil || !(user.IsSuperuser || user.Role == "admin" || user.Role == "support") {
			writeDetail(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *userRecord {
	if user, ok := r.Context().Value(userKey).(*userRecord); ok {
		return user
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // response already committed
	_ = json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
