// AngelaMos | 2026
// features.go

package demo

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var tierLimits = map[string]int{
	"free":       100,
	"basic":      1_000,
	"plus":       5_000,
	"pro":        50_000,
	"enterprise": 1_000_000,
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	periodEnd := time.Now().AddDate(0, 1, 0)

	writeJSON(w, http.StatusOK, map[string]any{
		"tier":                 user.Tier,
		"status":               "active",
		"current_period_end":   periodEnd,
		"cancel_at_period_end": false,
	})
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, ok := tierLimits[req.Tier]; !ok {
		writeDetail(w, http.StatusBadRequest, "unknown tier: "+req.Tier)
		return
	}

	// Demo mode has no payment processor; the tier change is applied
	// immediately and the returned URL is a placeholder.
	user := currentUser(r)
	s.mu.Lock()
	user.Tier = req.Tier
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"url": "https://demo.tradesignal.io/checkout/" + uuid.New().String(),
	})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	limit := tierLimits[user.Tier]
	if limit == 0 {
		limit = tierLimits["free"]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"api_calls_used":  limit / 3,
		"api_calls_limit": limit,
		"period_ends_at":  time.Now().AddDate(0, 1, 0),
	})
}

var basePrices = map[string]float64{
	"AAPL": 228.40,
	"MSFT": 512.10,
	"NVDA": 176.55,
	"SPY":  645.30,
	"TSLA": 332.90,
}

// handleQuotes returns deterministic pseudo-live prices: a sine walk
// seeded by the clock so repeated polls visibly move.
func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	symbols := strings.Split(r.URL.Query().Get("symbols"), ",")
	now := time.Now()
	drift := math.Sin(float64(now.Unix()%300) / 300 * 2 * math.Pi)

	quotes := make([]map[string]any, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		base, ok := basePrices[symbol]
		if !ok {
			continue
		}

		change := base * drift * 0.012
		quotes = append(quotes, map[string]any{
			"symbol":         symbol,
			"price":          math.Round((base+change)*100) / 100,
			"change":         math.Round(change*100) / 100,
			"change_percent": math.Round(drift*1.2*100) / 100,
			"as_of":          now,
		})
	}

	writeJSON(w, http.StatusOK, quotes)
}

func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	hour := now.Hour()
	isOpen := now.Weekday() != time.Saturday &&
		now.Weekday() != time.Sunday &&
		hour >= 14 && hour < 21 // 9:30-16:00 ET, roughly

	session := "closed"
	if isOpen {
		session = "regular"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"is_open": isOpen,
		"session": session,
	})
}

var newsHeadlines = []map[string]any{
	{"title": "Fed holds rates steady, signals patience on cuts", "source": "Reuters"},
	{"title": "Chipmakers rally on data center demand forecasts", "source": "Bloomberg"},
	{"title": "Retail earnings season opens with mixed guidance", "source": "WSJ"},
	{"title": "Oil slips as inventories build for third week", "source": "Reuters"},
	{"title": "Treasury yields ease ahead of auction calendar", "source": "FT"},
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := len(newsHeadlines)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed < limit {
			limit = parsed
		}
	}

	now := time.Now()
	headlines := make([]map[string]any, 0, limit)
	for i, headline := range newsHeadlines[:limit] {
		entry := map[string]any{
			"id":           strconv.Itoa(i + 1),
			"title":        headline["title"],
			"source":       headline["source"],
			"url":          "https://news.tradesignal.io/" + strconv.Itoa(i+1),
			"published_at": now.Add(-time.Duration(i+1) * time.Hour),
		}
		headlines = append(headlines, entry)
	}

	writeJSON(w, http.StatusOK, headlines)
}

type ticketRecord struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type commentRecord struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	s.mu.Lock()
	tickets := append([]ticketRecord(nil), s.tickets[user.ID]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, tickets)
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject" validate:"required,min=3,max=200"`
		Body    string `json:"body"    validate:"required,min=10,max=5000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "subject must be 3-200 characters and body at least 10")
		return
	}

	user := currentUser(r)
	now := time.Now()
	ticket := ticketRecord{
		ID:        uuid.New().String(),
		Subject:   req.Subject,
		Status:    "open",
		Priority:  "normal",
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.tickets[user.ID] = append(s.tickets[user.ID], ticket)
	s.comments[ticket.ID] = []commentRecord{{
		ID:        uuid.New().String(),
		TicketID:  ticket.ID,
		Author:    user.Username,
		Body:      req.Body,
		CreatedAt: now,
	}}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, ticket)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	s.mu.Lock()
	comments := append([]commentRecord(nil), s.comments[ticketID]...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Body == "" {
		writeDetail(w, http.StatusBadRequest, "comment body required")
		return
	}

	ticketID := chi.URLParam(r, "ticketID")
	user := currentUser(r)

	s.mu.Lock()
	if _, ok := s.comments[ticketID]; !ok {
		s.mu.Unlock()
		writeDetail(w, http.StatusNotFound, "ticket not found")
		return
	}

	comment := commentRecord{
		ID:        uuid.New().String(),
		TicketID:  ticketID,
		Author:    user.Username,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}
	s.comments[ticketID] = append(s.comments[ticketID], comment)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(r.URL.Query().Get("search"))

	s.mu.Lock()
	users := make([]userResponse, 0, len(s.byID))
	for _, user := range s.byID {
		if search != "" && !strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}
		users = append(users, toUserResponse(user))
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool {
		return users[i].Email < users[j].Email
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"total": len(users),
	})
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	s.patchUser(w, r, func(user *userRecord, value string) bool {
		if value != "user" && value != "support" && value != "admin" {
			return false
		}
		user.Role = value
		return true
	}, "role")
}

func (s *Server) handleUpdateTier(w http.ResponseWriter, r *http.Request) {
	s.patchUser(w, r, func(user *userRecord, value string) bool {
		if _, ok := tierLimits[value]; !ok {
			return false
		}
		user.Tier = value
		return true
	}, "tier")
}

func (s *Server) patchUser(
	w http.ResponseWriter,
	r *http.Request,
	apply func(*userRecord, string) bool,
	field string,
) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := chi.URLParam(r, "userID")

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "user not found")
		return
	}

	if !apply(user, req[field]) {
		writeDetail(w, http.StatusBadRequest, "invalid "+field+": "+req[field])
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}
