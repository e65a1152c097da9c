// AngelaMos | 2026
// server_test.go

package demo

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demoFixture struct {
	backend *Server
	server  *httptest.Server
}

func newDemoFixture(t *testing.T) *demoFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	backend, err := NewServer(logger)
	require.NoError(t, err)

	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	return &demoFixture{backend: backend, server: server}
}

func (fx *demoFixture) login(t *testing.T, email, password string) tokenResponse {
	t.Helper()

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := http.PostForm(fx.server.URL+"/auth/login", form)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens tokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	return tokens
}

func (fx *demoFixture) request(
	t *testing.T,
	method, path, token, body string,
) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, fx.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_Health(t *testing.T) {
	fx := newDemoFixture(t)

	resp, err := http.Get(fx.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_LoginStates(t *testing.T) {
	fx := newDemoFixture(t)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
		wantDetail string
	}{
		{"valid credentials", "demo@tradesignal.io", "demo-pass-123", http.StatusOK, ""},
		{"wrong password", "demo@tradesignal.io", "wrong", http.StatusUnauthorized, "incorrect email or password"},
		{"unknown account", "ghost@tradesignal.io", "whatever1", http.StatusUnauthorized, "incorrect email or password"},
		{"suspended account", "suspended@tradesignal.io", "suspended-pass-123", http.StatusForbidden, "inactive user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("username", tt.email)
			form.Set("password", tt.password)

			resp, err := http.PostForm(fx.server.URL+"/auth/login", form)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantDetail != "" {
				body := decodeBody[map[string]string](t, resp)
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
		})
	}
}

func TestServer_MeRequiresAuth(t *testing.T) {
	fx := newDemoFixture(t)

	resp := fx.request(t, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = fx.request(t, http.MethodGet, "/auth/me", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_MeReturnsProfile(t *testing.T) {
	fx := newDemoFixture(t)
	tokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")

	resp := fx.request(t, http.MethodGet, "/auth/me", tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	user := decodeBody[userResponse](t, resp)
	assert.Equal(t, "demo@tradesignal.io", user.Email)
	assert.Equal(t, "pro", user.Tier)
	assert.True(t, user.IsVerified)
	assert.False(t, user.IsSuperuser)
}

func TestServer_ExpiredTokenRejected(t *testing.T) {
	fx := newDemoFixture(t)
	fx.backend.SetAccessTokenTTL(-time.Minute)

	tokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")

	resp := fx.request(t, http.MethodGet, "/auth/me", tokens.AccessToken, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_RefreshRotation(t *testing.T) {
	fx := newDemoFixture(t)
	tokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")

	body := `{"refresh_token":"` + tokens.RefreshToken + `"}`
	resp := fx.request(t, http.MethodPost, "/auth/refresh", "", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fresh := decodeBody[tokenResponse](t, resp)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// The old refresh token is single-use.
	resp = fx.request(t, http.MethodPost, "/auth/refresh", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_Register(t *testing.T) {
	fx := newDemoFixture(t)

	body := `{"email":"fresh@example.com","username":"fresh","password":"long-enough-1"}`
	resp := fx.request(t, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	user := decodeBody[userResponse](t, resp)
	assert.Equal(t, "fresh@example.com", user.Email)
	assert.Equal(t, "free", user.Tier)

	// Same email again is rejected.
	resp = fx.request(t, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Short password fails validation.
	bad := `{"email":"other@example.com","username":"other","password":"short"}`
	resp = fx.request(t, http.MethodPost, "/auth/register", "", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestServer_ConcurrentProfileUpdates(t *testing.T) {
	fx := newDemoFixture(t)
	tokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")

	const writers = 8
	statuses := make(chan int, writers*2)

	var wg sync.WaitGroup
	hit := func(method string, body io.Reader) {
		defer wg.Done()
		req, err := http.NewRequest(method, fx.server.URL+"/auth/me", body)
		if err != nil {
			statuses <- -1
			return
		}
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			statuses <- -1
			return
		}
		resp.Body.Close()
		statuses <- resp.StatusCode
	}

	// Overlapping PATCHes and reads of the same record all succeed.
	for i := range writers {
		wg.Add(2)
		go hit(http.MethodPatch,
			strings.NewReader(fmt.Sprintf(`{"full_name":"Writer %d"}`, i)))
		go hit(http.MethodGet, nil)
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}

	resp := fx.request(t, http.MethodGet, "/auth/me", tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decodeBody[userResponse](t, resp)
	assert.Contains(t, user.FullName, "Writer ")
}

func TestServer_CheckoutChangesTier(t *testing.T) {
	fx := newDemoFixture(t)
	tokens := fx.login(t, "starter@tradesignal.io", "starter-pass-123")

	resp := fx.request(t, http.MethodPost, "/billing/checkout",
		tokens.AccessToken, `{"tier":"plus"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = fx.request(t, http.MethodGet, "/auth/me", tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decodeBody[userResponse](t, resp)
	assert.Equal(t, "plus", user.Tier)

	// Unknown tier names are rejected.
	resp = fx.request(t, http.MethodPost, "/billing/checkout",
		tokens.AccessToken, `{"tier":"platinum"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Quotes(t *testing.T) {
	fx := newDemoFixture(t)
	tokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")

	resp := fx.request(t, http.MethodGet,
		"/market/quotes?symbols=AAPL,MSFT", tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	quotes := decodeBody[[]map[string]any](t, resp)
	require.Len(t, quotes, 2)
	assert.Equal(t, "AAPL", quotes[0]["symbol"])
}

func TestServer_TicketLifecycle(t *testing.T) {
	fx := newDemoFixture(t)
	tokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")

	create := `{"subject":"Cannot export data","body":"The bulk export button does nothing on my account."}`
	resp := fx.request(t, http.MethodPost, "/tickets", tokens.AccessToken, create)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ticket := decodeBody[map[string]any](t, resp)
	ticketID, _ := ticket["id"].(string)
	require.NotEmpty(t, ticketID)

	resp = fx.request(t, http.MethodGet, "/tickets", tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]map[string]any](t, resp)
	assert.Len(t, list, 1)

	comment := `{"body":"Any update on this?"}`
	resp = fx.request(t, http.MethodPost,
		"/tickets/"+ticketID+"/comments", tokens.AccessToken, comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = fx.request(t, http.MethodGet,
		"/tickets/"+ticketID+"/comments", tokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	comments := decodeBody[[]map[string]any](t, resp)
	assert.NotEmpty(t, comments)
}

func TestServer_AdminRequiresElevatedRole(t *testing.T) {
	fx := newDemoFixture(t)

	userTokens := fx.login(t, "demo@tradesignal.io", "demo-pass-123")
	resp := fx.request(t, http.MethodGet, "/admin/users",
		userTokens.AccessToken, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminTokens := fx.login(t, "admin@tradesignal.io", "admin-pass-123")
	resp = fx.request(t, http.MethodGet, "/admin/users",
		adminTokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[map[string]any](t, resp)
	users, _ := list["users"].([]any)
	assert.NotEmpty(t, users)
}

func TestServer_AdminChangesRoleAndTier(t *testing.T) {
	fx := newDemoFixture(t)
	adminTokens := fx.login(t, "admin@tradesignal.io", "admin-pass-123")

	// Find the starter user's ID through the listing.
	resp := fx.request(t, http.MethodGet,
		"/admin/users?search=starter", adminTokens.AccessToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decodeBody[struct {
		Users []userResponse `json:"users"`
	}](t, resp)
	require.Len(t, list.Users, 1)
	starterID := list.Users[0].ID

	resp = fx.request(t, http.MethodPatch,
		"/admin/users/"+starterID+"/tier", adminTokens.AccessToken,
		`{"tier":"basic"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody[userResponse](t, resp)
	assert.Equal(t, "basic", updated.Tier)

	resp = fx.request(t, http.MethodPatch,
		"/admin/users/"+starterID+"/role", adminTokens.AccessToken,
		`{"role":"support"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated = decodeBody[userResponse](t, resp)
	assert.Equal(t, "support", updated.Role)
}

func TestHashPassword(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, verifyPassword("correct horse battery staple", hash))
	assert.False(t, verifyPassword("wrong", hash))
	assert.False(t, verifyPassword("correct horse battery staple", "not-a-hash"))
}
