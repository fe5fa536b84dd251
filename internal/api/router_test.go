package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
	"github.com/ringside/blackjack-api/internal/core/service"
)

// --- in-memory stores ---

type memUsers struct {
	mu    sync.Mutex
	users []*domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	u.ID = int64(len(m.users) + 1)
	u.CreatedAt = time.Now().UTC()
	clone := *u
	m.users = append(m.users, &clone)
	return nil
}

func (m *memUsers) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

type memGames struct {
	mu      sync.Mutex
	records []*domain.GameRecord
}

func (m *memGames) Create(_ context.Context, r *domain.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.records) + 1)
	r.PlayedAt = time.Now().UTC()
	m.records = append(m.records, r)
	return nil
}

func (m *memGames) ListRecent(_ context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.GameRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].UserID == userID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *memGames) Totals(_ context.Context, userID int64) (*domain.GameTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &domain.GameTotals{}
	for _, r := range m.records {
		if r.UserID != userID {
			continue
		}
		t.TotalGames++
		switch r.Result {
		case domain.ResultWin:
			t.Wins++
		case domain.ResultLose:
			t.Losses++
		case domain.ResultPush:
			t.Pushes++
		}
		t.SumPlayerScore += int64(r.PlayerScore)
		t.SumDealerScore += int64(r.DealerScore)
		if r.PlayerScore > t.HighestScore {
			t.HighestScore = r.PlayerScore
		}
		at := r.PlayedAt
		if t.FirstGame == nil {
			t.FirstGame = &at
		}
		t.LastGame = &at
	}
	return t, nil
}

// inFlightKeys reports every idempotency key as claimed by a save still running.
type inFlightKeys struct{}

func (inFlightKeys) Reserve(context.Context, int64, string) (int64, bool, error) {
	return 0, false, domain.ErrSaveInProgress
}

func (inFlightKeys) Complete(context.Context, int64, string, int64) error { return nil }

func (inFlightKeys) Release(context.Context, int64, string) error { return nil }

// noSwap leaves the deck in construction order, so the deal is
// player K♣ Q♣, dealer J♣ 10♣.
type noSwap struct{}

func (noSwap) Intn(n int) int { return n - 1 }

// --- harness ---

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith wires idem into the history service; nil disables keys.
func newTestServerWith(t *testing.T, idem ports.IdempotencyStore) *testServer {
	t.Helper()
	log := zerolog.Nop()
	reg := prometheus.NewRegistry()
	e := NewRouter(RouterConfig{
		Log:            log,
		JWTSecret:      "test-secret",
		CORSOrigins:    []string{"*"},
		AuthService:    service.NewAuthService(&memUsers{}, "test-secret", time.Hour, log),
		RoundService:   service.NewRoundService(noSwap{}, nil, log),
		HistoryService: service.NewHistoryService(&memGames{}, idem, log),
		Registerer:     reg,
		Gatherer:       reg,
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func (s *testServer) register(email string) string {
	s.t.Helper()
	rec, resp := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"firstName": "Test", "lastName": "Player", "email": email, "password": "hunter2",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp["token"].(string)
}

// --- tests ---

func TestRouter_AuthFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("player@example.com")

	rec, _ := s.do(http.MethodPost, "/api/register", "", map[string]string{
		"firstName": "Dup", "lastName": "Player", "email": "PLAYER@example.com", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp := s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "player@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp["token"])

	rec, resp = s.do(http.MethodPost, "/api/login", "", map[string]string{"email": "player@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", resp["error"])

	rec, resp = s.do(http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "player@example.com", resp["email"])

	rec, _ = s.do(http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GameRequiresToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/game/start", "/api/game/hit", "/api/game/stand", "/api/game/save"} {
		rec, _ := s.do(http.MethodPost, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec, _ := s.do(http.MethodGet, "/api/game/stats", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_PlayAndRecord(t *testing.T) {
	s := newTestServer(t)
	token := s.register("dealer@example.com")

	rec, round := s.do(http.MethodPost, "/api/game/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, round["deck"], 48)
	assert.Nil(t, round["dealerScore"])
	assert.Equal(t, float64(20), round["playerScore"])

	state := map[string]any{
		"deck":       round["deck"],
		"playerHand": round["playerHand"],
		"dealerHand": round["fullDealerHand"],
	}

	// submitting the concealed hand is rejected
	rec, resp := s.do(http.MethodPost, "/api/game/stand", token, map[string]any{
		"deck": round["deck"], "playerHand": round["playerHand"], "dealerHand": round["dealerHand"],
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, resp["error"])

	rec, final := s.do(http.MethodPost, "/api/game/stand", token, state)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, final["gameOver"])
	assert.Equal(t, "push", final["result"])
	assert.Equal(t, float64(20), final["dealerScore"])

	save := map[string]any{
		"playerHand":  final["playerHand"],
		"dealerHand":  final["dealerHand"],
		"result":      final["result"],
		"playerScore": final["playerScore"],
		"dealerScore": final["dealerScore"],
	}
	rec, saved := s.do(http.MethodPost, "/api/game/save", token, save)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, saved["success"])
	assert.Equal(t, float64(1), saved["recordId"])

	save["playerScore"] = 21
	rec, _ = s.do(http.MethodPost, "/api/game/save", token, save)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/game/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "push", history[0]["result"])

	rec, stats := s.do(http.MethodGet, "/api/game/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), stats["totalGames"])
	assert.Equal(t, float64(1), stats["pushes"])
	assert.Equal(t, float64(0), stats["winPercentage"])
	assert.Equal(t, float64(20), stats["avgPlayerScore"])
}

func TestRouter_Operations(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp["status"])

	// exercise the instrumented middleware before scraping
	s.do(http.MethodGet, "/health", "", nil)
	rec, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blackjack_requests_total")

	rec, _ = s.do(http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/game/stand")

	rec, resp = s.do(http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, resp["error"])
}

func TestRouter_SaveInProgressConflict(t *testing.T) {
	s := newTestServerWith(t, inFlightKeys{})
	token := s.register("retry@example.com")

	body := map[string]any{
		"playerHand":  []map[string]string{{"suit": "♠", "rank": "10"}, {"suit": "♥", "rank": "7"}},
		"dealerHand":  []map[string]string{{"suit": "♣", "rank": "9"}, {"suit": "♦", "rank": "6"}, {"suit": "♠", "rank": "2"}},
		"result":      "push",
		"playerScore": 17,
		"dealerScore": 17,
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/game/save", strings.NewReader(string(raw)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	req.Header.Set("Idempotency-Key", "retry-1")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.ErrSaveInProgress.Error(), resp["error"])
}
