package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/ringside/blackjack-api/internal/core/domain"
	"github.com/ringside/blackjack-api/internal/core/ports"
)

type stubRoundService struct {
	startFn func(ctx context.Context, userID int64) (*ports.RoundView, error)
	hitFn   func(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error)
	standFn func(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error)
}

func (s *stubRoundService) Start(ctx context.Context, userID int64) (*ports.RoundView, error) {
	return s.startFn(ctx, userID)
}

func (s *stubRoundService) Hit(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error) {
	return s.hitFn(ctx, in)
}

func (s *stubRoundService) Stand(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error) {
	return s.standFn(ctx, in)
}

type stubHistoryService struct {
	saveFn    func(ctx context.Context, in ports.SaveGameInput) (*ports.SaveGameResult, error)
	historyFn func(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error)
	statsFn   func(ctx context.Context, userID int64) (*domain.Stats, error)
}

func (s *stubHistoryService) Save(ctx context.Context, in ports.SaveGameInput) (*ports.SaveGameResult, error) {
	return s.saveFn(ctx, in)
}

func (s *stubHistoryService) History(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
	return s.historyFn(ctx, userID, limit)
}

func (s *stubHistoryService) Stats(ctx context.Context, userID int64) (*domain.Stats, error) {
	return s.statsFn(ctx, userID)
}

var (
	tenSpades   = domain.Card{Suit: domain.Spades, Rank: domain.Ten}
	sevenHearts = domain.Card{Suit: domain.Hearts, Rank: domain.Seven}
	nineClubs   = domain.Card{Suit: domain.Clubs, Rank: domain.Nine}
)

func openView() *ports.RoundView {
	return &ports.RoundView{
		PlayerHand:     domain.Hand{tenSpades, sevenHearts},
		DealerHand:     domain.Hand{nineClubs, domain.HiddenCard},
		FullDealerHand: domain.Hand{nineClubs, {Suit: domain.Diamonds, Rank: domain.Six}},
		PlayerScore:    17,
		Deck:           domain.Deck{{Suit: domain.Spades, Rank: domain.Two}},
	}
}

func TestGameHandler_Start(t *testing.T) {
	e := newTestEcho()
	rounds := &stubRoundService{
		startFn: func(ctx context.Context, userID int64) (*ports.RoundView, error) {
			if userID != 5 {
				t.Fatalf("unexpected user %d", userID)
			}
			return openView(), nil
		},
	}
	handler := NewGameHandler(rounds, &stubHistoryService{})

	c, rec := newJSONContext(e, http.MethodPost, "/api/game/start", "", 5)
	if err := handler.Start(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"dealerScore", "result"} {
		v, present := resp[key]
		if !present || v != nil {
			t.Errorf("expected %s to be null, got %v (present=%v)", key, v, present)
		}
	}
	dealer := resp["dealerHand"].([]any)
	if hole := dealer[1].(map[string]any); hole["suit"] != "?" || hole["rank"] != "?" {
		t.Errorf("expected concealed hole card, got %v", hole)
	}
	if resp["gameOver"] != false || resp["blackjack"] != false {
		t.Errorf("unexpected flags: %v", resp)
	}
	if _, ok := resp["fullDealerHand"]; !ok {
		t.Error("expected fullDealerHand")
	}
}

func TestGameHandler_Hit_PassesState(t *testing.T) {
	e := newTestEcho()
	rounds := &stubRoundService{
		hitFn: func(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error) {
			if in.UserID != 5 || len(in.Deck) != 1 || in.PlayerHand[0] != tenSpades || in.DealerHand[0] != nineClubs {
				t.Fatalf("unexpected input: %+v", in)
			}
			return openView(), nil
		},
	}
	handler := NewGameHandler(rounds, &stubHistoryService{})

	body := `{"deck":[{"suit":"♠","rank":"2"}],
		"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],
		"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"}]}`
	c, rec := newJSONContext(e, http.MethodPost, "/api/game/hit", body, 5)
	if err := handler.Hit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
}

func TestGameHandler_Hit_RejectsMalformedBodies(t *testing.T) {
	rounds := &stubRoundService{
		hitFn: func(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewGameHandler(rounds, &stubHistoryService{})

	cases := map[string]string{
		"not json":          "{",
		"missing deck":      `{"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"}]}`,
		"unknown suit":      `{"deck":[{"suit":"X","rank":"2"}],"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"}]}`,
		"hidden card":       `{"deck":[{"suit":"?","rank":"?"}],"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"}]}`,
		"one player card":   `{"deck":[],"playerHand":[{"suit":"♠","rank":"10"}],"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"}]}`,
		"three dealer card": `{"deck":[],"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"},{"suit":"♦","rank":"2"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEcho()
			c, rec := newJSONContext(e, http.MethodPost, "/api/game/hit", body, 5)
			_ = serve(e, c, handler.Hit)
			expectStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestGameHandler_Stand_PropagatesEngineError(t *testing.T) {
	e := newTestEcho()
	rounds := &stubRoundService{
		standFn: func(ctx context.Context, in ports.RoundInput) (*ports.RoundView, error) {
			return nil, domain.ErrRoundOver
		},
	}
	handler := NewGameHandler(rounds, &stubHistoryService{})

	body := `{"deck":[],"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"}]}`
	c, _ := newJSONContext(e, http.MethodPost, "/api/game/stand", body, 5)
	if err := handler.Stand(c); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestGameHandler_RequiresUser(t *testing.T) {
	handler := NewGameHandler(&stubRoundService{}, &stubHistoryService{})
	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/api/game/start", "", 0)
	_ = serve(e, c, handler.Start)
	expectStatus(t, rec, http.StatusUnauthorized)
}

const saveBody = `{"playerHand":[{"suit":"♠","rank":"10"},{"suit":"♥","rank":"7"}],
	"dealerHand":[{"suit":"♣","rank":"9"},{"suit":"♦","rank":"6"},{"suit":"♠","rank":"2"}],
	"result":"push","playerScore":17,"dealerScore":17}`

func TestGameHandler_Save(t *testing.T) {
	e := newTestEcho()
	history := &stubHistoryService{
		saveFn: func(ctx context.Context, in ports.SaveGameInput) (*ports.SaveGameResult, error) {
			if in.UserID != 5 || in.Result != domain.ResultPush || len(in.DealerHand) != 3 || in.IdempotencyKey != "abc" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.SaveGameResult{RecordID: 11}, nil
		},
	}
	handler := NewGameHandler(&stubRoundService{}, history)

	c, rec := newJSONContext(e, http.MethodPost, "/api/game/save", saveBody, 5)
	c.Request().Header.Set(IdempotencyKeyHeader, "abc")
	if err := handler.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true || resp["recordId"] != float64(11) {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestGameHandler_Save_Replayed(t *testing.T) {
	e := newTestEcho()
	history := &stubHistoryService{
		saveFn: func(ctx context.Context, in ports.SaveGameInput) (*ports.SaveGameResult, error) {
			return &ports.SaveGameResult{RecordID: 11, Replayed: true}, nil
		},
	}
	handler := NewGameHandler(&stubRoundService{}, history)

	c, rec := newJSONContext(e, http.MethodPost, "/api/game/save", saveBody, 5)
	if err := handler.Save(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)
}

func TestGameHandler_Save_InvalidResult(t *testing.T) {
	e := newTestEcho()
	history := &stubHistoryService{
		saveFn: func(ctx context.Context, in ports.SaveGameInput) (*ports.SaveGameResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewGameHandler(&stubRoundService{}, history)

	body := strings.Replace(saveBody, `"push"`, `"draw"`, 1)
	c, rec := newJSONContext(e, http.MethodPost, "/api/game/save", body, 5)
	_ = serve(e, c, handler.Save)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestGameHandler_History(t *testing.T) {
	e := newTestEcho()
	history := &stubHistoryService{
		historyFn: func(ctx context.Context, userID int64, limit int) ([]*domain.GameRecord, error) {
			if limit != 25 {
				t.Fatalf("expected limit 25, got %d", limit)
			}
			return []*domain.GameRecord{{ID: 3, UserID: userID, Result: domain.ResultWin, PlayerHand: domain.Hand{tenSpades}}}, nil
		},
	}
	handler := NewGameHandler(&stubRoundService{}, history)

	c, rec := newJSONContext(e, http.MethodGet, "/api/game/history?limit=25", "", 5)
	if err := handler.History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["id"] != float64(3) || resp[0]["result"] != "win" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestGameHandler_History_BadLimit(t *testing.T) {
	handler := NewGameHandler(&stubRoundService{}, &stubHistoryService{})

	for _, q := range []string{"abc", "0", "-3"} {
		e := newTestEcho()
		c, rec := newJSONContext(e, http.MethodGet, "/api/game/history?limit="+q, "", 5)
		_ = serve(e, c, handler.History)
		expectStatus(t, rec, http.StatusBadRequest)
	}
}

func TestGameHandler_Stats(t *testing.T) {
	e := newTestEcho()
	history := &stubHistoryService{
		statsFn: func(ctx context.Context, userID int64) (*domain.Stats, error) {
			return &domain.Stats{TotalGames: 3, Wins: 2, WinPercentage: 66.7}, nil
		},
	}
	handler := NewGameHandler(&stubRoundService{}, history)

	c, rec := newJSONContext(e, http.MethodGet, "/api/game/stats", "", 5)
	if err := handler.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["totalGames"] != float64(3) || resp["winPercentage"] != 66.7 || resp["lastGame"] != nil {
		t.Fatalf("unexpected payload: %v", resp)
	}
}
