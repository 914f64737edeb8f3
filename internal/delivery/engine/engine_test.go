package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"blobwar/internal/blobwar"
	"blobwar/internal/domain"
	blobwarErrors "blobwar/internal/errors"
	"blobwar/internal/httpresponse"
	engineuc "blobwar/internal/usecase/engine"
)

type failing struct{ err error }

func (f failing) ComputeMove(context.Context, domain.MoveRequest) (domain.MoveResponse, error) {
	return domain.MoveResponse{}, f.err
}

type archive []domain.MatchRecord

func (a archive) RecentMatches(_ context.Context, limit int64) ([]domain.MatchRecord, error) {
	return a[:min(int(limit), len(a))], nil
}

func newRouter(h *EngineHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/move", h.HandleMove)
	r.Get("/matches", h.HandleMatches)
	return r
}

func TestHandleMove(t *testing.T) {
	log := zap.NewNop().Sugar()
	h := NewEngineHandler(log, engineuc.NewEngineUseCase(1, nil, log), nil)

	body := `{"board":"` + blobwar.Default().Notation() + `","strategy":"alphabeta:2"}`
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/move", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var resp httpresponse.Response[domain.MoveResponse]
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusOK || !resp.Body.Found || resp.Body.Move == "" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandleMoveStatusCodes(t *testing.T) {
	log := zap.NewNop().Sugar()
	tests := []struct {
		name   string
		engine MoveComputer
		body   string
		want   int
	}{
		{"malformed json", failing{}, `{"board":`, http.StatusBadRequest},
		{"unknown field", failing{}, `{"board":"x","strategy":"greedy","depth":3}`, http.StatusBadRequest},
		{"missing strategy", failing{}, `{"board":"x"}`, http.StatusBadRequest},
		{"bad notation", failing{err: blobwarErrors.ErrBadNotation}, `{"board":"x","strategy":"greedy"}`, http.StatusBadRequest},
		{"unknown strategy", failing{err: blobwarErrors.ErrUnknownStrategy}, `{"board":"x","strategy":"y"}`, http.StatusBadRequest},
		{"game over", failing{err: blobwarErrors.ErrGameOver}, `{"board":"x","strategy":"greedy"}`, http.StatusConflict},
		{"engine failure", failing{err: errors.New("boom")}, `{"board":"x","strategy":"greedy"}`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter(NewEngineHandler(log, tt.engine, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/move", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body)
			}
		})
	}
}

func TestHandleMatches(t *testing.T) {
	log := zap.NewNop().Sugar()
	records := archive{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	rec := httptest.NewRecorder()
	newRouter(NewEngineHandler(log, failing{}, records)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp httpresponse.Response[[]domain.MatchRecord]
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Body) != 2 || resp.Body[0].ID != "a" {
		t.Fatalf("unexpected matches %+v", resp.Body)
	}

	for target, want := range map[string]int{"/matches?limit=0": http.StatusBadRequest, "/matches": http.StatusOK} {
		rec := httptest.NewRecorder()
		newRouter(NewEngineHandler(log, failing{}, records)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != want {
			t.Errorf("%s: expected %d, got %d", target, want, rec.Code)
		}
	}

	rec = httptest.NewRecorder()
	newRouter(NewEngineHandler(log, failing{}, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without an archive, got %d", rec.Code)
	}
}
