package match

import (
	"context"
	"errors"
	"sync"
	"testing"

	"blobwar/internal/blobwar"
	"blobwar/internal/domain"
	"blobwar/internal/domain/game"
	"blobwar/internal/strategy"
)

type memoryStore struct {
	mu      sync.Mutex
	records []domain.MatchRecord
	err     error
}

func (s *memoryStore) SaveMatch(_ context.Context, record domain.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return s.err
}

// fixed always answers the same move.
type fixed struct {
	move *game.Movement
}

func (fixed) String() string { return "fixed" }

func (f fixed) ComputeNextMove(game.State) *game.Movement { return f.move }

func mustParse(t *testing.T, s string) blobwar.Configuration {
	t.Helper()
	c, err := blobwar.Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return c
}

func TestBattlePlaysToTheEnd(t *testing.T) {
	store := &memoryStore{}
	var turns int
	uc := NewMatchUseCase(store, nil).WithObserver(func(blobwar.Configuration, *game.Movement) { turns++ })

	record, err := uc.Battle(context.Background(), blobwar.Default(), strategy.Greedy{}, strategy.AlphaBeta{Depth: 1})
	if err != nil {
		t.Fatalf("battle: %v", err)
	}

	final := mustParse(t, record.Final)
	if !final.GameOver() {
		t.Fatalf("battle stopped before the end: %s", record.Final)
	}
	if record.Value != final.Value() || record.Outcome != int(outcome(final.Value())) {
		t.Fatalf("outcome %d does not match value %d", record.Outcome, record.Value)
	}
	if turns != len(record.Moves) {
		t.Fatalf("observer saw %d turns, record has %d moves", turns, len(record.Moves))
	}
	if len(store.records) != 1 || store.records[0].ID != record.ID {
		t.Fatalf("match was not archived: %+v", store.records)
	}
}

func TestBattlePassesWhenStuck(t *testing.T) {
	start := mustParse(t, ".......b/......../......../......../......../###...../###...../r##..... r")

	record, err := NewMatchUseCase(nil, nil).Battle(context.Background(), start, strategy.Greedy{}, strategy.Greedy{})
	if err != nil {
		t.Fatalf("battle: %v", err)
	}
	if len(record.Moves) == 0 || record.Moves[0] != "-" {
		t.Fatalf("red should pass first, got %v", record.Moves)
	}
	if record.Forfeit || record.Outcome != int(game.OutcomeSecondWins) {
		t.Fatalf("blue should win on the board, got %+v", record)
	}
}

func TestBattleForfeits(t *testing.T) {
	illegal := game.Duplicate(game.Position{X: 3, Y: 3})
	tests := []struct {
		name      string
		red, blue strategy.Strategy
		want      game.Outcome
	}{
		{"red plays illegal", fixed{move: &illegal}, strategy.Greedy{}, game.OutcomeSecondWins},
		{"blue resigns", strategy.Greedy{}, fixed{}, game.OutcomeFirstWins},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewMatchUseCase(nil, nil).Battle(context.Background(), blobwar.Default(), tt.red, tt.blue)
			if err != nil {
				t.Fatalf("battle: %v", err)
			}
			if !record.Forfeit || record.Outcome != int(tt.want) {
				t.Fatalf("expected forfeit with outcome %d, got %+v", tt.want, record)
			}
		})
	}
}

func TestBattleArchiveFailureIsNotFatal(t *testing.T) {
	store := &memoryStore{err: errors.New("mongo down")}
	if _, err := NewMatchUseCase(store, nil).Battle(context.Background(), blobwar.Default(), strategy.Greedy{}, fixed{}); err != nil {
		t.Fatalf("archive errors must not fail the match: %v", err)
	}
}

func TestBattleStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMatchUseCase(nil, nil).Battle(ctx, blobwar.Default(), strategy.Greedy{}, strategy.Greedy{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStats(t *testing.T) {
	stats, err := NewMatchUseCase(nil, nil).Stats(context.Background(), blobwar.Default(), 3, strategy.Greedy{}, fixed{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Games != 3 || stats.RedWins != 3 || stats.RedRatio != 1 {
		t.Fatalf("greedy should beat a resigning player every time, got %+v", stats)
	}
	if stats.RedWins+stats.BlueWins+stats.Draws != stats.Games {
		t.Fatalf("counts do not add up: %+v", stats)
	}
}
