package match

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"blobwar/internal/blobwar"
	"blobwar/internal/domain"
	"blobwar/internal/domain/game"
	"blobwar/internal/strategy"
)

// maxReplays bounds how often a drawn game of a series is played again.
const maxReplays = 3

type MatchStore interface {
	SaveMatch(ctx context.Context, record domain.MatchRecord) error
}

// Observer sees every turn: the position after it and the move played,
// nil for a pass.
type Observer func(state blobwar.Configuration, m *game.Movement)

type MatchUseCase struct {
	store    MatchStore
	log      *zap.SugaredLogger
	observer Observer
}

// NewMatchUseCase builds the match runner. store may be nil, in which case
// nothing is archived.
func NewMatchUseCase(store MatchStore, log *zap.SugaredLogger) *MatchUseCase {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MatchUseCase{store: store, log: log}
}

func (u *MatchUseCase) WithObserver(o Observer) *MatchUseCase {
	u.observer = o
	return u
}

// Battle plays red against blue from start until the game is over.
// A player without a legal move passes. A player answering nil while it
// has moves, or answering an illegal move, forfeits.
func (u *MatchUseCase) Battle(ctx context.Context, start blobwar.Configuration, red, blue strategy.Strategy) (domain.MatchRecord, error) {
	record := domain.MatchRecord{
		ID:    uuid.NewString(),
		Red:   red.String(),
		Blue:  blue.String(),
		Start: start.Notation(),
	}

	state := start
	for !state.GameOver() {
		if err := ctx.Err(); err != nil {
			return record, err
		}

		player := red
		if state.CurrentPlayer() {
			player = blue
		}

		if !game.HasMovements(state) {
			state = state.Skip()
			record.Moves = append(record.Moves, game.FormatMove(nil))
			u.notify(state, nil)
			continue
		}

		m := player.ComputeNextMove(state)
		if m == nil || !game.IsLegal(state, *m) {
			u.log.Warnw("forfeit", "match", record.ID, "player", player.String(), "move", game.FormatMove(m))
			record.Forfeit = true
			record.Outcome = int(game.OutcomeFirstWins)
			if !state.CurrentPlayer() {
				record.Outcome = int(game.OutcomeSecondWins)
			}
			return u.finish(ctx, record, state), nil
		}

		state = state.Apply(*m)
		record.Moves = append(record.Moves, m.String())
		u.notify(state, m)
	}

	record.Outcome = int(outcome(state.Value()))
	return u.finish(ctx, record, state), nil
}

// Stats plays games between red and blue and reports the win ratios.
// A drawn game is replayed a few times before it counts as a draw.
func (u *MatchUseCase) Stats(ctx context.Context, start blobwar.Configuration, games int, red, blue strategy.Strategy) (domain.MatchStats, error) {
	stats := domain.MatchStats{Red: red.String(), Blue: blue.String(), Games: games}
	for range games {
		var (
			record domain.MatchRecord
			err    error
		)
		for range maxReplays {
			record, err = u.Battle(ctx, start, red, blue)
			if err != nil {
				return stats, err
			}
			if record.Outcome != int(game.OutcomeDraw) {
				break
			}
		}

		switch game.Outcome(record.Outcome) {
		case game.OutcomeFirstWins:
			stats.RedWins++
		case game.OutcomeSecondWins:
			stats.BlueWins++
		default:
			stats.Draws++
		}
	}
	if games > 0 {
		stats.RedRatio = float64(stats.RedWins) / float64(games)
	}
	return stats, nil
}

func (u *MatchUseCase) finish(ctx context.Context, record domain.MatchRecord, final blobwar.Configuration) domain.MatchRecord {
	record.Final = final.Notation()
	record.Value = final.Value()
	record.FinishedAt = time.Now().UTC()

	u.log.Infow("match finished",
		"match", record.ID,
		"red", record.Red,
		"blue", record.Blue,
		"outcome", game.Outcome(record.Outcome).String(),
		"value", record.Value,
		"moves", len(record.Moves),
	)
	if u.store != nil {
		if err := u.store.SaveMatch(ctx, record); err != nil {
			u.log.Errorw("archive match", "match", record.ID, "error", err)
		}
	}
	return record
}

func (u *MatchUseCase) notify(state blobwar.Configuration, m *game.Movement) {
	if u.observer != nil {
		u.observer(state, m)
	}
}

func outcome(value int8) game.Outcome {
	switch {
	case value > 0:
		return game.OutcomeFirstWins
	case value < 0:
		return game.OutcomeSecondWins
	default:
		return game.OutcomeDraw
	}
}
