package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"blobwar/internal/adapters"
	"blobwar/internal/blobwar"
	"blobwar/internal/bootstrap"
	"blobwar/internal/domain/game"
	repo "blobwar/internal/repository"
	"blobwar/internal/strategy"
	"blobwar/internal/usecase/match"
	"blobwar/internal/usecase/supervisor"
)

// session is what every command needs after the config is read.
type session struct {
	cfg     *bootstrap.Config
	cfgPath string
	log     *zap.SugaredLogger
}

func newSession(c *cli.Context, log *zap.SugaredLogger) (*session, error) {
	cfgPath := c.String("config")
	cfg, err := bootstrap.Setup(cfgPath)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, cfgPath: cfgPath, log: log}, nil
}

func (s *session) startBoard(flag string) (blobwar.Configuration, error) {
	board := flag
	if board == "" {
		board = s.cfg.StartBoard
	}
	if board == "" {
		return blobwar.Default(), nil
	}
	return blobwar.Parse(board)
}

// strategies builds both players. A readline prompt is opened only when
// one of them is human.
func (s *session) strategies(red, blue string) (strategy.Strategy, strategy.Strategy, func(), error) {
	opts := strategy.Options{Workers: s.cfg.SearchWorkers, Log: s.log}
	closeInput := func() {}

	if strings.HasPrefix(red, "iterative") || strings.HasPrefix(blue, "iterative") {
		sup, err := supervisor.NewSupervisor(s.cfg, s.cfgPath, s.log)
		if err != nil {
			return nil, nil, closeInput, err
		}
		opts.Supervisor = sup
	}

	if red == "human" || blue == "human" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, closeInput, errors.New("a human player needs an interactive terminal")
		}
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "move> ",
			HistoryFile:     ".blobwar_history",
			InterruptPrompt: "^C",
			EOFPrompt:       "resign",
		})
		if err != nil {
			return nil, nil, closeInput, err
		}
		opts.Input, opts.Output = rl, rl.Stdout()
		closeInput = func() { _ = rl.Close() }
	}

	r, err := strategy.Parse(red, opts)
	if err != nil {
		closeInput()
		return nil, nil, func() {}, err
	}
	b, err := strategy.Parse(blue, opts)
	if err != nil {
		closeInput()
		return nil, nil, func() {}, err
	}
	return r, b, closeInput, nil
}

// archive connects the match store when MONGO_URI is set.
func (s *session) archive(ctx context.Context) (match.MatchStore, func(), error) {
	if s.cfg.MongoUri == "" {
		return nil, func() {}, nil
	}
	mongo := adapters.NewAdapterMongo(s.cfg, s.log)
	if err := mongo.Init(ctx); err != nil {
		return nil, nil, err
	}
	return repo.NewMatchRepository(s.log, mongo.Database), func() { _ = mongo.Close(context.Background()) }, nil
}

func playersFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "red", Usage: "red strategy, e.g. human, greedy, minmax:3, alphabeta:6, iterative:parallel"},
		&cli.StringFlag{Name: "blue", Usage: "blue strategy"},
		&cli.StringFlag{Name: "board", Usage: "start position in rank notation"},
	}
}

func players(c *cli.Context, s *session) (string, string) {
	red, blue := c.String("red"), c.String("blue")
	if red == "" {
		red = s.cfg.PlayerOne
	}
	if blue == "" {
		blue = s.cfg.PlayerTwo
	}
	return red, blue
}

func playCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play one game and print every position",
		Flags: playersFlags(),
		Action: func(c *cli.Context) error {
			s, err := newSession(c, log)
			if err != nil {
				return err
			}
			start, err := s.startBoard(c.String("board"))
			if err != nil {
				return err
			}
			red, blue, closeInput, err := s.strategies(players(c, s))
			if err != nil {
				return err
			}
			defer closeInput()
			store, closeStore, err := s.archive(c.Context)
			if err != nil {
				return err
			}
			defer closeStore()

			fmt.Println(start)
			uc := match.NewMatchUseCase(store, log).WithObserver(func(state blobwar.Configuration, m *game.Movement) {
				fmt.Printf("played %s\n%s\n", game.FormatMove(m), state)
			})
			record, err := uc.Battle(c.Context, start, red, blue)
			if err != nil {
				return err
			}
			fmt.Printf("%s vs %s: %s (value %d, %d moves)\n",
				record.Red, record.Blue, game.Outcome(record.Outcome), record.Value, len(record.Moves))
			return nil
		},
	}
}

func statsCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "play a series of games and report the win ratios",
		Flags: append(playersFlags(), &cli.IntFlag{Name: "games", Value: 100, Usage: "number of games"}),
		Action: func(c *cli.Context) error {
			s, err := newSession(c, log)
			if err != nil {
				return err
			}
			start, err := s.startBoard(c.String("board"))
			if err != nil {
				return err
			}
			redName, blueName := players(c, s)
			if redName == "human" || blueName == "human" {
				return errors.New("stats runs unattended, pick two engines")
			}
			red, blue, closeInput, err := s.strategies(redName, blueName)
			if err != nil {
				return err
			}
			defer closeInput()
			store, closeStore, err := s.archive(c.Context)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := match.NewMatchUseCase(store, log).Stats(c.Context, start, c.Int("games"), red, blue)
			if err != nil {
				return err
			}
			fmt.Printf("%s won %.2f, %s won %.2f, %d draws over %d games\n",
				stats.Red, stats.RedRatio, stats.Blue, float64(stats.BlueWins)/float64(max(stats.Games, 1)), stats.Draws, stats.Games)
			return nil
		},
	}
}

func anytimeCommand(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:  "anytime",
		Usage: "publish ever deeper answers into a slot until killed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "board", Required: true, Usage: "position in rank notation"},
			&cli.StringFlag{Name: "kind", Usage: "alphabeta, minmax or parallel"},
			&cli.StringFlag{Name: "slot", Usage: "slot key, defaults to SLOT_KEY"},
			&cli.UintFlag{Name: "max-depth", Value: uint(strategy.MaxDepth), Usage: "stop after this depth"},
		},
		Action: func(c *cli.Context) error {
			s, err := newSession(c, log)
			if err != nil {
				return err
			}
			state, err := blobwar.Parse(c.String("board"))
			if err != nil {
				return err
			}
			kindName := c.String("kind")
			if kindName == "" {
				kindName = s.cfg.AnytimeKind
			}
			kind, err := strategy.ParseKind(kindName)
			if err != nil {
				return err
			}
			key := c.String("slot")
			if key == "" {
				key = s.cfg.SlotKey
			}
			if key == "" {
				return errors.New("no slot key given")
			}

			slot, err := repo.ConnectSlot(c.Context, s.cfg, key, log)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			defer slot.Close(context.Background())

			depth := uint8(min(c.Uint("max-depth"), uint(strategy.MaxDepth)))
			return strategy.NewCoordinator(slot, log, s.cfg.SearchWorkers).WithMaxDepth(depth).Run(state, kind)
		},
	}
}
