package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	app := &cli.App{
		Name:  "blobwar",
		Usage: "adversarial search engine for the blob war board game",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: ".env", Usage: "env style config file, overridden by the environment"},
		},
		Commands: []*cli.Command{
			playCommand(logger),
			statsCommand(logger),
			anytimeCommand(logger),
			serveCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatalw("blobwar failed", "error", err)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}
