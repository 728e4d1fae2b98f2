package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ewilliams-labs/genrelay/internal/logging"
)

func main() {
	logger := logging.New(os.Stderr, os.Getenv("LOG_LEVEL"))
	r := &Runner{logger: logger}

	app := &cli.Command{
		Name:    "genrelay",
		Usage:   "Genre recommendations from an artist or song query",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
				Sources: cli.EnvVars("GENRELAY_CONFIG"),
			},
		},
		Before:   r.load,
		Commands: r.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Run the HTTP API",
			Action: r.Serve,
		},
		{
			Name:  "recommend",
			Usage: "Run one recommendation and print the JSON payload",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "query",
					Aliases:  []string{"q"},
					Usage:    "Artist or song to start from",
					Required: true,
				},
				&cli.StringFlag{
					Name:    "token",
					Usage:   "Spotify user access token",
					Sources: cli.EnvVars("SPOTIFY_ACCESS_TOKEN"),
				},
				&cli.BoolFlag{
					Name:  "pretty",
					Usage: "Pretty-print output",
					Value: true,
				},
			},
			Action: r.Recommend,
		},
		{
			Name:  "history",
			Usage: "List recent playlist saves from the ledger",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "limit",
					Usage: "Maximum number of entries to return",
					Value: 20,
				},
			},
			Action: r.History,
		},
		{
			Name:  "init-config",
			Usage: "Write an example configuration file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Destination path",
					Value:   "config.toml",
				},
			},
			Action: r.InitConfig,
		},
	}
}
