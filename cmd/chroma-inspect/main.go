// Command chroma-inspect is the headless companion of the browser: it lists,
// inspects, dumps and deletes collections of a Chroma server from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ytget/chroma-browser/internal/chroma"
	"github.com/ytget/chroma-browser/internal/config"
)

// version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration: %v\n", err)
		os.Exit(2)
	}

	if err := newApp(settings).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(settings *config.Settings) *cli.App {
	return &cli.App{
		Name:    "chroma-inspect",
		Usage:   "Inspect collections of a Chroma vector database",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Value: settings.Host,
				Usage: "Chroma server host",
			},
			&cli.IntFlag{
				Name:  "port",
				Value: settings.Port,
				Usage: "Chroma server port",
			},
			&cli.StringFlag{
				Name:  "tenant",
				Value: settings.Tenant,
				Usage: "Tenant name",
			},
			&cli.StringFlag{
				Name:  "database",
				Value: settings.Database,
				Usage: "Database name",
			},
			&cli.StringFlag{
				Name:  "token",
				Value: settings.Token,
				Usage: "Auth token sent as " + chroma.TokenHeader,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: settings.Timeout,
				Usage: "Per-request timeout",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: settings.LogLevel,
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before: func(c *cli.Context) error {
			logger, err := config.NewLogger(c.String("log-level"), settings.LogFormat)
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]interface{}{
				metadataSettings: settings,
				metadataLogger:   logger,
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if logger := loggerFrom(c); logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			listCmd,
			infoCmd,
			getCmd,
			deleteCmd,
		},
	}
}
