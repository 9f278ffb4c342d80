// Command tilemerge plays and inspects the tile merge puzzle from a terminal.
//
// Subcommands:
//  1. "play" runs an interactive game on stdin/stdout
//  2. "simulate" plays seeded random games and prints a summary
//  3. "configs" lists the available rule sets
//  4. "validate" checks every file in the config directory
//
// Global flags choose the config directory and rule set, debug logging and
// span tracing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/tile-merge-game/game/config"
	"github.com/wricardo/tile-merge-game/game/console"
	"github.com/wricardo/tile-merge-game/game/service"
	"github.com/wricardo/tile-merge-game/game/session"
	"github.com/wricardo/tile-merge-game/game/telemetry"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tile Merge"
)

const defaultConfigDir = "configs"

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree reading from in and writing to out and errOut
func newApp(in io.Reader, out, errOut io.Writer) *cli.Command {
	var shutdownTracing func(context.Context) error

	return &cli.Command{
		Name:      "tilemerge",
		Usage:     "slide and merge numbered tiles on a square board",
		Version:   Version,
		Reader:    in,
		Writer:    out,
		ErrWriter: errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "directory containing game configurations (built-in rules when missing)",
				Value:   defaultConfigDir,
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "configuration to play (default rules when empty)",
				Sources: cli.EnvVars("TILEMERGE_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "record spans to stderr, or to OTEL_EXPORTER_OTLP_ENDPOINT when set",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(errOut, cmd.Bool("debug"))
			if cmd.Bool("trace") {
				shutdown, err := telemetry.Setup(ctx, errOut)
				if err != nil {
					return ctx, fmt.Errorf("failed to set up tracing: %w", err)
				}
				shutdownTracing = shutdown
			}
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if shutdownTracing == nil {
				return nil
			}
			return shutdownTracing(context.WithoutCancel(ctx))
		},
		Commands: []*cli.Command{
			playCommand(),
			simulateCommand(),
			configsCommand(),
			validateCommand(),
		},
	}
}

func setupLogging(w io.Writer, debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play interactively with w/a/s/d",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed for tile spawns (random when 0)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, _, err := initializeServices(cmd)
			if err != nil {
				return err
			}
			root := cmd.Root()
			_, err = console.Play(ctx, root.Reader, root.Writer, svc, cmd.String("config"), cmd.Int64("seed"))
			return err
		},
	}
}

func simulateCommand() *cli.Command {
	defaults := console.DefaultSimulateOptions()
	return &cli.Command{
		Name:  "simulate",
		Usage: "play seeded random games and print a summary",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "games",
				Usage: "number of games to play",
				Value: defaults.Games,
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed of the first game; game i uses seed+i",
				Value: defaults.Seed,
			},
			&cli.IntFlag{
				Name:  "max-moves",
				Usage: "move cap per game",
				Value: defaults.MaxMoves,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print a line per game",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, _, err := initializeServices(cmd)
			if err != nil {
				return err
			}
			_, err = console.Simulate(ctx, cmd.Root().Writer, svc, console.SimulateOptions{
				Games:      cmd.Int("games"),
				Seed:       cmd.Int64("seed"),
				ConfigName: cmd.String("config"),
				MaxMoves:   cmd.Int("max-moves"),
				Verbose:    cmd.Bool("verbose"),
			})
			return err
		},
	}
}

func configsCommand() *cli.Command {
	return &cli.Command{
		Name:  "configs",
		Usage: "list available configurations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, _, err := initializeServices(cmd)
			if err != nil {
				return err
			}
			configs, err := svc.ListConfigs(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSIZE\tWIN\tFOURS\tDESCRIPTION")
			for _, c := range configs {
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%.0f%%\t%s\n",
					c.ConfigID, c.Name, c.GridSize, c.GridSize, c.WinThreshold, c.FourOdds*100, c.Description)
			}
			return tw.Flush()
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "validate every file in the config directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, configs, err := initializeServices(cmd)
			if err != nil {
				return err
			}
			results, err := configs.ValidateDir()
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			invalid := 0
			for _, r := range results {
				if r.Valid {
					fmt.Fprintf(w, "OK    %s\n", r.File)
					for _, note := range r.Notes {
						fmt.Fprintf(w, "      %s\n", note)
					}
					continue
				}
				invalid++
				fmt.Fprintf(w, "FAIL  %s\n", r.File)
				for _, e := range r.Errors {
					fmt.Fprintf(w, "      %s\n", e)
				}
			}
			fmt.Fprintf(w, "\n%d files, %d invalid\n", len(results), invalid)

			if invalid > 0 {
				return fmt.Errorf("%d invalid config files", invalid)
			}
			return nil
		},
	}
}

// initializeServices wires the config and session managers into a game
// service. The default config directory is optional; an explicit one must
// exist.
func initializeServices(cmd *cli.Command) (service.GameService, *config.Manager, error) {
	dir := strings.TrimSpace(cmd.String("config-dir"))
	if !cmd.IsSet("config-dir") {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			slog.Debug("config directory not found, using built-in rules", "dir", dir)
			dir = ""
		}
	}

	configManager, err := config.NewManager(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()
	return service.NewGameService(sessionManager, configManager), configManager, nil
}
