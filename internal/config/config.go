package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

const (
	appName         = "fschange"
	defaultInterval = 500 * time.Millisecond
	defaultEnvFile  = ".env"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrHelpShown        = errors.New("help shown")
)

type Config struct {
	WatchPath string
	Interval  time.Duration
	Exec      string
	Once      bool
	Debug     bool
}

func (c *Config) validate() error {
	if c.WatchPath == "" {
		return fmt.Errorf("%w: watch path is required", ErrValidationFailed)
	}

	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrValidationFailed)
	}

	return nil
}

// LoadDotEnv copies variables from the given files (".env" by default) into
// the process environment. Missing files are skipped.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{defaultEnvFile}
	}

	for _, filename := range filenames {
		if err := godotenv.Load(filename); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("can't load %s: %w", filename, err)
		}
	}

	return nil
}

func Parse(ctx context.Context, args []string) (Config, error) {
	var cfg Config
	parsed := false

	cmd := &cli.Command{
		Name:      appName,
		Usage:     "report changes under a directory tree",
		UsageText: appName + " [flags] <path>",
		Version:   version(),
		Writer:    os.Stdout,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "interval",
				Usage:   "how often to check for changes",
				Value:   defaultInterval,
				Sources: cli.EnvVars("FSCHANGE_INTERVAL"),
			},
			&cli.StringFlag{
				Name:    "exec",
				Usage:   "shell command to run after each change",
				Sources: cli.EnvVars("FSCHANGE_EXEC"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "exit after the first change",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "debug mode",
				Sources: cli.EnvVars("FSCHANGE_DEBUG"),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			parsed = true

			cfg.WatchPath = cmd.Args().First()
			cfg.Interval = cmd.Duration("interval")
			cfg.Exec = cmd.String("exec")
			cfg.Once = cmd.Bool("once")
			cfg.Debug = cmd.Bool("debug")

			return nil
		},
	}

	if err := cmd.Run(ctx, append([]string{appName}, args...)); err != nil {
		return cfg, fmt.Errorf("failed to parse flags: %w", err)
	}

	if !parsed {
		return cfg, ErrHelpShown
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
