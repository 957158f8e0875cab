package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/capcom6/fschange/detector"
	"github.com/capcom6/fschange/internal/config"
	"github.com/capcom6/fschange/internal/runner"
	"github.com/hashicorp/logutils"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatalln(err)
	}

	cfg, err := config.Parse(ctx, os.Args[1:])
	if errors.Is(err, config.ErrHelpShown) {
		return
	}
	if err != nil {
		log.Fatalln(err)
	}
	setUpLogging(cfg)

	changes, err := detector.New(cfg.WatchPath)
	if err != nil {
		log.Fatalln("[ERROR]", err)
	}
	defer changes.Close()

	run := runner.New(cfg.Exec)

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !changes.HasChanged() {
					continue
				}

				log.Println("[INFO] Changed:", changes.Root())
				if runErr := run.Run(ctx); runErr != nil {
					log.Println("[ERROR]", runErr)
				}

				if cfg.Once {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Println("[INFO] Watching", changes.Root())
	wg.Wait()

	log.Println("[INFO] Bye!")
}

func setUpLogging(cfg config.Config) {
	logLevel := "INFO"
	if cfg.Debug {
		logLevel = "DEBUG"
	}

	filter := logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: logutils.LogLevel(logLevel),
		Writer:   os.Stdout,
	}

	log.SetOutput(&filter)
}
