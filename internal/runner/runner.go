package runner

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Runner executes a shell command each time a change is detected.
type Runner struct {
	Command string

	stdout io.Writer
	stderr io.Writer
}

func New(command string) *Runner {
	return &Runner{
		Command: command,

		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run executes the command and waits for it. An empty command does nothing.
func (r *Runner) Run(ctx context.Context) error {
	if r.Command == "" {
		return nil
	}

	cmd := shellCommand(ctx, r.Command)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	started := time.Now()
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("can't run %q: %w", r.Command, err)
	}

	log.Printf("[DEBUG] %q finished in %s\n", r.Command, time.Since(started).Round(time.Millisecond))

	return nil
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}

	return exec.CommandContext(ctx, "sh", "-c", command)
}
