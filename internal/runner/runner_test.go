package runner

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
)

func TestRunner_Run(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	tests := []struct {
		name    string
		command string
		want    string
		wantErr bool
	}{
		{
			name:    "Empty",
			command: "",
			want:    "",
		},
		{
			name:    "Echo",
			command: "echo changed",
			want:    "changed\n",
		},
		{
			name:    "Failure",
			command: "exit 3",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			r := New(tt.command)
			r.stdout = out
			r.stderr = out

			err := r.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && !strings.Contains(err.Error(), tt.command) {
				t.Errorf("Run() error = %v, want command in message", err)
			}
			if got := out.String(); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunner_Canceled(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := New("sleep 5").Run(ctx); err == nil {
		t.Error("Run() error = nil, want error for canceled context")
	}
}
