package watcher

import (
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestForwarder(clock *fakeClock, buffer int) (*forwarder, chan Signal) {
	out := make(chan Signal, buffer)
	return &forwarder{
		limiter: newDebouncer(DefaultDebounce, clock.Now),
		out:     out,
	}, out
}

func Test_debouncer_allow(t *testing.T) {
	type step struct {
		advance time.Duration
		want    bool
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{
			name:  "First event",
			steps: []step{{0, true}},
		},
		{
			name:  "Burst inside window",
			steps: []step{{0, true}, {10 * time.Millisecond, false}, {10 * time.Millisecond, false}, {10 * time.Millisecond, false}},
		},
		{
			name:  "Exactly one window apart",
			steps: []step{{0, true}, {100 * time.Millisecond, true}},
		},
		{
			name: "Rejected events do not extend the window",
			steps: []step{
				{0, true},
				{60 * time.Millisecond, false},
				{40 * time.Millisecond, true},
			},
		},
		{
			name: "Steady slow traffic forwards once per window",
			steps: []step{
				{0, true},
				{50 * time.Millisecond, false},
				{50 * time.Millisecond, true},
				{50 * time.Millisecond, false},
				{50 * time.Millisecond, true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Unix(1000, 0)}
			d := newDebouncer(DefaultDebounce, clock.Now)
			for i, s := range tt.steps {
				clock.Advance(s.advance)
				if got := d.allow(); got != s.want {
					t.Errorf("step %d: allow() = %v, want %v", i, got, s.want)
				}
			}
		})
	}
}

func Test_forwarder_collapsesBursts(t *testing.T) {
	for _, k := range []int{2, 3, 10, 50} {
		clock := &fakeClock{now: time.Unix(1000, 0)}
		fwd, out := newTestForwarder(clock, 64)

		for i := 0; i < k; i++ {
			fwd.handle(fsnotify.Event{Name: "x.txt", Op: fsnotify.Write})
			clock.Advance(time.Millisecond)
		}

		if got := len(out); got != 1 {
			t.Errorf("burst of %d: queued %d signals, want 1", k, got)
		}
	}
}

func Test_forwarder_ignoresNonContentEvents(t *testing.T) {
	ops := []fsnotify.Op{fsnotify.Chmod, fsnotify.Create, fsnotify.Remove, fsnotify.Rename}
	for _, op := range ops {
		clock := &fakeClock{now: time.Unix(1000, 0)}
		fwd, out := newTestForwarder(clock, 64)

		for i := 0; i < 20; i++ {
			if fwd.handle(fsnotify.Event{Name: "x.txt", Op: op}) {
				t.Errorf("%s: handle() = true, want false", op)
			}
			clock.Advance(time.Second)
		}

		if got := len(out); got != 0 {
			t.Errorf("%s: queued %d signals, want 0", op, got)
		}
	}
}

func Test_forwarder_ignoredEventsKeepWindow(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	fwd, out := newTestForwarder(clock, 64)

	fwd.handle(fsnotify.Event{Name: "x.txt", Op: fsnotify.Chmod})
	fwd.handle(fsnotify.Event{Name: "x.txt", Op: fsnotify.Write})

	if got := len(out); got != 1 {
		t.Fatalf("queued %d signals, want 1", got)
	}
}

func Test_forwarder_fullBufferDoesNotBlock(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	fwd, out := newTestForwarder(clock, 1)

	for i := 0; i < 5; i++ {
		if !fwd.handle(fsnotify.Event{Name: "x.txt", Op: fsnotify.Write}) {
			t.Errorf("step %d: handle() = false, want true", i)
		}
		clock.Advance(time.Second)
	}

	if got := len(out); got != 1 {
		t.Errorf("queued %d signals, want 1", got)
	}
}

func Test_isContentChange(t *testing.T) {
	tests := []struct {
		name string
		op   fsnotify.Op
		want bool
	}{
		{"Write", fsnotify.Write, true},
		{"Write and chmod", fsnotify.Write | fsnotify.Chmod, true},
		{"Chmod", fsnotify.Chmod, false},
		{"Create", fsnotify.Create, false},
		{"Remove", fsnotify.Remove, false},
		{"Rename", fsnotify.Rename, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isContentChange(fsnotify.Event{Name: "x", Op: tt.op}); got != tt.want {
				t.Errorf("isContentChange() = %v, want %v", got, tt.want)
			}
		})
	}
}
