package eventloop

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"element-inspector/src/inspect"
)

type fakeSink struct {
	shown  chan string
	mu     sync.Mutex
	status []string
	statCh chan string
}

func newFakeSink() *fakeSink {
	return &fakeSink{shown: make(chan string, 4), statCh: make(chan string, 16)}
}

func (s *fakeSink) Show(text string) { s.shown <- text }

func (s *fakeSink) Status(msg string) {
	s.mu.Lock()
	s.status = append(s.status, msg)
	s.mu.Unlock()
	s.statCh <- msg
}

type describeFunc func(p inspect.Point, backend string) string

func (f describeFunc) Describe(p inspect.Point, backend string) string { return f(p, backend) }

func waitStatus(t *testing.T, s *fakeSink, prefix string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-s.statCh:
			if strings.HasPrefix(msg, prefix) {
				return
			}
		case <-deadline:
			t.Fatalf("no status starting with %q", prefix)
		}
	}
}

func TestTriggerDeliversReport(t *testing.T) {
	sink := newFakeSink()
	flag := inspect.NewBackendFlag(inspect.BackendWin32)
	var busyCalls []bool
	l := New(Options{
		Cursor:  func() inspect.Point { return inspect.Point{X: 10, Y: 20} },
		Backend: flag,
		Describer: describeFunc(func(p inspect.Point, backend string) string {
			return p.String() + "/" + backend
		}),
		Sink:   sink,
		OnBusy: func(b bool) { busyCalls = append(busyCalls, b) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	l.Trigger()
	select {
	case got := <-sink.shown:
		if got != "(10, 20)/win32" {
			t.Errorf("shown = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("report never shown")
	}
	waitStatus(t, sink, "Inspected (10, 20)")

	cancel()
	<-done
	if len(busyCalls) != 2 || !busyCalls[0] || busyCalls[1] {
		t.Errorf("busy transitions = %v, want [true false]", busyCalls)
	}
}

func TestTriggerWhileBusy(t *testing.T) {
	sink := newFakeSink()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	l := New(Options{
		Cursor: func() inspect.Point { return inspect.Point{} },
		Describer: describeFunc(func(inspect.Point, string) string {
			started <- struct{}{}
			<-release
			return "report"
		}),
		Sink: sink,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	l.Trigger()
	<-started
	l.Trigger()
	waitStatus(t, sink, ErrBusy.Error())

	close(release)
	select {
	case <-sink.shown:
	case <-time.After(2 * time.Second):
		t.Fatal("first report never shown")
	}
	cancel()
	<-done
}

func TestDeadlineReportsFailure(t *testing.T) {
	sink := newFakeSink()
	block := make(chan struct{})
	defer close(block)
	l := New(Options{
		Describer: describeFunc(func(inspect.Point, string) string {
			<-block
			return ""
		}),
		Sink:     sink,
		Deadline: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.Trigger()
	waitStatus(t, sink, "Inspection failed")
}

func TestTriggerNeverBlocks(t *testing.T) {
	l := New(Options{Describer: describeFunc(func(inspect.Point, string) string { return "" })})
	for i := 0; i < 100; i++ {
		l.Trigger()
	}
	if l.Deadline() != defaultDeadline {
		t.Errorf("Deadline = %v", l.Deadline())
	}
}
