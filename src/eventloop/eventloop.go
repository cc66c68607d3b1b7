package eventloop

import (
	"context"
	"errors"
	"log"
	"time"

	"element-inspector/src/hotkey"
	"element-inspector/src/inspect"
	"element-inspector/src/worker"
)

const defaultDeadline = 20 * time.Second

var ErrBusy = errors.New("busy, please retry")

// Sink receives finished reports. Implementations must be safe to call from
// the loop goroutine and hand the text to their own UI goroutine.
type Sink interface {
	Show(text string)
	Status(msg string)
}

// Options wires the loop to its collaborators.
type Options struct {
	Cursor    func() inspect.Point
	Backend   *inspect.BackendFlag
	Describer worker.Describer
	Sink      Sink
	// Deadline bounds a single resolution; 20s when zero.
	Deadline time.Duration
	// OnBusy is told when the loop enters or leaves a resolution.
	OnBusy func(busy bool)
}

// Loop is the single-threaded coordinator for hotkey and menu triggers.
type Loop struct {
	opts     Options
	pool     *worker.Pool
	busy     bool
	results  chan result
	hotkeyCh chan struct{}
	deadline time.Duration
}

type result struct {
	text   string
	err    error
	point  inspect.Point
	cancel context.CancelFunc
}

func New(opts Options) *Loop {
	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = defaultDeadline
	}
	if opts.Backend == nil {
		opts.Backend = inspect.NewBackendFlag(inspect.BackendUIA)
	}
	return &Loop{
		opts:     opts,
		pool:     worker.New(1, opts.Describer),
		results:  make(chan result, 1),
		hotkeyCh: make(chan struct{}, 4),
		deadline: deadline,
	}
}

// Trigger asks for an inspection at the current cursor position. It never
// blocks; triggers beyond the channel buffer are dropped.
func (l *Loop) Trigger() {
	select {
	case l.hotkeyCh <- struct{}{}:
	default:
	}
}

// StartHotkey registers a global hotkey and posts events into the loop.
func (l *Loop) StartHotkey(combo string) (*hotkey.Listener, error) {
	if combo == "" {
		return nil, nil
	}
	return hotkey.Listen(combo, l.Trigger)
}

// Run processes triggers and results until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.pool.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.hotkeyCh:
			l.handleTrigger(ctx)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if l.opts.OnBusy != nil {
		l.opts.OnBusy(b)
	}
}

func (l *Loop) handleTrigger(ctx context.Context) {
	if l.busy {
		log.Printf("handleTrigger: busy, skipping")
		l.status(ErrBusy.Error())
		return
	}

	p := l.cursor()
	b := l.opts.Backend.Load()
	log.Printf("handleTrigger: inspecting %s with backend %s", p, b)

	jobCtx, cancel := context.WithTimeout(ctx, l.deadline)
	l.setBusy(true)
	l.status("Inspecting " + p.String() + "...")
	submitted := l.pool.Submit(jobCtx, worker.Request{Point: p, Backend: b}, func(text string, err error) {
		l.results <- result{text: text, err: err, point: p, cancel: cancel}
	})
	if !submitted {
		cancel()
		l.setBusy(false)
		l.status(ErrBusy.Error())
	}
}

func (l *Loop) handleResult(res result) {
	defer func() {
		l.setBusy(false)
		if res.cancel != nil {
			res.cancel()
		}
	}()
	if res.err != nil {
		log.Printf("handleResult: %s: %v", res.point, res.err)
		l.status("Inspection failed: " + res.err.Error())
		return
	}
	if l.opts.Sink != nil {
		l.opts.Sink.Show(res.text)
	}
	l.status("Inspected " + res.point.String())
}

func (l *Loop) cursor() inspect.Point {
	if l.opts.Cursor == nil {
		return inspect.Point{}
	}
	return l.opts.Cursor()
}

func (l *Loop) status(msg string) {
	if l.opts.Sink != nil {
		l.opts.Sink.Status(msg)
	}
}

// Deadline returns the configured resolution deadline for this loop.
func (l *Loop) Deadline() time.Duration { return l.deadline }
