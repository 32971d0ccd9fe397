package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/types"
	"github.com/jonathan/resume-analyzer/internal/vocab"
)

var testStart = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

const testResume = `Jane Doe
jane.doe@example.com | (555) 123-4567

SUMMARY
Backend engineer with eight years of experience building payment systems.

EXPERIENCE
Senior Software Engineer at Acme Corp
Jan 2020 - Present
- Increased application performance by 40%
- Led a team of 5 developers
- Did various programming tasks

EDUCATION
B.S. Computer Science, State University, 2016

SKILLS
Go, Python, JavaScript, AWS, Docker
`

const testJob = `Requirements:
- Python and JavaScript
- React experience
Nice to have:
- Node.js, AWS, Docker
`

// recordingPublisher keeps every event in publish order
type recordingPublisher struct {
	mu     sync.Mutex
	events []types.ProgressEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e types.ProgressEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) For(id string) []types.ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []types.ProgressEvent
	for _, e := range p.events {
		if e.AnalysisID == id {
			out = append(out, e)
		}
	}
	return out
}

func testVocab(t *testing.T) *vocab.Vocabulary {
	t.Helper()
	v, err := vocab.Default()
	require.NoError(t, err)
	return v
}

func newTestOrchestrator(t *testing.T, mutate func(*Options)) (*Orchestrator, *recordingPublisher, *ManualClock) {
	t.Helper()
	clock := NewManualClock(testStart)
	pub := &recordingPublisher{}
	opts := Options{
		StepFloor: DefaultStepFloor,
		Clock:     clock,
		Publisher: pub,
	}
	if mutate != nil {
		mutate(&opts)
	}
	o, err := New(testVocab(t), opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.Shutdown(ctx)
	})
	return o, pub, clock
}

func waitResult(t *testing.T, o *Orchestrator, id string) *types.AnalysisResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r, err := o.Wait(ctx, id)
	require.NoError(t, err)
	return r
}

// gate blocks a step until released and reports when it has been entered
type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (g *gate) open() {
	g.once.Do(func() { close(g.release) })
}

func (g *gate) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("step was never entered")
	}
}

// blockingStep waits for the gate or the run context
func (g *gate) blockingStep(next stepFunc) stepFunc {
	return func(ctx context.Context, run *runState) error {
		g.entered <- struct{}{}
		select {
		case <-g.release:
			return next(ctx, run)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// stubbornStep waits for the gate and ignores cancellation
func (g *gate) stubbornStep(next stepFunc) stepFunc {
	return func(ctx context.Context, run *runState) error {
		g.entered <- struct{}{}
		<-g.release
		return next(context.WithoutCancel(ctx), run)
	}
}

var errBoom = errors.New("boom")
