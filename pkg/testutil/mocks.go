package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/arthur-debert/dotinstall/pkg/types"
)

// MockRunner is a testify mock of shell.Runner
type MockRunner struct {
	mock.Mock
}

// Run records the call and returns the configured error
func (m *MockRunner) Run(ctx context.Context, command string) error {
	args := m.Called(ctx, command)
	return args.Error(0)
}

// Recorder collects installer events
type Recorder struct {
	mu     sync.Mutex
	Events []types.Event
}

// Report implements types.Reporter
func (r *Recorder) Report(e types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, e)
}

// Kinds returns the kinds of the recorded events, in order
func (r *Recorder) Kinds() []types.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]types.EventKind, 0, len(r.Events))
	for _, e := range r.Events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
