package runner

import "context"

// Service is a unit of work supervised by a Runner. Run is invoked on its
// own goroutine after the runner's lifecycle enters STARTING; it should
// block until the context is cancelled or the work is done.
//
// A nil or context.Canceled return is a clean exit. Any other error marks
// the runner's lifecycle FAILED and triggers shutdown of the remaining
// services.
type Service interface {
	// Name identifies the service in logs and events.
	Name() string

	// Run performs the work of the service.
	Run(ctx context.Context) error
}

// ServiceFunc adapts a plain function into a named Service.
func ServiceFunc(name string, run func(ctx context.Context) error) Service {
	return funcService{name: name, run: run}
}

type funcService struct {
	name string
	run  func(ctx context.Context) error
}

func (s funcService) Name() string                  { return s.name }
func (s funcService) Run(ctx context.Context) error { return s.run(ctx) }
