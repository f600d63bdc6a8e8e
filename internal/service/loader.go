package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Result is the outcome of one background load.
type Result struct {
	Name  string
	Asset *Asset
	Err   error
}

// Loader decodes images on a background goroutine so the game loop never
// blocks on I/O. Results are read from Results on the game goroutine.
type Loader struct {
	svc     *ImageService
	log     *zap.Logger
	jobs    chan Source
	results chan Result
	wg      sync.WaitGroup
}

// NewLoader creates a Loader backed by svc.
func NewLoader(svc *ImageService, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		svc:     svc,
		log:     log,
		jobs:    make(chan Source, 1),
		results: make(chan Result, 1),
	}
}

// Start runs the worker until ctx is cancelled.
func (l *Loader) Start(ctx context.Context) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(ctx)
	}()
}

func (l *Loader) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case src := <-l.jobs:
			asset, err := l.svc.Load(src)
			if err != nil {
				l.log.Debug("image load failed", zap.String("name", src.Name()), zap.Error(err))
			}
			select {
			case l.results <- Result{Name: src.Name(), Asset: asset, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Request queues src for loading. It returns false if a job is already
// waiting; the caller retries on a later frame.
func (l *Loader) Request(src Source) bool {
	select {
	case l.jobs <- src:
		return true
	default:
		return false
	}
}

// Results delivers finished loads.
func (l *Loader) Results() <-chan Result {
	return l.results
}

// Wait blocks until the worker started by Start has exited.
func (l *Loader) Wait() {
	l.wg.Wait()
}
