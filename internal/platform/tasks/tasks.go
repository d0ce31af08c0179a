// Package tasks corre trabajo en background de forma observable:
// cada tarea tiene nombre, sus errores/panics se loguean, y Wait()
// permite drenar (tests, shutdown graceful).
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 2 * time.Minute

type Runner struct {
	log     *zap.SugaredLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(log *zap.SugaredLogger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{log: log, timeout: timeout}
}

// Go lanza fn en una goroutine propia con context acotado.
// El caller no espera el resultado; el error queda en logs.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				r.log.Errorw("background task panicked", "task", name, "panic", p)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.log.Errorw("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait bloquea hasta que terminen todas las tareas lanzadas.
func (r *Runner) Wait() {
	r.wg.Wait()
}
