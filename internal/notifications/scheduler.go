package notifications

import (
    "context"
    "log"
    "time"
)

// Worker polls for due scheduled jobs and dispatches them.
type Worker struct {
    service  Service
    interval time.Duration
    stopCh   chan struct{}
}

func NewWorker(service Service, interval time.Duration) *Worker {
    if interval == 0 {
        interval = time.Minute
    }
    return &Worker{
        service:  service,
        interval: interval,
        stopCh:   make(chan struct{}),
    }
}

func (w *Worker) Start(ctx context.Context) {
    log.Printf("Starting notification worker with interval: %v", w.interval)

    ticker := time.NewTicker(w.interval)
    defer ticker.Stop()

    w.process(ctx)

    for {
        select {
        case <-ticker.C:
            w.process(ctx)
        case <-w.stopCh:
            log.Println("Stopping notification worker")
            return
        case <-ctx.Done():
            log.Println("Context cancelled, stopping notification worker")
            return
        }
    }
}

func (w *Worker) Stop() {
    close(w.stopCh)
}

func (w *Worker) process(ctx context.Context) {
    if err := w.service.ProcessScheduled(ctx); err != nil {
        log.Printf("Error processing scheduled notifications: %v", err)
    }
}
