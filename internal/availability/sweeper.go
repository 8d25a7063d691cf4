package availability

import (
    "context"
    "log"
    "time"
)

// Sweeper periodically flips expired modes to inactive so the partial
// unique index releases the user's slot. Reads never depend on it
// having run; it only reconciles storage with what readers already see.
type Sweeper struct {
    service  Service
    interval time.Duration
    stop     chan struct{}
}

func NewSweeper(service Service, interval time.Duration) *Sweeper {
    return &Sweeper{
        service:  service,
        interval: interval,
        stop:     make(chan struct{}),
    }
}

func (s *Sweeper) Start() {
    go s.run()
    log.Printf("Availability sweeper started (every %s)", s.interval)
}

func (s *Sweeper) Stop() {
    close(s.stop)
}

func (s *Sweeper) run() {
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()

    for {
        select {
        case <-ticker.C:
            s.sweep()
        case <-s.stop:
            return
        }
    }
}

func (s *Sweeper) sweep() {
    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    count, err := s.service.SweepExpired(ctx)
    if err != nil {
        log.Printf("Availability sweep failed: %v", err)
        return
    }
    if count > 0 {
        recordSwept(count)
        log.Printf("Availability sweep deactivated %d expired modes", count)
    }
}
