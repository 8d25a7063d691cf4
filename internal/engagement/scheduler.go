package engagement

import (
    "context"
    "log"
    "time"
)

// Scheduler runs the nightly batch score refresh.
type Scheduler struct {
    service Service
}

func NewScheduler(service Service) *Scheduler {
    return &Scheduler{service: service}
}

func (s *Scheduler) Start(ctx context.Context) {
    // Batch refresh at 4 AM, off the evening traffic peak
    go s.runDaily(ctx, 4, 0, s.service.RefreshAllScores)
}

func (s *Scheduler) runDaily(ctx context.Context, hour, minute int, task func(context.Context) error) {
    for {
        now := time.Now()
        next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
        if now.After(next) {
            next = next.Add(24 * time.Hour)
        }

        timer := time.NewTimer(next.Sub(now))

        select {
        case <-timer.C:
            if err := task(ctx); err != nil {
                log.Printf("Engagement batch refresh failed: %v", err)
            }
        case <-ctx.Done():
            timer.Stop()
            return
        }
    }
}
