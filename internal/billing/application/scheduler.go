package application

import (
	"context"
	"log"
	"time"
)

// Scheduler triggers monthly billing runs. Runs may also be triggered
// manually by the host application; the scheduler is just the unattended
// path.
type Scheduler struct {
	service      *BillRunService
	associations []string
	runDay       int
	runAt        string
	logger       *log.Logger
}

// NewScheduler constructs a Scheduler that fires on runDay of each month
// at runAt (HH:MM, UTC).
func NewScheduler(service *BillRunService, associations []string, runDay int, runAt string, logger *log.Logger) *Scheduler {
	return &Scheduler{
		service:      service,
		associations: associations,
		runDay:       runDay,
		runAt:        runAt,
		logger:       logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.service == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if !s.shouldRun(now.UTC()) {
				continue
			}
			s.runOnce(ctx, now.UTC())
		}
	}
}

func (s *Scheduler) shouldRun(now time.Time) bool {
	if now.Day() != s.runDay {
		return false
	}
	hour, minute, err := parseRunAt(s.runAt)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}

func (s *Scheduler) runOnce(ctx context.Context, now time.Time) {
	for _, associationID := range s.associations {
		if associationID == "" {
			continue
		}
		run, err := s.service.Run(ctx, RunRequest{
			AssociationID: associationID,
			Month:         now.Month(),
			Year:          now.Year(),
		})
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("billing run error: association=%s err=%v", associationID, err)
			}
			continue
		}
		if s.logger != nil {
			s.logger.Printf("billing run: association=%s period=%s billed=%d skipped=%d total=%s",
				associationID, run.Period, run.UnitsBilled, len(run.Failures), run.GrandTotal.StringFixed(2))
		}
	}
}

func parseRunAt(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
