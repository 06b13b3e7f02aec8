package application

import (
	"context"
	"log"
	"time"
)

// Scheduler runs the daily reminder sweep for each configured
// association.
type Scheduler struct {
	service      *ReminderService
	associations []string
	dailyAt      string
	logger       *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(service *ReminderService, associations []string, dailyAt string, logger *log.Logger) *Scheduler {
	return &Scheduler{
		service:      service,
		associations: associations,
		dailyAt:      dailyAt,
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
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) shouldRun(now time.Time) bool {
	hour, minute, err := parseDailyAt(s.dailyAt)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}

func (s *Scheduler) runOnce(ctx context.Context) {
	for _, associationID := range s.associations {
		if associationID == "" {
			continue
		}
		decisions, err := s.service.Sweep(ctx, associationID)
		if err != nil {
			if s.logger != nil {
				s.logger.Printf("reminder sweep error: association=%s err=%v", associationID, err)
			}
			continue
		}
		if s.logger != nil {
			sent := 0
			for _, d := range decisions {
				if d.ShouldSend {
					sent++
				}
			}
			s.logger.Printf("reminder sweep: association=%s evaluated=%d sent=%d", associationID, len(decisions), sent)
		}
	}
}

func parseDailyAt(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
