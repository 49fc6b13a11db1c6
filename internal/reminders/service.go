// Package reminders notifies the user before an upcoming reservation
// starts. It reads from the local history cache, sends through a
// pluggable Sender, and marks each reservation so it is reminded at
// most once.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mdayat/artics-communication/internal/models"
)

// Config holds configuration for the reminder service.
type Config struct {
	// CheckInterval is how often to look for upcoming reservations.
	// Default: 15 minutes.
	CheckInterval time.Duration

	// Before is how long before the slot start to remind.
	// Default: 24 hours.
	Before time.Duration

	// SendRate limits outgoing notifications per second.
	// Default: 1/s with a burst of 5.
	SendRate  float64
	SendBurst int
}

// ReservationSource supplies reservations due for a reminder.
// Satisfied by store.DB.
type ReservationSource interface {
	UpcomingUnreminded(ctx context.Context, now, until time.Time) ([]*models.UserReservation, error)
	MarkReminded(ctx context.Context, id string) error
}

// Sender delivers a reminder text to the user.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Service runs the periodic reminder check.
type Service struct {
	config  Config
	source  ReservationSource
	sender  Sender
	limiter *rate.Limiter
	logger  zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewService(config Config, source ReservationSource, sender Sender, logger zerolog.Logger) *Service {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 15 * time.Minute
	}
	if config.Before <= 0 {
		config.Before = 24 * time.Hour
	}
	if config.SendRate <= 0 {
		config.SendRate = 1
	}
	if config.SendBurst <= 0 {
		config.SendBurst = 5
	}

	return &Service{
		config:  config,
		source:  source,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(config.SendRate), config.SendBurst),
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Start begins the check loop. Safe to call once.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info().
		Dur("check_interval", s.config.CheckInterval).
		Dur("before", s.config.Before).
		Msg("reminder service started")
}

// Stop stops the loop and waits for the in-flight check to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	s.CheckOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.CheckOnce(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// CheckOnce runs a single reminder pass.
func (s *Service) CheckOnce(ctx context.Context) {
	now := time.Now()
	due, err := s.source.UpcomingUnreminded(ctx, now, now.Add(s.config.Before))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load upcoming reservations")
		return
	}

	for _, r := range due {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		if err := s.sender.Send(ctx, reminderText(r)); err != nil {
			// Leave unmarked; the next pass retries while the slot is
			// still upcoming.
			s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to send reminder")
			continue
		}
		if err := s.source.MarkReminded(ctx, r.ID); err != nil {
			s.logger.Error().Err(err).Str("reservation_id", r.ID).Msg("failed to mark reservation reminded")
		}
	}
}

func reminderText(r *models.UserReservation) string {
	return fmt.Sprintf(
		"Reminder: you reserved %s from %s until %s",
		r.MeetingRoom.Name,
		r.TimeSlot.StartDate.Format("Jan 2, 2006 at 3:04 PM"),
		r.TimeSlot.EndDate.Format("Jan 2, 2006 at 3:04 PM"),
	)
}
