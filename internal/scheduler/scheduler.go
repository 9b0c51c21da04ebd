// Package scheduler periodically checks the backend for due reviews and
// nudges the user through a notifier.
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
)

// Default notification window (hours of the day)
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// DueChecker reports how many questions are currently due for review
type DueChecker interface {
	DueReviewCount(ctx context.Context) (int, error)
}

// Notifier interface for sending reminders
type Notifier interface {
	SendReminder(count int) error
}

// Scheduler manages the periodic due-review check
type Scheduler struct {
	scheduler *gocron.Scheduler
	backend   DueChecker
	notifier  Notifier
}

// New creates a new scheduler instance
func New(backend DueChecker, notifier Notifier) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		backend:   backend,
		notifier:  notifier,
	}
}

// Start begins running the hourly check in the background
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndRemind)
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndRemind asks the backend for due reviews and sends a reminder when
// there are any and the current hour falls inside the notification window
func (s *Scheduler) checkAndRemind() {
	currentHour := time.Now().Hour()
	startHour, endHour := notificationWindow()

	if currentHour < startHour || currentHour > endHour {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminder",
			currentHour, startHour, endHour)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.RunManualCheck(ctx); err != nil {
		log.Printf("Error checking due reviews: %v", err)
	}
}

// RunManualCheck forces one due-review check, window and schedule aside
func (s *Scheduler) RunManualCheck(ctx context.Context) error {
	count, err := s.backend.DueReviewCount(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	return s.notifier.SendReminder(count)
}

// notificationWindow reads the window from the environment, falling back to
// the defaults on absent or out-of-range values
func notificationWindow() (int, int) {
	startHour := DefaultNotificationStartHour
	endHour := DefaultNotificationEndHour

	if startHourStr := os.Getenv("NOTIFICATION_START_HOUR"); startHourStr != "" {
		if h, err := strconv.Atoi(startHourStr); err == nil && h >= 0 && h <= 23 {
			startHour = h
		}
	}
	if endHourStr := os.Getenv("NOTIFICATION_END_HOUR"); endHourStr != "" {
		if h, err := strconv.Atoi(endHourStr); err == nil && h >= 0 && h <= 23 {
			endHour = h
		}
	}
	return startHour, endHour
}
