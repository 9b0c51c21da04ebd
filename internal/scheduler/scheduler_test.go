package scheduler

import (
	"context"
	"errors"
	"testing"
)

type fakeChecker struct {
	count int
	err   error
}

func (f fakeChecker) DueReviewCount(ctx context.Context) (int, error) { return f.count, f.err }

type fakeNotifier struct {
	counts []int
}

func (f *fakeNotifier) SendReminder(count int) error {
	f.counts = append(f.counts, count)
	return nil
}

func TestRunManualCheckSendsReminder(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(fakeChecker{count: 7}, notifier)

	if err := s.RunManualCheck(context.Background()); err != nil {
		t.Fatalf("RunManualCheck returned error: %v", err)
	}
	if len(notifier.counts) != 1 || notifier.counts[0] != 7 {
		t.Errorf("reminders = %v, want [7]", notifier.counts)
	}
}

func TestRunManualCheckSkipsWhenNothingDue(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(fakeChecker{count: 0}, notifier)

	if err := s.RunManualCheck(context.Background()); err != nil {
		t.Fatalf("RunManualCheck returned error: %v", err)
	}
	if len(notifier.counts) != 0 {
		t.Errorf("reminders = %v, want none", notifier.counts)
	}
}

func TestRunManualCheckPropagatesBackendError(t *testing.T) {
	notifier := &fakeNotifier{}
	s := New(fakeChecker{err: errors.New("backend down")}, notifier)

	if err := s.RunManualCheck(context.Background()); err == nil {
		t.Fatal("RunManualCheck returned nil error")
	}
	if len(notifier.counts) != 0 {
		t.Errorf("reminders = %v, want none on error", notifier.counts)
	}
}

func TestNotificationWindowEnvOverride(t *testing.T) {
	t.Setenv("NOTIFICATION_START_HOUR", "10")
	t.Setenv("NOTIFICATION_END_HOUR", "20")

	start, end := notificationWindow()
	if start != 10 || end != 20 {
		t.Errorf("window = %d-%d, want 10-20", start, end)
	}
}

func TestNotificationWindowRejectsBadValues(t *testing.T) {
	t.Setenv("NOTIFICATION_START_HOUR", "25")
	t.Setenv("NOTIFICATION_END_HOUR", "not-a-number")

	start, end := notificationWindow()
	if start != DefaultNotificationStartHour || end != DefaultNotificationEndHour {
		t.Errorf("window = %d-%d, want defaults", start, end)
	}
}
