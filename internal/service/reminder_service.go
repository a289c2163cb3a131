package service

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"lingoloop/internal/repository"
)

// DigestSource provides the pending review counts for reminder emails
type DigestSource interface {
	GetDueDigests(now time.Time) ([]repository.DueDigest, error)
}

// ReminderService runs the hourly reminder job: every user with reminders
// enabled and a non-empty due set gets one digest email. The job only reads
// review state, never mutates it.
type ReminderService struct {
	source    DigestSource
	email     *EmailService
	scheduler *gocron.Scheduler
	startHour int
	endHour   int
}

// NewReminderService creates the reminder job. Digests are only sent when
// the local hour falls within [startHour, endHour].
func NewReminderService(source DigestSource, email *EmailService, startHour, endHour int) *ReminderService {
	return &ReminderService{
		source:    source,
		email:     email,
		scheduler: gocron.NewScheduler(time.UTC),
		startHour: startHour,
		endHour:   endHour,
	}
}

// Start begins the hourly digest job in the background
func (s *ReminderService) Start() {
	s.scheduler.Every(1).Hour().Do(s.sendDigests)
	s.scheduler.StartAsync()
}

// Stop terminates the digest job
func (s *ReminderService) Stop() {
	s.scheduler.Stop()
}

func (s *ReminderService) sendDigests() {
	if !s.email.IsEnabled() {
		return
	}

	now := time.Now()
	hour := now.Hour()
	if hour < s.startHour || hour > s.endHour {
		log.Printf("Hour %d outside reminder window (%d-%d), skipping digests", hour, s.startHour, s.endHour)
		return
	}

	digests, err := s.source.GetDueDigests(now.UTC())
	if err != nil {
		log.Printf("Error loading due digests: %v", err)
		return
	}

	sent := 0
	for _, d := range digests {
		if err := s.email.SendReviewDigest(context.Background(), d.Email, d.Name, d.DueCount); err != nil {
			log.Printf("Error sending digest to user %d: %v", d.UserID, err)
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Printf("Sent %d review digest(s)", sent)
	}
}
