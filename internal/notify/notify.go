// Package notify is the outbound feedback sink: spoken coaching lines,
// named sounds and scheduled reminders. Calls are fire-and-forget; the
// engine never consumes a return value from them. The implementation is
// injected from the composition root rather than held in package state, so
// tests and alternative sinks can swap it out.
package notify

import (
	"log"
	"time"
)

// Notifier accepts feedback requests from the engine.
type Notifier interface {
	Speak(message string)
	PlaySound(name string)
	// ScheduleReminder fires a one-shot reminder after the delay.
	ScheduleReminder(delay time.Duration, title, body string)
	// ScheduleDailyReminder arranges a recurring reminder at the given local
	// time of day.
	ScheduleDailyReminder(hour, minute int, title, body string)
}

// Coaching lines spoken around session transitions, matching the mobile app.
const (
	MsgSessionStarted  = "Workout started! Let's make this an amazing eco-friendly session!"
	MsgSessionPaused   = "Workout paused. Take your time!"
	MsgPausedTooLong   = "Still paused? Your workout is waiting for you!"
	TitlePausedTooLong = "Workout on hold"
	MsgSessionResumed  = "Back to action! You've got this!"
	MsgDailyReminder   = "Don't forget - have you reached your step goal?"
	TitleDailyReminder = "GreenSteps Reminder"
)

// LogNotifier writes feedback to the server log. It stands in for the
// on-device speech/audio/notification bindings, which are out of scope here.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Speak(message string) {
	log.Printf("SPEAK: %s", message)
}

func (n *LogNotifier) PlaySound(name string) {
	log.Printf("SOUND: %s", name)
}

func (n *LogNotifier) ScheduleReminder(delay time.Duration, title, body string) {
	time.AfterFunc(delay, func() {
		log.Printf("REMINDER: %s - %s", title, body)
	})
}

func (n *LogNotifier) ScheduleDailyReminder(hour, minute int, title, body string) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !next.After(now) {
				next = next.AddDate(0, 0, 1)
			}
			time.Sleep(time.Until(next))
			log.Printf("REMINDER: %s - %s", title, body)
		}
	}()
}
