package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLoggedIn            = "session.logged_in"
	EventTypeTimeSheetUpdated    = "timesheet.updated"
	EventTypeSubmissionCompleted = "submission.completed"
)

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type LoggedInEvent struct {
	BaseEvent
	SupervisorID string `json:"supervisor_id"`
	Email        string `json:"email"`
}

func NewLoggedInEvent(supervisorID, email string) *LoggedInEvent {
	return &LoggedInEvent{
		BaseEvent: newBase(EventTypeLoggedIn, map[string]interface{}{
			"supervisor_id": supervisorID,
			"email":         email,
		}),
		SupervisorID: supervisorID,
		Email:        email,
	}
}

type TimeSheetUpdatedEvent struct {
	BaseEvent
	SupervisorID  string  `json:"supervisor_id"`
	EmployeeID    string  `json:"employee_id"`
	WeekStartDate string  `json:"week_start_date"`
	Date          string  `json:"date"`
	Hours         float64 `json:"hours"`
}

func NewTimeSheetUpdatedEvent(supervisorID, employeeID, week, date string, hours float64) *TimeSheetUpdatedEvent {
	return &TimeSheetUpdatedEvent{
		BaseEvent: newBase(EventTypeTimeSheetUpdated, map[string]interface{}{
			"supervisor_id":   supervisorID,
			"employee_id":     employeeID,
			"week_start_date": week,
			"date":            date,
			"hours":           hours,
		}),
		SupervisorID:  supervisorID,
		EmployeeID:    employeeID,
		WeekStartDate: week,
		Date:          date,
		Hours:         hours,
	}
}

type SubmissionCompletedEvent struct {
	BaseEvent
	SupervisorID  string  `json:"supervisor_id"`
	WeekStartDate string  `json:"week_start_date"`
	Records       int     `json:"records"`
	GrandTotal    float64 `json:"grand_total"`
	SinkOK        bool    `json:"sink_ok"`
	Drafted       bool    `json:"drafted"`
}

func NewSubmissionCompletedEvent(supervisorID, week string, records int, grandTotal float64, sinkOK, drafted bool) *SubmissionCompletedEvent {
	return &SubmissionCompletedEvent{
		BaseEvent: newBase(EventTypeSubmissionCompleted, map[string]interface{}{
			"supervisor_id":   supervisorID,
			"week_start_date": week,
			"records":         records,
			"grand_total":     grandTotal,
			"sink_ok":         sinkOK,
			"drafted":         drafted,
		}),
		SupervisorID:  supervisorID,
		WeekStartDate: week,
		Records:       records,
		GrandTotal:    grandTotal,
		SinkOK:        sinkOK,
		Drafted:       drafted,
	}
}

// LogHandler records every event it receives at info level.
func LogHandler(logger *slog.Logger) Handler {
	return func(_ context.Context, event Event) error {
		logger.Info("event", "event_type", event.EventType(), "event_id", event.EventID(), "payload", event.Payload())
		return nil
	}
}
