package task

import (
	"math"
	"time"
)

const (
	dueCoefficient = 12.0
	doneUrgency    = -10.0
)

var priorityUrgency = map[Priority]float64{
	PriorityHigh:    6.0,
	PriorityMedium:  3.9,
	PriorityNone:    1.95,
	PriorityLow:     0.0,
	PriorityWaiting: -3.0,
}

// Urgency scores a task relative to today. Completed tasks always score
// below any open task.
func Urgency(r Record, today time.Time) float64 {
	if r.Status == StatusDone {
		return doneUrgency
	}
	return dueUrgency(r.Due, DateOf(today)) + priorityUrgency[r.Priority]
}

func dueUrgency(due *time.Time, today time.Time) float64 {
	if due == nil {
		return 0
	}
	daysOverdue := math.Round(today.Sub(DateOf(*due)).Hours() / 24)
	switch {
	case daysOverdue >= 7:
		return dueCoefficient
	case daysOverdue >= -14:
		return dueCoefficient * (0.2 + 0.8*(daysOverdue+14)/21)
	default:
		return dueCoefficient * 0.2
	}
}
