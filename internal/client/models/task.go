package models

import "strings"

// StatusCompleted is the only status the client tells apart; every other
// value counts as upcoming.
const StatusCompleted = "completed"

// Task is a unit of work assigned to one employee.
type Task struct {
	ID          string `json:"_id,omitempty"`
	EmployeeID  string `json:"employeeId,omitempty"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	// Address is either a maps URL or free text.
	Address string `json:"address,omitempty"`
	Status  string `json:"status,omitempty"`
}

func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasIdentity reports whether actions may target this task.
func (t Task) HasIdentity() bool {
	return t.ID != ""
}

// IsMapLink reports whether Address should be opened as a link.
func (t Task) IsMapLink() bool {
	return strings.HasPrefix(t.Address, "http")
}

func (t Task) DisplayDescription() string {
	return orDefault(t.Description, "No description")
}

func (t Task) DisplayDate() string {
	return orDefault(t.Date, "No date")
}

func (t Task) DisplayTime() string {
	return orDefault(t.Time, "No time")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Partition splits tasks into upcoming and completed, preserving order.
// Every task lands in exactly one of the two slices.
func Partition(tasks []Task) (upcoming, completed []Task) {
	upcoming = make([]Task, 0, len(tasks))
	completed = make([]Task, 0)
	for _, t := range tasks {
		if t.IsCompleted() {
			completed = append(completed, t)
		} else {
			upcoming = append(upcoming, t)
		}
	}
	return upcoming, completed
}

// TaskDraft is the payload of a new assignment.
type TaskDraft struct {
	Description string `json:"description" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Address     string `json:"address,omitempty"`
}
