package models

import "time"

// ApplicationStatus is the terminal outcome kind of one application attempt.
type ApplicationStatus string

const (
	StatusSuccess    ApplicationStatus = "success"
	StatusFailure    ApplicationStatus = "failure"
	StatusIncomplete ApplicationStatus = "incomplete"
)

// JobContext describes one job posting for the duration of a single
// application attempt. It is created at wizard entry and treated as
// immutable until the attempt terminates.
type JobContext struct {
	ID          string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Location    string `json:"location"`

	// EntryAlreadyTriggered indicates the caller already clicked the
	// Easy Apply control before handing the page to the wizard.
	EntryAlreadyTriggered bool `json:"-"`
}

// ApplicationOutcome is the result of one application attempt.
type ApplicationOutcome struct {
	Status    ApplicationStatus `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Job       *JobContext       `json:"job,omitempty"`
}
