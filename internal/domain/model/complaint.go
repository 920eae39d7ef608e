//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Complaint represents an environmental-issue report as returned by the
// upstream API. This service never owns complaint data; it only displays and
// forwards it.
type Complaint struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImagePath   string          `json:"imagePath,omitempty"`
	Status      ComplaintStatus `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	Category    Category        `json:"category"`
	CreatedBy   UserRef         `json:"createdBy"`
}

// Category is a complaint classification provided by the upstream API.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRef identifies the author of a complaint.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ComplaintStatus represents the triage state of a complaint.
// The upstream API uses upper-snake values.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "PENDING"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusRejected   ComplaintStatus = "REJECTED"
)

// Valid returns true if the complaint status is valid.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the complaint status.
func (s ComplaintStatus) String() string {
	return string(s)
}

// Display returns a human-readable label for UI rendering.
func (s ComplaintStatus) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// AllStatuses lists every valid status in triage order, for select inputs.
func AllStatuses() []ComplaintStatus {
	return []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected}
}

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// ComplaintInput carries the fields a user submits when creating or editing a
// complaint. The optional image travels separately as a multipart part.
type ComplaintInput struct {
	Title       string
	Description string
	CategoryID  int64
}

// Validate checks the input and returns field-level errors keyed by form
// field name.
func (in *ComplaintInput) Validate() map[string]string {
	errs := map[string]string{}

	title := strings.TrimSpace(in.Title)
	switch {
	case title == "":
		errs["title"] = "Title is required."
	case utf8.RuneCountInString(title) > maxTitleLength:
		errs["title"] = "Title must be at most 200 characters."
	}

	desc := strings.TrimSpace(in.Description)
	switch {
	case desc == "":
		errs["description"] = "Description is required."
	case utf8.RuneCountInString(desc) > maxDescriptionLength:
		errs["description"] = "Description must be at most 5000 characters."
	}

	if in.CategoryID <= 0 {
		errs["categoryId"] = "Please choose a category."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ErrUnknownStatus is returned when a status update names an invalid status.
var ErrUnknownStatus = errors.New("unknown complaint status")

// ParseStatus validates a raw status string from a form or query parameter.
func ParseStatus(raw string) (ComplaintStatus, error) {
	s := ComplaintStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}

// ComplaintStats aggregates complaints by status for dashboard display.
type ComplaintStats struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
	Rejected   int
}

// CountByStatus computes status totals over a complaint list.
func CountByStatus(complaints []Complaint) ComplaintStats {
	stats := ComplaintStats{Total: len(complaints)}
	for _, c := range complaints {
		switch c.Status {
		case StatusPending:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusResolved:
			stats.Resolved++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}
