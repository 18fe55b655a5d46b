package contact

import "time"

// Status tracks the handling state of a contact-form submission.
type Status string

const (
	StatusNew       Status = "new"
	StatusRead      Status = "read"
	StatusResponded Status = "responded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusRead, StatusResponded:
		return true
	}
	return false
}

// Contact is a single contact-form submission.
type Contact struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Message     string     `json:"message"`
	Status      Status     `json:"status"`
	Response    string     `json:"response,omitempty"`
	RespondedBy string     `json:"respondedBy,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SubmitInput is the public contact-form payload.
type SubmitInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// UpdateInput is the admin patch: either field may be empty to leave
// it unchanged.
type UpdateInput struct {
	Status   Status `json:"status"`
	Response string `json:"response"`
}

// ListResult is one page of submissions.
type ListResult struct {
	Contacts    []Contact `json:"contacts"`
	Total       int64     `json:"total"`
	TotalPages  int64     `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}
