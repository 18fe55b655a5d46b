package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/storefront/pkg/mailer"
	"github.com/dmitrymomot/storefront/pkg/sanitizer"
)

// Repository is the storage contract for contact submissions.
type Repository interface {
	Insert(ctx context.Context, c Contact) (Contact, error)
	FindByID(ctx context.Context, id string) (Contact, error)
	Find(ctx context.Context, page, limit int, status Status) ([]Contact, int64, error)
	Update(ctx context.Context, c Contact) (Contact, error)
	Delete(ctx context.Context, id string) error
}

// Service handles contact-form intake and admin responses.
type Service struct {
	repo   Repository
	sender mailer.Sender
	log    *slog.Logger
}

func NewService(repo Repository, sender mailer.Sender, log *slog.Logger) *Service {
	return &Service{repo: repo, sender: sender, log: log}
}

// Submit stores a new contact-form submission. Free-text fields are
// stripped of any markup before storage.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Contact, error) {
	name := sanitizer.StripAndTrim(in.Name)
	email := strings.TrimSpace(in.Email)
	message := sanitizer.StripAndTrim(in.Message)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if message == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return Contact{}, fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}

	return s.repo.Insert(ctx, Contact{
		Name:        name,
		Email:       email,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Message:     message,
		Status:      StatusNew,
	})
}

// List returns one page of submissions, newest first, optionally
// filtered by status ("all" or empty means no filter).
func (s *Service) List(ctx context.Context, page, limit int, status Status) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if status == "all" {
		status = ""
	}
	if status != "" && !status.Valid() {
		return ListResult{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	contacts, total, err := s.repo.Find(ctx, page, limit, status)
	if err != nil {
		return ListResult{}, err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return ListResult{
		Contacts:    contacts,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Get returns a submission and promotes a new one to read, so opening
// it in the admin panel marks it seen.
func (s *Service) Get(ctx context.Context, id string) (Contact, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}

	if c.Status == StatusNew {
		c.Status = StatusRead
		if c, err = s.repo.Update(ctx, c); err != nil {
			return Contact{}, err
		}
	}

	return c, nil
}

// Update applies an admin patch. When the status moves to responded
// with a non-empty response, the response is emailed to the contact;
// a failed send is logged and swallowed so the update itself never
// fails on email trouble.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, adminID string) (Contact, error) {
	if in.Status != "" && !in.Status.Valid() {
		return Contact{}, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}

	if in.Status != "" {
		c.Status = in.Status
	}

	response := sanitizer.StripAndTrim(in.Response)
	if response != "" {
		c.Response = response
		if in.Status == StatusResponded {
			now := time.Now()
			c.RespondedBy = adminID
			c.RespondedAt = &now

			if c.Email != "" {
				if err := s.sendResponse(ctx, c, response); err != nil {
					s.log.ErrorContext(ctx, "failed to send contact response email",
						"contact_id", c.ID, "error", err)
				}
			}
		}
	}

	return s.repo.Update(ctx, c)
}

// Delete removes a submission permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) sendResponse(ctx context.Context, c Contact, response string) error {
	body := fmt.Sprintf(`Hello %s,

Thank you for contacting us. We appreciate your message.

You wrote:

> %s

Here is our response:

%s

If you have any further questions, please don't hesitate to contact us again.

Best regards,
Customer Support Team`,
		c.Name,
		strings.ReplaceAll(c.Message, "\n", "\n> "),
		response,
	)

	return mailer.Markdown(ctx, s.sender, c.Email, "Re: Your message to our store", body)
}
