package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no body content was provided.
	ErrNoContent = errors.New("email must have content")

	// ErrRenderFailed indicates markdown rendering failed.
	ErrRenderFailed = errors.New("failed to render body")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")
)
