package mailer

import (
	"bytes"
	"context"
	"errors"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// RenderMarkdown converts a markdown body into HTML suitable for an
// email. The plain markdown source doubles as the text alternative.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", errors.Join(ErrRenderFailed, err)
	}
	return buf.String(), nil
}

// Markdown builds an Email from a markdown body and sends it.
// The rendered HTML becomes the HTML part; the raw markdown becomes the
// text alternative.
func Markdown(ctx context.Context, sender Sender, to, subject, body string) error {
	if to == "" {
		return ErrNoRecipient
	}
	if subject == "" {
		return ErrNoSubject
	}
	if body == "" {
		return ErrNoContent
	}

	html, err := RenderMarkdown(body)
	if err != nil {
		return err
	}

	email := &Email{
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    body,
	}

	if err := sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}
