// Package mailer provides email composition and delivery.
//
// Emails are written as markdown and rendered to HTML with goldmark;
// the markdown source doubles as the plain-text alternative. Delivery
// goes through the [Sender] interface, with a Resend implementation in
// the resend subpackage.
//
//	sender := resend.New(cfg)
//	err := mailer.Markdown(ctx, sender, "user@example.com",
//		"Re: Your message", body)
//
// [SenderFunc] adapts plain functions for tests.
package mailer
