// Package contact handles contact-form intake and admin responses,
// including the outbound response email.
package contact
