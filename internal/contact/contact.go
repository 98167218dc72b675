// Package contact validates contact form submissions and turns them into a
// mailto deep link for the visitor's mail client.
package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

var (
	ErrMissingName    = errors.New("name is required")
	ErrInvalidEmail   = errors.New("a valid email is required")
	ErrMissingMessage = errors.New("message is required")
	ErrTooLong        = errors.New("field too long")
	ErrInvalidTo      = errors.New("invalid recipient")
)

const (
	maxName    = 100
	maxEmail   = 254
	maxMessage = 5000
)

// Message is a contact form submission.
type Message struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// Normalize trims surrounding whitespace from every field.
func (m Message) Normalize() Message {
	return Message{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Message: strings.TrimSpace(m.Message),
	}
}

// Validate reports every problem with the submission.
func (m Message) Validate() error {
	var errs []error
	switch n := utf8.RuneCountInString(m.Name); {
	case n == 0:
		errs = append(errs, ErrMissingName)
	case n > maxName:
		errs = append(errs, fmt.Errorf("name: %w", ErrTooLong))
	}

	if len(m.Email) > maxEmail {
		errs = append(errs, fmt.Errorf("email: %w", ErrTooLong))
	} else if addr, err := mail.ParseAddress(m.Email); err != nil || addr.Address != m.Email {
		errs = append(errs, ErrInvalidEmail)
	}

	switch n := utf8.RuneCountInString(m.Message); {
	case n == 0:
		errs = append(errs, ErrMissingMessage)
	case n > maxMessage:
		errs = append(errs, fmt.Errorf("message: %w", ErrTooLong))
	}
	return errors.Join(errs...)
}

func (m Message) Subject() string {
	return "Message from " + m.Name
}

func (m Message) Body() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", m.Name, m.Email, m.Message)
}

// MailtoLink validates m and builds mailto:<to>?subject=...&body=... with
// every component percent-encoded (spaces as %20, which mail clients expect
// instead of +).
func MailtoLink(to string, m Message) (string, error) {
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return "", err
	}
	if addr, err := mail.ParseAddress(to); err != nil || addr.Address != to {
		return "", fmt.Errorf("%w: %q", ErrInvalidTo, to)
	}
	return "mailto:" + to + "?subject=" + escape(m.Subject()) + "&body=" + escape(m.Body()), nil
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
