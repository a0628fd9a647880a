package models

import "time"

// ContactSubmission is write-once: created by the public contact form and
// only ever read back by admins.
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Company   *string
	Service   string
	Message   string
	Consent   bool
	CreatedAt time.Time
}
