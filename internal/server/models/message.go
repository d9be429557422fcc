package models

import "time"

// Message is a single direct message. ReadAt is nil until the recipient
// marks the message read; once set it is never cleared.
//
// From/To are filled by the repository on reads that expand participant
// summaries (GetByID, ListSentBy, ListReceivedBy); they are nil on writes.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time

	From *Profile
	To   *Profile
}
