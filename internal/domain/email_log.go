package domain

import "time"

type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

type EmailLog struct {
	ID           uint
	OrderID      *uint
	Recipient    string
	Subject      string
	Template     string
	Status       EmailStatus
	ErrorMessage *string
	CreatedAt    time.Time
}
