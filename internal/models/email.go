package models

import "time"

type EmailStatus string
type Folder string

const (
	EmailStatusPending   EmailStatus = "pending"
	EmailStatusSent      EmailStatus = "sent"
	EmailStatusDelivered EmailStatus = "delivered"
	EmailStatusFailed    EmailStatus = "failed"

	FolderInbox  Folder = "inbox"
	FolderOutbox Folder = "outbox"
)

type Email struct {
	ID        int         `json:"id"`
	FromEmail string      `json:"from_email"`
	ToEmail   string      `json:"to_email"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Timestamp time.Time   `json:"timestamp"`
	Status    EmailStatus `json:"status"`
}

type EmailRequest struct {
	FromEmail string `json:"from_email" binding:"required"`
	ToEmail   string `json:"to_email" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Body      string `json:"body" binding:"required"`
}
