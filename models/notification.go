// File: models/notification.go
package models

import "time"

type EmailRequest struct {
	ToEmail string `json:"to_email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

type EmailReceipt struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	To      string    `json:"to"`
	SentAt  time.Time `json:"sent_at"`
}

// EmailPayload is the queued form of an EmailRequest.
type EmailPayload struct {
	ID          string    `json:"id"`
	ToEmail     string    `json:"toEmail"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RequestedAt time.Time `json:"requestedAt"`
}
