package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactSubmission represents a single inquiry sent through the contact form
type ContactSubmission struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone,omitempty"`
	Subject   string           `json:"subject,omitempty"`
	Message   string           `json:"message"`
	Company   string           `json:"company,omitempty"`
	Source    string           `json:"source"`
	Status    SubmissionStatus `json:"status"`
	Reply     *string          `json:"reply,omitempty"`
	RepliedAt *time.Time       `json:"repliedAt,omitempty"`
	IPAddress string           `json:"ipAddress"`
	UserAgent string           `json:"userAgent"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
