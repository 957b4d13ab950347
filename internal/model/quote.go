package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuoteStatus is the review state of a quote request.
type QuoteStatus string

const (
	QuoteStatusNew      QuoteStatus = "new"
	QuoteStatusReviewed QuoteStatus = "reviewed"
	QuoteStatusQuoted   QuoteStatus = "quoted"
	QuoteStatusClosed   QuoteStatus = "closed"
)

// ValidQuoteStatus reports whether s is a known quote status.
func ValidQuoteStatus(s QuoteStatus) bool {
	switch s {
	case QuoteStatusNew, QuoteStatusReviewed, QuoteStatusQuoted, QuoteStatusClosed:
		return true
	}
	return false
}

// QuoteRequest is a customer's quote submission from the public form.
// Requests are never hard-deleted; admins only advance Status.
type QuoteRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Service     string          `json:"service"`
	FileOptions json.RawMessage `json:"file_options,omitempty"`
	Message     string          `json:"message,omitempty"`
	FileURL     string          `json:"file_url,omitempty"`
	CloudLink   string          `json:"cloud_link,omitempty"`
	Status      QuoteStatus     `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Validate checks the fields a submission must carry.
func (q *QuoteRequest) Validate() error {
	if q.Name == "" {
		return fmt.Errorf("name is required")
	}
	if q.Email == "" {
		return fmt.Errorf("email is required")
	}
	if q.Service == "" {
		return fmt.Errorf("service is required")
	}
	return nil
}
