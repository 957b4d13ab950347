package model

import "time"

// MediaFile records where an uploaded asset lives on the CDN bucket.
// Deleting a record does not delete the CDN object; that is a separate,
// best-effort call owned by the media service.
type MediaFile struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	PublicID     string    `json:"public_id"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mime_type"`
	Folder       string    `json:"folder"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
