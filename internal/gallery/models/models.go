// Package models holds the shared photo gallery types.
package models

import "time"

// GalleryItem is one uploaded photo visible to every authenticated
// participant.
type GalleryItem struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Caption      string    `json:"caption,omitempty"`
	UploadedBy   string    `json:"-"`
	UploaderName string    `json:"uploaderName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UploadResponse acknowledges a stored photo.
type UploadResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
