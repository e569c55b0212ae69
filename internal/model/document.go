package model

import "time"

// Document represents the metadata of a stored patient PDF.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage, cache) without coupling to persistence.
type Document struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StorageKey  string    `json:"storage_key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	PatientID   string    `json:"patient_id"`
	UploadDate  time.Time `json:"upload_date"`
}
