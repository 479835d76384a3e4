package pitchdecks

import "time"

type PitchDeck struct {
	ID          int64     `json:"id"`
	StartupID   int64     `json:"startup_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"-"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	IsPublic    bool      `json:"is_public"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UploadInput carries the form fields that accompany an uploaded file.
type UploadInput struct {
	Title       string
	Description string
	FileName    string
	IsPublic    bool
}

type UpdateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}
