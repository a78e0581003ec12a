package dto

import "time"

// HubAccessResponse carries the tri-state access decision so the UI can
// distinguish "no client assigned" from "access restricted".
type HubAccessResponse struct {
	Decision string `json:"decision"`
}

// HubViewResponse is the filtered hub payload.
type HubViewResponse struct {
	Decision string               `json:"decision"`
	Messages []HubMessageResponse `json:"messages,omitempty"`
	Files    []FileResponse       `json:"files,omitempty"`
	Contacts []ContactResponse    `json:"contacts,omitempty"`
}

// HubMessageResponse is one channel entry.
type HubMessageResponse struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	ClientName *string   `json:"client_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostMessageRequest payload.
type PostMessageRequest struct {
	Body string `json:"body"`
}

// ContactGrantRequest payload.
type ContactGrantRequest struct {
	ContactID string `json:"contact_id"`
}

// ContactResponse metadata.
type ContactResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// FileResponse metadata.
type FileResponse struct {
	ID              string    `json:"id"`
	WorkOrderID     string    `json:"work_order_id"`
	FileName        string    `json:"file_name"`
	Category        string    `json:"category,omitempty"`
	MimeType        string    `json:"mime_type,omitempty"`
	SizeBytes       int64     `json:"size_bytes"`
	VisibleToClient bool      `json:"visible_to_client"`
	CreatedAt       time.Time `json:"created_at"`
}

// AddFileRequest describes uploaded file metadata.
type AddFileRequest struct {
	FileName   string `json:"file_name"`
	Category   string `json:"category"`
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// ToggleVisibilityRequest payload.
type ToggleVisibilityRequest struct {
	Visible bool `json:"visible"`
}
