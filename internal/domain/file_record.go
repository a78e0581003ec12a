package domain

import "time"

// FileRecord is uploaded file metadata attached to a work order. Blob storage
// itself is external; StorageKey points into it. VisibleToClient may only
// change through the visibility policy.
type FileRecord struct {
	ID              string
	WorkOrderID     string
	FileName        string
	Category        string
	StorageKey      string
	MimeType        string
	SizeBytes       int64
	VisibleToClient bool
	UploadedByID    string
	CreatedAt       time.Time
}
