package domain

import "time"

type ImageStatus string

const (
	// ImageStatusPending marks an uploaded image not yet referenced by a post
	// or profile. Pending images are reaped after a grace period.
	ImageStatusPending ImageStatus = "PENDING"

	ImageStatusUsed ImageStatus = "USED"
)

// Image is an uploaded file record. StoredName is the server-assigned object
// key; OriginalName is kept for display only.
type Image struct {
	ID           int64
	MemberID     int64
	StoredName   string
	OriginalName string
	Status       ImageStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
