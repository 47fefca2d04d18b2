package domain

import "time"

// HashTag is a normalized tag name shared across posts.
type HashTag struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
