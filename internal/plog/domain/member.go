// Package domain holds the core entities of the blog platform. These types are
// storage-agnostic; drivers map rows into them and services operate on them.
package domain

import "time"

// Member is a registered account. Email is the unique login identifier and is
// also the subject of issued tokens.
type Member struct {
	ID             int64
	Email          string
	PasswordHash   string
	Nickname       string
	ProfileImageID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
