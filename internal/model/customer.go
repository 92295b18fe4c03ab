package model

import "time"

// Customer mirrors the 'customers' table.
type Customer struct {
	ID           uint64
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
