package models

import "time"

// Package is a catalog entry describing a priced subscription offering.
// At most one active package may carry a given name.
type Package struct {
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"duration_days"`
	Features     []string  `json:"features"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultPackageDuration is the renewal offset, in days, used when a
// subscription references no resolvable package.
const DefaultPackageDuration = 30

// DummyPackage receives package data from a JSON request.
type DummyPackage struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price" validate:"gte=0"`
	DurationDays int      `json:"duration_days,omitempty" validate:"omitempty,gt=0"`
	Features     []string `json:"features,omitempty"`
}

// PackagePatch is the storage-level partial update for a package.
// Only non-nil fields are applied; a nil Features slice means "unchanged".
type PackagePatch struct {
	Name         *string
	Description  *string
	Price        *float64
	DurationDays *int
	Features     []string
}
