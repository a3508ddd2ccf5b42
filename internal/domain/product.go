package domain

import "time"

// Product is a catalog entry. Seq is the human-facing id, StorageID the
// identifier assigned by the backing store.
type Product struct {
	StorageID   string
	Seq         int64
	Name        string
	Image       string
	Category    string
	NewPrice    float64
	OldPrice    float64
	Description string
	CreatedAt   time.Time
	Available   bool
}
