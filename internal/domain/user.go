package domain

import "time"

// User represents a registered shopper together with their cart.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Cart         Cart
	CreatedAt    time.Time
}
