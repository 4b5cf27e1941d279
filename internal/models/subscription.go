package models

import "time"

// SubscriptionRecord keys the access grant of a single user by email.
// SubscriptionEnd may be nil, which means the user holds no active
// time-limited grant; an administrator record is valid without one.
type SubscriptionRecord struct {
	Email           string     // Case-sensitive unique key
	SubscriptionEnd *time.Time // Expiry of the paid or trial grant
	IsAdmin         bool       // Administrator flag, independent of the grant
}

// Category is a bilingual name pair seeded at store initialization.
// Both names are globally unique.
type Category struct {
	ID     int64
	NameFR string // French name
	NameSE string // Swedish name
}
