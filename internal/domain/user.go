package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role tags a user. Roles are carried in tokens but no handler checks them.
type Role string

const (
	RoleUser Role = "user"
)

// MeasurementSystem is the user's preferred unit system.
type MeasurementSystem string

const (
	MeasurementMetric   MeasurementSystem = "metric"
	MeasurementImperial MeasurementSystem = "imperial"
)

// Preferences holds per-user dashboard settings.
type Preferences struct {
	WeeklyGoal        int               `bson:"weeklyGoal"`
	MeasurementSystem MeasurementSystem `bson:"measurementSystem"`
	RemindersEnabled  bool              `bson:"remindersEnabled"`
}

// DefaultPreferences returns the preferences a newly registered user starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		WeeklyGoal:        4,
		MeasurementSystem: MeasurementMetric,
		RemindersEnabled:  true,
	}
}

// User represents a registered account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"firstName"`
	LastName     string             `bson:"lastName"`
	Email        string             `bson:"email"`        // Unique, stored lowercased
	PasswordHash string             `bson:"passwordHash"` // Never leaves the service layer
	Roles        []Role             `bson:"roles"`
	Preferences  Preferences        `bson:"preferences"`

	// Optional profile fields
	AvatarKey string   `bson:"avatarKey,omitempty"` // Object key in avatar storage
	Age       *int     `bson:"age,omitempty"`
	HeightCm  *float64 `bson:"heightCm,omitempty"`
	WeightKg  *float64 `bson:"weightKg,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RoleStrings returns the roles as plain strings for token claims.
func (u *User) RoleStrings() []string {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = string(r)
	}
	return roles
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
