package model

// UserID uniquely identifies a user
type UserID string

// User is a profile linked to an external OAuth identity.
// It is created or refreshed on every successful login and never deleted
// by this core.
type User struct {
	ID         UserID
	ProviderID string // Stable identifier from the OAuth provider
	Username   string
	Name       string
	AvatarURL  string
	Email      string
}
