package models

// User represents a roommate.
//
// Users are created through the add-roommate action and are never mutated or
// deleted during a session.
type User struct {
	// ID is the unique, stable identifier for the user (e.g. "user-1").
	ID string

	// Name is the display name of the roommate.
	Name string
}

// UserIndex maps user IDs to users for lookups while rendering expenses.
func UserIndex(users []User) map[string]User {
	index := make(map[string]User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index
}
