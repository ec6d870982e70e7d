package models

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar date format used for expense dates (ISO YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Category classifies an expense.
type Category string

const (
	CategoryRent          Category = "Rent"
	CategoryGroceries     Category = "Groceries"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryRent,
	CategoryGroceries,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryOther,
}

// categoryIcons is the single category-to-icon table used by the activity feed.
var categoryIcons = map[Category]string{
	CategoryRent:          "🏠",
	CategoryGroceries:     "🛒",
	CategoryUtilities:     "💡",
	CategoryEntertainment: "🎬",
	CategoryOther:         "🧾",
}

// ParseCategory matches a category name case-insensitively.
// An empty name yields CategoryOther.
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CategoryOther, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryIcons[c]
	return ok
}

// Icon returns the glyph shown next to expenses of this category.
// Unknown categories get the Other icon.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

func (c Category) String() string {
	return string(c)
}

// Expense represents a shared payment split equally among roommates.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (e.g. "exp-1").
	ID string

	// Description is what the money was spent on (e.g. "Monthly Rent").
	Description string

	// Amount is the positive total paid.
	Amount float64

	// Category is used for display only.
	Category Category

	// Date is the calendar date of the expense in DateLayout format.
	Date string

	// PaidBy is the ID of the user who paid the full amount.
	PaidBy string

	// SplitWith is the non-empty set of user IDs sharing the cost equally.
	// The payer does not have to be part of it.
	SplitWith []string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Ledger is an immutable snapshot of the session's users and expenses.
// Expenses are ordered most recent first.
//
// Callers must treat the slices as read-only; mutations publish a new Ledger.
type Ledger struct {
	Users    []User
	Expenses []Expense
}

// HasUser reports whether id belongs to a user in the snapshot.
func (l Ledger) HasUser(id string) bool {
	for _, u := range l.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}
