package service

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mmynk/roomies/internal/models"
	"github.com/mmynk/roomies/pkg/api"
)

const (
	maxNameLength        = 64
	maxDescriptionLength = 200
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every problem found in a submission so the form
// can show them all at once.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the error for field, or "" if the field is valid.
func (v ValidationErrors) Message(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

// validateRoommateName trims the name and checks it is usable.
func validateRoommateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	var errs ValidationErrors
	switch {
	case name == "":
		errs.add("name", "is required")
	case utf8.RuneCountInString(name) > maxNameLength:
		errs.add("name", "must be at most 64 characters")
	}
	if len(errs) > 0 {
		return "", errs
	}
	return name, nil
}

// validateExpense turns a request into an expense checked against the current
// ledger. defaultDate fills an empty date.
func validateExpense(req *api.AddExpenseRequest, ledger models.Ledger, defaultDate string) (models.Expense, error) {
	var errs ValidationErrors

	description := strings.TrimSpace(req.Description)
	switch {
	case description == "":
		errs.add("description", "is required")
	case utf8.RuneCountInString(description) > maxDescriptionLength:
		errs.add("description", "must be at most 200 characters")
	}

	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		errs.add("amount", "must be greater than 0")
	}

	category, err := models.ParseCategory(req.Category)
	if err != nil {
		errs.add("category", "must be one of Rent, Groceries, Utilities, Entertainment, Other")
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = defaultDate
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		errs.add("date", "must be a calendar date (YYYY-MM-DD)")
	}

	if req.PaidBy == "" {
		errs.add("paidBy", "is required")
	} else if !ledger.HasUser(req.PaidBy) {
		errs.add("paidBy", "must be an existing roommate")
	}

	splitWith := dedupe(req.SplitWith)
	if len(splitWith) == 0 {
		errs.add("splitWith", "must include at least one roommate")
	}
	for _, id := range splitWith {
		if !ledger.HasUser(id) {
			errs.add("splitWith", "must only include existing roommates")
			break
		}
	}

	if len(errs) > 0 {
		return models.Expense{}, errs
	}
	return models.Expense{
		Description: description,
		Amount:      req.Amount,
		Category:    category,
		Date:        date,
		PaidBy:      req.PaidBy,
		SplitWith:   splitWith,
	}, nil
}

// dedupe drops blank and repeated IDs, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
