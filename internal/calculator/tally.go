package calculator

import (
	"fmt"

	"github.com/mmynk/roomies/internal/models"
)

// Tally maintains per-user totals incrementally, one expense at a time.
//
// Every Apply credits the payer with exactly the amount debited across the
// split set, so the balances always sum to zero (up to float rounding).
type Tally struct {
	order []string
	paid  map[string]float64
	owed  map[string]float64
}

// NewTally starts every user at a zero balance.
func NewTally(users []models.User) *Tally {
	t := &Tally{
		order: make([]string, 0, len(users)),
		paid:  make(map[string]float64, len(users)),
		owed:  make(map[string]float64, len(users)),
	}
	for _, u := range users {
		t.AddUser(u.ID)
	}
	return t
}

// AddUser registers a user with a zero balance. Known users are left untouched.
func (t *Tally) AddUser(id string) {
	if _, exists := t.paid[id]; exists {
		return
	}
	t.order = append(t.order, id)
	t.paid[id] = 0
	t.owed[id] = 0
}

// Apply folds one expense into the tally. The expense is checked in full before
// any total changes, so a rejected expense leaves the tally as it was.
func (t *Tally) Apply(e models.Expense) error {
	share, err := EqualShare(e.Amount, len(e.SplitWith))
	if err != nil {
		return fmt.Errorf("expense %q: %w", e.ID, err)
	}
	if _, ok := t.paid[e.PaidBy]; !ok {
		return fmt.Errorf("expense %q: %w", e.ID, unknownUser("payer", e.PaidBy))
	}
	for _, id := range e.SplitWith {
		if _, ok := t.owed[id]; !ok {
			return fmt.Errorf("expense %q: %w", e.ID, unknownUser("split member", id))
		}
	}

	// The payer gets credited the full amount
	t.paid[e.PaidBy] += e.Amount

	// Each person in the split owes their share
	for _, id := range e.SplitWith {
		t.owed[id] += share
	}
	return nil
}

// Balance returns paid minus owed for one user.
func (t *Tally) Balance(id string) float64 {
	return t.paid[id] - t.owed[id]
}

// Balances returns a fresh map of user ID to net balance.
func (t *Tally) Balances() map[string]float64 {
	out := make(map[string]float64, len(t.order))
	for _, id := range t.order {
		out[id] = t.Balance(id)
	}
	return out
}

// Paid returns the total a user has paid.
func (t *Tally) Paid(id string) float64 { return t.paid[id] }

// Owed returns the total of a user's shares.
func (t *Tally) Owed(id string) float64 { return t.owed[id] }
