package calculator

import (
	"fmt"
	"math"
	"sort"

	"github.com/mmynk/roomies/internal/models"
)

// SettledTolerance is how close to zero a balance must be to count as settled.
const SettledTolerance = 1e-9

// debtEpsilon drops suggested payments too small to be worth making.
const debtEpsilon = 0.01

// Status describes which side of the ledger a user is on.
type Status string

const (
	StatusOwed    Status = "owed"    // net creditor
	StatusOwes    Status = "owes"    // net debtor
	StatusSettled Status = "settled" // zero balance
)

// StatusOf classifies a net balance.
func StatusOf(balance float64) Status {
	switch {
	case math.Abs(balance) < SettledTolerance:
		return StatusSettled
	case balance > 0:
		return StatusOwed
	default:
		return StatusOwes
	}
}

// MemberBalance represents the balance information for one roommate.
type MemberBalance struct {
	UserID     string
	Name       string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total amount paid across all expenses
	TotalOwed  float64 // Sum of this person's shares
	Status     Status
}

// DebtEdge represents a suggested payment from one person to another.
type DebtEdge struct {
	From   string // User ID of the person who owes
	To     string // User ID of the person who is owed
	Amount float64
}

// ComputeBalances derives every user's net balance from scratch.
//
// Algorithm:
// - Every known user starts at zero
// - For each expense: payer is credited the full amount
// - Each member of that expense's split set is debited amount / |split set|
//
// The result is a pure function of its inputs. Expense order does not matter
// beyond float rounding. An expense referencing an unknown user or carrying an
// empty split set is an invariant violation and fails the whole computation.
func ComputeBalances(users []models.User, expenses []models.Expense) (map[string]float64, error) {
	tally, err := tallyAll(users, expenses)
	if err != nil {
		return nil, err
	}
	return tally.Balances(), nil
}

// Summarize computes balances and returns them per user, in user order.
func Summarize(users []models.User, expenses []models.Expense) ([]MemberBalance, error) {
	tally, err := tallyAll(users, expenses)
	if err != nil {
		return nil, err
	}

	summary := make([]MemberBalance, len(users))
	for i, u := range users {
		net := tally.Balance(u.ID)
		summary[i] = MemberBalance{
			UserID:     u.ID,
			Name:       u.Name,
			NetBalance: net,
			TotalPaid:  tally.Paid(u.ID),
			TotalOwed:  tally.Owed(u.ID),
			Status:     StatusOf(net),
		}
	}
	return summary, nil
}

// Outstanding is the total amount still to be reimbursed: the sum of all
// positive balances.
func Outstanding(balances []MemberBalance) float64 {
	var total float64
	for _, b := range balances {
		if b.Status == StatusOwed {
			total += b.NetBalance
		}
	}
	return total
}

// SimplifyDebts turns net balances into a short list of payments that would
// settle everyone up.
//
// Greedy algorithm: repeatedly match the largest debtor with the largest
// creditor. Ties keep the input order, so the result is deterministic.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	type party struct {
		id     string
		amount float64
	}

	var creditors, debtors []party
	for _, b := range balances {
		switch b.Status {
		case StatusOwed:
			creditors = append(creditors, party{b.UserID, b.NetBalance})
		case StatusOwes:
			debtors = append(debtors, party{b.UserID, -b.NetBalance}) // Make positive
		}
	}
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := math.Min(debtor.amount, creditor.amount)
		if amount > debtEpsilon {
			edges = append(edges, DebtEdge{From: debtor.id, To: creditor.id, Amount: amount})
		}

		debtor.amount -= amount
		creditor.amount -= amount

		// Move to next debtor/creditor if fully settled
		if debtor.amount < debtEpsilon {
			i++
		}
		if creditor.amount < debtEpsilon {
			j++
		}
	}
	return edges
}

func tallyAll(users []models.User, expenses []models.Expense) (*Tally, error) {
	tally := NewTally(users)
	for _, e := range expenses {
		if err := tally.Apply(e); err != nil {
			return nil, fmt.Errorf("failed to compute balances: %w", err)
		}
	}
	return tally, nil
}
