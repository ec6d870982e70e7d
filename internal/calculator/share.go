package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySplit is returned when an expense has nobody to split with.
	ErrEmptySplit = errors.New("split set is empty")

	// ErrUnknownUser is returned when an expense references a user that is not in the ledger.
	ErrUnknownUser = errors.New("unknown user")
)

// EqualShare computes each participant's share of amount split n ways.
func EqualShare(amount float64, n int) (float64, error) {
	if n <= 0 {
		return 0, ErrEmptySplit
	}
	return amount / float64(n), nil
}

func unknownUser(role, id string) error {
	return fmt.Errorf("%s %q: %w", role, id, ErrUnknownUser)
}
