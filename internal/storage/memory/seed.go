package memory

import "github.com/mmynk/roomies/internal/models"

// SeedLedger returns the built-in starting dataset: three roommates and four
// expenses, most recent first.
func SeedLedger() models.Ledger {
	everyone := []string{"user-1", "user-2", "user-3"}
	return models.Ledger{
		Users: []models.User{
			{ID: "user-1", Name: "Alex"},
			{ID: "user-2", Name: "Bella"},
			{ID: "user-3", Name: "Chris"},
		},
		Expenses: []models.Expense{
			{
				ID:          "exp-4",
				Description: "Movie Tickets",
				Amount:      45.00,
				Category:    models.CategoryEntertainment,
				Date:        "2024-07-15",
				PaidBy:      "user-1",
				SplitWith:   []string{"user-1", "user-2"},
			},
			{
				ID:          "exp-3",
				Description: "Electricity Bill",
				Amount:      85.50,
				Category:    models.CategoryUtilities,
				Date:        "2024-07-12",
				PaidBy:      "user-3",
				SplitWith:   everyone,
			},
			{
				ID:          "exp-2",
				Description: "Grocery Shopping",
				Amount:      150.75,
				Category:    models.CategoryGroceries,
				Date:        "2024-07-10",
				PaidBy:      "user-2",
				SplitWith:   everyone,
			},
			{
				ID:          "exp-1",
				Description: "Monthly Rent",
				Amount:      1200,
				Category:    models.CategoryRent,
				Date:        "2024-07-01",
				PaidBy:      "user-1",
				SplitWith:   everyone,
			},
		},
	}
}
