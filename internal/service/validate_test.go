package service

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/mmynk/roomies/internal/models"
	"github.com/mmynk/roomies/internal/storage/memory"
	"github.com/mmynk/roomies/pkg/api"
)

func TestValidateExpense_CollectsAllErrors(t *testing.T) {
	ledger := memory.SeedLedger()

	_, err := validateExpense(&api.AddExpenseRequest{
		Description: "",
		Amount:      math.NaN(),
		Category:    "Travel",
		Date:        "tomorrow",
		PaidBy:      "ghost",
	}, ledger, "2024-07-20")

	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	for _, field := range []string{"description", "amount", "category", "date", "paidBy", "splitWith"} {
		if verrs.Message(field) == "" {
			t.Errorf("expected an error for %s, got %v", field, verrs)
		}
	}
	if !strings.HasPrefix(verrs.Error(), "validation failed: description: ") {
		t.Errorf("unexpected error text %q", verrs.Error())
	}
}

func TestValidateExpense_Normalizes(t *testing.T) {
	ledger := memory.SeedLedger()

	got, err := validateExpense(&api.AddExpenseRequest{
		Description: "  Water bill ",
		Amount:      31.5,
		Category:    "utilities",
		PaidBy:      "user-3",
		SplitWith:   []string{"user-2", " ", "user-3", "user-2"},
	}, ledger, "2024-07-20")
	if err != nil {
		t.Fatalf("validateExpense() error = %v", err)
	}

	want := models.Expense{
		Description: "Water bill",
		Amount:      31.5,
		Category:    models.CategoryUtilities,
		Date:        "2024-07-20",
		PaidBy:      "user-3",
		SplitWith:   []string{"user-2", "user-3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("validateExpense() = %+v, want %+v", got, want)
	}
}

func TestValidateExpense_Limits(t *testing.T) {
	ledger := memory.SeedLedger()
	base := api.AddExpenseRequest{Amount: 1, PaidBy: "user-1", SplitWith: []string{"user-1"}}

	tests := []struct {
		name        string
		description string
		amount      float64
		wantField   string
	}{
		{name: "description at limit", description: strings.Repeat("é", 200), amount: 1},
		{name: "description over limit", description: strings.Repeat("é", 201), amount: 1, wantField: "description"},
		{name: "infinite amount", description: "x", amount: math.Inf(1), wantField: "amount"},
		{name: "tiny amount", description: "x", amount: 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.Description = tt.description
			req.Amount = tt.amount
			_, err := validateExpense(&req, ledger, "2024-07-20")
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			var verrs ValidationErrors
			if !errors.As(err, &verrs) || verrs.Message(tt.wantField) == "" {
				t.Errorf("expected an error for %s, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateRoommateName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "Dana", want: "Dana"},
		{input: "  Élodie  ", want: "Élodie"},
		{input: strings.Repeat("ß", 64), want: strings.Repeat("ß", 64)},
		{input: strings.Repeat("ß", 65), wantErr: true},
		{input: "", wantErr: true},
		{input: "\t\n", wantErr: true},
	}
	for _, tt := range tests {
		got, err := validateRoommateName(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateRoommateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("validateRoommateName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
