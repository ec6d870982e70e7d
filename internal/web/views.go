package web

import (
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/roomies/internal/calculator"
	"github.com/mmynk/roomies/internal/models"
	"github.com/mmynk/roomies/pkg/api"
)

var inr = message.NewPrinter(language.MustParse("en-IN"))

// formatINR renders an amount as rupees with locale digit grouping.
func formatINR(amount float64) string {
	return "₹" + inr.Sprintf("%.2f", amount)
}

// formatDay renders an ISO date as "Jan 2". Unparseable dates are shown as is.
func formatDay(date string) string {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

type balanceCard struct {
	Name   string
	Label  string
	Class  string
	Amount string
}

type debtLine struct {
	From   string
	To     string
	Amount string
}

type expenseRow struct {
	Icon        string
	Category    string
	Description string
	Payer       string
	Amount      string
	Date        string
}

type dashboardView struct {
	Balances    []balanceCard
	Outstanding string
	Debts       []debtLine
	Expenses    []expenseRow
}

func newDashboardView(l *api.GetLedgerResponse) dashboardView {
	names := make(map[string]string, len(l.Users))
	for _, u := range l.Users {
		names[u.ID] = u.Name
	}

	v := dashboardView{Outstanding: formatINR(l.Outstanding)}
	for _, b := range l.Balances {
		card := balanceCard{Name: b.Name, Amount: formatINR(math.Abs(b.NetBalance))}
		switch calculator.Status(b.Status) {
		case calculator.StatusOwed:
			card.Label, card.Class = "Is owed", "owed"
		case calculator.StatusOwes:
			card.Label, card.Class = "Owes", "owes"
		default:
			card.Label, card.Class = "Is settled up", "settled"
		}
		v.Balances = append(v.Balances, card)
	}
	for _, d := range l.Debts {
		v.Debts = append(v.Debts, debtLine{From: names[d.From], To: names[d.To], Amount: formatINR(d.Amount)})
	}
	for _, e := range l.Expenses {
		category := models.Category(e.Category)
		v.Expenses = append(v.Expenses, expenseRow{
			Icon:        category.Icon(),
			Category:    e.Category,
			Description: e.Description,
			Payer:       names[e.PaidBy],
			Amount:      formatINR(e.Amount),
			Date:        formatDay(e.Date),
		})
	}
	return v
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// expenseForm holds the values entered on the expense form so a rejected
// submission can be shown again unchanged.
type expenseForm struct {
	Description string
	Amount      string
	Date        string
	Category    string
	PaidBy      string
	SplitWith   map[string]bool
}

type expenseFormView struct {
	Form       expenseForm
	Categories []option
	Payers     []option
	Split      []option
	Errors     map[string]string
	ScanError  string
	Scanned    bool
}

func newExpenseFormView(f expenseForm, users []*api.User, categories []string) expenseFormView {
	v := expenseFormView{Form: f, Errors: map[string]string{}}
	for _, c := range categories {
		v.Categories = append(v.Categories, option{Value: c, Label: c, Selected: c == f.Category})
	}
	for _, u := range users {
		v.Payers = append(v.Payers, option{Value: u.ID, Label: u.Name, Selected: u.ID == f.PaidBy})
		v.Split = append(v.Split, option{Value: u.ID, Label: u.Name, Selected: f.SplitWith[u.ID]})
	}
	return v
}

// defaultExpenseForm is a blank form: today, Groceries, the first roommate
// paying and everyone in the split.
func defaultExpenseForm(users []*api.User, today time.Time) expenseForm {
	f := expenseForm{
		Date:      today.Format(models.DateLayout),
		Category:  models.CategoryGroceries.String(),
		SplitWith: make(map[string]bool, len(users)),
	}
	if len(users) > 0 {
		f.PaidBy = users[0].ID
	}
	for _, u := range users {
		f.SplitWith[u.ID] = true
	}
	return f
}

func formatAmountInput(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

type roommateFormView struct {
	Name  string
	Error string
}
