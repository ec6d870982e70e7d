// Package api defines the wire messages of the roomies.v1.LedgerService.
//
// Messages are plain structs carried as JSON by the codec in apiconnect.
package api

// User is a roommate.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Expense is a recorded shared payment.
type Expense struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category"`
	Date        string   `json:"date"` // YYYY-MM-DD
	PaidBy      string   `json:"paidBy"`
	SplitWith   []string `json:"splitWith"`
	CreatedAt   int64    `json:"createdAt,omitempty"`
}

// MemberBalance is one roommate's derived position in the ledger.
type MemberBalance struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	NetBalance float64 `json:"netBalance"` // Positive = is owed, negative = owes
	TotalPaid  float64 `json:"totalPaid"`
	TotalOwed  float64 `json:"totalOwed"`
	Status     string  `json:"status"` // owed, owes or settled
}

// DebtEdge is a suggested payment that would settle balances.
type DebtEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type AddRoommateRequest struct {
	Name string `json:"name"`
}

type AddRoommateResponse struct {
	User *User `json:"user"`
}

type AddExpenseRequest struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Category    string   `json:"category,omitempty"`
	Date        string   `json:"date,omitempty"`
	PaidBy      string   `json:"paidBy"`
	SplitWith   []string `json:"splitWith"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetLedgerRequest struct{}

type GetLedgerResponse struct {
	Users       []*User          `json:"users"`
	Expenses    []*Expense       `json:"expenses"` // Most recent first
	Balances    []*MemberBalance `json:"balances"`
	Debts       []*DebtEdge      `json:"debts"`
	Outstanding float64          `json:"outstanding"`
	Categories  []string         `json:"categories"`
}

// ScanReceiptRequest carries a receipt photo as base64 with its media type.
type ScanReceiptRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// ScanReceiptResponse holds the fields used to pre-fill the expense form.
type ScanReceiptResponse struct {
	MerchantName    string  `json:"merchantName"`
	TotalAmount     float64 `json:"totalAmount"`
	TransactionDate string  `json:"transactionDate"`
}
