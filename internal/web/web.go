// Package web serves the server-rendered ledger UI on top of the
// LedgerService handlers.
package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/roomies/internal/models"
	"github.com/mmynk/roomies/internal/receipt"
	"github.com/mmynk/roomies/internal/service"
	"github.com/mmynk/roomies/pkg/api"
	"github.com/mmynk/roomies/pkg/api/apiconnect"
)

const defaultMaxUploadBytes = 10 << 20

// Handler renders the dashboard and the entry forms.
type Handler struct {
	ledger    apiconnect.LedgerServiceHandler
	templates *template.Template
	mux       *http.ServeMux
	maxUpload int64
	now       func() time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxUploadBytes caps the size of an uploaded receipt photo.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// WithClock overrides the clock used for the default expense date.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New parses the embedded templates and registers the UI routes.
func New(ledger apiconnect.LedgerServiceHandler, opts ...Option) (*Handler, error) {
	t, err := template.ParseFS(TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	h := &Handler{
		ledger:    ledger,
		templates: t,
		mux:       http.NewServeMux(),
		maxUpload: defaultMaxUploadBytes,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc("GET /{$}", h.handleDashboard)
	h.mux.HandleFunc("GET /expenses/new", h.handleNewExpense)
	h.mux.HandleFunc("POST /expenses", h.handleCreateExpense)
	h.mux.HandleFunc("POST /expenses/scan", h.handleScanReceipt)
	h.mux.HandleFunc("GET /roommates/new", h.handleNewRoommate)
	h.mux.HandleFunc("POST /roommates", h.handleCreateRoommate)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.ledger.GetLedger(r.Context(), connect.NewRequest(&api.GetLedgerRequest{}))
	if err != nil {
		h.serverError(w, r, "Failed to load ledger", err)
		return
	}
	h.render(w, r, http.StatusOK, "dashboard", newDashboardView(resp.Msg))
}

func (h *Handler) handleNewExpense(w http.ResponseWriter, r *http.Request) {
	l, ok := h.loadLedger(w, r)
	if !ok {
		return
	}
	form := defaultExpenseForm(l.Users, h.now())
	h.render(w, r, http.StatusOK, "expense_form", newExpenseFormView(form, l.Users, l.Categories))
}

func (h *Handler) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.parseForm(r); err != nil {
		slog.WarnContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	l, ok := h.loadLedger(w, r)
	if !ok {
		return
	}

	form := readExpenseForm(r)
	req := &api.AddExpenseRequest{
		Description: form.Description,
		Category:    form.Category,
		Date:        form.Date,
		PaidBy:      form.PaidBy,
		SplitWith:   r.PostForm["splitWith"],
	}
	amountErr := ""
	amount, err := strconv.ParseFloat(strings.TrimSpace(form.Amount), 64)
	if err != nil {
		amount = math.NaN()
		amountErr = "must be a number"
	}
	req.Amount = amount

	_, err = h.ledger.AddExpense(r.Context(), connect.NewRequest(req))
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var verrs service.ValidationErrors
	if !errors.As(err, &verrs) {
		h.serverError(w, r, "Failed to add expense", err)
		return
	}
	view := newExpenseFormView(form, l.Users, l.Categories)
	for _, fe := range verrs {
		view.Errors[fe.Field] = fe.Message
	}
	if amountErr != "" {
		view.Errors["amount"] = amountErr
	}
	h.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
}

func (h *Handler) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+1<<20)
	if err := h.parseForm(r); err != nil {
		slog.WarnContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	l, ok := h.loadLedger(w, r)
	if !ok {
		return
	}

	form := readExpenseForm(r)
	view := newExpenseFormView(form, l.Users, l.Categories)
	data, mimeType, problem := h.readUpload(r)
	if problem != "" {
		view.ScanError = problem
		h.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	}

	resp, err := h.ledger.ScanReceipt(r.Context(), connect.NewRequest(&api.ScanReceiptRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    mimeType,
	}))
	if err != nil {
		view.ScanError = scanErrorMessage(err)
		h.render(w, r, http.StatusUnprocessableEntity, "expense_form", view)
		return
	}

	form.Description = resp.Msg.MerchantName
	form.Amount = formatAmountInput(resp.Msg.TotalAmount)
	form.Date = resp.Msg.TransactionDate
	form.Category = models.CategoryOther.String()
	view = newExpenseFormView(form, l.Users, l.Categories)
	view.Scanned = true
	h.render(w, r, http.StatusOK, "expense_form", view)
}

func (h *Handler) handleNewRoommate(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "roommate_form", roommateFormView{})
}

func (h *Handler) handleCreateRoommate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		slog.WarnContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	name := r.PostForm.Get("name")

	_, err := h.ledger.AddRoommate(r.Context(), connect.NewRequest(&api.AddRoommateRequest{Name: name}))
	if err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var verrs service.ValidationErrors
	if !errors.As(err, &verrs) {
		h.serverError(w, r, "Failed to add roommate", err)
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, "roommate_form", roommateFormView{
		Name:  name,
		Error: "Name " + verrs.Message("name"),
	})
}

func (h *Handler) loadLedger(w http.ResponseWriter, r *http.Request) (*api.GetLedgerResponse, bool) {
	resp, err := h.ledger.GetLedger(r.Context(), connect.NewRequest(&api.GetLedgerRequest{}))
	if err != nil {
		h.serverError(w, r, "Failed to load ledger", err)
		return nil, false
	}
	return resp.Msg, true
}

// parseForm accepts both urlencoded and multipart bodies.
func (h *Handler) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(h.maxUpload)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// readUpload returns the uploaded receipt photo, or a message for the user
// explaining why it could not be read.
func (h *Handler) readUpload(r *http.Request) (data []byte, mimeType, problem string) {
	file, header, err := r.FormFile("receipt")
	if err != nil {
		return nil, "", "Please choose a photo of the receipt."
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		slog.WarnContext(r.Context(), "Failed to read receipt upload", "error", err)
		return nil, "", receipt.FailureMessage
	}
	if int64(len(data)) > h.maxUpload {
		return nil, "", "The receipt photo is too large."
	}
	return data, header.Header.Get("Content-Type"), ""
}

func readExpenseForm(r *http.Request) expenseForm {
	f := expenseForm{
		Description: r.PostForm.Get("description"),
		Amount:      r.PostForm.Get("amount"),
		Date:        r.PostForm.Get("date"),
		Category:    r.PostForm.Get("category"),
		PaidBy:      r.PostForm.Get("paidBy"),
		SplitWith:   make(map[string]bool),
	}
	for _, id := range r.PostForm["splitWith"] {
		f.SplitWith[id] = true
	}
	return f
}

func scanErrorMessage(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return receipt.FailureMessage
	}
	switch connectErr.Code() {
	case connect.CodeUnavailable:
		return connectErr.Message()
	case connect.CodeInvalidArgument:
		return "That file does not look like a receipt photo. Please upload an image."
	default:
		return receipt.FailureMessage
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.serverError(w, r, "Template render error", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err, "method", r.Method, "url", r.URL.Path)
	http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
}
