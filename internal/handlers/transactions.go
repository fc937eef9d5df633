package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"finance-tracker/internal/ledger"
	applog "finance-tracker/internal/log"
	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionItem represents a transaction in the list view.
type TransactionItem struct {
	models.Transaction
	CategoryStyle CategoryStyle
}

// TransactionGroup groups transactions by date.
type TransactionGroup struct {
	Title string
	Date  string
	Net   decimal.Decimal
	Items []TransactionItem
}

// IndexViewModel is the data passed to the list view template.
type IndexViewModel struct {
	Page
	Groups      []TransactionGroup
	Count       int
	Summary     ledger.Summary
	Chart       []StatsCategoryItem
	Favorites   []models.Favorite
	Filter      string
	CurrentDate string
	Categories  []CategoryDef
}

// Index renders the transaction list, optionally filtered to one day.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
	user := GetUserFromContext(r)
	page := h.page(w, r)

	var on *models.Date
	filter := strings.TrimSpace(r.URL.Query().Get("date"))
	if filter != "" {
		d, err := models.ParseDate(filter)
		if err != nil {
			page.Flashes = append(page.Flashes, Flash{Kind: FlashWarning, Message: "Invalid date format. Use YYYY-MM-DD. Showing all transactions."})
			filter = ""
		} else {
			on = &d
		}
	}

	transactions, err := h.svc.Ledger.List(ctx, user.ID, on)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list transactions", applog.FieldError, err, applog.FieldOperation, applog.OpList)
		page.Flashes = append(page.Flashes, Flash{Kind: FlashDanger, Message: "Could not load transactions."})
	}
	favs, err := h.svc.Favorites.List(ctx, user.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list favorites", applog.FieldError, err, applog.FieldOperation, applog.OpList)
	}

	today := h.svc.Ledger.Today()
	summary := ledger.Summarize(transactions)
	h.render(w, r, "index.html", IndexViewModel{
		Page:        page,
		Groups:      groupByDate(transactions, today),
		Count:       len(transactions),
		Summary:     summary,
		Chart:       buildChart(summary),
		Favorites:   favs,
		Filter:      filter,
		CurrentDate: today.String(),
		Categories:  categories,
	})
}

// AddTransaction records a transaction from the add form.
func (h *Handlers) AddTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
	user := GetUserFromContext(r)

	form, err := parseTransactionForm(w, r)
	if err != nil {
		h.redirect(w, r, "/", validationFlash(err))
		return
	}

	description := ""
	if form.Description != nil {
		description = *form.Description
	}
	t, err := h.svc.Ledger.Add(ctx, user.ID, ledger.AddInput{
		Type:        form.Type,
		Category:    form.Category,
		Description: description,
		Amount:      form.Amount,
		Date:        form.Date,
	})
	if err != nil {
		h.redirect(w, r, "/", h.failureFlash(r, logger, err, applog.OpCreate, "Could not add transaction."))
		return
	}

	logger.InfoContext(ctx, "Transaction added", applog.FieldID, t.ID, applog.FieldOperation, applog.OpCreate)
	flashes := []Flash{{Kind: FlashSuccess, Message: fmt.Sprintf("%s of %s added.", t.Type, t.Amount.StringFixed(2))}}
	if form.DateInvalid {
		flashes = append(flashes, Flash{Kind: FlashWarning, Message: "Invalid date, used today instead."})
	}
	h.redirect(w, r, "/", flashes...)
}

// EditTransaction applies a partial update from an inline edit form.
func (h *Handlers) EditTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
	user := GetUserFromContext(r)

	id, ok := parseID(r)
	if !ok {
		h.redirect(w, r, "/", Flash{Kind: FlashWarning, Message: "Transaction not found."})
		return
	}

	form, err := parseTransactionForm(w, r)
	if err != nil {
		h.redirect(w, r, "/", validationFlash(err))
		return
	}

	err = h.svc.Ledger.Edit(ctx, user.ID, id, ledger.EditInput{
		Type:        form.Type,
		Category:    form.Category,
		Description: form.Description,
		Amount:      form.Amount,
		Date:        form.Date,
	})
	if err != nil {
		h.redirect(w, r, "/", h.failureFlash(r, logger, err, applog.OpUpdate, "Could not update transaction."))
		return
	}

	logger.InfoContext(ctx, "Transaction updated", applog.FieldID, id, applog.FieldOperation, applog.OpUpdate)
	flashes := []Flash{{Kind: FlashSuccess, Message: "Transaction updated."}}
	if form.DateInvalid {
		flashes = append(flashes, Flash{Kind: FlashWarning, Message: "Invalid date, kept the previous one."})
	}
	h.redirect(w, r, "/", flashes...)
}

// DeleteTransaction removes one transaction.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
	user := GetUserFromContext(r)

	id, ok := parseID(r)
	if !ok {
		h.redirect(w, r, "/", Flash{Kind: FlashWarning, Message: "Transaction not found."})
		return
	}

	if err := h.svc.Ledger.Delete(ctx, user.ID, id); err != nil {
		h.redirect(w, r, "/", h.failureFlash(r, logger, err, applog.OpDelete, "Could not delete transaction."))
		return
	}

	logger.InfoContext(ctx, "Transaction deleted", applog.FieldID, id, applog.FieldOperation, applog.OpDelete)
	h.redirect(w, r, "/", Flash{Kind: FlashSuccess, Message: "Transaction deleted."})
}

// ClearAll removes every transaction of the current user.
func (h *Handlers) ClearAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentLedger)
	user := GetUserFromContext(r)

	n, err := h.svc.Ledger.ClearAll(ctx, user.ID)
	if err != nil {
		h.redirect(w, r, "/", h.failureFlash(r, logger, err, applog.OpClear, "Could not clear transactions."))
		return
	}

	logger.InfoContext(ctx, "Transactions cleared", "count", n, applog.FieldOperation, applog.OpClear)
	h.redirect(w, r, "/", Flash{Kind: FlashWarning, Message: fmt.Sprintf("All transactions cleared (%d removed).", n)})
}

// validationFlash describes a rejected form submission.
func validationFlash(err error) Flash {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return Flash{Kind: FlashDanger, Message: "Amount must be a non-negative number."}
	case errors.Is(err, models.ErrInvalidInput):
		return Flash{Kind: FlashDanger, Message: "Invalid input: " + reason(err)}
	}
	return Flash{Kind: FlashDanger, Message: "Invalid input."}
}

// failureFlash maps a core error to a flash. Unexpected errors are logged.
func (h *Handlers) failureFlash(r *http.Request, logger *applog.Logger, err error, op, generic string) Flash {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return Flash{Kind: FlashWarning, Message: "Not found. It may have been deleted already."}
	case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrInvalidInput):
		return validationFlash(err)
	}
	logger.ErrorContext(r.Context(), generic, applog.FieldError, err, applog.FieldOperation, op)
	return Flash{Kind: FlashDanger, Message: generic}
}

// reason strips the error kind prefix from a wrapped validation error.
func reason(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

// groupByDate groups transactions already sorted newest first.
func groupByDate(transactions []models.Transaction, today models.Date) []TransactionGroup {
	groups := []TransactionGroup{}
	for _, t := range transactions {
		key := t.Date.String()
		if len(groups) == 0 || groups[len(groups)-1].Date != key {
			groups = append(groups, TransactionGroup{Date: key, Title: formatGroupTitle(t.Date, today), Net: decimal.Zero})
		}
		g := &groups[len(groups)-1]
		if t.IsIncome() {
			g.Net = g.Net.Add(t.Amount)
		} else {
			g.Net = g.Net.Sub(t.Amount)
		}
		g.Items = append(g.Items, TransactionItem{Transaction: t, CategoryStyle: getCategoryStyle(t.Category)})
	}
	return groups
}

func formatGroupTitle(date, today models.Date) string {
	if date.Equal(today) {
		return "TODAY"
	}
	if date.Equal(models.DateOf(today.AddDate(0, 0, -1))) {
		return "YESTERDAY"
	}
	return strings.ToUpper(date.Format("Mon, 02 Jan '06"))
}
