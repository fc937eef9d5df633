package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

const maxFormBytes = 1 << 20

// TransactionForm is a parsed add or edit submission.
type TransactionForm struct {
	Type     models.TransactionType
	Amount   decimal.Decimal
	Category string
	// Description is nil when the field was not submitted at all.
	Description *string
	// Date is nil when date_posted was empty or unparseable.
	Date *models.Date
	// DateInvalid reports a non-empty date_posted that did not parse.
	DateInvalid bool
}

// FavoriteForm is a parsed favorite submission.
type FavoriteForm struct {
	Name     string
	Amount   decimal.Decimal
	Type     models.TransactionType
	Category string
}

// CredentialsForm is a parsed login or register submission.
type CredentialsForm struct {
	Username string
	Password string
}

func parsePostForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	return nil
}

func requiredField(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.PostFormValue(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", models.ErrInvalidInput, name)
	}
	return v, nil
}

func parseTransactionForm(w http.ResponseWriter, r *http.Request) (TransactionForm, error) {
	var form TransactionForm
	if err := parsePostForm(w, r); err != nil {
		return form, err
	}

	rawType, err := requiredField(r, "type")
	if err != nil {
		return form, err
	}
	if form.Type, err = models.ParseTransactionType(rawType); err != nil {
		return form, err
	}
	if form.Amount, err = models.ParseAmount(r.PostFormValue("amount")); err != nil {
		return form, err
	}
	if form.Category, err = requiredField(r, "category"); err != nil {
		return form, err
	}

	if values, ok := r.PostForm["description"]; ok && len(values) > 0 {
		description := strings.TrimSpace(values[0])
		form.Description = &description
	}

	if raw := strings.TrimSpace(r.PostFormValue("date_posted")); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			form.DateInvalid = true
		} else {
			form.Date = &date
		}
	}
	return form, nil
}

func parseFavoriteForm(w http.ResponseWriter, r *http.Request) (FavoriteForm, error) {
	var form FavoriteForm
	if err := parsePostForm(w, r); err != nil {
		return form, err
	}

	var err error
	if form.Name, err = requiredField(r, "name"); err != nil {
		return form, err
	}
	rawType, err := requiredField(r, "type")
	if err != nil {
		return form, err
	}
	if form.Type, err = models.ParseTransactionType(rawType); err != nil {
		return form, err
	}
	if form.Amount, err = models.ParseAmount(r.PostFormValue("amount")); err != nil {
		return form, err
	}
	if form.Category, err = requiredField(r, "category"); err != nil {
		return form, err
	}
	return form, nil
}

func parseCredentialsForm(w http.ResponseWriter, r *http.Request) (CredentialsForm, error) {
	var form CredentialsForm
	if err := parsePostForm(w, r); err != nil {
		return form, err
	}
	form.Username = strings.TrimSpace(r.PostFormValue("username"))
	form.Password = r.PostFormValue("password")
	if form.Username == "" || form.Password == "" {
		return form, fmt.Errorf("%w: username and password are required", models.ErrInvalidInput)
	}
	return form, nil
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
