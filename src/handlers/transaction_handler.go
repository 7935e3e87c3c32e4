package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/notify"
	"pocketbook-server/src/rules"
	"pocketbook-server/src/util"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	// maxPage keeps (page-1)*limit well inside int range.
	maxPage         = 1_000_000
)

type transactionRequest struct {
	AccountID   *string `json:"account_id"`
	CategoryID  *string `json:"category_id"`
	Amount      *int64  `json:"amount"`
	Date        *string `json:"date"`
	Payee       *string `json:"payee"`
	Notes       *string `json:"notes"`
	IsRecurring *bool   `json:"is_recurring"`
	RRule       *string `json:"rrule"`
}

func (req transactionRequest) apply(t *models.Transaction) error {
	if req.AccountID != nil {
		t.AccountID = strings.TrimSpace(*req.AccountID)
	}
	if req.CategoryID != nil {
		t.CategoryID = trimmed(req.CategoryID)
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		t.Date = date
	}
	if req.Payee != nil {
		t.Payee = trimmed(req.Payee)
	}
	if req.Notes != nil {
		t.Notes = trimmed(req.Notes)
	}
	if req.IsRecurring != nil {
		t.IsRecurring = *req.IsRecurring
	}
	if req.RRule != nil {
		t.RRule = trimmed(req.RRule)
	}
	if !t.IsRecurring {
		t.RRule = nil
	}
	return nil
}

type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		http.Error(w, reqErr.message, reqErr.status)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// categoryFitsAmount reports whether a category of kind may hold amount.
func categoryFitsAmount(kind string, amount int64) bool {
	if amount > 0 {
		return kind == models.CategoryKindIncome
	}
	return kind == models.CategoryKindExpense
}

// checkTransaction validates t and confirms its account and category belong
// to the user.
func checkTransaction(ctx context.Context, store db.Store, userID string, t *models.Transaction) (*models.Account, *models.Category, error) {
	if t.Amount == 0 {
		return nil, nil, &requestError{http.StatusBadRequest, "amount must not be zero"}
	}
	if t.IsRecurring && t.RRule == nil {
		return nil, nil, &requestError{http.StatusBadRequest, "rrule is required for recurring transactions"}
	}
	if err := util.Validate(t); err != nil {
		return nil, nil, &requestError{http.StatusBadRequest, err.Error()}
	}

	account, err := store.GetAccount(ctx, userID, t.AccountID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil, &requestError{http.StatusNotFound, "account not found"}
	}
	if err != nil {
		return nil, nil, err
	}

	if t.CategoryID == nil {
		return account, nil, nil
	}
	category, err := store.GetCategory(ctx, userID, *t.CategoryID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil, &requestError{http.StatusNotFound, "category not found"}
	}
	if err != nil {
		return nil, nil, err
	}
	if !categoryFitsAmount(category.Kind, t.Amount) {
		return nil, nil, &requestError{http.StatusBadRequest, "category kind does not match amount sign"}
	}
	return account, category, nil
}

// categorize fills in the category of an uncategorized transaction from the
// user's rules.
func categorize(ctx context.Context, store db.Store, userID string, t *models.Transaction, account *models.Account) (*models.Category, error) {
	ruleList, err := store.ListCategoryRules(ctx, userID)
	if err != nil || len(ruleList) == 0 {
		return nil, err
	}
	rule := rules.Match(ruleList, rules.SubjectFor(*t, account.Name))
	if rule == nil {
		return nil, nil
	}
	category, err := store.GetCategory(ctx, userID, rule.CategoryID)
	if err != nil {
		return nil, err
	}
	if !categoryFitsAmount(category.Kind, t.Amount) {
		return nil, nil
	}
	t.CategoryID = &category.ID
	log.Printf("INFO: Rule %s categorized new transaction for user %s as %s", rule.Name, userID, category.Name)
	return category, nil
}

// notifyBudget publishes an alert when an expense pushes its category past
// 80% or 100% of the month's budget. Failures are logged, never returned.
func notifyBudget(ctx context.Context, store db.Store, publisher notify.Publisher, t *models.Transaction, category *models.Category) {
	if publisher == nil || category == nil || t.Amount >= 0 {
		return
	}
	month := db.MonthStart(t.Date)
	budget, err := store.GetBudgetForMonth(ctx, t.UserID, category.ID, month)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("ERROR: Failed to load budget for category %s: %v", category.ID, err)
		}
		return
	}
	total, err := store.SumCategoryAmounts(ctx, t.UserID, category.ID, month, month.AddDate(0, 1, 0))
	if err != nil {
		log.Printf("ERROR: Failed to sum spending for category %s: %v", category.ID, err)
		return
	}
	spent := -total
	message := notify.BudgetAlert(spent, budget.PlannedAmount)
	if message == "" {
		return
	}
	currency := "USD"
	if account, err := store.GetAccount(ctx, t.UserID, t.AccountID); err == nil {
		currency = account.Currency
	} else {
		log.Printf("ERROR: Failed to load account %s for budget alert: %v", t.AccountID, err)
	}

	err = publisher.Publish(ctx, notify.Notification{
		UserID:   t.UserID,
		BudgetID: budget.ID,
		Category: category.Name,
		Month:    month.Format("2006-01"),
		Message:  message,
		Spent:    spent,
		Limit:    budget.PlannedAmount,
		Currency: currency,
	})
	if err != nil {
		log.Printf("ERROR: Failed to publish notification: %v", err)
	}
}

func decorate(d *models.TransactionDetail) {
	d.Type = util.TransactionType(d.Amount)
	d.AmountFormatted = util.FormatTransactionAmount(d.Amount, d.Account.Currency)
}

// saved loads the stored transaction with its account and category for the
// response.
func saved(w http.ResponseWriter, r *http.Request, store db.Store, userID, id string, status int) {
	detail, err := store.GetTransaction(r.Context(), userID, id)
	if err != nil {
		log.Printf("ERROR: Failed to reload transaction id %s for user %s: %v", id, userID, err)
		writeStoreError(w, err, "transaction not found")
		return
	}
	decorate(detail)
	respond(w, r, status, detail, "/transactions")
}

func CreateTransaction(store db.Store, publisher notify.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req transactionRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		txn := &models.Transaction{UserID: userID}
		if err := req.apply(txn); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		account, category, err := checkTransaction(r.Context(), store, userID, txn)
		if err != nil {
			log.Printf("ERROR: Rejected transaction for user %s: %v", userID, err)
			writeRequestError(w, err)
			return
		}
		if category == nil {
			if category, err = categorize(r.Context(), store, userID, txn, account); err != nil {
				log.Printf("ERROR: Failed to apply category rules for user %s: %v", userID, err)
			}
		}

		created, err := store.CreateTransaction(r.Context(), txn)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %s: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created transaction id %s for user %s, amount %d", created.ID, userID, created.Amount)

		notifyBudget(r.Context(), store, publisher, created, category)
		saved(w, r, store, userID, created.ID, http.StatusCreated)
	}
}

// QuickAddTransaction records a transaction dated now from a free-text amount.
func QuickAddTransaction(store db.Store, publisher notify.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req struct {
			AccountID  string  `json:"account_id"`
			Amount     string  `json:"amount"`
			Payee      *string `json:"payee"`
			CategoryID *string `json:"category_id"`
		}
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode quick add request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		amount, err := util.ParseCurrencyInput(req.Amount)
		if err != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}

		txn := &models.Transaction{
			UserID:     userID,
			AccountID:  strings.TrimSpace(req.AccountID),
			CategoryID: trimmed(req.CategoryID),
			Amount:     amount,
			Date:       time.Now().UTC(),
			Payee:      trimmed(req.Payee),
		}
		account, category, err := checkTransaction(r.Context(), store, userID, txn)
		if err != nil {
			log.Printf("ERROR: Rejected quick add for user %s: %v", userID, err)
			writeRequestError(w, err)
			return
		}
		if category == nil {
			if category, err = categorize(r.Context(), store, userID, txn, account); err != nil {
				log.Printf("ERROR: Failed to apply category rules for user %s: %v", userID, err)
			}
		}

		created, err := store.CreateTransaction(r.Context(), txn)
		if err != nil {
			log.Printf("ERROR: Failed to quick add transaction for user %s: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Quick added transaction id %s for user %s, amount %d", created.ID, userID, created.Amount)

		notifyBudget(r.Context(), store, publisher, created, category)
		saved(w, r, store, userID, created.ID, http.StatusCreated)
	}
}

func pageParams(r *http.Request) (page, limit int) {
	page, limit = 1, defaultPageSize
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = min(p, maxPage)
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, maxPageSize)
	}
	return page, limit
}

func GetTransactions(store db.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		page, limit := pageParams(r)

		txns, err := store.ListTransactions(r.Context(), userID, (page-1)*limit, limit)
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %s: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		total, err := store.CountTransactions(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for user %s: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}

		for i := range txns {
			decorate(&txns[i])
		}
		writeJSON(w, http.StatusOK, models.TransactionPage{
			Transactions: txns,
			Pagination: models.Pagination{
				Page:       page,
				Limit:      limit,
				Total:      total,
				TotalPages: int((total + int64(limit) - 1) / int64(limit)),
			},
		})
	}
}

func GetTransactionByID(store db.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transactionID := chi.URLParam(r, "transaction_id")
		detail, err := store.GetTransaction(r.Context(), userID, transactionID)
		if err != nil {
			log.Printf("ERROR: Transaction id %s not found for user %s: %v", transactionID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		decorate(detail)
		writeJSON(w, http.StatusOK, detail)
	}
}

func UpdateTransaction(store db.Store, publisher notify.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transactionID := chi.URLParam(r, "transaction_id")

		existing, err := store.GetTransaction(r.Context(), userID, transactionID)
		if err != nil {
			log.Printf("ERROR: Transaction id %s not found for user %s: %v", transactionID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}

		var req transactionRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		txn := existing.Transaction
		if err := req.apply(&txn); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		_, category, err := checkTransaction(r.Context(), store, userID, &txn)
		if err != nil {
			log.Printf("ERROR: Rejected update of transaction id %s for user %s: %v", transactionID, userID, err)
			writeRequestError(w, err)
			return
		}

		updated, err := store.UpdateTransaction(r.Context(), &txn)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %s for user %s: %v", transactionID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		log.Printf("INFO: Updated transaction id %s for user %s", updated.ID, userID)

		notifyBudget(r.Context(), store, publisher, updated, category)
		saved(w, r, store, userID, updated.ID, http.StatusOK)
	}
}

func DeleteTransaction(store db.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		transactionID := chi.URLParam(r, "transaction_id")
		if err := store.DeleteTransaction(r.Context(), userID, transactionID); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %s for user %s: %v", transactionID, userID, err)
			writeStoreError(w, err, "transaction not found")
			return
		}
		log.Printf("INFO: Deleted transaction id %s for user %s", transactionID, userID)
		respond(w, r, http.StatusOK, map[string]string{"message": "transaction deleted"}, "/transactions")
	}
}
