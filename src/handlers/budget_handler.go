package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type budgetRequest struct {
	CategoryID    *string `json:"category_id"`
	Month         *string `json:"month"`
	PlannedAmount *int64  `json:"planned_amount"`
}

func (req budgetRequest) apply(b *models.Budget) error {
	if req.CategoryID != nil {
		b.CategoryID = strings.TrimSpace(*req.CategoryID)
	}
	if req.Month != nil {
		month, err := parseMonth(*req.Month)
		if err != nil {
			return err
		}
		b.Month = month
	}
	if req.PlannedAmount != nil {
		b.PlannedAmount = *req.PlannedAmount
	}
	return nil
}

// checkBudget validates b and confirms it targets one of the user's expense
// categories.
func checkBudget(ctx context.Context, store db.Store, userID string, b *models.Budget) (*models.Category, error) {
	if err := util.Validate(b); err != nil {
		return nil, &requestError{http.StatusBadRequest, err.Error()}
	}
	category, err := store.GetCategory(ctx, userID, b.CategoryID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &requestError{http.StatusNotFound, "category not found"}
	}
	if err != nil {
		return nil, err
	}
	if category.Kind != models.CategoryKindExpense {
		return nil, &requestError{http.StatusBadRequest, "budgets can only be set on expense categories"}
	}
	return category, nil
}

func summarizeBudget(ctx context.Context, store db.TransactionStore, b models.Budget, categoryName string) (models.BudgetSummary, error) {
	total, err := store.SumCategoryAmounts(ctx, b.UserID, b.CategoryID, b.Month, b.Month.AddDate(0, 1, 0))
	if err != nil {
		return models.BudgetSummary{}, err
	}
	spent := -total
	return models.BudgetSummary{
		Budget:       b,
		CategoryName: categoryName,
		Spent:        spent,
		Remaining:    b.PlannedAmount - spent,
		PercentUsed:  percent(spent, b.PlannedAmount),
	}, nil
}

const duplicateBudgetMessage = "a budget for this category and month already exists"

func CreateBudget(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req budgetRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create budget request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		budget := &models.Budget{UserID: userID, Month: db.MonthStart(time.Now())}
		if err := req.apply(budget); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category, err := checkBudget(r.Context(), store, userID, budget)
		if err != nil {
			log.Printf("ERROR: Rejected budget for user %s: %v", userID, err)
			writeRequestError(w, err)
			return
		}

		created, err := store.CreateBudget(r.Context(), budget)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				http.Error(w, duplicateBudgetMessage, http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create budget for user %s: %v", userID, err)
			http.Error(w, "failed to create budget", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created budget id %s for user %s, category %s", created.ID, userID, category.Name)

		summary, err := summarizeBudget(r.Context(), store, *created, category.Name)
		if err != nil {
			log.Printf("ERROR: Failed to summarize budget id %s: %v", created.ID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, summary)
	}
}

func GetBudgetByID(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID := chi.URLParam(r, "budget_id")
		budget, err := store.GetBudget(r.Context(), userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %s not found for user %s: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		category, err := store.GetCategory(r.Context(), userID, budget.CategoryID)
		if err != nil {
			log.Printf("ERROR: Failed to load category for budget id %s: %v", budgetID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		summary, err := summarizeBudget(r.Context(), store, *budget, category.Name)
		if err != nil {
			log.Printf("ERROR: Failed to summarize budget id %s: %v", budgetID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// GetAllBudgetsForUser lists budgets, optionally only those of ?month=YYYY-MM.
func GetAllBudgetsForUser(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var month *time.Time
		if value := r.URL.Query().Get("month"); value != "" {
			parsed, err := parseMonth(value)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			month = &parsed
		}

		budgets, err := store.ListBudgets(r.Context(), userID, month)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %s: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		options, err := store.ListCategoryOptions(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %s: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		names := make(map[string]string, len(options))
		for _, o := range options {
			names[o.ID] = o.Name
		}

		summaries := make([]models.BudgetSummary, 0, len(budgets))
		for _, b := range budgets {
			summary, err := summarizeBudget(r.Context(), store, b, names[b.CategoryID])
			if err != nil {
				log.Printf("ERROR: Failed to summarize budget id %s: %v", b.ID, err)
				http.Error(w, "failed to get budgets", http.StatusInternalServerError)
				return
			}
			summaries = append(summaries, summary)
		}
		writeJSON(w, http.StatusOK, summaries)
	}
}

func UpdateBudget(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID := chi.URLParam(r, "budget_id")

		budget, err := store.GetBudget(r.Context(), userID, budgetID)
		if err != nil {
			log.Printf("ERROR: Budget id %s not found for user %s: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}

		var req budgetRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := req.apply(budget); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		category, err := checkBudget(r.Context(), store, userID, budget)
		if err != nil {
			writeRequestError(w, err)
			return
		}

		updated, err := store.UpdateBudget(r.Context(), budget)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				http.Error(w, duplicateBudgetMessage, http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to update budget id %s for user %s: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		log.Printf("INFO: Updated budget id %s for user %s", updated.ID, userID)

		summary, err := summarizeBudget(r.Context(), store, *updated, category.Name)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func DeleteBudget(store db.BudgetStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		budgetID := chi.URLParam(r, "budget_id")
		if err := store.DeleteBudget(r.Context(), userID, budgetID); err != nil {
			log.Printf("ERROR: Failed to delete budget id %s for user %s: %v", budgetID, userID, err)
			writeStoreError(w, err, "budget not found")
			return
		}
		log.Printf("INFO: Deleted budget id %s for user %s", budgetID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "budget deleted"})
	}
}
