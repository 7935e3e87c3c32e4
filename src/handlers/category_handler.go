package handlers

import (
	"errors"
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"strings"

	"github.com/go-chi/chi/v5"
)

type categoryRequest struct {
	Name *string `json:"name"`
	Kind *string `json:"kind"`
}

func (req categoryRequest) apply(c *models.Category) {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Kind != nil {
		c.Kind = strings.ToLower(strings.TrimSpace(*req.Kind))
	}
}

const duplicateCategoryMessage = "a category with this name already exists"

// nameTaken reports whether another category of the user already uses name.
func nameTaken(r *http.Request, store db.CategoryStore, userID, name, exceptID string) (bool, error) {
	existing, err := store.FindCategoryByName(r.Context(), userID, name)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != exceptID, nil
}

func CreateCategory(store db.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req categoryRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		category := &models.Category{UserID: userID}
		req.apply(category)
		if err := util.Validate(category); err != nil {
			log.Printf("ERROR: Invalid category for user %s: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		taken, err := nameTaken(r, store, userID, category.Name, "")
		if err != nil {
			log.Printf("ERROR: Failed to check category name for user %s: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if taken {
			log.Printf("ERROR: Duplicate category name %q for user %s", category.Name, userID)
			http.Error(w, duplicateCategoryMessage, http.StatusConflict)
			return
		}

		created, err := store.CreateCategory(r.Context(), category)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				http.Error(w, duplicateCategoryMessage, http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to create category for user %s: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category id %s for user %s, name %s", created.ID, userID, created.Name)
		respond(w, r, http.StatusCreated, created, "/categories")
	}
}

func GetCategories(store db.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		kind := strings.ToLower(r.URL.Query().Get("kind"))
		if kind != "" && kind != models.CategoryKindIncome && kind != models.CategoryKindExpense {
			http.Error(w, "kind must be income or expense", http.StatusBadRequest)
			return
		}

		cached, err := store.ListCategories(r.Context(), userID, kind)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %s: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		categories := make([]models.CategorySummary, len(cached))
		copy(categories, cached)
		for i := range categories {
			if icon, color, ok := util.CategoryVisual(categories[i].Name, categories[i].Kind); ok {
				categories[i].Icon = icon
				categories[i].Color = color
			}
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func GetCategoryOptions(store db.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		options, err := store.ListCategoryOptions(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get category options for user %s: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, options)
	}
}

func GetCategoryByID(store db.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID := chi.URLParam(r, "category_id")
		category, err := store.GetCategory(r.Context(), userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Category id %s not found for user %s: %v", categoryID, userID, err)
			writeStoreError(w, err, "category not found")
			return
		}
		writeJSON(w, http.StatusOK, category)
	}
}

func UpdateCategory(store db.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID := chi.URLParam(r, "category_id")

		category, err := store.GetCategory(r.Context(), userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Category id %s not found for user %s: %v", categoryID, userID, err)
			writeStoreError(w, err, "category not found")
			return
		}
		previousKind := category.Kind

		var req categoryRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.apply(category)
		if err := util.Validate(category); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		taken, err := nameTaken(r, store, userID, category.Name, category.ID)
		if err != nil {
			log.Printf("ERROR: Failed to check category name for user %s: %v", userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if taken {
			http.Error(w, duplicateCategoryMessage, http.StatusConflict)
			return
		}

		// Amount signs of existing transactions and budgets depend on the kind.
		if category.Kind != previousKind {
			txns, err := store.CountCategoryTransactions(r.Context(), userID, categoryID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			budgets, err := store.CountCategoryBudgets(r.Context(), userID, categoryID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if txns > 0 || budgets > 0 {
				http.Error(w, "cannot change kind of a category that is in use", http.StatusConflict)
				return
			}
		}

		updated, err := store.UpdateCategory(r.Context(), category)
		if err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				http.Error(w, duplicateCategoryMessage, http.StatusConflict)
				return
			}
			log.Printf("ERROR: Failed to update category id %s for user %s: %v", categoryID, userID, err)
			writeStoreError(w, err, "category not found")
			return
		}
		log.Printf("INFO: Updated category id %s for user %s", updated.ID, userID)
		respond(w, r, http.StatusOK, updated, "/categories")
	}
}

func DeleteCategory(store db.CategoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		categoryID := chi.URLParam(r, "category_id")

		if _, err := store.GetCategory(r.Context(), userID, categoryID); err != nil {
			log.Printf("ERROR: Category id %s not found for user %s: %v", categoryID, userID, err)
			writeStoreError(w, err, "category not found")
			return
		}

		txns, err := store.CountCategoryTransactions(r.Context(), userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for category id %s: %v", categoryID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if txns > 0 {
			log.Printf("ERROR: Refused to delete category id %s for user %s with %d transactions", categoryID, userID, txns)
			http.Error(w, "cannot delete category with existing transactions", http.StatusConflict)
			return
		}

		budgets, err := store.CountCategoryBudgets(r.Context(), userID, categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to count budgets for category id %s: %v", categoryID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if budgets > 0 {
			log.Printf("ERROR: Refused to delete category id %s for user %s with %d budgets", categoryID, userID, budgets)
			http.Error(w, "cannot delete category with existing budgets", http.StatusConflict)
			return
		}

		if err := store.DeleteCategory(r.Context(), userID, categoryID); err != nil {
			log.Printf("ERROR: Failed to delete category id %s for user %s: %v", categoryID, userID, err)
			writeStoreError(w, err, "category not found")
			return
		}
		log.Printf("INFO: Deleted category id %s for user %s", categoryID, userID)
		respond(w, r, http.StatusOK, map[string]string{"message": "category deleted"}, "/categories")
	}
}
