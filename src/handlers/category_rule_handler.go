package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/rules"
	"pocketbook-server/src/util"
	"strings"

	"github.com/go-chi/chi/v5"
)

type categoryRuleRequest struct {
	Name       *string         `json:"name"`
	Conditions json.RawMessage `json:"conditions"`
	CategoryID *string         `json:"category_id"`
}

func (req categoryRuleRequest) apply(rule *models.CategoryRule) {
	if req.Name != nil {
		rule.Name = strings.TrimSpace(*req.Name)
	}
	if len(req.Conditions) > 0 {
		rule.Conditions = req.Conditions
	}
	if req.CategoryID != nil {
		rule.CategoryID = strings.TrimSpace(*req.CategoryID)
	}
}

func checkCategoryRule(ctx context.Context, store db.CategoryStore, userID string, rule *models.CategoryRule) error {
	if err := util.Validate(rule); err != nil {
		return &requestError{http.StatusBadRequest, err.Error()}
	}
	if _, err := rules.Parse(rule.Conditions); err != nil {
		return &requestError{http.StatusBadRequest, err.Error()}
	}
	_, err := store.GetCategory(ctx, userID, rule.CategoryID)
	if errors.Is(err, db.ErrNotFound) {
		return &requestError{http.StatusNotFound, "category not found"}
	}
	return err
}

func CreateCategoryRule(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req categoryRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category rule request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rule := &models.CategoryRule{UserID: userID}
		req.apply(rule)
		if err := checkCategoryRule(r.Context(), store, userID, rule); err != nil {
			log.Printf("ERROR: Rejected category rule for user %s: %v", userID, err)
			writeRequestError(w, err)
			return
		}

		created, err := store.CreateCategoryRule(r.Context(), rule)
		if err != nil {
			log.Printf("ERROR: Failed to create category rule for user %s: %v", userID, err)
			http.Error(w, "failed to create category rule", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category rule id %s for user %s, name %s", created.ID, userID, created.Name)
		writeJSON(w, http.StatusCreated, created)
	}
}

func GetCategoryRuleByID(store db.CategoryRuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		ruleID := chi.URLParam(r, "rule_id")
		rule, err := store.GetCategoryRule(r.Context(), userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Category rule id %s not found for user %s: %v", ruleID, userID, err)
			writeStoreError(w, err, "category rule not found")
			return
		}
		writeJSON(w, http.StatusOK, rule)
	}
}

func GetAllCategoryRules(store db.CategoryRuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		ruleList, err := store.ListCategoryRules(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get category rules for user %s: %v", userID, err)
			http.Error(w, "failed to get category rules", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ruleList)
	}
}

func UpdateCategoryRule(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		ruleID := chi.URLParam(r, "rule_id")
		rule, err := store.GetCategoryRule(r.Context(), userID, ruleID)
		if err != nil {
			log.Printf("ERROR: Category rule id %s not found for user %s: %v", ruleID, userID, err)
			writeStoreError(w, err, "category rule not found")
			return
		}

		var req categoryRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category rule request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.apply(rule)
		if err := checkCategoryRule(r.Context(), store, userID, rule); err != nil {
			writeRequestError(w, err)
			return
		}

		updated, err := store.UpdateCategoryRule(r.Context(), rule)
		if err != nil {
			log.Printf("ERROR: Failed to update category rule id %s for user %s: %v", ruleID, userID, err)
			writeStoreError(w, err, "category rule not found")
			return
		}
		log.Printf("INFO: Updated category rule id %s for user %s", updated.ID, userID)
		writeJSON(w, http.StatusOK, updated)
	}
}

func DeleteCategoryRule(store db.CategoryRuleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		ruleID := chi.URLParam(r, "rule_id")
		if err := store.DeleteCategoryRule(r.Context(), userID, ruleID); err != nil {
			log.Printf("ERROR: Failed to delete category rule id %s for user %s: %v", ruleID, userID, err)
			writeStoreError(w, err, "category rule not found")
			return
		}
		log.Printf("INFO: Deleted category rule id %s for user %s", ruleID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "category rule deleted"})
	}
}

// ApplyCategoryRules re-categorizes every transaction of the user whose first
// matching rule points at another category of a fitting kind.
func ApplyCategoryRules(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		updated, err := applyCategoryRules(r.Context(), store, userID)
		if err != nil {
			log.Printf("ERROR: Failed to apply category rules for user %s: %v", userID, err)
			http.Error(w, "failed to apply category rules", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "category rules applied",
			"updated": updated,
		})
	}
}

func applyCategoryRules(ctx context.Context, store db.Store, userID string) (int, error) {
	ruleList, err := store.ListCategoryRules(ctx, userID)
	if err != nil || len(ruleList) == 0 {
		return 0, err
	}
	txns, err := store.ListAllTransactions(ctx, userID)
	if err != nil {
		return 0, err
	}
	accounts, err := store.ListAccountOptions(ctx, userID)
	if err != nil {
		return 0, err
	}
	categories, err := store.ListCategoryOptions(ctx, userID)
	if err != nil {
		return 0, err
	}
	accountNames := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	kinds := make(map[string]string, len(categories))
	for _, c := range categories {
		kinds[c.ID] = c.Kind
	}

	updated := 0
	for _, txn := range txns {
		rule := rules.Match(ruleList, rules.SubjectFor(txn, accountNames[txn.AccountID]))
		if rule == nil {
			continue
		}
		if txn.CategoryID != nil && *txn.CategoryID == rule.CategoryID {
			continue
		}
		if !categoryFitsAmount(kinds[rule.CategoryID], txn.Amount) {
			continue
		}
		if err := store.SetTransactionCategory(ctx, userID, txn.ID, rule.CategoryID); err != nil {
			return updated, err
		}
		log.Printf("INFO: Transaction id %s recategorized by rule %s", txn.ID, rule.Name)
		updated++
	}

	if updated == 0 {
		log.Printf("INFO: No transactions adjusted by rules for user %s", userID)
	}
	return updated, nil
}
