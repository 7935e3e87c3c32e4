package handlers

import (
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"strings"

	"github.com/go-chi/chi/v5"
)

type accountRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Currency     *string `json:"currency"`
	Institution  *string `json:"institution"`
	NumberMasked *string `json:"number_masked"`
	Color        *string `json:"color"`
	Icon         *string `json:"icon"`
}

// apply merges the fields present in the request into a.
func (req accountRequest) apply(a *models.Account) {
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		a.Type = strings.ToUpper(strings.TrimSpace(*req.Type))
	}
	if req.Currency != nil {
		a.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.Institution != nil {
		a.Institution = trimmed(req.Institution)
	}
	if req.NumberMasked != nil {
		a.NumberMasked = trimmed(req.NumberMasked)
	}
	if req.Color != nil {
		a.Color = strings.TrimSpace(*req.Color)
	}
	if req.Icon != nil {
		a.Icon = strings.TrimSpace(*req.Icon)
	}
}

func CreateAccount(store db.AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req accountRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		account := &models.Account{UserID: userID, Currency: "USD"}
		req.apply(account)
		if err := util.Validate(account); err != nil {
			log.Printf("ERROR: Invalid account for user %s: %v", userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := store.CreateAccount(r.Context(), account)
		if err != nil {
			log.Printf("ERROR: Failed to create account for user %s: %v", userID, err)
			http.Error(w, "failed to create account", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created account id %s for user %s, name %s", created.ID, userID, created.Name)
		respond(w, r, http.StatusCreated, created, "/accounts")
	}
}

func GetAccounts(store db.AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		cached, err := store.ListAccounts(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get accounts for user %s: %v", userID, err)
			http.Error(w, "failed to get accounts", http.StatusInternalServerError)
			return
		}
		accounts := make([]models.AccountSummary, len(cached))
		copy(accounts, cached)
		for i := range accounts {
			accounts[i].BalanceFormatted = util.FormatCurrency(accounts[i].Balance, accounts[i].Currency)
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

func GetAccountOptions(store db.AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		options, err := store.ListAccountOptions(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get account options for user %s: %v", userID, err)
			http.Error(w, "failed to get accounts", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, options)
	}
}

func GetAccountByID(store db.AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		accountID := chi.URLParam(r, "account_id")
		account, err := store.GetAccount(r.Context(), userID, accountID)
		if err != nil {
			log.Printf("ERROR: Account id %s not found for user %s: %v", accountID, userID, err)
			writeStoreError(w, err, "account not found")
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func UpdateAccount(store db.AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		accountID := chi.URLParam(r, "account_id")

		account, err := store.GetAccount(r.Context(), userID, accountID)
		if err != nil {
			log.Printf("ERROR: Account id %s not found for user %s: %v", accountID, userID, err)
			writeStoreError(w, err, "account not found")
			return
		}

		var req accountRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update account request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.apply(account)
		if err := util.Validate(account); err != nil {
			log.Printf("ERROR: Invalid account update id %s for user %s: %v", accountID, userID, err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := store.UpdateAccount(r.Context(), account)
		if err != nil {
			log.Printf("ERROR: Failed to update account id %s for user %s: %v", accountID, userID, err)
			writeStoreError(w, err, "account not found")
			return
		}
		log.Printf("INFO: Updated account id %s for user %s", updated.ID, userID)
		respond(w, r, http.StatusOK, updated, "/accounts")
	}
}

func DeleteAccount(store db.AccountStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		accountID := chi.URLParam(r, "account_id")

		if _, err := store.GetAccount(r.Context(), userID, accountID); err != nil {
			log.Printf("ERROR: Account id %s not found for user %s: %v", accountID, userID, err)
			writeStoreError(w, err, "account not found")
			return
		}

		count, err := store.CountAccountTransactions(r.Context(), userID, accountID)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for account id %s: %v", accountID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if count > 0 {
			log.Printf("ERROR: Refused to delete account id %s for user %s with %d transactions", accountID, userID, count)
			http.Error(w, "cannot delete account with existing transactions", http.StatusConflict)
			return
		}

		if err := store.DeleteAccount(r.Context(), userID, accountID); err != nil {
			log.Printf("ERROR: Failed to delete account id %s for user %s: %v", accountID, userID, err)
			writeStoreError(w, err, "account not found")
			return
		}
		log.Printf("INFO: Deleted account id %s for user %s", accountID, userID)
		respond(w, r, http.StatusOK, map[string]string{"message": "account deleted"}, "/accounts")
	}
}
