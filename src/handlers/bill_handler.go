package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type billRequest struct {
	CategoryID *string `json:"category_id"`
	Name       *string `json:"name"`
	Amount     *int64  `json:"amount"`
	DueDay     *int    `json:"due_day"`
}

func (req billRequest) apply(b *models.Bill) {
	if req.CategoryID != nil {
		b.CategoryID = trimmed(req.CategoryID)
	}
	if req.Name != nil {
		b.Name = strings.TrimSpace(*req.Name)
	}
	if req.Amount != nil {
		b.Amount = *req.Amount
	}
	if req.DueDay != nil {
		b.DueDay = *req.DueDay
	}
}

// nextDue returns the first date on or after today that falls on dueDay.
func nextDue(now time.Time, dueDay int) time.Time {
	now = now.UTC()
	due := time.Date(now.Year(), now.Month(), dueDay, 0, 0, 0, 0, time.UTC)
	if now.Day() > dueDay {
		due = due.AddDate(0, 1, 0)
	}
	return due
}

func billSummary(b models.Bill, now time.Time) models.BillSummary {
	return models.BillSummary{Bill: b, NextDue: nextDue(now, b.DueDay)}
}

// upcomingBills orders bills by their next due date.
func upcomingBills(bills []models.Bill, now time.Time) []models.BillSummary {
	out := make([]models.BillSummary, 0, len(bills))
	for _, b := range bills {
		out = append(out, billSummary(b, now))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NextDue.Before(out[j].NextDue) })
	return out
}

func checkBill(ctx context.Context, store db.CategoryStore, userID string, b *models.Bill) error {
	if err := util.Validate(b); err != nil {
		return &requestError{http.StatusBadRequest, err.Error()}
	}
	if b.CategoryID == nil {
		return nil
	}
	_, err := store.GetCategory(ctx, userID, *b.CategoryID)
	if errors.Is(err, db.ErrNotFound) {
		return &requestError{http.StatusNotFound, "category not found"}
	}
	return err
}

func CreateBill(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		var req billRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode create bill request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		bill := &models.Bill{UserID: userID}
		req.apply(bill)
		if err := checkBill(r.Context(), store, userID, bill); err != nil {
			log.Printf("ERROR: Rejected bill for user %s: %v", userID, err)
			writeRequestError(w, err)
			return
		}

		created, err := store.CreateBill(r.Context(), bill)
		if err != nil {
			log.Printf("ERROR: Failed to create bill for user %s: %v", userID, err)
			http.Error(w, "failed to create bill", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created bill id %s for user %s, name %s", created.ID, userID, created.Name)
		writeJSON(w, http.StatusCreated, billSummary(*created, time.Now()))
	}
}

func GetBills(store db.BillStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		bills, err := store.ListBills(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to get bills for user %s: %v", userID, err)
			http.Error(w, "failed to get bills", http.StatusInternalServerError)
			return
		}
		now := time.Now()
		out := make([]models.BillSummary, 0, len(bills))
		for _, b := range bills {
			out = append(out, billSummary(b, now))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func GetBillByID(store db.BillStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		billID := chi.URLParam(r, "bill_id")
		bill, err := store.GetBill(r.Context(), userID, billID)
		if err != nil {
			log.Printf("ERROR: Bill id %s not found for user %s: %v", billID, userID, err)
			writeStoreError(w, err, "bill not found")
			return
		}
		writeJSON(w, http.StatusOK, billSummary(*bill, time.Now()))
	}
}

func UpdateBill(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		billID := chi.URLParam(r, "bill_id")
		bill, err := store.GetBill(r.Context(), userID, billID)
		if err != nil {
			log.Printf("ERROR: Bill id %s not found for user %s: %v", billID, userID, err)
			writeStoreError(w, err, "bill not found")
			return
		}

		var req billRequest
		if err := decodeRequest(r, &req); err != nil {
			log.Printf("ERROR: Failed to decode update bill request body for user %s: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		req.apply(bill)
		if err := checkBill(r.Context(), store, userID, bill); err != nil {
			writeRequestError(w, err)
			return
		}

		updated, err := store.UpdateBill(r.Context(), bill)
		if err != nil {
			log.Printf("ERROR: Failed to update bill id %s for user %s: %v", billID, userID, err)
			writeStoreError(w, err, "bill not found")
			return
		}
		log.Printf("INFO: Updated bill id %s for user %s", updated.ID, userID)
		writeJSON(w, http.StatusOK, billSummary(*updated, time.Now()))
	}
}

func DeleteBill(store db.BillStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		billID := chi.URLParam(r, "bill_id")
		if err := store.DeleteBill(r.Context(), userID, billID); err != nil {
			log.Printf("ERROR: Failed to delete bill id %s for user %s: %v", billID, userID, err)
			writeStoreError(w, err, "bill not found")
			return
		}
		log.Printf("INFO: Deleted bill id %s for user %s", billID, userID)
		writeJSON(w, http.StatusOK, map[string]string{"message": "bill deleted"})
	}
}
