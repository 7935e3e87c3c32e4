package handlers

import (
	"log"
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"time"

	"golang.org/x/sync/errgroup"
)

const recentTransactionCount = 5

// GetDashboard summarizes the current month: totals, combined balance, latest
// transactions and bills ordered by next due date.
func GetDashboard(store db.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		now := time.Now().UTC()
		month := db.MonthStart(now)

		var (
			income, expense int64
			accounts        []models.AccountSummary
			recent          []models.TransactionDetail
			bills           []models.Bill
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			income, expense, err = store.SumTransactions(ctx, userID, month, month.AddDate(0, 1, 0))
			return err
		})
		g.Go(func() error {
			var err error
			accounts, err = store.ListAccounts(ctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			recent, err = store.ListTransactions(ctx, userID, 0, recentTransactionCount)
			return err
		})
		g.Go(func() error {
			var err error
			bills, err = store.ListBills(ctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			log.Printf("ERROR: Failed to build dashboard for user %s: %v", userID, err)
			http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
			return
		}

		var totalBalance int64
		for _, a := range accounts {
			totalBalance += a.Balance
		}
		for i := range recent {
			decorate(&recent[i])
		}

		writeJSON(w, http.StatusOK, models.Dashboard{
			Month:              month.Format("2006-01"),
			Income:             income,
			Expense:            expense,
			Net:                income + expense,
			TotalBalance:       totalBalance,
			RecentTransactions: recent,
			UpcomingBills:      upcomingBills(bills, now),
			GeneratedAt:        now,
		})
	}
}

func GetPresets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, util.AllPresets())
	}
}
