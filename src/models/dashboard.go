package models

import "time"

type Dashboard struct {
	Month              string              `json:"month"`
	Income             int64               `json:"income"`
	Expense            int64               `json:"expense"`
	Net                int64               `json:"net"`
	TotalBalance       int64               `json:"total_balance"`
	RecentTransactions []TransactionDetail `json:"recent_transactions"`
	UpcomingBills      []BillSummary       `json:"upcoming_bills"`
	GeneratedAt        time.Time           `json:"generated_at"`
}
