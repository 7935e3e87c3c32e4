package db

import (
	"context"
	"errors"
	"pocketbook-server/src/models"
	"time"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Every lookup, update and delete below is scoped to the owning user; a row
// belonging to someone else is reported as ErrNotFound.

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) error
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	GetAccount(ctx context.Context, userID, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]models.AccountSummary, error)
	ListAccountOptions(ctx context.Context, userID string) ([]models.AccountOption, error)
	UpdateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error
	CountAccountTransactions(ctx context.Context, userID, accountID string) (int64, error)
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	GetCategory(ctx context.Context, userID, id string) (*models.Category, error)
	FindCategoryByName(ctx context.Context, userID, name string) (*models.Category, error)
	// ListCategories returns all categories when kind is empty.
	ListCategories(ctx context.Context, userID, kind string) ([]models.CategorySummary, error)
	ListCategoryOptions(ctx context.Context, userID string) ([]models.CategoryOption, error)
	UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	// DeleteCategory also removes rules targeting the category and clears it
	// from bills.
	DeleteCategory(ctx context.Context, userID, id string) error
	CountCategoryTransactions(ctx context.Context, userID, categoryID string) (int64, error)
	CountCategoryBudgets(ctx context.Context, userID, categoryID string) (int64, error)
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (*models.TransactionDetail, error)
	// ListTransactions orders by date then creation time, newest first.
	ListTransactions(ctx context.Context, userID string, offset, limit int) ([]models.TransactionDetail, error)
	CountTransactions(ctx context.Context, userID string) (int64, error)
	ListAllTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	SetTransactionCategory(ctx context.Context, userID, id, categoryID string) error
	DeleteTransaction(ctx context.Context, userID, id string) error
	// SumTransactions totals amounts dated in [from, to). expense is negative.
	SumTransactions(ctx context.Context, userID string, from, to time.Time) (income int64, expense int64, err error)
	// SumCategoryAmounts totals a category's amounts dated in [from, to).
	SumCategoryAmounts(ctx context.Context, userID, categoryID string, from, to time.Time) (int64, error)
}

type BudgetStore interface {
	CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (*models.Budget, error)
	GetBudgetForMonth(ctx context.Context, userID, categoryID string, month time.Time) (*models.Budget, error)
	// ListBudgets returns every month when month is nil.
	ListBudgets(ctx context.Context, userID string, month *time.Time) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetGoal(ctx context.Context, userID, id string) (*models.Goal, error)
	ListGoals(ctx context.Context, userID string) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID, id string) error
}

type BillStore interface {
	CreateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error)
	GetBill(ctx context.Context, userID, id string) (*models.Bill, error)
	ListBills(ctx context.Context, userID string) ([]models.Bill, error)
	UpdateBill(ctx context.Context, bill *models.Bill) (*models.Bill, error)
	DeleteBill(ctx context.Context, userID, id string) error
}

type CategoryRuleStore interface {
	CreateCategoryRule(ctx context.Context, rule *models.CategoryRule) (*models.CategoryRule, error)
	GetCategoryRule(ctx context.Context, userID, id string) (*models.CategoryRule, error)
	ListCategoryRules(ctx context.Context, userID string) ([]models.CategoryRule, error)
	UpdateCategoryRule(ctx context.Context, rule *models.CategoryRule) (*models.CategoryRule, error)
	DeleteCategoryRule(ctx context.Context, userID, id string) error
}

type Store interface {
	UserStore
	AccountStore
	CategoryStore
	TransactionStore
	BudgetStore
	GoalStore
	BillStore
	CategoryRuleStore

	// DeleteAllData wipes every table. Used by the seed command.
	DeleteAllData(ctx context.Context) error
	Close() error
}

// MonthStart truncates t to the first instant of its month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
