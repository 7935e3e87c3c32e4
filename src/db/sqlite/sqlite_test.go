package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

type fixture struct {
	user     *models.User
	account  *models.Account
	category *models.Category
}

func newFixture(t *testing.T, store *Store, email string) fixture {
	t.Helper()
	ctx := context.Background()
	user, err := store.CreateUser(ctx, &models.User{Email: email, PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	account, err := store.CreateAccount(ctx, &models.Account{
		UserID: user.ID, Name: "Checking", Type: "CHECKING", Currency: "USD", Color: "#3b82f6", Icon: "🏦",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	category, err := store.CreateCategory(ctx, &models.Category{UserID: user.ID, Name: "Groceries", Kind: models.CategoryKindExpense})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return fixture{user: user, account: account, category: category}
}

func (f fixture) addTransaction(t *testing.T, store *Store, amount int64, date time.Time, categorized bool) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{UserID: f.user.ID, AccountID: f.account.ID, Amount: amount, Date: date}
	if categorized {
		txn.CategoryID = &f.category.ID
	}
	created, err := store.CreateTransaction(context.Background(), txn)
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return created
}

func TestDuplicates(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := newFixture(t, store, "a@example.com")

	_, err := store.CreateUser(ctx, &models.User{Email: "a@example.com", PasswordHash: "x"})
	if !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("duplicate user: err = %v, want ErrDuplicate", err)
	}

	_, err = store.CreateCategory(ctx, &models.Category{UserID: f.user.ID, Name: "Groceries", Kind: models.CategoryKindExpense})
	if !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("duplicate category: err = %v, want ErrDuplicate", err)
	}

	month := time.Date(2024, 4, 17, 0, 0, 0, 0, time.UTC)
	budget := &models.Budget{UserID: f.user.ID, CategoryID: f.category.ID, Month: month, PlannedAmount: 100}
	if _, err := store.CreateBudget(ctx, budget); err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}
	budget.Month = month.AddDate(0, 0, 5)
	if _, err := store.CreateBudget(ctx, budget); !errors.Is(err, db.ErrDuplicate) {
		t.Errorf("second budget in the same month: err = %v, want ErrDuplicate", err)
	}
}

func TestOwnershipScoping(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := newFixture(t, store, "alice@example.com")
	bob := newFixture(t, store, "bob@example.com")

	if _, err := store.GetAccount(ctx, bob.user.ID, alice.account.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("GetAccount across users: err = %v", err)
	}
	if err := store.DeleteCategory(ctx, bob.user.ID, alice.category.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("DeleteCategory across users: err = %v", err)
	}
	stolen := *alice.account
	stolen.UserID = bob.user.ID
	stolen.Name = "Mine"
	if _, err := store.UpdateAccount(ctx, &stolen); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("UpdateAccount across users: err = %v", err)
	}

	got, err := store.GetAccount(ctx, alice.user.ID, alice.account.ID)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Name != "Checking" {
		t.Errorf("name = %q, want untouched", got.Name)
	}
}

func TestListAccountsDerivesBalance(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := newFixture(t, store, "c@example.com")
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	f.addTransaction(t, store, 50000, day, false)
	f.addTransaction(t, store, -1250, day, true)

	empty, err := store.CreateAccount(ctx, &models.Account{
		UserID: f.user.ID, Name: "Cash", Type: "CASH", Currency: "USD", Color: "#f59e0b", Icon: "💵",
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	accounts, err := store.ListAccounts(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	byID := map[string]models.AccountSummary{}
	for _, a := range accounts {
		byID[a.ID] = a
	}
	if a := byID[f.account.ID]; a.Balance != 48750 || a.TransactionCount != 2 {
		t.Errorf("checking = %d over %d transactions", a.Balance, a.TransactionCount)
	}
	if a := byID[empty.ID]; a.Balance != 0 || a.TransactionCount != 0 {
		t.Errorf("cash = %d over %d transactions", a.Balance, a.TransactionCount)
	}
}

func TestTransactionListingAndSums(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := newFixture(t, store, "d@example.com")

	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.addTransaction(t, store, -300, march.AddDate(0, 0, -1), true)
	f.addTransaction(t, store, -200, march, true)
	f.addTransaction(t, store, 1000, march.AddDate(0, 0, 14), false)
	f.addTransaction(t, store, -100, march.AddDate(0, 1, 0), true)

	page, err := store.ListTransactions(ctx, f.user.ID, 1, 2)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(page) != 2 || page[0].Amount != 1000 || page[1].Amount != -200 {
		t.Fatalf("page = %+v", page)
	}
	if page[0].Category != nil || page[1].Category == nil || page[1].Category.Name != "Groceries" {
		t.Errorf("categories not joined: %+v / %+v", page[0].Category, page[1].Category)
	}
	if page[1].Account.Name != "Checking" {
		t.Errorf("account not joined: %+v", page[1].Account)
	}

	income, expense, err := store.SumTransactions(ctx, f.user.ID, march, march.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("SumTransactions: %v", err)
	}
	if income != 1000 || expense != -200 {
		t.Errorf("income %d expense %d, want 1000 -200", income, expense)
	}

	spent, err := store.SumCategoryAmounts(ctx, f.user.ID, f.category.ID, march, march.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("SumCategoryAmounts: %v", err)
	}
	if spent != -200 {
		t.Errorf("category total = %d, want -200", spent)
	}

	count, err := store.CountTransactions(ctx, f.user.ID)
	if err != nil || count != 4 {
		t.Errorf("CountTransactions = %d, %v", count, err)
	}
}

func TestDeleteCategoryCascadesToRulesAndBills(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := newFixture(t, store, "e@example.com")

	_, err := store.CreateCategoryRule(ctx, &models.CategoryRule{
		UserID: f.user.ID, Name: "shops", CategoryID: f.category.ID,
		Conditions: []byte(`{"field":"payee","op":"contains","value":"mart"}`),
	})
	if err != nil {
		t.Fatalf("CreateCategoryRule: %v", err)
	}
	bill, err := store.CreateBill(ctx, &models.Bill{UserID: f.user.ID, CategoryID: &f.category.ID, Name: "Box", Amount: 3000, DueDay: 3})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	if err := store.DeleteCategory(ctx, f.user.ID, f.category.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	rules, err := store.ListCategoryRules(ctx, f.user.ID)
	if err != nil || len(rules) != 0 {
		t.Errorf("rules left = %d, %v", len(rules), err)
	}
	got, err := store.GetBill(ctx, f.user.ID, bill.ID)
	if err != nil {
		t.Fatalf("GetBill: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("bill category = %v, want cleared", *got.CategoryID)
	}
}

func TestDeleteUserRemovesOwnedRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	f := newFixture(t, store, "f@example.com")
	other := newFixture(t, store, "g@example.com")
	f.addTransaction(t, store, -100, time.Now(), true)
	other.addTransaction(t, store, -100, time.Now(), true)

	if err := store.DeleteUser(ctx, f.user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := store.GetUserByID(ctx, f.user.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("user still present: %v", err)
	}
	if n, _ := store.CountAccountTransactions(ctx, f.user.ID, f.account.ID); n != 0 {
		t.Errorf("%d transactions left", n)
	}
	if n, _ := store.CountTransactions(ctx, other.user.ID); n != 1 {
		t.Errorf("other user has %d transactions, want 1", n)
	}
	if err := store.DeleteUser(ctx, f.user.ID); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}
