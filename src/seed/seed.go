// Package seed fills a store with demo users and a few months of realistic
// activity for each of them.
package seed

import (
	"context"
	"fmt"
	"log"
	"pocketbook-server/src/db"
	"pocketbook-server/src/models"
	"pocketbook-server/src/util"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
)

// Password is shared by every seeded user.
const Password = "password123"

type Options struct {
	Reset bool
	Users int
	// Seed makes the generated data reproducible. Zero picks a random seed.
	Seed uint64
	Now  time.Time
}

type Summary struct {
	Users        int
	Emails       []string
	Accounts     int
	Transactions int
	Budgets      int
	Goals        int
	Bills        int
}

var payees = map[string][]string{
	"Groceries":      {"Walmart", "Target", "Kroger", "Safeway", "Whole Foods"},
	"Food & Dining":  {"McDonald's", "Starbucks", "Chipotle", "Subway", "Pizza Hut"},
	"Transportation": {"Shell", "Exxon", "BP", "Chevron", "Mobil"},
	"Utilities":      {"Pacific Gas & Electric", "ConEd", "Duke Energy", "ComEd"},
	"Entertainment":  {"Netflix", "Spotify", "Amazon Prime", "Adobe", "Microsoft"},
	"Shopping":       {"Amazon", "Best Buy", "Home Depot", "Costco", "Macy's"},
}

// expenseRanges are amount ranges in cents, by category name.
var expenseRanges = map[string][2]int{
	"Housing":        {120000, 300000},
	"Groceries":      {5000, 15000},
	"Food & Dining":  {1500, 8000},
	"Transportation": {3000, 8000},
	"Utilities":      {8000, 25000},
	"Shopping":       {2000, 50000},
	"Entertainment":  {1500, 15000},
}

var budgetRanges = map[string][2]int{
	"Housing":        {150000, 350000},
	"Food & Dining":  {40000, 80000},
	"Groceries":      {30000, 60000},
	"Transportation": {20000, 50000},
}

type goalType struct {
	name   string
	amount int64
}

var goalTypes = []goalType{
	{"Emergency Fund", 1000000},
	{"Vacation", 500000},
	{"New Car", 2500000},
	{"Home Down Payment", 5000000},
}

var billTypes = []struct {
	name     string
	category string
	min, max int
}{
	{"Rent/Mortgage", "Housing", 120000, 300000},
	{"Electric Bill", "Utilities", 8000, 20000},
	{"Car Insurance", "Insurance", 15000, 40000},
}

type seeder struct {
	store db.Store
	faker *gofakeit.Faker
	now   time.Time
	hash  string
}

func Run(ctx context.Context, store db.Store, opts Options) (Summary, error) {
	var summary Summary
	if opts.Users <= 0 {
		opts.Users = 3
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	if opts.Reset {
		log.Println("INFO: Clearing existing data")
		if err := store.DeleteAllData(ctx); err != nil {
			return summary, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return summary, fmt.Errorf("failed to hash password: %w", err)
	}

	s := &seeder{
		store: store,
		faker: gofakeit.New(opts.Seed),
		now:   opts.Now,
		hash:  string(hash),
	}

	for i := 0; i < opts.Users; i++ {
		if err := s.seedUser(ctx, &summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (s *seeder) seedUser(ctx context.Context, summary *Summary) error {
	user, err := s.store.CreateUser(ctx, &models.User{
		Email:        strings.ToLower(s.faker.Email()),
		PasswordHash: s.hash,
	})
	if err != nil {
		return err
	}
	log.Printf("INFO: Seeding data for user %s", user.Email)
	summary.Users++
	summary.Emails = append(summary.Emails, user.Email)

	categories, err := s.seedCategories(ctx, user.ID)
	if err != nil {
		return err
	}
	accounts, err := s.seedAccounts(ctx, user.ID)
	if err != nil {
		return err
	}
	summary.Accounts += len(accounts)

	txnCount, err := s.seedTransactions(ctx, user.ID, accounts, categories)
	if err != nil {
		return err
	}
	summary.Transactions += txnCount

	budgetCount, err := s.seedBudgets(ctx, user.ID, categories)
	if err != nil {
		return err
	}
	summary.Budgets += budgetCount

	goalCount, err := s.seedGoals(ctx, user.ID)
	if err != nil {
		return err
	}
	summary.Goals += goalCount

	billCount, err := s.seedBills(ctx, user.ID, categories)
	if err != nil {
		return err
	}
	summary.Bills += billCount
	return nil
}

func (s *seeder) seedCategories(ctx context.Context, userID string) ([]models.Category, error) {
	presets := append(append([]util.CategoryPreset{}, util.ExpenseCategories...), util.IncomeCategories...)
	categories := make([]models.Category, 0, len(presets))
	for _, p := range presets {
		c, err := s.store.CreateCategory(ctx, &models.Category{UserID: userID, Name: p.Name, Kind: p.Kind})
		if err != nil {
			return nil, fmt.Errorf("failed to create category %s: %w", p.Name, err)
		}
		categories = append(categories, *c)
	}
	return categories, nil
}

func (s *seeder) seedAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	count := s.faker.IntRange(3, 5)
	accounts := make([]models.Account, 0, count)
	for i := 0; i < count; i++ {
		preset := util.AccountTypes[s.faker.IntRange(0, len(util.AccountTypes)-1)]
		institution := s.faker.Company()
		masked := s.faker.Numerify("****####")
		a, err := s.store.CreateAccount(ctx, &models.Account{
			UserID:       userID,
			Name:         fmt.Sprintf("%s %s", preset.Label, institution),
			Type:         preset.Value,
			Currency:     "USD",
			Institution:  &institution,
			NumberMasked: &masked,
			Color:        preset.Color,
			Icon:         preset.Icon,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, nil
}

func byKind(categories []models.Category, kind string) []models.Category {
	var out []models.Category
	for _, c := range categories {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (s *seeder) notes() *string {
	words := make([]string, s.faker.IntRange(3, 8))
	for i := range words {
		words[i] = s.faker.Word()
	}
	n := strings.Join(words, " ")
	return &n
}

func (s *seeder) seedTransactions(ctx context.Context, userID string, accounts []models.Account, categories []models.Category) (int, error) {
	expense := byKind(categories, models.CategoryKindExpense)
	income := byKind(categories, models.CategoryKindIncome)
	start := s.now.AddDate(0, -6, 0)
	created := 0

	// Each account opens with a starting balance so listings show something
	// other than the sum of random spending.
	for _, a := range accounts {
		payee := "Opening Balance"
		_, err := s.store.CreateTransaction(ctx, &models.Transaction{
			UserID:    userID,
			AccountID: a.ID,
			Amount:    int64(s.faker.IntRange(10000, 500000)),
			Date:      start,
			Payee:     &payee,
		})
		if err != nil {
			return created, fmt.Errorf("failed to create transaction: %w", err)
		}
		created++
	}

	count := s.faker.IntRange(50, 100)
	for i := 0; i < count; i++ {
		var (
			category models.Category
			amount   int64
			payee    string
		)
		if s.faker.IntRange(1, 100) <= 20 {
			category = income[s.faker.IntRange(0, len(income)-1)]
			amount = int64(s.faker.IntRange(200000, 800000))
			payee = s.faker.Company()
			if category.Name == "Salary" {
				payee = "Acme Corp"
			}
		} else {
			category = expense[s.faker.IntRange(0, len(expense)-1)]
			r, ok := expenseRanges[category.Name]
			if !ok {
				r = [2]int{2000, 20000}
			}
			amount = -int64(s.faker.IntRange(r[0], r[1]))
			switch {
			case category.Name == "Housing":
				payee = "Landlord Property Management"
			case len(payees[category.Name]) > 0:
				payee = s.faker.RandomString(payees[category.Name])
			default:
				payee = s.faker.Company()
			}
		}

		categoryID := category.ID
		_, err := s.store.CreateTransaction(ctx, &models.Transaction{
			UserID:     userID,
			AccountID:  accounts[s.faker.IntRange(0, len(accounts)-1)].ID,
			CategoryID: &categoryID,
			Amount:     amount,
			Date:       s.faker.DateRange(start, s.now),
			Payee:      &payee,
			Notes:      s.notes(),
		})
		if err != nil {
			return created, fmt.Errorf("failed to create transaction: %w", err)
		}
		created++
	}
	return created, nil
}

func (s *seeder) seedBudgets(ctx context.Context, userID string, categories []models.Category) (int, error) {
	expense := byKind(categories, models.CategoryKindExpense)
	if len(expense) > 7 {
		expense = expense[:7]
	}
	month := db.MonthStart(s.now)
	for _, c := range expense {
		r, ok := budgetRanges[c.Name]
		if !ok {
			r = [2]int{10000, 30000}
		}
		_, err := s.store.CreateBudget(ctx, &models.Budget{
			UserID:        userID,
			CategoryID:    c.ID,
			Month:         month,
			PlannedAmount: int64(s.faker.IntRange(r[0], r[1])),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create budget for %s: %w", c.Name, err)
		}
	}
	return len(expense), nil
}

func (s *seeder) seedGoals(ctx context.Context, userID string) (int, error) {
	order := make([]int, len(goalTypes))
	for i := range order {
		order[i] = i
	}
	s.faker.ShuffleInts(order)

	count := s.faker.IntRange(2, 3)
	for _, i := range order[:count] {
		g := goalTypes[i]
		target := s.faker.DateRange(s.now, s.now.AddDate(2, 0, 0))
		_, err := s.store.CreateGoal(ctx, &models.Goal{
			UserID:       userID,
			Name:         g.name,
			TargetAmount: g.amount,
			Progress:     int64(s.faker.IntRange(0, int(g.amount*6/10))),
			TargetDate:   &target,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create goal %s: %w", g.name, err)
		}
	}
	return count, nil
}

func (s *seeder) seedBills(ctx context.Context, userID string, categories []models.Category) (int, error) {
	byName := make(map[string]string, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}

	created := 0
	for _, b := range billTypes {
		categoryID, ok := byName[b.category]
		if !ok {
			continue
		}
		_, err := s.store.CreateBill(ctx, &models.Bill{
			UserID:     userID,
			CategoryID: &categoryID,
			Name:       b.name,
			Amount:     int64(s.faker.IntRange(b.min, b.max)),
			DueDay:     s.faker.IntRange(1, 28),
		})
		if err != nil {
			return created, fmt.Errorf("failed to create bill %s: %w", b.name, err)
		}
		created++
	}
	return created, nil
}
