package api

import (
	"net/http"
	"pocketbook-server/src/db"
	"pocketbook-server/src/handlers"
	"pocketbook-server/src/middleware"
	"pocketbook-server/src/notify"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Auth           handlers.AuthConfig
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(store db.Store, publisher notify.Publisher, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.DemoMode))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login(store, opts.Auth))
		r.Post("/register", handlers.Register(store, opts.Auth))
		r.Post("/logout", handlers.Logout())
		r.Get("/presets", handlers.GetPresets())

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(opts.Auth.JWTSecret, store)).Group(func(r chi.Router) {
			// User
			r.Get("/me", handlers.GetCurrentUser(store))
			r.Put("/me/password", handlers.ChangePassword(store, opts.Auth))
			r.Delete("/me", handlers.DeleteCurrentUser(store))

			// Accounts
			r.Post("/accounts", handlers.CreateAccount(store))
			r.Get("/accounts", handlers.GetAccounts(store))
			r.Get("/accounts/options", handlers.GetAccountOptions(store))
			r.Get("/accounts/{account_id}", handlers.GetAccountByID(store))
			r.Put("/accounts/{account_id}", handlers.UpdateAccount(store))
			r.Delete("/accounts/{account_id}", handlers.DeleteAccount(store))

			// Categories
			r.Post("/categories", handlers.CreateCategory(store))
			r.Get("/categories", handlers.GetCategories(store))
			r.Get("/categories/options", handlers.GetCategoryOptions(store))
			r.Get("/categories/{category_id}", handlers.GetCategoryByID(store))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(store))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(store))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(store, publisher))
			r.Post("/transactions/quick", handlers.QuickAddTransaction(store, publisher))
			r.Get("/transactions", handlers.GetTransactions(store))
			r.Get("/transactions/{transaction_id}", handlers.GetTransactionByID(store))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(store, publisher))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(store))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(store))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(store))
			r.Get("/budgets/{budget_id}", handlers.GetBudgetByID(store))
			r.Put("/budgets/{budget_id}", handlers.UpdateBudget(store))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(store))

			// Goals
			r.Post("/goals", handlers.CreateGoal(store))
			r.Get("/goals", handlers.GetGoals(store))
			r.Get("/goals/{goal_id}", handlers.GetGoalByID(store))
			r.Put("/goals/{goal_id}", handlers.UpdateGoal(store))
			r.Post("/goals/{goal_id}/contribute", handlers.ContributeToGoal(store))
			r.Delete("/goals/{goal_id}", handlers.DeleteGoal(store))

			// Bills
			r.Post("/bills", handlers.CreateBill(store))
			r.Get("/bills", handlers.GetBills(store))
			r.Get("/bills/{bill_id}", handlers.GetBillByID(store))
			r.Put("/bills/{bill_id}", handlers.UpdateBill(store))
			r.Delete("/bills/{bill_id}", handlers.DeleteBill(store))

			// Category Rules
			r.Post("/category-rules", handlers.CreateCategoryRule(store))
			r.Post("/category-rules/apply", handlers.ApplyCategoryRules(store))
			r.Get("/category-rules", handlers.GetAllCategoryRules(store))
			r.Get("/category-rules/{rule_id}", handlers.GetCategoryRuleByID(store))
			r.Put("/category-rules/{rule_id}", handlers.UpdateCategoryRule(store))
			r.Delete("/category-rules/{rule_id}", handlers.DeleteCategoryRule(store))

			r.Get("/dashboard", handlers.GetDashboard(store))
		})
	})

	return r
}
