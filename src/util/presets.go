package util

import "pocketbook-server/src/models"

type AccountTypePreset struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type CurrencyPreset struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type CategoryPreset struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Presets struct {
	AccountTypes    []AccountTypePreset `json:"account_types"`
	AccountColors   []string            `json:"account_colors"`
	AccountIcons    []string            `json:"account_icons"`
	Currencies      []CurrencyPreset    `json:"currencies"`
	ExpenseDefaults []CategoryPreset    `json:"expense_categories"`
	IncomeDefaults  []CategoryPreset    `json:"income_categories"`
	CategoryIcons   []string            `json:"category_icons"`
	CategoryColors  []string            `json:"category_colors"`
}

var AccountTypes = []AccountTypePreset{
	{Value: "CHECKING", Label: "Checking", Color: "#3b82f6", Icon: "🏦"},
	{Value: "SAVINGS", Label: "Savings", Color: "#10b981", Icon: "💰"},
	{Value: "CREDIT", Label: "Credit Card", Color: "#ef4444", Icon: "💳"},
	{Value: "INVESTMENT", Label: "Investment", Color: "#8b5cf6", Icon: "📈"},
	{Value: "CASH", Label: "Cash", Color: "#f59e0b", Icon: "💵"},
}

var AccountColors = []string{
	"#3b82f6", "#10b981", "#ef4444", "#8b5cf6", "#f59e0b",
	"#ec4899", "#06b6d4", "#84cc16", "#6366f1", "#f97316",
}

var AccountIcons = []string{
	"🏦", "💰", "💳", "📈", "💵", "💎", "🏠", "🚗",
	"🛒", "🎯", "💼", "🎓", "⚕️", "🍽️", "🎬", "🛡️",
}

var Currencies = []CurrencyPreset{
	{Value: "USD", Label: "US Dollar ($)"},
	{Value: "EUR", Label: "Euro (€)"},
	{Value: "GBP", Label: "British Pound (£)"},
	{Value: "CAD", Label: "Canadian Dollar (C$)"},
}

var ExpenseCategories = []CategoryPreset{
	{Name: "Housing", Kind: models.CategoryKindExpense, Icon: "🏠", Color: "#3b82f6"},
	{Name: "Transportation", Kind: models.CategoryKindExpense, Icon: "🚗", Color: "#ef4444"},
	{Name: "Food & Dining", Kind: models.CategoryKindExpense, Icon: "🍽️", Color: "#f59e0b"},
	{Name: "Groceries", Kind: models.CategoryKindExpense, Icon: "🛒", Color: "#10b981"},
	{Name: "Shopping", Kind: models.CategoryKindExpense, Icon: "🛍️", Color: "#8b5cf6"},
	{Name: "Entertainment", Kind: models.CategoryKindExpense, Icon: "🎬", Color: "#ec4899"},
	{Name: "Healthcare", Kind: models.CategoryKindExpense, Icon: "⚕️", Color: "#06b6d4"},
	{Name: "Utilities", Kind: models.CategoryKindExpense, Icon: "⚡", Color: "#84cc16"},
	{Name: "Insurance", Kind: models.CategoryKindExpense, Icon: "🛡️", Color: "#6366f1"},
	{Name: "Education", Kind: models.CategoryKindExpense, Icon: "📚", Color: "#f97316"},
}

var IncomeCategories = []CategoryPreset{
	{Name: "Salary", Kind: models.CategoryKindIncome, Icon: "💼", Color: "#059669"},
	{Name: "Freelance", Kind: models.CategoryKindIncome, Icon: "💻", Color: "#7c3aed"},
	{Name: "Investment Income", Kind: models.CategoryKindIncome, Icon: "📊", Color: "#dc2626"},
	{Name: "Side Hustle", Kind: models.CategoryKindIncome, Icon: "🚀", Color: "#ea580c"},
	{Name: "Gifts", Kind: models.CategoryKindIncome, Icon: "🎁", Color: "#be185d"},
}

var CategoryIcons = []string{
	"🏠", "🚗", "🍽️", "🛒", "🛍️", "🎬", "⚕️", "⚡", "🛡️", "📚",
	"💼", "💻", "📊", "🚀", "🎁", "🎯", "💰", "🎪", "🎨", "🧘",
	"💡", "🔧", "✈️", "🏋️", "📱", "🎵", "🧑‍💼", "🌟", "💳", "📈",
}

var CategoryColors = []string{
	"#3b82f6", "#ef4444", "#f59e0b", "#10b981", "#8b5cf6",
	"#ec4899", "#06b6d4", "#84cc16", "#6366f1", "#f97316",
	"#059669", "#7c3aed", "#dc2626", "#ea580c", "#be185d",
}

func AllPresets() Presets {
	return Presets{
		AccountTypes:    AccountTypes,
		AccountColors:   AccountColors,
		AccountIcons:    AccountIcons,
		Currencies:      Currencies,
		ExpenseDefaults: ExpenseCategories,
		IncomeDefaults:  IncomeCategories,
		CategoryIcons:   CategoryIcons,
		CategoryColors:  CategoryColors,
	}
}

// CategoryVisual returns the preset icon and color for a category, matched on
// exact name and kind.
func CategoryVisual(name, kind string) (icon, color string, ok bool) {
	presets := ExpenseCategories
	if kind == models.CategoryKindIncome {
		presets = IncomeCategories
	}
	for _, p := range presets {
		if p.Name == name && p.Kind == kind {
			return p.Icon, p.Color, true
		}
	}
	return "", "", false
}
