package handlers

import (
	"net/http/httptest"
	"pocketbook-server/src/models"
	"testing"
	"time"
)

func TestNextDue(t *testing.T) {
	tests := []struct {
		now    time.Time
		dueDay int
		want   time.Time
	}{
		{time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC), 15, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 15, 23, 0, 0, 0, time.UTC), 15, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 16, 0, 0, 0, 0, time.UTC), 15, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := nextDue(tt.now, tt.dueDay); !got.Equal(tt.want) {
			t.Errorf("nextDue(%s, %d) = %s, want %s", tt.now.Format(time.DateOnly), tt.dueDay, got, tt.want)
		}
	}
}

func TestUpcomingBillsSortedByDueDate(t *testing.T) {
	now := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	bills := []models.Bill{
		{Name: "Rent", DueDay: 1},
		{Name: "Phone", DueDay: 25},
		{Name: "Power", DueDay: 20},
	}
	got := upcomingBills(bills, now)
	order := []string{got[0].Name, got[1].Name, got[2].Name}
	want := []string{"Power", "Phone", "Rent"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	for _, input := range []string{"2024-03", "2024-03-17", "2024-03-17T08:00:00Z"} {
		got, err := parseMonth(input)
		if err != nil {
			t.Errorf("parseMonth(%q): %v", input, err)
			continue
		}
		if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
			t.Errorf("parseMonth(%q) = %s", input, got)
		}
	}
	if _, err := parseMonth("March"); err == nil {
		t.Error("parseMonth accepted a month name")
	}
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, defaultPageSize},
		{"?page=3&limit=10", 3, 10},
		{"?page=0&limit=-5", 1, defaultPageSize},
		{"?page=abc&limit=500", 1, maxPageSize},
		{"?page=9223372036854775807&limit=100", maxPage, maxPageSize},
		{"?page=99999999999999999999", 1, defaultPageSize},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/transactions"+tt.query, nil)
		page, limit := pageParams(r)
		if page != tt.page || limit != tt.limit {
			t.Errorf("pageParams(%q) = %d, %d, want %d, %d", tt.query, page, limit, tt.page, tt.limit)
		}
	}
}

func TestCategoryFitsAmount(t *testing.T) {
	if !categoryFitsAmount(models.CategoryKindIncome, 100) || categoryFitsAmount(models.CategoryKindIncome, -100) {
		t.Error("income categories take positive amounts only")
	}
	if !categoryFitsAmount(models.CategoryKindExpense, -100) || categoryFitsAmount(models.CategoryKindExpense, 100) {
		t.Error("expense categories take negative amounts only")
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 3); got != 33.3 {
		t.Errorf("percent(1, 3) = %v", got)
	}
	if got := percent(5, 0); got != 0 {
		t.Errorf("percent(5, 0) = %v", got)
	}
	if got := percent(150, 100); got != 150 {
		t.Errorf("percent(150, 100) = %v", got)
	}
}
