package notify

import (
	"context"
	"pocketbook-server/src/config"
	"strings"
	"testing"
)

func TestBudgetAlert(t *testing.T) {
	tests := []struct {
		spent, limit int64
		want         string
	}{
		{0, 10000, ""},
		{8000, 10000, ""},
		{8001, 10000, MessageNearing},
		{10000, 10000, MessageNearing},
		{10001, 10000, MessageExceeded},
		{500, 0, ""},
	}
	for _, tt := range tests {
		if got := BudgetAlert(tt.spent, tt.limit); got != tt.want {
			t.Errorf("BudgetAlert(%d, %d) = %q, want %q", tt.spent, tt.limit, got, tt.want)
		}
	}
}

func TestNewSelectsDriver(t *testing.T) {
	p, err := New(config.Config{NotifyDriver: "log"})
	if err != nil {
		t.Fatalf("New(log): %v", err)
	}
	if _, ok := p.(LogPublisher); !ok {
		t.Errorf("New(log) = %T, want LogPublisher", p)
	}
	if err := p.Publish(context.Background(), Notification{UserID: "u1"}); err != nil {
		t.Errorf("Publish: %v", err)
	}

	if _, err := New(config.Config{NotifyDriver: "pager"}); err == nil {
		t.Error("New(pager) succeeded, want error")
	}
	if _, err := New(config.Config{NotifyDriver: "discord"}); err == nil {
		t.Error("New(discord) without token succeeded, want error")
	}
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(Notification{Category: "Groceries", Message: MessageExceeded, Spent: 123456, Limit: 100000, Month: "2026-10"})
	for _, want := range []string{"Groceries", "$1,234.56", "$1,000.00", "2026-10"} {
		if !strings.Contains(msg, want) {
			t.Errorf("FormatMessage = %q, missing %q", msg, want)
		}
	}

	msg = FormatMessage(Notification{Category: "Rent", Message: MessageNearing, Spent: 90000, Limit: 100000, Currency: "EUR"})
	if !strings.Contains(msg, "€900.00") || strings.Contains(msg, "$") {
		t.Errorf("FormatMessage = %q, want euro amounts", msg)
	}
}
