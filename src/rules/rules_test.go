package rules

import (
	"encoding/json"
	"pocketbook-server/src/models"
	"testing"
)

func TestEvaluate(t *testing.T) {
	subject := Subject{Payee: "Whole Foods Market", Notes: "weekly shop", Amount: -8450, Account: "Everyday Checking"}

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{"equals ignores case", `{"field":"payee","op":"equals","value":"whole foods market"}`, true},
		{"equals amount", `{"field":"amount","op":"equals","value":-8450}`, true},
		{"equals wrong type", `{"field":"amount","op":"equals","value":"-8450"}`, false},
		{"contains", `{"field":"payee","op":"contains","value":"FOODS"}`, true},
		{"contains notes miss", `{"field":"notes","op":"contains","value":"rent"}`, false},
		{"lt", `{"field":"amount","op":"lt","value":0}`, true},
		{"gte", `{"field":"amount","op":"gte","value":-8450}`, true},
		{"gt", `{"field":"amount","op":"gt","value":-8450}`, false},
		{"lte", `{"field":"amount","op":"lte","value":-9000}`, false},
		{"in", `{"field":"account","op":"in","value":["Savings","everyday checking"]}`, true},
		{"in non list", `{"field":"account","op":"in","value":"Savings"}`, false},
		{"unknown field", `{"field":"memo","op":"equals","value":"x"}`, false},
		{"and", `{"and":[{"field":"payee","op":"contains","value":"whole"},{"field":"amount","op":"lt","value":0}]}`, true},
		{"and fails", `{"and":[{"field":"payee","op":"contains","value":"whole"},{"field":"amount","op":"gt","value":0}]}`, false},
		{"or", `{"or":[{"field":"payee","op":"equals","value":"Costco"},{"field":"notes","op":"contains","value":"shop"}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cond models.Condition
			if err := json.Unmarshal([]byte(tt.cond), &cond); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := Evaluate(cond, subject); got != tt.want {
				t.Errorf("Evaluate(%s) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestParseRejectsMalformedTrees(t *testing.T) {
	bad := []string{
		`not json`,
		`{"field":"memo","op":"equals","value":"x"}`,
		`{"field":"payee","op":"startswith","value":"x"}`,
		`{"field":"payee","op":"equals"}`,
		`{"and":[{"field":"payee","op":"equals","value":"x"},{"field":"payee","op":"nope","value":"y"}]}`,
		`{"and":[{"field":"payee","op":"equals","value":"x"}],"or":[{"field":"notes","op":"contains","value":"y"}]}`,
	}
	for _, raw := range bad {
		if _, err := Parse(json.RawMessage(raw)); err == nil {
			t.Errorf("Parse(%s) succeeded, want error", raw)
		}
	}

	if _, err := Parse(json.RawMessage(`{"or":[{"field":"notes","op":"contains","value":"gym"}]}`)); err != nil {
		t.Errorf("Parse valid tree: %v", err)
	}
}

func TestMatchFirstRuleWins(t *testing.T) {
	payee := "Shell Station 42"
	txn := models.Transaction{Amount: -4000, Payee: &payee}
	rules := []models.CategoryRule{
		{ID: "broken", Conditions: json.RawMessage(`{"field":"payee"`), CategoryID: "c0"},
		{ID: "fuel", Conditions: json.RawMessage(`{"field":"payee","op":"contains","value":"shell"}`), CategoryID: "c1"},
		{ID: "any-expense", Conditions: json.RawMessage(`{"field":"amount","op":"lt","value":0}`), CategoryID: "c2"},
	}

	got := Match(rules, SubjectFor(txn, "Card"))
	if got == nil || got.ID != "fuel" {
		t.Fatalf("Match = %+v, want rule fuel", got)
	}

	income := models.Transaction{Amount: 100}
	if got := Match(rules[1:], SubjectFor(income, "Card")); got != nil {
		t.Errorf("Match income = %s, want none", got.ID)
	}
}
