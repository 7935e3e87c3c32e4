// Package rules evaluates category rules against transactions. A rule's
// conditions form a tree of "and"/"or" nodes whose leaves compare one
// transaction field with a value.
package rules

import (
	"encoding/json"
	"fmt"
	"pocketbook-server/src/models"
	"strings"
)

// Subject is the view of a transaction a condition can inspect. Amount is in
// cents, signed like the stored amount.
type Subject struct {
	Payee   string
	Notes   string
	Amount  float64
	Account string
}

func SubjectFor(txn models.Transaction, accountName string) Subject {
	s := Subject{Amount: float64(txn.Amount), Account: accountName}
	if txn.Payee != nil {
		s.Payee = *txn.Payee
	}
	if txn.Notes != nil {
		s.Notes = *txn.Notes
	}
	return s
}

var fields = map[string]bool{"payee": true, "notes": true, "amount": true, "account": true}

var ops = map[string]bool{"equals": true, "contains": true, "gt": true, "gte": true, "lt": true, "lte": true, "in": true}

// Parse decodes and checks a condition tree.
func Parse(raw json.RawMessage) (models.Condition, error) {
	var cond models.Condition
	if err := json.Unmarshal(raw, &cond); err != nil {
		return cond, fmt.Errorf("invalid conditions: %w", err)
	}
	if err := check(cond); err != nil {
		return cond, err
	}
	return cond, nil
}

func check(cond models.Condition) error {
	if len(cond.And) > 0 && len(cond.Or) > 0 {
		return fmt.Errorf("condition mixes and with or, nest one inside the other")
	}
	children := cond.And
	if len(cond.Or) > 0 {
		children = cond.Or
	}
	if len(children) > 0 {
		for _, c := range children {
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if !fields[cond.Field] {
		return fmt.Errorf("unknown condition field %q", cond.Field)
	}
	if !ops[cond.Op] {
		return fmt.Errorf("unknown condition op %q", cond.Op)
	}
	if cond.Value == nil {
		return fmt.Errorf("condition on %s has no value", cond.Field)
	}
	return nil
}

// Match returns the first rule whose conditions hold for s. Rules with
// malformed conditions are skipped.
func Match(rules []models.CategoryRule, s Subject) *models.CategoryRule {
	for i := range rules {
		cond, err := Parse(rules[i].Conditions)
		if err != nil {
			continue
		}
		if Evaluate(cond, s) {
			return &rules[i]
		}
	}
	return nil
}

func Evaluate(cond models.Condition, s Subject) bool {
	if len(cond.And) > 0 {
		for _, c := range cond.And {
			if !Evaluate(c, s) {
				return false
			}
		}
		return true
	}
	if len(cond.Or) > 0 {
		for _, c := range cond.Or {
			if Evaluate(c, s) {
				return true
			}
		}
		return false
	}

	var fieldValue interface{}
	switch cond.Field {
	case "payee":
		fieldValue = s.Payee
	case "notes":
		fieldValue = s.Notes
	case "amount":
		fieldValue = s.Amount
	case "account":
		fieldValue = s.Account
	default:
		return false
	}

	switch cond.Op {
	case "equals":
		switch v := fieldValue.(type) {
		case string:
			val, ok := cond.Value.(string)
			return ok && strings.EqualFold(v, val)
		case float64:
			val, ok := cond.Value.(float64)
			return ok && v == val
		}
		return false
	case "contains":
		str, ok := fieldValue.(string)
		val, ok2 := cond.Value.(string)
		return ok && ok2 && strings.Contains(strings.ToLower(str), strings.ToLower(val))
	case "gt", "gte", "lt", "lte":
		f, ok := fieldValue.(float64)
		val, ok2 := cond.Value.(float64)
		if !ok || !ok2 {
			return false
		}
		switch cond.Op {
		case "gt":
			return f > val
		case "gte":
			return f >= val
		case "lt":
			return f < val
		}
		return f <= val
	case "in":
		str, ok := fieldValue.(string)
		arr, ok2 := cond.Value.([]interface{})
		if !ok || !ok2 {
			return false
		}
		for _, v := range arr {
			if candidate, ok := v.(string); ok && strings.EqualFold(str, candidate) {
				return true
			}
		}
		return false
	}
	return false
}
