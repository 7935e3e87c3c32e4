package util

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
}

var (
	nonAmountChars = regexp.MustCompile(`[^\d.\-]`)
	leadingNumber  = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)`)
)

// FormatCurrency renders cents the way en-US formats money, e.g. -$1,234.50.
// Currencies without a known symbol are prefixed with their code.
func FormatCurrency(cents int64, currency string) string {
	amount := decimal.New(cents, -2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	code := strings.ToUpper(currency)
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}
	return sign + symbol + groupThousands(amount.StringFixed(2))
}

func groupThousands(fixed string) string {
	whole, frac, _ := strings.Cut(fixed, ".")
	if len(whole) <= 3 {
		return fixed
	}
	var b strings.Builder
	lead := len(whole) % 3
	if lead > 0 {
		b.WriteString(whole[:lead])
	}
	for i := lead; i < len(whole); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(whole[i : i+3])
	}
	return b.String() + "." + frac
}

// ParseCurrencyInput turns free text such as "$1,250.75" or "-4" into cents.
// Everything but digits, dots and minus signs is dropped, then the leading
// number is used.
func ParseCurrencyInput(input string) (int64, error) {
	cleaned := nonAmountChars.ReplaceAllString(input, "")
	match := strings.TrimSuffix(leadingNumber.FindString(cleaned), ".")
	if match == "" || match == "-" {
		return 0, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(match)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := amount.Shift(2).Round(0)
	v := cents.IntPart()
	if !decimal.NewFromInt(v).Equal(cents) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

func TransactionType(amount int64) string {
	if amount > 0 {
		return "income"
	}
	return "expense"
}

func FormatTransactionAmount(amount int64, currency string) string {
	if amount > 0 {
		return "+" + FormatCurrency(amount, currency)
	}
	return "-" + FormatCurrency(-amount, currency)
}
