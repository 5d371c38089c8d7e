package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatCurrency renders an amount with locale-correct digit grouping for
// the currency: lakh/crore grouping for INR (₹12,34,567.89), thousands
// grouping otherwise. Unknown currency codes are used as a prefix.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var grouped string
	if currency == "INR" {
		grouped = groupIndian(intPart)
	} else {
		grouped = groupThousands(intPart)
	}

	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}

	out := symbol + grouped + "." + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian groups the last three digits, then pairs: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head, tail := digits[:n-3], digits[n-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
