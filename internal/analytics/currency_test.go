package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency_INR(t *testing.T) {
	assert.Equal(t, "₹500.00", FormatCurrency(dec("500"), "INR"))
	assert.Equal(t, "₹1,500.00", FormatCurrency(dec("1500"), "INR"))
	assert.Equal(t, "₹12,345.00", FormatCurrency(dec("12345"), "INR"))
	assert.Equal(t, "₹1,23,456.00", FormatCurrency(dec("123456"), "INR"))
	assert.Equal(t, "₹12,34,567.89", FormatCurrency(dec("1234567.89"), "INR"))
	assert.Equal(t, "₹1,00,00,000.00", FormatCurrency(dec("10000000"), "INR"))
}

func TestFormatCurrency_Thousands(t *testing.T) {
	assert.Equal(t, "$1,234,567.89", FormatCurrency(dec("1234567.89"), "USD"))
	assert.Equal(t, "€999.50", FormatCurrency(dec("999.5"), "EUR"))
	assert.Equal(t, "£12,000.00", FormatCurrency(dec("12000"), "GBP"))
}

func TestFormatCurrency_UnknownCode(t *testing.T) {
	assert.Equal(t, "JPY 1,234.50", FormatCurrency(dec("1234.5"), "JPY"))
}

func TestFormatCurrency_Negative(t *testing.T) {
	assert.Equal(t, "-₹1,234.00", FormatCurrency(dec("-1234"), "INR"))
	assert.Equal(t, "-$56.78", FormatCurrency(dec("-56.78"), "USD"))
}
