package utils

import (
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Indian numbering scales, largest first.
var scales = []struct {
	size int64
	name string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells n in the Indian system (lakh, crore). Zero yields "".
func NumberToWords(n int64) string {
	if n < 0 {
		return strings.TrimSpace("Minus " + NumberToWords(-n))
	}
	var words []string
	for _, s := range scales {
		if n >= s.size {
			words = append(words, NumberToWords(n/s.size), s.name)
			n %= s.size
		}
	}
	switch {
	case n >= 20:
		words = append(words, tens[n/10])
		if n%10 > 0 {
			words = append(words, ones[n%10])
		}
	case n > 0:
		words = append(words, ones[n])
	}
	return strings.Join(words, " ")
}

// NumberToCurrencyWords renders a rupee amount for invoices, e.g.
// "Two Thousand Five Hundred Rupees and Fifty Paise Only".
func NumberToCurrencyWords(amount float64) string {
	prefix := ""
	if amount < 0 {
		prefix = "Minus "
		amount = -amount
	}
	totalPaise := int64(math.Round(amount * 100))
	rupees, paise := totalPaise/100, totalPaise%100

	var parts []string
	if rupees > 0 {
		parts = append(parts, NumberToWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, NumberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return prefix + strings.Join(parts, " and ") + " Only"
}
