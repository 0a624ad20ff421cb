package recommend

import (
	"fmt"
	"math"
	"strings"
)

// FormatCurrency renders a dollar amount with thousands grouping, e.g.
// "$1,234.56".
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), cents)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent renders a percentage with one decimal, e.g. "68.0%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatDays renders a day count rounded to the nearest whole day.
func FormatDays(v float64) string {
	days := int(math.Round(v))
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatMonths renders a month count with one decimal.
func FormatMonths(v float64) string {
	return fmt.Sprintf("%.1f months", v)
}

// MaskAccount hides all but the last four characters of an account
// identifier.
func MaskAccount(id string) string {
	if len(id) <= 4 {
		return "****" + id
	}
	return "****" + id[len(id)-4:]
}
