package cli

import (
	"fmt"
	"time"
)

// FormatUSD formats a signed dollar amount.
func FormatUSD(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatSignedUSD formats a dollar amount with an explicit sign for gains.
func FormatSignedUSD(amount float64) string {
	if amount > 0 {
		return fmt.Sprintf("+$%.2f", amount)
	}
	return FormatUSD(amount)
}

// FormatPrice formats an execution price, trimming to a sensible precision.
func FormatPrice(price float64) string {
	switch {
	case price >= 1000:
		return fmt.Sprintf("%.2f", price)
	case price >= 1:
		return fmt.Sprintf("%.4f", price)
	default:
		return fmt.Sprintf("%.6f", price)
	}
}

// FormatDuration renders a trade duration in a compact human form.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%.1fh", d.Hours())
	default:
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}
}

// FormatTime renders a millisecond timestamp in local time.
func FormatTime(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}
