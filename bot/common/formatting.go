package common

import (
	"fmt"
	"strings"
)

// FormatMoola formats a moola amount with thousand separators
func FormatMoola(amount int64) string {
	str := fmt.Sprintf("%d", amount)

	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	n := len(str)
	if n > 3 {
		var result strings.Builder
		for i, digit := range str {
			if i > 0 && (n-i)%3 == 0 {
				result.WriteRune(',')
			}
			result.WriteRune(digit)
		}
		str = result.String()
	}

	if negative {
		return "-" + str
	}
	return str
}

// FormatTransferResult formats the result of a moola transfer
func FormatTransferResult(amount int64, recipientID int64, senderPoints int64) string {
	return fmt.Sprintf("✅ Sent **%s moola** to <@%d>. Your balance: **%s moola**",
		FormatMoola(amount), recipientID, FormatMoola(senderPoints))
}

// FormatFineResult formats the result of a fine. The target is named rather
// than mentioned so the announcement does not ping them a second time.
func FormatFineResult(amount int64, targetName string, newBalance int64) string {
	return fmt.Sprintf("💸 Fined **%s** **%s moola**. Their balance: **%s moola**",
		targetName, FormatMoola(amount), FormatMoola(newBalance))
}

// FormatRank renders a 1-based rank with its ordinal suffix
func FormatRank(rank int) string {
	suffix := "th"
	if rank%100 < 11 || rank%100 > 13 {
		switch rank % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", rank, suffix)
}
