package common

import (
	"fmt"
	"strings"
	"time"

	"housie/ticket"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)
	if balance < 0 {
		return "-" + FormatBalance(-balance)
	}

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatGrid renders a ticket grid as a Discord code block so the columns
// line up in a monospace font.
func FormatGrid(grid ticket.Grid) string {
	return "```\n" + grid.String() + "\n```"
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
