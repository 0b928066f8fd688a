package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatBytes renders a byte count as a human-readable string with one
// decimal place: "0.0 B", "1.0 KB", "1.0 MB". The value is divided by
// 1024 at most four times before falling back to terabytes.
func FormatBytes(n uint64) string {
	value := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}

// FormatPercent renders a percentage with one decimal place and a
// trailing percent sign.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatUptime renders a duration in seconds as "1d 1h 1m 1s".
// Zero-valued higher units are omitted; zero seconds yields "0s".
func FormatUptime(seconds float64) string {
	total := int64(seconds)
	days := total / 86400
	total %= 86400
	hours := total / 3600
	total %= 3600
	minutes := total / 60
	secs := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, strconv.FormatInt(days, 10)+"d")
	}
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+"h")
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+"m")
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, strconv.FormatInt(secs, 10)+"s")
	}
	return strings.Join(parts, " ")
}

// FormatCount renders an integer with thousands separators: 1234567
// becomes "1,234,567".
func FormatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)
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
