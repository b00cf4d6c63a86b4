package folder

import "fmt"

// sizeUnits are the binary (1024-based) units FormatSize advances through.
var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count as a binary human-readable string.
//
// Zero bytes formats as "0 B" with no division performed. Any other value
// is divided by 1024 while it is >= 1024 and a larger unit remains, then
// formatted with exactly two decimal digits, a space, and the unit:
//
//	FormatSize(0)             → "0 B"
//	FormatSize(1024)          → "1.00 KB"
//	FormatSize(1536)          → "1.50 KB"
//	FormatSize(1099511627776) → "1.00 TB"
func FormatSize(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}

	return fmt.Sprintf("%.2f %s", value, sizeUnits[unit])
}
