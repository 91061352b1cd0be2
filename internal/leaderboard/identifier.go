package leaderboard

import (
	"strconv"
	"strings"
)

// numericIdentifier reports whether identifier is a non-negative integer
// literal, and its value. Literals that overflow int64 cannot be a user id
// and are matched by name only.
func numericIdentifier(identifier string) (int64, bool) {
	if identifier == "" {
		return 0, false
	}
	for _, r := range identifier {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func normalizeIdentifier(identifier string) string {
	return strings.TrimSpace(identifier)
}
