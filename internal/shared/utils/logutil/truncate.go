package logutil

// TruncateForLog keeps the first maxLen bytes of s and marks the cut with "...".
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TokenPrefix is how much of a token or proof digest may appear in logs.
const TokenPrefix = 8

// Token shortens a derived token or commitment for logging.
func Token(s string) string {
	return TruncateForLog(s, TokenPrefix)
}
