package auth

import "strings"

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. Returns "" when the header is missing or malformed.
func BearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return ""
	}
	return parts[1]
}
