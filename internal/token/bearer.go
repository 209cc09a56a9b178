package token

import "strings"

// ExtractBearer returns the credential from an Authorization header, or ""
// when the header is missing or not a bearer scheme.
func ExtractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
