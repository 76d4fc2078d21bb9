package auth

import "strings"

func redactEmail(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || domain == "" {
		return "***"
	}

	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

func redactToken(s string) string {
	if len(s) <= 8 {
		return "[REDACTED_TOKEN]"
	}
	return s[:8] + "...[REDACTED_TOKEN]"
}
