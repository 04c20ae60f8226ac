package utils

import "strings"

// MaskEmail hides most of an address for log output: "ada@example.com"
// becomes "a*a@e******.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return "***"
	}
	switch n := len(local); {
	case n > 2:
		local = local[:1] + strings.Repeat("*", n-2) + local[n-1:]
	case n == 2:
		local = local[:1] + "*"
	}
	host, tld, found := strings.Cut(domain, ".")
	if found && len(host) > 1 {
		host = host[:1] + strings.Repeat("*", len(host)-1)
		domain = host + "." + tld
	}
	return local + "@" + domain
}
