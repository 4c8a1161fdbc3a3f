package internal

import "strings"

// normalizeHost strips the port and lowercases the host.
// Bracketed IPv6 literals keep their brackets.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}
	return strings.ToLower(host)
}

// normalizeDomain prepares a route domain template: surrounding slashes and
// any scheme are dropped, the host part is lowercased except placeholders.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if _, rest, ok := strings.Cut(domain, "://"); ok {
		domain = rest
	}
	domain = strings.Trim(domain, "/")
	if HasPlaceholder(domain) {
		return domain
	}
	return normalizeHost(domain)
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
