package extract

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

var zeroWidthReplacer = strings.NewReplacer(
	"​", "",
	"‌", "",
	"‍", "",
	"\uFEFF", "",
)

// CleanURL reduces a raw href value to a bare lowercase domain. It removes
// zero width spaces, surrounding whitespace, trailing slashes, the scheme,
// any path and port, and a literal "www" subdomain. Input that does not
// contain a registrable domain yields the empty string. CleanURL is
// idempotent: cleaning an already clean value returns it unchanged.
func CleanURL(raw string) string {
	cleaned := zeroWidthReplacer.Replace(raw)
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, "/")

	host := strings.ToLower(hostnameOf(cleaned))
	host = strings.TrimSuffix(host, ".")
	if host == "" {
		return ""
	}

	registered, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	if host == "www."+registered {
		return registered
	}
	return host
}

// hostnameOf extracts the host portion of a string that may or may not carry
// a scheme, userinfo, port, path, query, or fragment.
func hostnameOf(raw string) string {
	candidate := raw
	if i := strings.Index(candidate, "://"); i >= 0 {
		candidate = candidate[i+3:]
	} else if i := strings.Index(candidate, ":"); i > 0 && !strings.ContainsAny(candidate[:i], "/?#.") && !startsWithDigit(candidate[i+1:]) {
		// Scheme without slashes, e.g. mailto:user@example.com. A dot before
		// the colon means host:port instead, handled below.
		candidate = candidate[i+1:]
	}
	candidate = strings.TrimLeft(candidate, "/")
	if i := strings.IndexAny(candidate, "/?#"); i >= 0 {
		candidate = candidate[:i]
	}
	if i := strings.LastIndex(candidate, "@"); i >= 0 {
		candidate = candidate[i+1:]
	}
	if i := strings.Index(candidate, ":"); i >= 0 {
		candidate = candidate[:i]
	}
	return candidate
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
