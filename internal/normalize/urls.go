package normalize

import (
	"regexp"
	"strings"
)

// wordClass matches the characters a URL host label or path word may carry.
const wordClass = `\p{L}\p{N}_`

// urlPattern finds URL-like substrings, including defanged forms such as
// hxxp:// schemes and [.] separators.
var urlPattern = regexp.MustCompile(
	`(?:(?:https?|ftp|hxxps?)://|www\[?\.\]?|ftp\[?\.\]?)` +
		`(?:[-` + wordClass + `]+\[?\.\]?)+[-` + wordClass + `]+` +
		`(?::\d+)?` +
		`(?:[/?][-` + wordClass + `+&@#/%=~$?!:,.();]*[` + wordClass + `+&@#/%=~$();])?`)

// FindURLs returns every URL-like substring of text in order.
func FindURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}

// CanonicalizeURLs rewrites every detected URL to its scheme and host,
// dropping path, query and fragment. URLs whose scheme or host cannot be
// isolated are left untouched.
func CanonicalizeURLs(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(match string) string {
		if canon, ok := CanonicalURL(match); ok {
			return canon
		}
		return match
	})
}

// CanonicalURL reduces a single URL to scheme://host[:port], or host[:port]
// for scheme-less www/ftp forms. The result carries no trailing slash so the
// rewrite is a fixed point.
func CanonicalURL(raw string) (string, bool) {
	if i := strings.Index(raw, "://"); i >= 0 {
		scheme, host := raw[:i], authority(raw[i+3:])
		if scheme == "" || host == "" {
			return raw, false
		}
		return scheme + "://" + host, true
	}
	host := authority(raw)
	if host == "" {
		return raw, false
	}
	return host, true
}

// authority returns s up to the first path, query or fragment delimiter.
func authority(s string) string {
	if j := strings.IndexAny(s, "/?#"); j >= 0 {
		return s[:j]
	}
	return s
}
