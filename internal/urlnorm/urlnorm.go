// Package urlnorm canonicalizes URLs for storage and duplicate
// detection. The same Normalize is used when a bookmark is written and
// when an import compares against stored bookmarks; the two must never
// diverge or dedup silently breaks.
package urlnorm

import (
	"net/url"
	"strings"
)

// trackingParams are query keys stripped during normalization.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_content":  {},
	"utm_term":     {},
	"fbclid":       {},
	"gclid":        {},
}

// Normalize strips known tracking query parameters, drops the fragment
// and collapses trailing slashes. It never fails: input that cannot be
// parsed, or that is non-hierarchical (mailto: and friends, where the
// address lives in the opaque part), is returned unchanged.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Opaque != "" {
		return rawURL
	}

	query := u.RawQuery
	if query != "" {
		query = stripTracking(query)
	}

	var b strings.Builder

	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteString("@")
	}
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())
	if query != "" {
		b.WriteString("?")
		b.WriteString(query)
	}

	return strings.TrimRight(b.String(), "/")
}

// stripTracking removes tracking keys from a raw query string while
// keeping the remaining pairs in their original relative order.
func stripTracking(rawQuery string) string {
	var kept []string

	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}

		key := pair
		if idx := strings.Index(pair, "="); idx >= 0 {
			key = pair[:idx]
		}

		decoded, err := url.QueryUnescape(key)
		if err != nil {
			decoded = key
		}

		if _, drop := trackingParams[decoded]; drop {
			continue
		}

		kept = append(kept, pair)
	}

	return strings.Join(kept, "&")
}
