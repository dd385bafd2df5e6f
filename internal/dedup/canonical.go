package dedup

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalID normalizes a listing URL into the dedup key: lowercase
// scheme/host, no fragment, tracking parameters stripped, query encoded
// deterministically. Two URLs with the same canonical form are treated as
// the same real-world listing regardless of which source reported them.
func CanonicalID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")

	q := u.Query()
	for k := range q {
		if isTrackingParam(k) {
			q.Del(k)
		}
	}
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func isTrackingParam(k string) bool {
	lk := strings.ToLower(k)
	if strings.HasPrefix(lk, "utm_") {
		return true
	}
	switch lk {
	case "gclid", "fbclid", "msclkid", "mc_cid", "mc_eid", "mkt_tok", "ref", "src", "trk":
		return true
	}
	return false
}
