package markdown

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that identify campaigns or clicks, not
// content. Exact matches plus any utm_* prefix.
var trackingParams = map[string]bool{
	"fbclid":   true,
	"gclid":    true,
	"gclsrc":   true,
	"dclid":    true,
	"msclkid":  true,
	"mc_cid":   true,
	"mc_eid":   true,
	"igshid":   true,
	"yclid":    true,
	"twclid":   true,
	"_hsenc":   true,
	"_hsmi":    true,
	"ref_src":  true,
	"ref_url":  true,
	"spm":      true,
	"mkt_tok":  true,
	"vero_id":  true,
	"wickedid": true,
}

// stripTrackingParams removes tracking query parameters from a URL, leaving
// the rest of the query intact. Unparseable URLs pass through unchanged.
func stripTrackingParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}
	q := u.Query()
	changed := false
	for key := range q {
		if trackingParams[key] || strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = q.Encode()
	return u.String()
}
