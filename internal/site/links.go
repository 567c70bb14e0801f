package site

import "net/url"

// ProductLink builds the outbound shopping link for a name. The affiliate tag
// is appended only when an affiliate ID is configured. An empty base yields no
// link at all.
func ProductLink(base, affiliateID, name string) string {
	if base == "" {
		return ""
	}

	u, err := url.Parse(base)
	if err != nil {
		return ""
	}

	q := u.Query()
	q.Set("k", name+" baby gift")
	if affiliateID != "" {
		q.Set("tag", affiliateID)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
