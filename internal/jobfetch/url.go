package jobfetch

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var linkedInJobID = regexp.MustCompile(`^\d+$`)

// CanonicalURL drops fragments and tracking parameters. LinkedIn search and
// collection pages that carry a currentJobId are rewritten to the posting's
// own /jobs/view/ page, which is where the description lives.
func CanonicalURL(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""

	q := c.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") ||
			lk == "gclid" || lk == "fbclid" || lk == "msclkid" ||
			lk == "mc_cid" || lk == "mc_eid" ||
			lk == "mkt_tok" || lk == "trackingid" || lk == "refid" {
			q.Del(k)
		}
	}

	if hostAllowed(c.Hostname(), []string{"linkedin.com"}) {
		if id := q.Get("currentJobId"); linkedInJobID.MatchString(id) {
			c.Path = "/jobs/view/" + id + "/"
		}
		q = url.Values{}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	c.RawQuery = q.Encode()
	return c.String()
}
