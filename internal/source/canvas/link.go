package canvas

import (
	"net/url"
	"strconv"

	"github.com/tomnomnom/linkheader"
)

// Links holds the pagination targets of a Canvas Link header.
type Links struct {
	Next string
	Last string
}

func parseLinks(header string) Links {
	parsed := linkheader.Parse(header)

	var l Links
	if next := parsed.FilterByRel("next"); len(next) > 0 {
		l.Next = next[0].URL
	}
	if last := parsed.FilterByRel("last"); len(last) > 0 {
		l.Last = last[0].URL
	}
	return l
}

// lastPage reads the page number of the rel="last" link. With per_page=1 this
// is the item count. It returns nil when the server did not say.
func (l Links) lastPage() *int {
	if l.Last == "" {
		return nil
	}
	u, err := url.Parse(l.Last)
	if err != nil {
		return nil
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return nil
	}
	return &n
}
