package canvas

import (
	"net/url"
	"strings"
)

// Allowlist holds the institution hosts tokens may be sent to.
type Allowlist struct {
	hosts map[string]struct{}
}

func NewAllowlist(hosts ...string) Allowlist {
	a := Allowlist{hosts: make(map[string]struct{}, len(hosts))}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			a.hosts[h] = struct{}{}
		}
	}
	return a
}

// Allowed reports whether baseURL is an http(s) URL on a listed host. Entries
// match either the bare hostname or host:port.
func (a Allowlist) Allowed(baseURL string) bool {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Host == "" || u.User != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	if _, ok := a.hosts[strings.ToLower(u.Host)]; ok {
		return true
	}
	_, ok := a.hosts[strings.ToLower(u.Hostname())]
	return ok && u.Port() == ""
}

// Len returns the number of allow-listed hosts.
func (a Allowlist) Len() int {
	return len(a.hosts)
}

// NormalizeBaseURL trims whitespace and trailing slashes.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

func sameHost(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Host, ub.Host) && ua.Scheme == ub.Scheme
}
