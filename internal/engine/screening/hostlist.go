package screening

import (
	"context"
	"net/url"
	"sort"
	"strings"
)

// HostCollection is a sorted list of host names. A listed domain also
// matches its subdomains, so blacklisting "spam.example" covers
// "mail.spam.example".
type HostCollection struct {
	name  string
	hosts []string
}

func NewHostCollection(name string, hosts []string) *HostCollection {
	c := &HostCollection{name: name}
	for _, h := range hosts {
		c.Add(h)
	}
	return c
}

func (c *HostCollection) Name() string { return c.name }

func (c *HostCollection) Len() int { return len(c.hosts) }

// Add inserts a host, keeping the collection sorted.
func (c *HostCollection) Add(host string) {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return
	}
	i := sort.SearchStrings(c.hosts, host)
	if i < len(c.hosts) && c.hosts[i] == host {
		return
	}
	c.hosts = append(c.hosts, "")
	copy(c.hosts[i+1:], c.hosts[i:])
	c.hosts[i] = host
}

// Contains reports whether host or any of its parent domains is listed.
func (c *HostCollection) Contains(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for candidate := host; candidate != ""; {
		i := sort.SearchStrings(c.hosts, candidate)
		if i < len(c.hosts) && c.hosts[i] == candidate {
			return true
		}
		dot := strings.IndexByte(candidate, '.')
		if dot < 0 {
			break
		}
		candidate = candidate[dot+1:]
	}
	return false
}

// LookupMatching implements URLTester over the collection.
func (c *HostCollection) LookupMatching(ctx context.Context, urls []string) ([]Match, error) {
	var matches []Match
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		if c.Contains(u.Hostname()) {
			matches = append(matches, Match{Source: c.name, URL: raw})
		}
	}
	return matches, nil
}
