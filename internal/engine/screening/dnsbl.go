package screening

import (
	"context"
	"errors"
	"net"
	"net/url"
)

// DNSBL queries a DNS blocklist zone such as dbl.spamhaus.org: a host
// is listed when <host>.<zone> resolves, and clean when the lookup
// returns NXDOMAIN.
type DNSBL struct {
	zone     string
	resolver *net.Resolver
}

func NewDNSBL(zone string) *DNSBL {
	return &DNSBL{zone: zone, resolver: net.DefaultResolver}
}

func (d *DNSBL) Name() string { return d.zone }

// LookupMatching implements URLTester against the zone. IP-literal
// hosts are skipped; domain blocklists do not carry them.
func (d *DNSBL) LookupMatching(ctx context.Context, urls []string) ([]Match, error) {
	var matches []Match
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := u.Hostname()
		if host == "" || net.ParseIP(host) != nil {
			continue
		}

		listed, err := d.listed(ctx, host)
		if err != nil {
			return nil, err
		}
		if listed {
			matches = append(matches, Match{Source: d.zone, URL: raw})
		}
	}
	return matches, nil
}

func (d *DNSBL) listed(ctx context.Context, host string) (bool, error) {
	addrs, err := d.resolver.LookupHost(ctx, host+"."+d.zone)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, nil
		}
		return false, err
	}
	return len(addrs) > 0, nil
}
