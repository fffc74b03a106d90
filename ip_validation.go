package realip

import (
	"fmt"
	"net/netip"
)

var (
	privateIPv4Prefixes = []netip.Prefix{
		mustParsePrefix("10.0.0.0/8"),
		mustParsePrefix("172.16.0.0/12"),
		mustParsePrefix("192.168.0.0/16"),
		mustParsePrefix("127.0.0.0/8"),
		mustParsePrefix("169.254.0.0/16"),
	}

	privateIPv6Prefixes = []netip.Prefix{
		mustParsePrefix("::1/128"),
		mustParsePrefix("fe80::/10"),
		mustParsePrefix("fc00::/7"),
	}
)

func mustParsePrefix(cidr string) netip.Prefix {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in CIDR %q: %v", cidr, err))
	}
	return prefix
}

// IsPrivateIP reports whether addr, optionally carrying a ":port" suffix,
// falls into a loopback, link-local, private or unique-local range.
//
// The empty string and anything unparseable classify as not private.
//
// Unbracketed values are split on their first colon, so IPv4 ranges are only
// matched for "a.b.c.d" and "a.b.c.d:port". IPv6 ranges are matched against
// the whole value (or the bracketed host). IPv4-mapped IPv6 literals such as
// "::ffff:10.0.0.1" are not classified as private.
func IsPrivateIP(addr string) bool {
	if addr == "" {
		return false
	}

	if ip, ok := parseIPv4(hostPart(addr)); ok {
		return containsAddr(privateIPv4Prefixes, ip)
	}

	if ip, ok := parseIPv6(addr); ok {
		return containsAddr(privateIPv6Prefixes, ip)
	}

	return false
}

func containsAddr(prefixes []netip.Prefix, ip netip.Addr) bool {
	for _, prefix := range prefixes {
		if prefix.Contains(ip) {
			return true
		}
	}
	return false
}
