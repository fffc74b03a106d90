package realip

import (
	"net/netip"
	"strings"
)

// hostPart strips a port suffix from an address as it appears in access logs.
//
// Bracketed IPv6 literals ("[::1]:443", "[::1]") yield the address between the
// brackets. For everything else the text after the first colon is treated as
// the port, so a bare IPv6 literal such as "fe80::1" yields "fe80". Callers
// that need to classify bare IPv6 literals must look at the unstripped value.
func hostPart(addr string) string {
	if strings.HasPrefix(addr, "[") {
		if end := strings.IndexByte(addr, ']'); end > 0 {
			return addr[1:end]
		}
		return addr
	}

	host, _, _ := strings.Cut(addr, ":")
	return host
}

// addrHost returns the host of addr without the first-colon shortcut used by
// IsPrivateIP: bare IPv6 literals are returned whole.
func addrHost(addr string) string {
	if !strings.HasPrefix(addr, "[") {
		if _, ok := parseIPv6(addr); ok {
			return addr
		}
	}
	return hostPart(addr)
}

// parseIPv4 parses host as a dotted-quad IPv4 address.
func parseIPv4(host string) (netip.Addr, bool) {
	ip, err := netip.ParseAddr(host)
	if err != nil || !ip.Is4() {
		return netip.Addr{}, false
	}
	return ip, true
}

// parseIPv6 parses addr as an IPv6 literal, with or without brackets and
// with an optional port when bracketed.
func parseIPv6(addr string) (netip.Addr, bool) {
	if strings.HasPrefix(addr, "[") {
		addr = hostPart(addr)
	}

	addr = trimZone(addr)

	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is6() {
		return netip.Addr{}, false
	}
	return ip, true
}

// trimZone drops an IPv6 zone suffix ("fe80::1%eth0").
func trimZone(addr string) string {
	if i := strings.IndexByte(addr, '%'); i >= 0 {
		return addr[:i]
	}
	return addr
}
