package realip

import (
	"errors"
	"net/textproto"
	"strings"
)

var (
	// ErrMalformedRecord is returned by ParseRecord when a line is not a JSON
	// object.
	ErrMalformedRecord = errors.New("malformed access log record")

	// ErrMissingClientAddr is returned by ParseRecord when a record has no
	// non-empty string ClientAddr field.
	ErrMissingClientAddr = errors.New("access log record has no ClientAddr")
)

// SourceClientAddr is the Resolution source reported when no forwarding
// header contributed and the raw peer address was used.
const SourceClientAddr = "ClientAddr"

// accessLogHeaderPrefix is the prefix Traefik puts in front of request header
// fields in JSON access logs.
const accessLogHeaderPrefix = "request_"

// Header identifies one of the forwarding headers understood by the resolver.
type Header int

// Header values start at 1 so the zero value is never a valid header.

const (
	// HeaderTrueClientIP is the CDN-edge asserted client address.
	HeaderTrueClientIP Header = iota + 1
	// HeaderCFConnectingIP is Cloudflare's connecting-IP header.
	HeaderCFConnectingIP
	// HeaderXRealIP is the nginx-style single client address header.
	HeaderXRealIP
	// HeaderXClientIP is a generic proxy-injected client address header.
	HeaderXClientIP
	// HeaderXOriginalIP is a generic proxy-injected client address header.
	HeaderXOriginalIP
	// HeaderXClusterClientIP is the load-balancer cluster client header.
	HeaderXClusterClientIP
	// HeaderXForwardedFor is the comma separated proxy chain header.
	HeaderXForwardedFor
)

var headerNames = [...]string{
	HeaderTrueClientIP:     "True-Client-IP",
	HeaderCFConnectingIP:   "CF-Connecting-IP",
	HeaderXRealIP:          "X-Real-IP",
	HeaderXClientIP:        "X-Client-IP",
	HeaderXOriginalIP:      "X-Original-IP",
	HeaderXClusterClientIP: "X-Cluster-Client-IP",
	HeaderXForwardedFor:    "X-Forwarded-For",
}

// headersByLowerName maps lower-cased canonical names to headers.
var headersByLowerName = func() map[string]Header {
	m := make(map[string]Header, len(headerNames)-1)
	for h := HeaderTrueClientIP; h <= HeaderXForwardedFor; h++ {
		m[strings.ToLower(headerNames[h])] = h
	}
	return m
}()

// Headers returns every known header in declaration order.
func Headers() []Header {
	headers := make([]Header, 0, len(headerNames)-1)
	for h := HeaderTrueClientIP; h <= HeaderXForwardedFor; h++ {
		headers = append(headers, h)
	}
	return headers
}

// ParseHeader returns the Header whose canonical name matches name,
// ignoring case.
func ParseHeader(name string) (Header, bool) {
	h, ok := headersByLowerName[strings.ToLower(strings.TrimSpace(name))]
	return h, ok
}

// String returns the canonical header name, for example "X-Forwarded-For".
func (h Header) String() string {
	if !h.valid() {
		return "unknown"
	}
	return headerNames[h]
}

// LogKey returns the field name Traefik uses for h in JSON access logs, for
// example "request_X-Forwarded-For".
func (h Header) LogKey() string {
	return accessLogHeaderPrefix + h.mimeKey()
}

// mimeKey returns the canonical MIME form used by net/http ("X-Real-Ip").
func (h Header) mimeKey() string {
	return textproto.CanonicalMIMEHeaderKey(h.String())
}

// valid reports whether h is one of the declared headers.
func (h Header) valid() bool {
	return h >= HeaderTrueClientIP && h <= HeaderXForwardedFor
}

// Resolution is the outcome of resolving one record.
type Resolution struct {
	// RealIP is the chosen address, verbatim as found in its source.
	RealIP string

	// Source is the display name of the contributing source, or
	// SourceClientAddr.
	Source string

	// ProxyChain holds every entry of the contributing candidate list when it
	// had more than one entry.
	ProxyChain []string

	IsPrivate bool
}

// Direct reports whether r fell back to the raw peer address.
func (r Resolution) Direct() bool {
	return r.Source == SourceClientAddr
}
