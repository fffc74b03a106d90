package realip

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/buger/jsonparser"
)

// Traefik JSON access log field names.
const (
	fieldClientAddr       = "ClientAddr"
	fieldStartUTC         = "StartUTC"
	fieldRequestMethod    = "RequestMethod"
	fieldRequestHost      = "RequestHost"
	fieldRequestPath      = "RequestPath"
	fieldDownstreamStatus = "DownstreamStatus"
	fieldDuration         = "Duration"
	fieldRouterName       = "RouterName"
	fieldServiceName      = "ServiceName"
)

// Record is one reverse-proxy access log entry.
//
// ClientAddr is the TCP peer address ("host:port") observed by the proxy.
// Headers holds the forwarding headers that were present on the request;
// their values are attacker-controlled. The remaining fields are carried for
// callers and do not influence resolution.
type Record struct {
	ClientAddr string
	Headers    map[Header]string

	StartUTC         time.Time
	RequestMethod    string
	RequestHost      string
	RequestPath      string
	DownstreamStatus int
	Duration         time.Duration
	RouterName       string
	ServiceName      string
}

// Header returns the raw value of h, or "" when absent.
func (r Record) Header(h Header) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers[h]
}

// ParseRecord decodes one line of a Traefik JSON access log.
//
// Unknown fields are ignored. Request header fields ("request_<Name>") are
// matched case-insensitively against the known forwarding headers.
func ParseRecord(line []byte) (Record, error) {
	var rec Record
	hasClientAddr := false

	err := jsonparser.ObjectEach(line, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name := string(key)

		if header, ok := headerFromLogKey(name); ok {
			if dataType != jsonparser.String {
				return nil
			}
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			if rec.Headers == nil {
				rec.Headers = make(map[Header]string, 2)
			}
			rec.Headers[header] = s
			return nil
		}

		switch name {
		case fieldClientAddr:
			if dataType != jsonparser.String {
				return nil
			}
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			rec.ClientAddr = s
			hasClientAddr = s != ""
		case fieldStartUTC:
			if s, ok := stringField(value, dataType); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					rec.StartUTC = ts
				}
			}
		case fieldRequestMethod:
			rec.RequestMethod, _ = stringField(value, dataType)
		case fieldRequestHost:
			rec.RequestHost, _ = stringField(value, dataType)
		case fieldRequestPath:
			rec.RequestPath, _ = stringField(value, dataType)
		case fieldRouterName:
			rec.RouterName, _ = stringField(value, dataType)
		case fieldServiceName:
			rec.ServiceName, _ = stringField(value, dataType)
		case fieldDownstreamStatus:
			if n, ok := intField(value, dataType); ok {
				rec.DownstreamStatus = int(n)
			}
		case fieldDuration:
			if n, ok := intField(value, dataType); ok {
				rec.Duration = time.Duration(n)
			}
		}
		return nil
	})
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	if !hasClientAddr {
		return Record{}, ErrMissingClientAddr
	}

	return rec, nil
}

// headerFromLogKey maps an access log field name such as
// "request_X-Forwarded-For" to its Header.
func headerFromLogKey(key string) (Header, bool) {
	if len(key) <= len(accessLogHeaderPrefix) || !strings.EqualFold(key[:len(accessLogHeaderPrefix)], accessLogHeaderPrefix) {
		return 0, false
	}
	return ParseHeader(key[len(accessLogHeaderPrefix):])
}

func stringField(value []byte, dataType jsonparser.ValueType) (string, bool) {
	if dataType != jsonparser.String {
		return "", false
	}
	s, err := jsonparser.ParseString(value)
	if err != nil {
		return "", false
	}
	return s, true
}

func intField(value []byte, dataType jsonparser.ValueType) (int64, bool) {
	if dataType != jsonparser.Number {
		return 0, false
	}
	n, err := jsonparser.ParseInt(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HeaderValues provides access to request header values by name.
//
// Implementations should return one slice entry per received header line.
// Header names are requested in canonical MIME format (for example
// "X-Forwarded-For").
//
// net/http's http.Header satisfies this interface directly.
type HeaderValues interface {
	Values(name string) []string
}

// HeaderValuesFunc adapts a function to the HeaderValues interface.
type HeaderValuesFunc func(name string) []string

// Values implements HeaderValues.
func (f HeaderValuesFunc) Values(name string) []string {
	if f == nil {
		return nil
	}

	return f(name)
}

// RecordFromHeaders builds a Record from a peer address and request headers.
//
// X-Forwarded-For lines are joined with ", " as proxies do when merging
// repeated headers. Every other header contributes its first line only.
func RecordFromHeaders(clientAddr string, headers HeaderValues) Record {
	rec := Record{ClientAddr: clientAddr}
	if headers == nil || isNilInterface(headers) {
		return rec
	}

	for _, h := range Headers() {
		values := headers.Values(h.mimeKey())
		if len(values) == 0 {
			continue
		}

		value := values[0]
		if h == HeaderXForwardedFor {
			value = strings.Join(values, ", ")
		}
		if value == "" {
			continue
		}

		if rec.Headers == nil {
			rec.Headers = make(map[Header]string, 2)
		}
		rec.Headers[h] = value
	}

	return rec
}

// RecordFromRequest builds a Record from a live HTTP request.
func RecordFromRequest(r *http.Request) Record {
	if r == nil {
		return Record{}
	}

	rec := RecordFromHeaders(r.RemoteAddr, r.Header)
	rec.RequestMethod = r.Method
	rec.RequestHost = r.Host
	if r.URL != nil {
		rec.RequestPath = r.URL.Path
	}
	return rec
}
