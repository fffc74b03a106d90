package realip

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
	}{
		{
			name: "traefik access log line",
			line: `{
				"ClientAddr": "10.0.0.5:443",
				"ClientHost": "10.0.0.5",
				"DownstreamStatus": 200,
				"Duration": 1500000,
				"RequestMethod": "GET",
				"RequestHost": "app.example.com",
				"RequestPath": "/api/items?page=2",
				"RouterName": "app@docker",
				"ServiceName": "app-svc@docker",
				"StartUTC": "2024-05-01T12:30:45.123456789Z",
				"request_Cf-Connecting-Ip": "203.0.113.9",
				"request_X-Forwarded-For": "203.0.113.9, 10.0.0.1",
				"request_User-Agent": "curl/8.0",
				"level": "info",
				"msg": "",
				"time": "2024-05-01T12:30:45Z"
			}`,
			want: Record{
				ClientAddr: "10.0.0.5:443",
				Headers: map[Header]string{
					HeaderCFConnectingIP: "203.0.113.9",
					HeaderXForwardedFor:  "203.0.113.9, 10.0.0.1",
				},
				StartUTC:         time.Date(2024, 5, 1, 12, 30, 45, 123456789, time.UTC),
				RequestMethod:    "GET",
				RequestHost:      "app.example.com",
				RequestPath:      "/api/items?page=2",
				DownstreamStatus: 200,
				Duration:         1500 * time.Microsecond,
				RouterName:       "app@docker",
				ServiceName:      "app-svc@docker",
			},
		},
		{
			name: "header keys match case-insensitively",
			line: `{"ClientAddr":"10.0.0.5:443","request_true-client-ip":"198.51.100.20","REQUEST_X-CLUSTER-CLIENT-IP":"198.51.100.4","request_X-Real-Ip":"198.51.100.3"}`,
			want: Record{
				ClientAddr: "10.0.0.5:443",
				Headers: map[Header]string{
					HeaderTrueClientIP:     "198.51.100.20",
					HeaderXClusterClientIP: "198.51.100.4",
					HeaderXRealIP:          "198.51.100.3",
				},
			},
		},
		{
			name: "escaped string values are decoded",
			line: `{"ClientAddr":"[::1]:443","request_X-Forwarded-For":"203.0.113.9,\u0020198.51.100.2"}`,
			want: Record{
				ClientAddr: "[::1]:443",
				Headers: map[Header]string{
					HeaderXForwardedFor: "203.0.113.9, 198.51.100.2",
				},
			},
		},
		{
			name: "non-string header values and telemetry ignored",
			line: `{"ClientAddr":"10.0.0.5:443","request_X-Real-Ip":42,"DownstreamStatus":"200","StartUTC":"yesterday"}`,
			want: Record{ClientAddr: "10.0.0.5:443"},
		},
		{
			name: "no headers",
			line: `{"ClientAddr":"198.51.100.7:8080"}`,
			want: Record{ClientAddr: "198.51.100.7:8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecord([]byte(tt.line))
			if err != nil {
				t.Fatalf("ParseRecord() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseRecord() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRecord_Errors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{name: "not json", line: `not json`, wantErr: ErrMalformedRecord},
		{name: "array", line: `["ClientAddr"]`, wantErr: ErrMalformedRecord},
		{name: "truncated object", line: `{"ClientAddr":"10.0.0.5:443"`, wantErr: ErrMalformedRecord},
		{name: "missing ClientAddr", line: `{"request_X-Real-Ip":"203.0.113.9"}`, wantErr: ErrMissingClientAddr},
		{name: "empty ClientAddr", line: `{"ClientAddr":""}`, wantErr: ErrMissingClientAddr},
		{name: "non-string ClientAddr", line: `{"ClientAddr":12}`, wantErr: ErrMissingClientAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecord([]byte(tt.line))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRecord_Resolve(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"ClientAddr":"10.0.0.5:443","request_Cf-Connecting-Ip":"203.0.113.9"}`))
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}

	want := Resolution{RealIP: "203.0.113.9", Source: "CF-Connecting-IP"}
	if diff := cmp.Diff(want, Resolve(rec)); diff != "" {
		t.Fatalf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_Header(t *testing.T) {
	var empty Record
	if got := empty.Header(HeaderXForwardedFor); got != "" {
		t.Fatalf("Header() on nil map = %q, want empty", got)
	}

	rec := newRecord("10.0.0.5:443", map[Header]string{HeaderXRealIP: "203.0.113.9"})
	if got := rec.Header(HeaderXRealIP); got != "203.0.113.9" {
		t.Fatalf("Header(X-Real-IP) = %q, want %q", got, "203.0.113.9")
	}
	if got := rec.Header(HeaderXClientIP); got != "" {
		t.Fatalf("Header(X-Client-IP) = %q, want empty", got)
	}
}

func TestRecordFromHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers HeaderValues
		want    map[Header]string
	}{
		{
			name:    "nil headers",
			headers: nil,
			want:    nil,
		},
		{
			name:    "nil http.Header",
			headers: http.Header(nil),
			want:    nil,
		},
		{
			name:    "nil func",
			headers: HeaderValuesFunc(nil),
			want:    nil,
		},
		{
			name: "http.Header canonical lookup",
			headers: http.Header{
				"Cf-Connecting-Ip": {"203.0.113.9"},
				"X-Real-Ip":        {"198.51.100.2", "198.51.100.3"},
				"X-Forwarded-For":  {"10.0.0.1", "203.0.113.9, 10.0.0.2"},
				"User-Agent":       {"curl/8.0"},
			},
			want: map[Header]string{
				HeaderCFConnectingIP: "203.0.113.9",
				HeaderXRealIP:        "198.51.100.2",
				HeaderXForwardedFor:  "10.0.0.1, 203.0.113.9, 10.0.0.2",
			},
		},
		{
			name: "empty values skipped",
			headers: http.Header{
				"X-Real-Ip": {""},
			},
			want: nil,
		},
		{
			name: "func adapter",
			headers: HeaderValuesFunc(func(name string) []string {
				if name == "True-Client-Ip" {
					return []string{"198.51.100.20"}
				}
				return nil
			}),
			want: map[Header]string{HeaderTrueClientIP: "198.51.100.20"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecordFromHeaders("10.0.0.5:443", tt.headers)
			if got.ClientAddr != "10.0.0.5:443" {
				t.Fatalf("ClientAddr = %q, want %q", got.ClientAddr, "10.0.0.5:443")
			}
			if diff := cmp.Diff(tt.want, got.Headers); diff != "" {
				t.Fatalf("Headers mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecordFromRequest(t *testing.T) {
	if got := RecordFromRequest(nil); got.ClientAddr != "" || got.Headers != nil {
		t.Fatalf("RecordFromRequest(nil) = %+v, want zero record", got)
	}

	req := &http.Request{
		Method:     http.MethodPost,
		Host:       "app.example.com",
		RemoteAddr: "10.0.0.5:443",
		URL:        &url.URL{Path: "/login"},
		Header:     http.Header{"X-Forwarded-For": {"203.0.113.9"}},
	}

	got := RecordFromRequest(req)
	want := Record{
		ClientAddr:    "10.0.0.5:443",
		Headers:       map[Header]string{HeaderXForwardedFor: "203.0.113.9"},
		RequestMethod: http.MethodPost,
		RequestHost:   "app.example.com",
		RequestPath:   "/login",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("RecordFromRequest() mismatch (-want +got):\n%s", diff)
	}
}
