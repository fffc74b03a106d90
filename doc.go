// Package realip resolves the real client IP of requests recorded in reverse
// proxy access logs (for example Traefik's JSON access log) and annotates it
// for display in log viewers.
//
// # Resolution
//
// A Record carries the TCP peer address (ClientAddr) and the forwarding
// headers seen on the request. The resolver walks a fixed trust priority
// table:
//
//	True-Client-IP, CF-Connecting-IP, X-Real-IP, X-Client-IP,
//	X-Original-IP, X-Cluster-Client-IP, X-Forwarded-For
//
// The first present source wins. Within that source the first public address
// is chosen; when the source lists only internal addresses its first entry is
// used anyway. When no source is present the peer address is returned
// verbatim with Source set to SourceClientAddr.
//
//	line := []byte(`{"ClientAddr":"10.0.0.5:443","request_X-Forwarded-For":"10.0.0.1, 203.0.113.9"}`)
//
//	rec, err := realip.ParseRecord(line)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := realip.Resolve(rec)
//	fmt.Println(res.RealIP, res.Source, res.ProxyChain)
//	// 203.0.113.9 X-Forwarded-For [10.0.0.1 203.0.113.9]
//
// Forwarding headers are attacker-controlled. The result is meant for
// diagnostics and display, not for access control.
//
// # Display
//
// FormatDisplay turns a Resolution into a main address, a "via <peer>"
// subtitle and an explanatory tooltip. WithLocator adds a location line using
// a Locator such as the one in the geoip sub-package.
//
// # Observability
//
// Resolvers accept a Logger (satisfied by *slog.Logger) and a Metrics
// implementation. A Prometheus adapter lives in
// github.com/abczzz13/realip/prometheus:
//
//	resolver, err := realip.New(
//	    realip.WithLogger(slog.Default()),
//	    realipprom.WithRegisterer(registry),
//	)
//
// # Thread Safety
//
// Resolver instances are immutable and safe for concurrent use. ResolveAll
// resolves a batch of records with a bounded number of goroutines.
package realip
