package realip

// PresetDefault configures the full trust priority table: CDN-edge headers,
// generic proxy headers, then X-Forwarded-For.
func PresetDefault() Option {
	return WithSources(DefaultSources()...)
}

// PresetCloudflare configures resolution for deployments fronted only by
// Cloudflare.
//
// CF-Connecting-IP is preferred with X-Forwarded-For as the fallback chain.
func PresetCloudflare() Option {
	return WithSources(
		SingleHeaderSource(HeaderCFConnectingIP),
		ChainHeaderSource(HeaderXForwardedFor),
	)
}

// PresetStandardProxy configures resolution for a plain reverse proxy such as
// nginx or Traefik without a CDN in front.
//
// X-Real-IP is preferred with X-Forwarded-For as the fallback chain.
func PresetStandardProxy() Option {
	return WithSources(
		SingleHeaderSource(HeaderXRealIP),
		ChainHeaderSource(HeaderXForwardedFor),
	)
}
