package realip

import (
	"context"
	"fmt"
)

// Resolver picks the most likely client address out of an access log record.
//
// Resolver instances are immutable after construction and safe for
// concurrent reuse.
type Resolver struct {
	config *config
}

// defaultResolver backs the package-level Resolve helper.
var defaultResolver = &Resolver{config: defaultConfig()}

// New creates a Resolver from one or more Option builders.
func New(opts ...Option) (*Resolver, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Resolver{config: cfg}, nil
}

// Resolve resolves rec using the default trust priority table.
func Resolve(rec Record) Resolution {
	return defaultResolver.Resolve(rec)
}

// Sources returns a copy of the trust priority table used by r.
func (r *Resolver) Sources() []Source {
	return cloneSources(r.config.sources)
}

// Resolve determines the client address for rec. It never fails: when no
// source header is present the raw peer address is returned.
func (r *Resolver) Resolve(rec Record) Resolution {
	return r.ResolveContext(context.Background(), rec)
}

// ResolveContext is like Resolve. ctx is handed to the configured Logger so
// that request-scoped values such as trace IDs reach warning output.
func (r *Resolver) ResolveContext(ctx context.Context, rec Record) Resolution {
	if ctx == nil {
		ctx = context.Background()
	}

	for _, source := range r.config.sources {
		raw := rec.Header(source.Header)
		if raw == "" {
			continue
		}

		candidates := source.candidates(raw)
		if source.Cardinality == MultiValue {
			r.observeChain(ctx, rec, source, candidates)
		}
		if len(candidates) == 0 {
			continue
		}

		for _, candidate := range candidates {
			if candidate != "" && !IsPrivateIP(candidate) {
				return r.resolved(source, candidate, candidates, false)
			}
		}

		// The source is present but lists only internal addresses. It still
		// outranks every lower-priority source.
		r.config.metrics.RecordSecurityEvent(securityEventPrivateOnlySource)
		first := candidates[0]
		return r.resolved(source, first, candidates, IsPrivateIP(first))
	}

	private := IsPrivateIP(rec.ClientAddr)
	r.config.metrics.RecordResolution(SourceClientAddr, private)
	return Resolution{
		RealIP:    rec.ClientAddr,
		Source:    SourceClientAddr,
		IsPrivate: private,
	}
}

func (r *Resolver) resolved(source Source, ip string, candidates []string, private bool) Resolution {
	r.config.metrics.RecordResolution(source.Name, private)

	res := Resolution{
		RealIP:    ip,
		Source:    source.Name,
		IsPrivate: private,
	}
	if len(candidates) > 1 {
		res.ProxyChain = cloneStrings(candidates)
	}
	return res
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
