package realip

import (
	"context"
	"strings"
)

// typicalChainCapacity is the initial capacity used when parsing proxy chains.
//
// Most deployments have short chains (around 1-5 hops). Preallocating 8 avoids
// reallocations in common cases without meaningful memory overhead.
const typicalChainCapacity = 8

// ParseForwardedChain splits a multi-valued forwarding header such as
// X-Forwarded-For into its address tokens.
//
// Tokens are whitespace-trimmed (quotes are kept) and empty tokens are dropped. Order is preserved exactly
// as listed in the header; no hop convention is applied. An empty value yields
// a nil slice.
func ParseForwardedChain(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var parts []string
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			if parts == nil {
				parts = make([]string, 0, typicalChainCapacity)
			}
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// observeChain reports chains longer than the configured maximum. The chain
// is still scanned and returned in full.
func (r *Resolver) observeChain(ctx context.Context, rec Record, source Source, parts []string) {
	if len(parts) <= r.config.maxChainLength {
		return
	}

	r.config.metrics.RecordSecurityEvent(securityEventChainTooLong)
	r.logSecurityWarning(ctx, rec, source.Name, securityEventChainTooLong, "proxy chain exceeds configured maximum",
		"chain_length", len(parts),
		"max_length", r.config.maxChainLength,
	)
}
