package realip

// Cardinality describes how many addresses a source header may carry.
type Cardinality int

const (
	// SingleValue headers carry exactly one address.
	SingleValue Cardinality = iota + 1
	// MultiValue headers carry a comma separated proxy chain.
	MultiValue
)

// String returns the canonical text representation of c.
func (c Cardinality) String() string {
	switch c {
	case SingleValue:
		return "single"
	case MultiValue:
		return "multi"
	default:
		return "unknown"
	}
}

// valid reports whether c is a supported cardinality.
func (c Cardinality) valid() bool {
	return c == SingleValue || c == MultiValue
}

// Source is one entry of the trust priority table.
type Source struct {
	Header      Header
	Name        string
	Cardinality Cardinality
}

// defaultSources is the trust priority table. Edge/CDN headers come first,
// generic proxy headers next and the forwarded-for chain last.
var defaultSources = []Source{
	{Header: HeaderTrueClientIP, Name: HeaderTrueClientIP.String(), Cardinality: SingleValue},
	{Header: HeaderCFConnectingIP, Name: HeaderCFConnectingIP.String(), Cardinality: SingleValue},
	{Header: HeaderXRealIP, Name: HeaderXRealIP.String(), Cardinality: SingleValue},
	{Header: HeaderXClientIP, Name: HeaderXClientIP.String(), Cardinality: SingleValue},
	{Header: HeaderXOriginalIP, Name: HeaderXOriginalIP.String(), Cardinality: SingleValue},
	{Header: HeaderXClusterClientIP, Name: HeaderXClusterClientIP.String(), Cardinality: SingleValue},
	{Header: HeaderXForwardedFor, Name: HeaderXForwardedFor.String(), Cardinality: MultiValue},
}

// DefaultSources returns a copy of the default trust priority table.
func DefaultSources() []Source {
	return cloneSources(defaultSources)
}

// SingleHeaderSource returns a single-valued source named after h.
func SingleHeaderSource(h Header) Source {
	return Source{Header: h, Name: h.String(), Cardinality: SingleValue}
}

// ChainHeaderSource returns a multi-valued source named after h.
func ChainHeaderSource(h Header) Source {
	return Source{Header: h, Name: h.String(), Cardinality: MultiValue}
}

func cloneSources(sources []Source) []Source {
	if sources == nil {
		return nil
	}
	cloned := make([]Source, len(sources))
	copy(cloned, sources)
	return cloned
}

// candidates derives the ordered candidate list for s from its raw value.
// A single-valued source contributes its raw value unchanged.
func (s Source) candidates(raw string) []string {
	if s.Cardinality == MultiValue {
		return ParseForwardedChain(raw)
	}

	if raw == "" {
		return nil
	}
	return []string{raw}
}
