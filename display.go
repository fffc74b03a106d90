package realip

import (
	"strings"
)

// Location is the coarse geographic origin of a public address.
type Location struct {
	Country string
	City    string
}

// String returns "City, Country", or whichever part is known.
func (l Location) String() string {
	switch {
	case l.City != "" && l.Country != "":
		return l.City + ", " + l.Country
	case l.City != "":
		return l.City
	default:
		return l.Country
	}
}

// Locator looks up the location of an address. See the geoip sub-package for
// a MaxMind-backed implementation.
type Locator interface {
	Locate(ip string) (Location, error)
}

// Display is the presentation form of a Resolution for log viewers.
type Display struct {
	// MainIP is the resolved address.
	MainIP string
	// Subtitle is "via <peer>" when the address came from a header and differs
	// from the peer address, otherwise empty.
	Subtitle string
	// Tooltip explains where the address came from, one fact per line.
	Tooltip string
}

// DisplayOption configures FormatDisplay.
type DisplayOption func(*displayConfig)

type displayConfig struct {
	locator Locator
}

// WithLocator adds a location line to the tooltip of public addresses.
func WithLocator(locator Locator) DisplayOption {
	return func(c *displayConfig) {
		c.locator = locator
	}
}

// FormatDisplay derives the presentation triple for res. clientAddr is the
// raw peer address of the record res was resolved from.
func FormatDisplay(res Resolution, clientAddr string, opts ...DisplayOption) Display {
	var cfg displayConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	d := Display{MainIP: res.RealIP}
	if res.RealIP != clientAddr && !res.Direct() {
		d.Subtitle = "via " + clientAddr
	}

	lines := make([]string, 0, 4)
	if res.Direct() {
		lines = append(lines, "Direct connection ("+SourceClientAddr+")")
	} else {
		lines = append(lines, "Resolved from "+res.Source+" header")
	}

	if len(res.ProxyChain) > 1 {
		lines = append(lines, "Proxy chain: "+strings.Join(res.ProxyChain, " → "))
	}

	if res.IsPrivate {
		lines = append(lines, "Private/internal IP address")
	} else if cfg.locator != nil && !isNilInterface(cfg.locator) {
		if loc, err := cfg.locator.Locate(addrHost(res.RealIP)); err == nil && loc.String() != "" {
			lines = append(lines, "Location: "+loc.String())
		}
	}

	d.Tooltip = strings.Join(lines, "\n")
	return d
}
