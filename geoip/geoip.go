// Package geoip provides a MaxMind GeoIP2/GeoLite2 backed realip.Locator.
package geoip

import (
	"errors"
	"fmt"
	"net"

	"github.com/abczzz13/realip"
	"github.com/oschwald/geoip2-golang"
)

// ErrInvalidIP is returned by Locate for values that are not IP addresses.
var ErrInvalidIP = errors.New("invalid ip address")

// cityReader is the subset of *geoip2.Reader used by Locator.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// Locator resolves addresses to countries and cities using a City database.
//
// A Locator is safe for concurrent use.
type Locator struct {
	reader   cityReader
	language string
}

var _ realip.Locator = (*Locator)(nil)

// Open opens the .mmdb City database at path. Names are reported in English.
func Open(path string) (*Locator, error) {
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open city database %q: %w", path, err)
	}

	return &Locator{reader: reader, language: "en"}, nil
}

// FromBytes opens a City database held in memory.
func FromBytes(data []byte) (*Locator, error) {
	reader, err := geoip2.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load city database: %w", err)
	}

	return &Locator{reader: reader, language: "en"}, nil
}

// Close releases the underlying database.
func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}

// Locate returns the country ISO code and city name of ip.
func (l *Locator) Locate(ip string) (realip.Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return realip.Location{}, fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}

	record, err := l.reader.City(parsed)
	if err != nil {
		return realip.Location{}, fmt.Errorf("lookup %s: %w", ip, err)
	}

	return realip.Location{
		Country: record.Country.IsoCode,
		City:    record.City.Names[l.language],
	}, nil
}
