package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// Location is the geography a single IP resolves to.
type Location struct {
	Country   string
	Continent string
}

// LocationResolver resolves ISO country and continent codes from IP addresses.
type LocationResolver interface {
	Lookup(ip string) (Location, error)
}

// Resolver provides geography lookups backed by a MaxMind GeoIP2 database.
type Resolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the GeoIP database at the given path. When the path is
// empty, nil is returned and region resolution falls back to edge headers
// and the default region.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Lookup returns the country and continent codes for the provided IP.
func (r *Resolver) Lookup(ip string) (Location, error) {
	if r == nil || r.reader == nil {
		return Location{}, ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return Location{}, fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil {
		return Location{}, nil
	}
	return Location{
		Country:   record.Country.IsoCode,
		Continent: record.Continent.Code,
	}, nil
}

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
