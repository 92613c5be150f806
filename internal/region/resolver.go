package region

import (
	"fmt"
	"strings"

	"github.com/Tsubaki01/slimoro/internal/domain"
)

// Method records which signal selected the region.
type Method string

const (
	MethodExplicit  Method = "explicit"
	MethodColo      Method = "colo"
	MethodCountry   Method = "country"
	MethodContinent Method = "continent"
	MethodDefault   Method = "default"
)

// Resolution is the outcome of a region lookup. Computed once per client
// construction and immutable afterward.
type Resolution struct {
	Region string
	Method Method
	// Geo is the geography snapshot the resolution was derived from, kept
	// for diagnostics. Nil when no geography was supplied.
	Geo *domain.GeographicInfo
}

// Resolve picks the compute region for a request. An explicit region wins
// over any geography but must be on the allow-list; otherwise the finest
// available geography signal is used: colo, then country, then continent,
// then the global default. Pure function over the static tables.
func Resolve(explicit string, geo *domain.GeographicInfo) (Resolution, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if _, ok := supportedRegions[explicit]; !ok {
			return Resolution{}, &domain.ConfigurationError{
				Reason: fmt.Sprintf("unsupported region %q, supported regions: %s",
					explicit, strings.Join(SupportedRegions(), ", ")),
			}
		}
		return Resolution{Region: explicit, Method: MethodExplicit, Geo: geo}, nil
	}

	if geo != nil {
		if code := strings.ToUpper(strings.TrimSpace(geo.Colo)); code != "" {
			if region, ok := coloToRegion[code]; ok {
				return Resolution{Region: region, Method: MethodColo, Geo: geo}, nil
			}
		}
		if code := strings.ToUpper(strings.TrimSpace(geo.Country)); code != "" {
			if region, ok := countryToRegion[code]; ok {
				return Resolution{Region: region, Method: MethodCountry, Geo: geo}, nil
			}
		}
		if code := strings.ToUpper(strings.TrimSpace(geo.Continent)); code != "" {
			if region, ok := continentToRegion[code]; ok {
				return Resolution{Region: region, Method: MethodContinent, Geo: geo}, nil
			}
		}
	}

	return Resolution{Region: DefaultRegion, Method: MethodDefault, Geo: geo}, nil
}
