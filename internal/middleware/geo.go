package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Tsubaki01/slimoro/internal/domain"
	"github.com/Tsubaki01/slimoro/internal/infra/geoip"
)

type geoContextKey struct{}

// GeoKey stores the request geography snapshot in the context.
var GeoKey = geoContextKey{}

// Geo extracts the request geography used for region resolution. Edge
// headers win because they carry the colo, the finest-grained signal; the
// GeoIP database fills in country/continent when the edge is absent. The
// lookup may be nil, in which case only headers are consulted.
func Geo(lookup geoip.LocationResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			geo := geoFromHeaders(r)
			if geo.Country == "" && geo.Continent == "" && lookup != nil {
				if loc, err := lookup.Lookup(ClientIP(r)); err == nil {
					geo.Country = loc.Country
					geo.Continent = loc.Continent
				}
			}
			ctx := context.WithValue(r.Context(), GeoKey, geo)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func geoFromHeaders(r *http.Request) domain.GeographicInfo {
	geo := domain.GeographicInfo{
		Country:   strings.ToUpper(strings.TrimSpace(r.Header.Get("CF-IPCountry"))),
		Continent: strings.ToUpper(strings.TrimSpace(r.Header.Get("CF-IPContinent"))),
	}
	// CF-Ray ends with the serving data-center code, e.g. "230b030023ae2822-SJC".
	if ray := r.Header.Get("CF-Ray"); ray != "" {
		if idx := strings.LastIndex(ray, "-"); idx >= 0 && idx < len(ray)-1 {
			geo.Colo = strings.ToUpper(ray[idx+1:])
		}
	}
	return geo
}

// GeoFromContext returns the geography snapshot stored by Geo.
func GeoFromContext(ctx context.Context) domain.GeographicInfo {
	if v, ok := ctx.Value(GeoKey).(domain.GeographicInfo); ok {
		return v
	}
	return domain.GeographicInfo{}
}
