package region

import (
	"errors"
	"strings"
	"testing"

	"github.com/Tsubaki01/slimoro/internal/domain"
)

func TestResolveExplicitWinsOverGeography(t *testing.T) {
	geo := &domain.GeographicInfo{Colo: "NRT", Country: "JP", Continent: "AS"}

	res, err := Resolve("europe-west1", geo)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Region != "europe-west1" {
		t.Fatalf("Region = %q, want europe-west1", res.Region)
	}
	if res.Method != MethodExplicit {
		t.Fatalf("Method = %q, want explicit", res.Method)
	}
}

func TestResolveInvalidExplicitRegion(t *testing.T) {
	_, err := Resolve("mars-north1", nil)
	if err == nil {
		t.Fatal("Resolve accepted an unsupported region")
	}
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Resolve returned %T, want *domain.ConfigurationError", err)
	}
	if !strings.Contains(err.Error(), "mars-north1") {
		t.Fatalf("error does not name the offending value: %v", err)
	}
	if !strings.Contains(err.Error(), "us-central1") {
		t.Fatalf("error does not list supported regions: %v", err)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	tests := []struct {
		name       string
		geo        *domain.GeographicInfo
		wantRegion string
		wantMethod Method
	}{
		{
			name:       "colo wins when mapped",
			geo:        &domain.GeographicInfo{Colo: "NRT", Country: "US", Continent: "NA"},
			wantRegion: "asia-northeast1",
			wantMethod: MethodColo,
		},
		{
			name:       "unmapped colo falls back to country",
			geo:        &domain.GeographicInfo{Colo: "XXX", Country: "DE", Continent: "EU"},
			wantRegion: "europe-west3",
			wantMethod: MethodCountry,
		},
		{
			name:       "unmapped colo and country fall back to continent",
			geo:        &domain.GeographicInfo{Colo: "XXX", Country: "ZZ", Continent: "SA"},
			wantRegion: "southamerica-east1",
			wantMethod: MethodContinent,
		},
		{
			name:       "nothing mapped falls back to default",
			geo:        &domain.GeographicInfo{Colo: "XXX", Country: "ZZ", Continent: "XX"},
			wantRegion: DefaultRegion,
			wantMethod: MethodDefault,
		},
		{
			name:       "nil geography uses default",
			geo:        nil,
			wantRegion: DefaultRegion,
			wantMethod: MethodDefault,
		},
		{
			name:       "lowercase codes are normalized",
			geo:        &domain.GeographicInfo{Country: "jp"},
			wantRegion: "asia-northeast1",
			wantMethod: MethodCountry,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Resolve("", tc.geo)
			if err != nil {
				t.Fatalf("Resolve returned error: %v", err)
			}
			if res.Region != tc.wantRegion {
				t.Fatalf("Region = %q, want %q", res.Region, tc.wantRegion)
			}
			if res.Method != tc.wantMethod {
				t.Fatalf("Method = %q, want %q", res.Method, tc.wantMethod)
			}
		})
	}
}

func TestTablesResolveIntoSupportedSet(t *testing.T) {
	for colo, region := range coloToRegion {
		if _, ok := supportedRegions[region]; !ok {
			t.Fatalf("colo %s maps to unsupported region %s", colo, region)
		}
	}
	for country, region := range countryToRegion {
		if _, ok := supportedRegions[region]; !ok {
			t.Fatalf("country %s maps to unsupported region %s", country, region)
		}
	}
	for continent, region := range continentToRegion {
		if _, ok := supportedRegions[region]; !ok {
			t.Fatalf("continent %s maps to unsupported region %s", continent, region)
		}
	}
	if _, ok := supportedRegions[DefaultRegion]; !ok {
		t.Fatalf("default region %s is not in the supported set", DefaultRegion)
	}
}
