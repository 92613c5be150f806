package region

import "sort"

// DefaultRegion is used when no geography signal maps to a compute region.
const DefaultRegion = "us-central1"

// supportedRegions is the allow-list for explicitly requested regions.
// All tables below resolve into this set. Loaded once, never mutated.
var supportedRegions = map[string]struct{}{
	"us-central1":             {},
	"us-east4":                {},
	"us-west1":                {},
	"northamerica-northeast1": {},
	"southamerica-east1":      {},
	"europe-west1":            {},
	"europe-west2":            {},
	"europe-west3":            {},
	"europe-west4":            {},
	"asia-northeast1":         {},
	"asia-northeast3":         {},
	"asia-southeast1":         {},
	"asia-south1":             {},
	"australia-southeast1":    {},
}

// coloToRegion maps edge data-center (IATA) codes to the nearest compute
// region. The colo is the finest-grained proxy for physical location the
// edge reports.
var coloToRegion = map[string]string{
	// North America
	"IAD": "us-east4",
	"EWR": "us-east4",
	"ATL": "us-east4",
	"ORD": "us-central1",
	"DFW": "us-central1",
	"DEN": "us-central1",
	"LAX": "us-west1",
	"SJC": "us-west1",
	"SEA": "us-west1",
	"YYZ": "northamerica-northeast1",
	"YUL": "northamerica-northeast1",
	// South America
	"GRU": "southamerica-east1",
	"GIG": "southamerica-east1",
	"EZE": "southamerica-east1",
	"SCL": "southamerica-east1",
	// Europe
	"LHR": "europe-west2",
	"MAN": "europe-west2",
	"CDG": "europe-west1",
	"BRU": "europe-west1",
	"MAD": "europe-west1",
	"MXP": "europe-west1",
	"AMS": "europe-west4",
	"FRA": "europe-west3",
	"MUC": "europe-west3",
	"ZRH": "europe-west3",
	// Asia
	"NRT": "asia-northeast1",
	"KIX": "asia-northeast1",
	"ICN": "asia-northeast3",
	"SIN": "asia-southeast1",
	"KUL": "asia-southeast1",
	"BKK": "asia-southeast1",
	"HKG": "asia-southeast1",
	"BOM": "asia-south1",
	"DEL": "asia-south1",
	// Oceania
	"SYD": "australia-southeast1",
	"MEL": "australia-southeast1",
	"AKL": "australia-southeast1",
}

// countryToRegion maps ISO 3166-1 alpha-2 country codes to a compute region.
var countryToRegion = map[string]string{
	"US": "us-central1",
	"CA": "northamerica-northeast1",
	"MX": "us-central1",
	"BR": "southamerica-east1",
	"AR": "southamerica-east1",
	"CL": "southamerica-east1",
	"GB": "europe-west2",
	"IE": "europe-west2",
	"FR": "europe-west1",
	"BE": "europe-west1",
	"ES": "europe-west1",
	"IT": "europe-west1",
	"PT": "europe-west1",
	"NL": "europe-west4",
	"DE": "europe-west3",
	"AT": "europe-west3",
	"CH": "europe-west3",
	"PL": "europe-west3",
	"JP": "asia-northeast1",
	"KR": "asia-northeast3",
	"SG": "asia-southeast1",
	"MY": "asia-southeast1",
	"TH": "asia-southeast1",
	"ID": "asia-southeast1",
	"PH": "asia-southeast1",
	"VN": "asia-southeast1",
	"IN": "asia-south1",
	"AU": "australia-southeast1",
	"NZ": "australia-southeast1",
}

// continentToRegion is the coarsest geography fallback before the default.
var continentToRegion = map[string]string{
	"NA": "us-central1",
	"SA": "southamerica-east1",
	"EU": "europe-west1",
	"AF": "europe-west1",
	"AS": "asia-southeast1",
	"OC": "australia-southeast1",
}

// SupportedRegions returns the valid region codes sorted for stable error
// messages and diagnostics.
func SupportedRegions() []string {
	out := make([]string, 0, len(supportedRegions))
	for code := range supportedRegions {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
