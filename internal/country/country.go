// Package country resolves a free-text country field to an ISO-3166
// alpha-2 code, rejecting unrecognized input.
package country

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownCountry is wrapped with the offending input and returned by
// Resolve when neither the code nor name table matches.
var ErrUnknownCountry = eris.New("country: could not find a country code")

// byCode maps upper-cased ISO-3166 alpha-2 codes to themselves, used as a
// membership set. Not exhaustive of every territory; covers the countries
// the contributed-list corpus actually uses.
var byCode = map[string]string{
	"US": "US", "CA": "CA", "MX": "MX", "GB": "GB", "DE": "DE", "FR": "FR",
	"IT": "IT", "ES": "ES", "PT": "PT", "NL": "NL", "BE": "BE", "CH": "CH",
	"AT": "AT", "SE": "SE", "NO": "NO", "DK": "DK", "FI": "FI", "PL": "PL",
	"CZ": "CZ", "SK": "SK", "HU": "HU", "RO": "RO", "BG": "BG", "GR": "GR",
	"TR": "TR", "RU": "RU", "UA": "UA", "CN": "CN", "JP": "JP", "KR": "KR",
	"IN": "IN", "PK": "PK", "BD": "BD", "VN": "VN", "TH": "TH", "ID": "ID",
	"PH": "PH", "MY": "MY", "SG": "SG", "AU": "AU", "NZ": "NZ", "BR": "BR",
	"AR": "AR", "CL": "CL", "CO": "CO", "PE": "PE", "EC": "EC", "ZA": "ZA",
	"EG": "EG", "NG": "NG", "KE": "KE", "ET": "ET", "MA": "MA", "TN": "TN",
	"IL": "IL", "SA": "SA", "AE": "AE", "JO": "JO", "LB": "LB", "IE": "IE",
	"IS": "IS", "HR": "HR", "SI": "SI", "RS": "RS", "LT": "LT", "LV": "LV",
	"EE": "EE", "MM": "MM", "KH": "KH", "LK": "LK", "NP": "NP",
}

// byName maps lower-cased country names to their ISO-3166 alpha-2 code.
var byName = map[string]string{
	"united states":       "US",
	"united states of america": "US",
	"usa":                 "US",
	"canada":              "CA",
	"mexico":              "MX",
	"united kingdom":      "GB",
	"great britain":       "GB",
	"germany":             "DE",
	"france":              "FR",
	"italy":               "IT",
	"spain":               "ES",
	"portugal":            "PT",
	"netherlands":         "NL",
	"belgium":             "BE",
	"switzerland":         "CH",
	"austria":             "AT",
	"sweden":              "SE",
	"norway":              "NO",
	"denmark":             "DK",
	"finland":             "FI",
	"poland":              "PL",
	"czech republic":      "CZ",
	"slovakia":            "SK",
	"hungary":             "HU",
	"romania":             "RO",
	"bulgaria":            "BG",
	"greece":              "GR",
	"turkey":              "TR",
	"russia":              "RU",
	"ukraine":             "UA",
	"china":               "CN",
	"japan":               "JP",
	"south korea":         "KR",
	"india":               "IN",
	"pakistan":            "PK",
	"bangladesh":          "BD",
	"vietnam":             "VN",
	"thailand":            "TH",
	"indonesia":           "ID",
	"philippines":         "PH",
	"malaysia":            "MY",
	"singapore":           "SG",
	"australia":           "AU",
	"new zealand":         "NZ",
	"brazil":              "BR",
	"argentina":           "AR",
	"chile":               "CL",
	"colombia":            "CO",
	"peru":                "PE",
	"ecuador":             "EC",
	"south africa":        "ZA",
	"egypt":               "EG",
	"nigeria":             "NG",
	"kenya":               "KE",
	"ethiopia":            "ET",
	"morocco":             "MA",
	"tunisia":             "TN",
	"israel":              "IL",
	"saudi arabia":        "SA",
	"united arab emirates": "AE",
	"jordan":              "JO",
	"lebanon":             "LB",
	"ireland":             "IE",
	"iceland":             "IS",
	"croatia":             "HR",
	"slovenia":            "SI",
	"serbia":              "RS",
	"lithuania":           "LT",
	"latvia":              "LV",
	"estonia":             "EE",
	"myanmar":             "MM",
	"cambodia":            "KH",
	"sri lanka":           "LK",
	"nepal":               "NP",
}

// Resolve maps free-text country input to its ISO-3166 alpha-2 code. It
// first tries the upper-cased input as a code, then the lower-cased
// input as a name. Spelling tolerance is not implemented (see open
// questions).
func Resolve(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", eris.Wrap(ErrUnknownCountry, "empty country field")
	}

	if code, ok := byCode[strings.ToUpper(trimmed)]; ok {
		return code, nil
	}
	if code, ok := byName[strings.ToLower(trimmed)]; ok {
		return code, nil
	}

	return "", eris.Wrapf(ErrUnknownCountry, "could not find a country code for %s", trimmed)
}
