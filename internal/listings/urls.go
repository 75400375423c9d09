package listings

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultBaseURL is the production origin; overridable through configuration.
const DefaultBaseURL = "https://www.loopnet.com"

// propertyTypeSlugs maps the query-facing property type identifiers to the
// path segments the site uses.
var propertyTypeSlugs = map[string]string{
	TypeOffice:         "office",
	TypeRetail:         "retail",
	TypeIndustrial:     "industrial",
	TypeMultifamily:    "apartment-buildings",
	TypeLand:           "land",
	TypeHospitality:    "hospitality",
	TypeSpecialPurpose: "commercial-real-estate",
	TypeHealthCare:     "health-care-facilities",
}

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	slugCharRe    = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphenRe = regexp.MustCompile(`-+`)
	listingIDRe   = regexp.MustCompile(`/(\d[\d-]*)/$`)
)

// NormalizeLocation converts free-form user input into a URL slug:
// "Houston, TX" becomes "houston-tx", "77001" stays "77001".
func NormalizeLocation(location string) string {
	slug := strings.TrimSpace(location)
	slug = strings.ReplaceAll(slug, ",", "")
	slug = strings.ToLower(whitespaceRe.ReplaceAllString(slug, "-"))
	slug = slugCharRe.ReplaceAllString(slug, "")
	slug = multiHyphenRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// BuildSearchURL assembles a search page URL. An unknown or empty property
// type falls back to the all-types segment; page is 1-indexed and only
// appears past the first page.
func BuildSearchURL(baseURL, location, propertyType, listingType string, page int) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if listingType == "" {
		listingType = ForSale
	}

	typeSlug, ok := propertyTypeSlugs[propertyType]
	if !ok {
		typeSlug = "commercial-real-estate"
	}

	url := fmt.Sprintf("%s/search/%s/%s/%s/", baseURL, typeSlug, NormalizeLocation(location), listingType)
	if page > 1 {
		url += fmt.Sprintf("%d/", page)
	}
	return url
}

// BuildDetailURL assembles a property profile URL from a listing ID.
func BuildDetailURL(baseURL, listingID string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return fmt.Sprintf("%s/Listing/%s/", baseURL, listingID)
}

// ExtractListingID pulls the trailing numeric listing ID out of a detail
// URL. Both URL shapes are handled:
//
//	/Listing/1435-River-Ave-Camden-NJ/31948105/
//	/property/4820-mims-ave-laredo-tx-78041/48479-210176/
func ExtractListingID(url string) (string, bool) {
	normalized := strings.TrimRight(url, "/") + "/"
	m := listingIDRe.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ValidPropertyType reports whether pt is a recognized property type
// identifier. The empty string is valid and means all types.
func ValidPropertyType(pt string) bool {
	if pt == "" {
		return true
	}
	_, ok := propertyTypeSlugs[pt]
	return ok
}

// ValidListingType reports whether lt is a recognized listing type. The
// empty string defaults to for-sale.
func ValidListingType(lt string) bool {
	return lt == "" || lt == ForSale || lt == ForLease
}
