package listings

import (
	"regexp"
	"strings"
)

var stateZipRe = regexp.MustCompile(`([A-Za-z]{2})\s*(\d{5})?`)

type addressParts struct {
	address string
	city    string
	state   string
	zipCode string
}

// parseAddress splits a raw comma-separated address into components.
// "101 Main St, Dallas, TX 75201" yields street, city, state, and zip; a
// two-part string like "Dallas, TX 75201" has no street, so the first part
// serves as both address and city.
func parseAddress(raw string) addressParts {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 2 {
		return addressParts{address: strings.TrimSpace(raw)}
	}

	var state, zipCode string
	last := parts[len(parts)-1]
	if m := stateZipRe.FindStringSubmatch(last); m != nil {
		state = strings.ToUpper(m[1])
		zipCode = m[2]
	} else {
		state = last
	}

	address := parts[0]
	city := parts[0]
	if len(parts) >= 3 {
		city = parts[1]
	}
	return addressParts{address: address, city: city, state: state, zipCode: zipCode}
}
