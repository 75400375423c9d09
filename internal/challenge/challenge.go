// Package challenge classifies page content as real or an anti-bot interstitial.
package challenge

import "strings"

// maxLength is the size gate for challenge classification. Genuine listing
// pages are always far larger than the Akamai interstitial, so any document
// at or above this length is treated as real content even if it happens to
// embed a marker-like substring.
const maxLength = 10_000

// markers are fragments unique to the Akamai challenge markup.
var markers = []string{
	"sec-if-cpt-container",
	"behavioral-content",
	"/akam/13/pixel_",
}

// IsChallenge reports whether html is an Akamai JS challenge page. It is a
// pure function: true only when the document is under the size gate and
// contains at least one known marker.
func IsChallenge(html string) bool {
	if len(html) >= maxLength {
		return false
	}
	for _, marker := range markers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}
