package listings

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeLocation(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Houston, TX":          "houston-tx",
		"Houston TX":           "houston-tx",
		"New York, NY":         "new-york-ny",
		"TX":                   "tx",
		"77001":                "77001",
		"  Houston ,  TX  ":    "houston-tx",
		"San Francisco, CA":    "san-francisco-ca",
		"houston-tx":           "houston-tx",
		"St. Louis, MO":        "st-louis-mo",
	}
	for input, want := range cases {
		require.Equal(t, want, NormalizeLocation(input), "input %q", input)
	}
}

func TestBuildSearchURL(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"https://www.loopnet.com/search/commercial-real-estate/houston-tx/for-sale/",
		BuildSearchURL("", "Houston, TX", "", "", 1),
	)
	require.Equal(t,
		"https://www.loopnet.com/search/office/houston-tx/for-sale/",
		BuildSearchURL("", "Houston, TX", TypeOffice, ForSale, 1),
	)
	require.Equal(t,
		"https://www.loopnet.com/search/commercial-real-estate/ny/for-lease/",
		BuildSearchURL("", "NY", "", ForLease, 1),
	)
	require.Equal(t,
		"https://www.loopnet.com/search/commercial-real-estate/houston-tx/for-sale/3/",
		BuildSearchURL("", "Houston, TX", "", "", 3),
	)
	require.Contains(t, BuildSearchURL("", "Miami, FL", TypeRetail, "", 1), "/retail/")
	require.Contains(t, BuildSearchURL("", "Dallas, TX", TypeIndustrial, "", 1), "/industrial/")
	require.Contains(t, BuildSearchURL("", "LA, CA", TypeMultifamily, "", 1), "/apartment-buildings/")
	require.Contains(t, BuildSearchURL("", "Houston, TX", "unknown", "", 1), "/commercial-real-estate/")
	require.NotContains(t, BuildSearchURL("", "Houston, TX", "", "", 1), "1/")

	require.Equal(t,
		"http://localhost:9999/search/office/austin-tx/for-sale/",
		BuildSearchURL("http://localhost:9999", "Austin, TX", TypeOffice, "", 1),
	)
}

func TestExtractListingID(t *testing.T) {
	t.Parallel()

	id, ok := ExtractListingID("https://www.loopnet.com/Listing/1435-River-Ave-Camden-NJ/31948105/")
	require.True(t, ok)
	require.Equal(t, "31948105", id)

	id, ok = ExtractListingID("https://www.loopnet.com/property/4820-mims-ave-laredo-tx-78041/48479-210176/")
	require.True(t, ok)
	require.Equal(t, "48479-210176", id)

	id, ok = ExtractListingID("https://www.loopnet.com/Listing/some-address/12345")
	require.True(t, ok)
	require.Equal(t, "12345", id)

	_, ok = ExtractListingID("https://www.loopnet.com/search/commercial-real-estate/houston-tx/")
	require.False(t, ok)

	_, ok = ExtractListingID("")
	require.False(t, ok)
}

func TestBuildDetailURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://www.loopnet.com/Listing/12345/", BuildDetailURL("", "12345"))
	require.Equal(t, "https://www.loopnet.com/Listing/48479-210176/", BuildDetailURL("", "48479-210176"))
}

func TestValidTypes(t *testing.T) {
	t.Parallel()

	require.True(t, ValidPropertyType(""))
	require.True(t, ValidPropertyType(TypeOffice))
	require.True(t, ValidPropertyType(TypeHealthCare))
	require.False(t, ValidPropertyType("castle"))

	require.True(t, ValidListingType(""))
	require.True(t, ValidListingType(ForSale))
	require.True(t, ValidListingType(ForLease))
	require.False(t, ValidListingType("for-rent"))
}
