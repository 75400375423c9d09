package listings

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"$4,500,000", 4_500_000, true},
		{"$2.1M", 2_100_000, true},
		{"$850K", 850_000, true},
		{"$1200000", 1_200_000, true},
		{"Upon Request", 0, false},
		{"Negotiable", 0, false},
		{"", 0, false},
		{"not a price", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParsePrice(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		require.InDelta(t, tc.want, got, 0.001, "input %q", tc.in)
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	got, ok := ParseSize("25,000 SF")
	require.True(t, ok)
	require.InDelta(t, 25_000, got, 0.001)

	got, ok = ParseSize("5000 SF")
	require.True(t, ok)
	require.InDelta(t, 5_000, got, 0.001)

	_, ok = ParseSize("1.5 Acres")
	require.False(t, ok, "acreage is not comparable to square footage")

	_, ok = ParseSize("")
	require.False(t, ok)
}

func TestParseCapRate(t *testing.T) {
	t.Parallel()

	got, ok := ParseCapRate("6.5%")
	require.True(t, ok)
	require.InDelta(t, 6.5, got, 0.001)

	got, ok = ParseCapRate("6.33% Cap Rate")
	require.True(t, ok)
	require.InDelta(t, 6.33, got, 0.001)

	_, ok = ParseCapRate("")
	require.False(t, ok)
}

func makeProp(opts func(*PropertySummary)) PropertySummary {
	p := PropertySummary{
		Name:         "Test Property",
		Address:      "123 Test St",
		City:         "Dallas",
		State:        "TX",
		ZipCode:      "75201",
		PropertyType: "Office",
		ListingType:  "For Sale",
		Price:        "$1,000,000",
		SizeSqft:     "10,000 SF",
		URL:          "https://www.loopnet.com/Listing/test/1/",
	}
	if opts != nil {
		opts(&p)
	}
	return p
}

func TestBuildMarketOverview_Averages(t *testing.T) {
	t.Parallel()

	props := []PropertySummary{
		makeProp(func(p *PropertySummary) { p.Price = "$2,000,000"; p.SizeSqft = "20,000 SF" }),
		makeProp(func(p *PropertySummary) { p.Price = "$4,000,000"; p.SizeSqft = "40,000 SF" }),
	}
	overview := BuildMarketOverview("Dallas, TX", TypeOffice, props)
	require.Equal(t, 2, overview.TotalListings)
	require.Equal(t, "$3,000,000", overview.AvgPrice)
	require.Equal(t, "30,000 SF", overview.AvgSizeSqft)
}

func TestBuildMarketOverview_Ranges(t *testing.T) {
	t.Parallel()

	props := []PropertySummary{
		makeProp(func(p *PropertySummary) { p.Price = "$1,000,000"; p.SizeSqft = "10,000 SF" }),
		makeProp(func(p *PropertySummary) { p.Price = "$5,000,000"; p.SizeSqft = "50,000 SF" }),
	}
	overview := BuildMarketOverview("Dallas, TX", "", props)
	require.Equal(t, "$1,000,000 - $5,000,000", overview.PriceRange)
	require.Equal(t, "10,000 SF - 50,000 SF", overview.SizeRange)
}

func TestBuildMarketOverview_PricePerSqft(t *testing.T) {
	t.Parallel()

	props := []PropertySummary{
		makeProp(func(p *PropertySummary) { p.Price = "$2,000,000"; p.SizeSqft = "20,000 SF" }),
	}
	overview := BuildMarketOverview("Dallas, TX", "", props)
	require.Equal(t, "$100/SF", overview.AvgPricePerSqft)
}

func TestBuildMarketOverview_CapRate(t *testing.T) {
	t.Parallel()

	props := []PropertySummary{
		makeProp(func(p *PropertySummary) { p.CapRate = "6%" }),
		makeProp(func(p *PropertySummary) { p.CapRate = "7%" }),
	}
	overview := BuildMarketOverview("Dallas, TX", "", props)
	require.Equal(t, "6.5%", overview.AvgCapRate)
}

func TestBuildMarketOverview_Breakdowns(t *testing.T) {
	t.Parallel()

	props := []PropertySummary{
		makeProp(func(p *PropertySummary) { p.ListingType = "For Sale"; p.PropertyType = "Office" }),
		makeProp(func(p *PropertySummary) { p.ListingType = "For Sale"; p.PropertyType = "Retail" }),
		makeProp(func(p *PropertySummary) { p.ListingType = "For Lease"; p.PropertyType = "Office" }),
	}
	overview := BuildMarketOverview("Dallas, TX", "", props)
	require.Equal(t, map[string]int{"For Sale": 2, "For Lease": 1}, overview.ListingTypesBreakdown)
	require.Equal(t, map[string]int{"Office": 2, "Retail": 1}, overview.PropertySubtypesBreakdown)
}

func TestBuildMarketOverview_SampleListingsCapped(t *testing.T) {
	t.Parallel()

	var props []PropertySummary
	for i := 0; i < 10; i++ {
		i := i
		props = append(props, makeProp(func(p *PropertySummary) { p.Name = fmt.Sprintf("Prop %d", i) }))
	}
	overview := BuildMarketOverview("Dallas, TX", "", props)
	require.Len(t, overview.SampleListings, 5)
	require.Equal(t, "Prop 0", overview.SampleListings[0].Name)
}

func TestBuildMarketOverview_Empty(t *testing.T) {
	t.Parallel()

	overview := BuildMarketOverview("Dallas, TX", TypeOffice, nil)
	require.Equal(t, "Dallas, TX", overview.Location)
	require.Equal(t, TypeOffice, overview.PropertyType)
	require.Zero(t, overview.TotalListings)
	require.Empty(t, overview.AvgPrice)
	require.Empty(t, overview.AvgSizeSqft)
	require.Empty(t, overview.AvgPricePerSqft)
	require.Empty(t, overview.AvgCapRate)
	require.Empty(t, overview.PriceRange)
	require.Empty(t, overview.SizeRange)
	require.Empty(t, overview.SampleListings)
}

func TestBuildMarketOverview_UnparseablePrices(t *testing.T) {
	t.Parallel()

	props := []PropertySummary{
		makeProp(func(p *PropertySummary) { p.Price = "" }),
		makeProp(func(p *PropertySummary) { p.Price = "Upon Request" }),
	}
	overview := BuildMarketOverview("Dallas, TX", "", props)
	require.Equal(t, 2, overview.TotalListings)
	require.Empty(t, overview.AvgPrice)
	require.Empty(t, overview.PriceRange)
}
