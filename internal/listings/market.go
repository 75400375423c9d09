package listings

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsePrice converts a display price like "$4,500,000", "$2.1M", or "$850K"
// into a dollar amount. Placeholder values ("Upon Request") and empty input
// report false.
func ParsePrice(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	if _, hidden := unavailable[strings.ToLower(text)]; hidden {
		return 0, false
	}

	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(text)
	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "M"), strings.HasSuffix(cleaned, "m"):
		multiplier = 1_000_000
		cleaned = cleaned[:len(cleaned)-1]
	case strings.HasSuffix(cleaned, "K"), strings.HasSuffix(cleaned, "k"):
		multiplier = 1_000
		cleaned = cleaned[:len(cleaned)-1]
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

// ParseSize converts a square-footage string like "25,000 SF" into a float.
// Sizes in other units (acres) report false.
func ParseSize(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" || !strings.Contains(strings.ToUpper(text), "SF") {
		return 0, false
	}
	cleaned := strings.ReplaceAll(text, ",", "")
	m := digitsLeadRe.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseCapRate converts a cap rate string like "6.5%" or "6.33% Cap Rate"
// into its percentage value.
func ParseCapRate(text string) (float64, bool) {
	m := capRateLeadRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// maxSampleListings caps how many raw listings ride along in an overview.
const maxSampleListings = 5

// BuildMarketOverview aggregates search results into market statistics.
// Listings with unparseable prices or sizes still count toward totals and
// breakdowns; they just drop out of the numeric averages.
func BuildMarketOverview(location, propertyType string, props []PropertySummary) MarketOverview {
	overview := MarketOverview{
		Location:       location,
		PropertyType:   propertyType,
		TotalListings:  len(props),
		SampleListings: []PropertySummary{},
	}

	var (
		prices, sizes, capRates []float64
		totalPrice, totalSize   float64
		pricedSqft              float64
		pricedSqftDollars       float64
	)
	listingTypes := map[string]int{}
	subtypes := map[string]int{}

	for _, p := range props {
		price, priceOK := ParsePrice(p.Price)
		size, sizeOK := ParseSize(p.SizeSqft)
		if priceOK {
			prices = append(prices, price)
			totalPrice += price
		}
		if sizeOK {
			sizes = append(sizes, size)
			totalSize += size
		}
		if priceOK && sizeOK && size > 0 {
			pricedSqftDollars += price
			pricedSqft += size
		}
		if rate, ok := ParseCapRate(p.CapRate); ok {
			capRates = append(capRates, rate)
		}
		if p.ListingType != "" {
			listingTypes[p.ListingType]++
		}
		if p.PropertyType != "" {
			subtypes[p.PropertyType]++
		}
	}

	if len(prices) > 0 {
		overview.AvgPrice = formatDollars(totalPrice / float64(len(prices)))
		overview.PriceRange = fmt.Sprintf("%s - %s", formatDollars(minOf(prices)), formatDollars(maxOf(prices)))
	}
	if len(sizes) > 0 {
		overview.AvgSizeSqft = formatSqft(totalSize / float64(len(sizes)))
		overview.SizeRange = fmt.Sprintf("%s - %s", formatSqft(minOf(sizes)), formatSqft(maxOf(sizes)))
	}
	if pricedSqft > 0 {
		overview.AvgPricePerSqft = fmt.Sprintf("$%s/SF", groupDigits(int64(math.Round(pricedSqftDollars/pricedSqft))))
	}
	if len(capRates) > 0 {
		var sum float64
		for _, r := range capRates {
			sum += r
		}
		overview.AvgCapRate = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", sum/float64(len(capRates))), "0"), ".") + "%"
	}
	if len(listingTypes) > 0 {
		overview.ListingTypesBreakdown = listingTypes
	}
	if len(subtypes) > 0 {
		overview.PropertySubtypesBreakdown = subtypes
	}

	sample := props
	if len(sample) > maxSampleListings {
		sample = sample[:maxSampleListings]
	}
	overview.SampleListings = append(overview.SampleListings, sample...)

	return overview
}

func formatDollars(v float64) string {
	return "$" + groupDigits(int64(math.Round(v)))
}

func formatSqft(v float64) string {
	return groupDigits(int64(math.Round(v))) + " SF"
}

// groupDigits renders n with thousands separators.
func groupDigits(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
