package listings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	sfRe            = regexp.MustCompile(`(?i)\d+\s*SF`)
	typeKeywordRe   = regexp.MustCompile(`(?i)\b(office|retail|industrial|apartment|land|hotel)\b`)
	unitBuildingRe  = regexp.MustCompile(`(?i)^(\d+)\s+Unit\s+(.+)$`)
	resultCountRe   = regexp.MustCompile(`([\d,]+)`)
	unavailable     = map[string]struct{}{"upon request": {}, "negotiable": {}, "call for pricing": {}}
	capRateLeadRe   = regexp.MustCompile(`([\d.]+)\s*%`)
	digitsLeadRe    = regexp.MustCompile(`(\d+)`)
	spaceCollapseRe = regexp.MustCompile(`\s+`)
)

// ParseSearchResults extracts property summaries from a search results page.
// Placards missing a name or link are skipped rather than failing the page.
func ParseSearchResults(html, baseURL string) ([]PropertySummary, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse search html: %w", err)
	}

	var results []PropertySummary
	doc.Find("article.placard").Each(func(_ int, placard *goquery.Selection) {
		titleTag := placard.Find("header h4 a").First()
		name := collapseSpace(titleTag.Text())
		href, _ := titleTag.Attr("href")
		if name == "" || href == "" {
			return
		}

		url := href
		if !strings.HasPrefix(href, "http") {
			url = baseURL + href
		}

		addr := parseAddress(strings.TrimSpace(placard.Find("header a.subtitle-beta").First().Text()))

		// Labeled entries look like <li name="Price">$2,800,000</li>;
		// unlabeled ones ("6.33% Cap Rate", "22 Unit Apartment Building")
		// are classified by content.
		dataPoints := map[string]string{}
		units := 0
		placard.Find("ul.data-points-2c li").Each(func(_ int, li *goquery.Selection) {
			label, _ := li.Attr("name")
			value := strings.TrimSpace(li.Text())
			switch {
			case value == "":
			case label != "":
				dataPoints[label] = value
			case strings.Contains(strings.ToLower(value), "cap rate"):
				if rate := capRateLeadRe.FindString(value); rate != "" {
					dataPoints["Cap Rate"] = rate
				} else {
					dataPoints["Cap Rate"] = value
				}
			case sfRe.MatchString(value):
				dataPoints["Building Size"] = value
			case unitBuildingRe.MatchString(value):
				m := unitBuildingRe.FindStringSubmatch(value)
				units = firstInt(m[1])
				dataPoints["Property Type"] = strings.TrimSpace(m[2])
			case typeKeywordRe.MatchString(value):
				dataPoints["Property Type"] = value
			}
		})

		price := dataPoints["Price"]
		if _, hidden := unavailable[strings.ToLower(price)]; hidden {
			price = ""
		}

		imageURL, ok := placard.Find("img.image-hide").First().Attr("src")
		if !ok {
			imageURL, _ = placard.Find(".slide img").First().Attr("src")
		}
		brokerCompany, _ := placard.Find("[company-logo-carousel] img").First().Attr("alt")

		results = append(results, PropertySummary{
			Name:          name,
			Address:       addr.address,
			City:          addr.city,
			State:         addr.state,
			ZipCode:       addr.zipCode,
			PropertyType:  dataPoints["Property Type"],
			Price:         price,
			CapRate:       dataPoints["Cap Rate"],
			SizeSqft:      dataPoints["Building Size"],
			Units:         units,
			URL:           url,
			ImageURL:      imageURL,
			BrokerCompany: brokerCompany,
		})
	})
	return results, nil
}

// ParseTotalResults extracts the total result count from a search page.
// Returns false when no count header is present.
func ParseTotalResults(html string) (int, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, false
	}
	text := doc.Find(".total-results-digits, .result-count, .search-results-count").First().Text()
	m := resultCountRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	var total int
	if _, err := fmt.Sscanf(strings.ReplaceAll(m[1], ",", ""), "%d", &total); err != nil {
		return 0, false
	}
	return total, true
}

// HasNextPage reports whether the search page links to a following page.
func HasNextPage(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(`a[data-automation-id="NextPage"]`).Length() > 0
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceCollapseRe.ReplaceAllString(s, " "))
}
