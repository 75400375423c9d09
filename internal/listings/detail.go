package listings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var addressSegmentRe = regexp.MustCompile(`\b[A-Z]{2}\s*\d{5}\b|,\s*[A-Z]{2}\b`)

// factTypes maps the page's data-fact-type attributes onto the labels used
// in the building-data table, so either markup generation fills the record.
var factTypes = map[string]string{
	"BuildingSize":    "Building Size",
	"YearBuilt":       "Year Built",
	"BuildingClass":   "Building Class",
	"Zoning":          "Zoning",
	"LotSize":         "Lot Size",
	"Parking":         "Parking",
	"Stories":         "Stories",
	"Units":           "Units",
	"CapRate":         "Cap Rate",
	"NOI":             "NOI",
	"PropertyType":    "Property Type",
	"PropertySubType": "Property Subtype",
}

// ParsePropertyDetail extracts the full property record from a profile page.
func ParsePropertyDetail(html, url string) (PropertyDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PropertyDetail{}, fmt.Errorf("parse detail html: %w", err)
	}

	name := strings.TrimSpace(doc.Find(".profile-hero-main-title .profile-hero__segment").First().Text())
	if name == "" {
		name = "Unknown"
	}

	subtitles := doc.Find(".profile-hero-sub-title .profile-hero__segment")
	rawAddress := ""
	subtitles.EachWithBreak(func(_ int, seg *goquery.Selection) bool {
		text := strings.TrimSpace(seg.Text())
		if addressSegmentRe.MatchString(text) {
			rawAddress = text
			return false
		}
		return true
	})
	if rawAddress == "" && subtitles.Length() > 0 {
		rawAddress = strings.TrimSpace(subtitles.Last().Text())
	}
	addr := parseAddress(rawAddress)

	price := strings.TrimSpace(doc.Find(`td.feature-grid__data[data-fact-type="Price"]`).First().Text())
	if price == "" {
		subtitles.EachWithBreak(func(_ int, seg *goquery.Selection) bool {
			text := strings.TrimSpace(seg.Text())
			if strings.HasPrefix(text, "$") {
				price = strings.TrimSpace(strings.SplitN(text, "(", 2)[0])
				return false
			}
			return true
		})
	}

	buildingData := map[string]string{}
	doc.Find("table.property-data tr.feature-grid__row").Each(func(_ int, row *goquery.Selection) {
		label := strings.TrimSpace(row.Find("td.feature-grid__title").First().Text())
		value := strings.TrimSpace(row.Find("td.feature-grid__data").First().Text())
		if label != "" && value != "" {
			buildingData[label] = value
		}
	})
	for factType, label := range factTypes {
		if _, ok := buildingData[label]; ok {
			continue
		}
		sel := fmt.Sprintf(`td.feature-grid__data[data-fact-type=%q]`, factType)
		if value := strings.TrimSpace(doc.Find(sel).First().Text()); value != "" {
			buildingData[label] = value
		}
	}

	capRate := buildingData["Cap Rate"]
	if capRate == "" {
		subtitles.EachWithBreak(func(_ int, seg *goquery.Selection) bool {
			text := strings.TrimSpace(seg.Text())
			if strings.Contains(strings.ToLower(text), "cap rate") {
				capRate = text
				return false
			}
			return true
		})
	}

	var highlights []string
	doc.Find(".highlights-wrap .bulleted-list li").Each(func(_ int, li *goquery.Selection) {
		if text := strings.TrimSpace(li.Text()); text != "" {
			highlights = append(highlights, text)
		}
	})

	description := strings.TrimSpace(doc.Find("section.description .sales-notes-text").First().Text())

	var images []string
	seen := map[string]struct{}{}
	doc.Find("#mosaic-profile .mosaic-tile img, .mosaic-carousel img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}
		images = append(images, src)
	})

	var brokerName string
	contact := doc.Find("ul.contacts li.contact").First()
	if contact.Length() > 0 {
		nameEl := contact.Find(".contact-name").First()
		first := strings.TrimSpace(nameEl.Find(".first-name").Text())
		last := strings.TrimSpace(nameEl.Find(".last-name").Text())
		if first != "" && last != "" {
			brokerName = first + " " + last
		} else {
			brokerName = strings.TrimSpace(nameEl.Text())
		}
	}
	brokerCompany := strings.TrimSpace(doc.Find("ul.contacts .company-name").First().Text())
	brokerPhone := strings.TrimSpace(doc.Find("a#broker-phone-number").First().Text())

	return PropertyDetail{
		Name:            name,
		Address:         addr.address,
		City:            addr.city,
		State:           addr.state,
		ZipCode:         addr.zipCode,
		PropertyType:    buildingData["Property Type"],
		PropertySubtype: buildingData["Property Subtype"],
		Price:           price,
		CapRate:         capRate,
		NOI:             buildingData["NOI"],
		SizeSqft:        buildingData["Building Size"],
		YearBuilt:       buildingData["Year Built"],
		BuildingClass:   buildingData["Building Class"],
		Zoning:          buildingData["Zoning"],
		LotSize:         buildingData["Lot Size"],
		Parking:         buildingData["Parking"],
		Stories:         firstInt(buildingData["Stories"]),
		Units:           firstInt(buildingData["Units"]),
		Description:     description,
		Highlights:      highlights,
		Images:          images,
		BrokerName:      brokerName,
		BrokerCompany:   brokerCompany,
		BrokerPhone:     brokerPhone,
		URL:             url,
	}, nil
}

// firstInt extracts the first run of digits from text; zero when absent.
func firstInt(text string) int {
	m := digitsLeadRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
