// Package listings defines the LoopNet domain model, URL construction, and
// the HTML parsers that turn fetched pages into structured records.
package listings

// Property type identifiers accepted by search queries.
const (
	TypeOffice         = "office"
	TypeRetail         = "retail"
	TypeIndustrial     = "industrial"
	TypeMultifamily    = "multifamily"
	TypeLand           = "land"
	TypeHospitality    = "hospitality"
	TypeSpecialPurpose = "special-purpose"
	TypeHealthCare     = "health-care"
)

// Listing type identifiers.
const (
	ForSale  = "for-sale"
	ForLease = "for-lease"
)

// PropertySummary is one property as it appears in search results.
type PropertySummary struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code,omitempty"`
	PropertyType  string `json:"property_type,omitempty"`
	ListingType   string `json:"listing_type,omitempty"`
	Price         string `json:"price,omitempty"`
	PricePerSqft  string `json:"price_per_sqft,omitempty"`
	CapRate       string `json:"cap_rate,omitempty"`
	SizeSqft      string `json:"size_sqft,omitempty"`
	LotSize       string `json:"lot_size,omitempty"`
	Units         int    `json:"units,omitempty"`
	URL           string `json:"url"`
	ImageURL      string `json:"image_url,omitempty"`
	BrokerName    string `json:"broker_name,omitempty"`
	BrokerCompany string `json:"broker_company,omitempty"`
}

// PropertyDetail is the full record parsed from a property profile page.
type PropertyDetail struct {
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	State           string   `json:"state"`
	ZipCode         string   `json:"zip_code,omitempty"`
	PropertyType    string   `json:"property_type,omitempty"`
	PropertySubtype string   `json:"property_subtype,omitempty"`
	ListingType     string   `json:"listing_type,omitempty"`
	Price           string   `json:"price,omitempty"`
	PricePerSqft    string   `json:"price_per_sqft,omitempty"`
	CapRate         string   `json:"cap_rate,omitempty"`
	NOI             string   `json:"noi,omitempty"`
	SizeSqft        string   `json:"size_sqft,omitempty"`
	LotSize         string   `json:"lot_size,omitempty"`
	YearBuilt       string   `json:"year_built,omitempty"`
	BuildingClass   string   `json:"building_class,omitempty"`
	Zoning          string   `json:"zoning,omitempty"`
	Parking         string   `json:"parking,omitempty"`
	Stories         int      `json:"stories,omitempty"`
	Units           int      `json:"units,omitempty"`
	Description     string   `json:"description,omitempty"`
	Highlights      []string `json:"highlights,omitempty"`
	Images          []string `json:"images,omitempty"`
	BrokerName      string   `json:"broker_name,omitempty"`
	BrokerCompany   string   `json:"broker_company,omitempty"`
	BrokerPhone     string   `json:"broker_phone,omitempty"`
	URL             string   `json:"url"`
	LastUpdated     string   `json:"last_updated,omitempty"`
}

// SearchResult wraps one page of search results with its query metadata.
type SearchResult struct {
	QueryLocation     string            `json:"query_location"`
	QueryPropertyType string            `json:"query_property_type,omitempty"`
	QueryListingType  string            `json:"query_listing_type,omitempty"`
	TotalResults      int               `json:"total_results,omitempty"`
	Page              int               `json:"page"`
	HasNextPage       bool              `json:"has_next_page"`
	Properties        []PropertySummary `json:"properties"`
}

// MarketOverview aggregates statistics across the listings of one market.
type MarketOverview struct {
	Location                  string            `json:"location"`
	PropertyType              string            `json:"property_type,omitempty"`
	TotalListings             int               `json:"total_listings"`
	AvgPrice                  string            `json:"avg_price,omitempty"`
	AvgPricePerSqft           string            `json:"avg_price_per_sqft,omitempty"`
	AvgCapRate                string            `json:"avg_cap_rate,omitempty"`
	AvgSizeSqft               string            `json:"avg_size_sqft,omitempty"`
	PriceRange                string            `json:"price_range,omitempty"`
	SizeRange                 string            `json:"size_range,omitempty"`
	ListingTypesBreakdown     map[string]int    `json:"listing_types_breakdown,omitempty"`
	PropertySubtypesBreakdown map[string]int    `json:"property_subtypes_breakdown,omitempty"`
	SampleListings            []PropertySummary `json:"sample_listings"`
}
