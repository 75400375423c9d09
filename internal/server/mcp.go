// Package server exposes the listing tools over MCP stdio and runs the
// operational HTTP endpoints.
package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/listings"
	"github.com/cre-scout/loopnet-mcp/internal/metrics"
)

// Version is the advertised server version.
const Version = "1.0.0"

const serverInstructions = "LoopNet MCP server for searching commercial real estate listings. " +
	"Use search_properties to find listings by location and filters. " +
	"Use get_property_details to get full details on a specific listing. " +
	"Use get_market_overview for aggregate market statistics."

// PageFetcher retrieves page content for a URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Service implements the MCP tool handlers on top of the fetch pipeline.
type Service struct {
	fetcher PageFetcher
	baseURL string
	logger  *zap.Logger
}

// NewService wires the tool handlers to a fetcher. baseURL defaults to the
// production origin.
func NewService(fetcher PageFetcher, baseURL string, logger *zap.Logger) *Service {
	if baseURL == "" {
		baseURL = listings.DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, baseURL: baseURL, logger: logger}
}

// SearchArgs are the parameters of the search_properties tool.
type SearchArgs struct {
	Location     string  `json:"location" jsonschema:"City and state (e.g. 'Houston, TX'), state abbreviation ('TX'), or zip code ('77001')."`
	PropertyType string  `json:"property_type,omitempty" jsonschema:"Property type: office, retail, industrial, multifamily, land, hospitality, special-purpose, health-care."`
	ListingType  string  `json:"listing_type,omitempty" jsonschema:"Either 'for-sale' or 'for-lease'. Defaults to 'for-sale'."`
	Page         int     `json:"page,omitempty" jsonschema:"Results page, 1-indexed."`
	PriceMin     float64 `json:"price_min,omitempty" jsonschema:"Minimum price filter in dollars."`
	PriceMax     float64 `json:"price_max,omitempty" jsonschema:"Maximum price filter in dollars."`
	SizeMin      float64 `json:"size_min,omitempty" jsonschema:"Minimum size filter in square feet."`
	SizeMax      float64 `json:"size_max,omitempty" jsonschema:"Maximum size filter in square feet."`
}

// SearchReply is the search_properties result payload. Err carries client
// failures so the model sees a structured message instead of a protocol
// error.
type SearchReply struct {
	listings.SearchResult
	Err string `json:"error,omitempty"`
}

// DetailArgs are the parameters of the get_property_details tool.
type DetailArgs struct {
	URLOrID string `json:"url_or_id" jsonschema:"Full LoopNet URL (e.g. 'https://www.loopnet.com/Listing/...') or listing ID number."`
}

// DetailReply is the get_property_details result payload.
type DetailReply struct {
	listings.PropertyDetail
	Err string `json:"error,omitempty"`
}

// MarketArgs are the parameters of the get_market_overview tool.
type MarketArgs struct {
	Location     string `json:"location" jsonschema:"City and state (e.g. 'Houston, TX'), state abbreviation ('TX'), or zip code ('77001')."`
	PropertyType string `json:"property_type,omitempty" jsonschema:"Property type: office, retail, industrial, multifamily, land."`
}

// MarketReply is the get_market_overview result payload.
type MarketReply struct {
	listings.MarketOverview
	Err string `json:"error,omitempty"`
}

// NewMCPServer builds the MCP server with all tools registered.
func (s *Service) NewMCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "loopnet", Version: Version}, &mcp.ServerOptions{
		Instructions: serverInstructions,
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_properties",
		Description: "Search LoopNet for commercial real estate listings by location and filters.",
	}, s.searchProperties)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_property_details",
		Description: "Get full details for a specific LoopNet commercial property listing.",
	}, s.getPropertyDetails)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_market_overview",
		Description: "Get a market overview with aggregate statistics for commercial real estate in a location.",
	}, s.getMarketOverview)

	return srv
}

// Run serves MCP over stdio until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", zap.String("transport", "stdio"))
	return s.NewMCPServer().Run(ctx, &mcp.StdioTransport{})
}

func (s *Service) searchProperties(ctx context.Context, _ *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, SearchReply, error) {
	log := s.logger.With(zap.String("tool", "search_properties"), zap.String("location", args.Location))
	log.Info("tool invoked", zap.String("property_type", args.PropertyType))

	reply := SearchReply{SearchResult: listings.SearchResult{
		QueryLocation:     args.Location,
		QueryPropertyType: args.PropertyType,
		QueryListingType:  args.ListingType,
		Page:              max(args.Page, 1),
		Properties:        []listings.PropertySummary{},
	}}

	if err := validateSearchArgs(args); err != nil {
		metrics.ObserveToolInvocation("search_properties", "error")
		reply.Err = err.Error()
		return nil, reply, nil
	}

	url := listings.BuildSearchURL(s.baseURL, args.Location, args.PropertyType, args.ListingType, reply.Page)
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("search fetch failed", zap.Error(err))
		metrics.ObserveToolInvocation("search_properties", "error")
		reply.Err = err.Error()
		return nil, reply, nil
	}

	properties, err := listings.ParseSearchResults(html, s.baseURL)
	if err != nil {
		metrics.ObserveToolInvocation("search_properties", "error")
		reply.Err = fmt.Sprintf("failed to parse search results: %v", err)
		return nil, reply, nil
	}
	properties = filterProperties(properties, args)

	reply.Properties = properties
	if total, ok := listings.ParseTotalResults(html); ok {
		reply.TotalResults = total
	} else {
		reply.TotalResults = len(properties)
	}
	reply.HasNextPage = listings.HasNextPage(html)

	metrics.ObserveToolInvocation("search_properties", "ok")
	log.Info("search complete", zap.Int("properties", len(properties)))
	return nil, reply, nil
}

func (s *Service) getPropertyDetails(ctx context.Context, _ *mcp.CallToolRequest, args DetailArgs) (*mcp.CallToolResult, DetailReply, error) {
	log := s.logger.With(zap.String("tool", "get_property_details"))
	log.Info("tool invoked", zap.String("url_or_id", args.URLOrID))

	url := args.URLOrID
	if !strings.HasPrefix(url, "http") {
		url = listings.BuildDetailURL(s.baseURL, args.URLOrID)
	}
	reply := DetailReply{PropertyDetail: listings.PropertyDetail{URL: url}}

	if strings.TrimSpace(args.URLOrID) == "" {
		metrics.ObserveToolInvocation("get_property_details", "error")
		reply.Err = "url_or_id is required"
		return nil, reply, nil
	}

	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("detail fetch failed", zap.String("url", url), zap.Error(err))
		metrics.ObserveToolInvocation("get_property_details", "error")
		reply.Err = err.Error()
		return nil, reply, nil
	}

	detail, err := listings.ParsePropertyDetail(html, url)
	if err != nil {
		metrics.ObserveToolInvocation("get_property_details", "error")
		reply.Err = fmt.Sprintf("failed to parse property page: %v", err)
		return nil, reply, nil
	}

	metrics.ObserveToolInvocation("get_property_details", "ok")
	reply.PropertyDetail = detail
	return nil, reply, nil
}

func (s *Service) getMarketOverview(ctx context.Context, _ *mcp.CallToolRequest, args MarketArgs) (*mcp.CallToolResult, MarketReply, error) {
	log := s.logger.With(zap.String("tool", "get_market_overview"), zap.String("location", args.Location))
	log.Info("tool invoked", zap.String("property_type", args.PropertyType))

	reply := MarketReply{MarketOverview: listings.MarketOverview{
		Location:       args.Location,
		PropertyType:   args.PropertyType,
		SampleListings: []listings.PropertySummary{},
	}}

	if strings.TrimSpace(args.Location) == "" {
		metrics.ObserveToolInvocation("get_market_overview", "error")
		reply.Err = "location is required"
		return nil, reply, nil
	}
	if !listings.ValidPropertyType(args.PropertyType) {
		metrics.ObserveToolInvocation("get_market_overview", "error")
		reply.Err = fmt.Sprintf("unknown property type %q", args.PropertyType)
		return nil, reply, nil
	}

	url := listings.BuildSearchURL(s.baseURL, args.Location, args.PropertyType, "", 1)
	html, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("market overview fetch failed", zap.Error(err))
		metrics.ObserveToolInvocation("get_market_overview", "error")
		reply.Err = err.Error()
		return nil, reply, nil
	}

	properties, err := listings.ParseSearchResults(html, s.baseURL)
	if err != nil {
		metrics.ObserveToolInvocation("get_market_overview", "error")
		reply.Err = fmt.Sprintf("failed to parse search results: %v", err)
		return nil, reply, nil
	}

	metrics.ObserveToolInvocation("get_market_overview", "ok")
	reply.MarketOverview = listings.BuildMarketOverview(args.Location, args.PropertyType, properties)
	return nil, reply, nil
}

func validateSearchArgs(args SearchArgs) error {
	if strings.TrimSpace(args.Location) == "" {
		return fmt.Errorf("location is required")
	}
	if !listings.ValidPropertyType(args.PropertyType) {
		return fmt.Errorf("unknown property type %q", args.PropertyType)
	}
	if !listings.ValidListingType(args.ListingType) {
		return fmt.Errorf("unknown listing type %q", args.ListingType)
	}
	return nil
}

// filterProperties applies the numeric filters client-side, since the site's
// search pages do not encode them in the URL path. Listings whose price or
// size cannot be parsed pass any filter on that field.
func filterProperties(props []listings.PropertySummary, args SearchArgs) []listings.PropertySummary {
	if args.PriceMin == 0 && args.PriceMax == 0 && args.SizeMin == 0 && args.SizeMax == 0 {
		return props
	}
	filtered := make([]listings.PropertySummary, 0, len(props))
	for _, p := range props {
		price, priceOK := listings.ParsePrice(p.Price)
		if priceOK {
			if args.PriceMin > 0 && price < args.PriceMin {
				continue
			}
			if args.PriceMax > 0 && price > args.PriceMax {
				continue
			}
		}
		size, sizeOK := listings.ParseSize(p.SizeSqft)
		if sizeOK {
			if args.SizeMin > 0 && size < args.SizeMin {
				continue
			}
			if args.SizeMax > 0 && size > args.SizeMax {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}
