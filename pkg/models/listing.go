package models

import (
	"net/url"

	"github.com/google/uuid"
)

// ProductType describes how an in-app product is consumed
type ProductType int

const (
	ProductTypeUnknown ProductType = iota
	ProductTypeDurable
	ProductTypeConsumable
)

// productTypeNames maps every accepted spelling onto its ProductType.
// Names are case-sensitive; numeric forms mirror the store's enum values.
var productTypeNames = map[string]ProductType{
	"Unknown":    ProductTypeUnknown,
	"Durable":    ProductTypeDurable,
	"Consumable": ProductTypeConsumable,
	"0":          ProductTypeUnknown,
	"1":          ProductTypeDurable,
	"2":          ProductTypeConsumable,
}

// String returns the string representation of the product type
func (pt ProductType) String() string {
	switch pt {
	case ProductTypeDurable:
		return "Durable"
	case ProductTypeConsumable:
		return "Consumable"
	default:
		return "Unknown"
	}
}

// ParseProductType looks up name in the product type table.
// The second return value reports whether the name was recognized.
func ParseProductType(name string) (ProductType, bool) {
	pt, ok := productTypeNames[name]
	return pt, ok
}

// MarshalText renders the product type by name for JSON and YAML output
func (pt ProductType) MarshalText() ([]byte, error) {
	return []byte(pt.String()), nil
}

// StoreListing is the app-level listing held by a simulator snapshot
type StoreListing struct {
	AppID   uuid.UUID           `json:"app_id" yaml:"app_id"`
	LinkURI *url.URL            `json:"-" yaml:"-"`
	Listing *ListingInformation `json:"listing" yaml:"listing"`
}

// ListingInformation describes the marketplace listing for an app
// and all of its in-app products
type ListingInformation struct {
	Name            string                     `json:"name" yaml:"name"`
	Description     string                     `json:"description" yaml:"description"`
	FormattedPrice  string                     `json:"formatted_price" yaml:"formatted_price"`
	CurrentMarket   string                     `json:"current_market" yaml:"current_market"` // ISO 3166 alpha-2
	AgeRating       uint                       `json:"age_rating" yaml:"age_rating"`
	ProductListings map[string]*ProductListing `json:"product_listings" yaml:"product_listings"`
}

// ProductListing describes the marketplace listing for one in-app product
type ProductListing struct {
	ProductID      string      `json:"product_id" yaml:"product_id"`
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description,omitempty" yaml:"description,omitempty"`
	FormattedPrice string      `json:"formatted_price" yaml:"formatted_price"`
	ProductType    ProductType `json:"product_type" yaml:"product_type"`
	ImageURI       string      `json:"image_uri,omitempty" yaml:"image_uri,omitempty"`
	Keywords       []string    `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Tag            string      `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// NewListingInformation returns an empty listing with an initialized product map
func NewListingInformation() *ListingInformation {
	return &ListingInformation{
		ProductListings: make(map[string]*ProductListing),
	}
}

// Clone returns a deep copy of the listing
func (li *ListingInformation) Clone() *ListingInformation {
	if li == nil {
		return nil
	}

	clone := *li
	clone.ProductListings = make(map[string]*ProductListing, len(li.ProductListings))
	for id, product := range li.ProductListings {
		clone.ProductListings[id] = product.Clone()
	}
	return &clone
}

// Clone returns a deep copy of the product listing
func (pl *ProductListing) Clone() *ProductListing {
	if pl == nil {
		return nil
	}

	clone := *pl
	if pl.Keywords != nil {
		clone.Keywords = append([]string(nil), pl.Keywords...)
	}
	return &clone
}

// Clone returns a deep copy of the store listing
func (sl *StoreListing) Clone() *StoreListing {
	if sl == nil {
		return nil
	}

	clone := &StoreListing{
		AppID:   sl.AppID,
		Listing: sl.Listing.Clone(),
	}
	if sl.LinkURI != nil {
		link := *sl.LinkURI
		clone.LinkURI = &link
	}
	return clone
}
