package models

import "time"

// DeveloperLicenseExpires is the expiration reported for licenses that carry no
// explicit date. It is the store's developer-license value and is treated as
// "never expires" by the simulator.
var DeveloperLicenseExpires = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// LicenseInformation describes the licensing state of the installed app
type LicenseInformation struct {
	IsActive        bool                       `json:"is_active" yaml:"is_active"`
	IsTrial         bool                       `json:"is_trial" yaml:"is_trial"`
	ExpirationDate  time.Time                  `json:"expiration_date" yaml:"expiration_date"`
	ProductLicenses map[string]*ProductLicense `json:"product_licenses" yaml:"product_licenses"`
}

// ProductLicense describes the licensing state of one in-app product
type ProductLicense struct {
	ProductID      string    `json:"product_id" yaml:"product_id"`
	IsActive       bool      `json:"is_active" yaml:"is_active"`
	IsConsumable   bool      `json:"is_consumable" yaml:"is_consumable"`
	ExpirationDate time.Time `json:"expiration_date" yaml:"expiration_date"`
}

// DefaultLicenseInformation is the license used when no simulator settings are loaded
func DefaultLicenseInformation() *LicenseInformation {
	return &LicenseInformation{
		IsActive:        true,
		IsTrial:         true,
		ExpirationDate:  DeveloperLicenseExpires,
		ProductLicenses: make(map[string]*ProductLicense),
	}
}

// NeverExpires reports whether the license carries the developer-license sentinel
func (li *LicenseInformation) NeverExpires() bool {
	return li.ExpirationDate.Equal(DeveloperLicenseExpires)
}

// Clone returns a deep copy of the license information
func (li *LicenseInformation) Clone() *LicenseInformation {
	if li == nil {
		return nil
	}

	clone := *li
	clone.ProductLicenses = make(map[string]*ProductLicense, len(li.ProductLicenses))
	for id, license := range li.ProductLicenses {
		pl := *license
		clone.ProductLicenses[id] = &pl
	}
	return &clone
}
