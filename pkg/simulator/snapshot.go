package simulator

import "github.com/huanfeng/storesim/pkg/models"

// Snapshot is the complete simulated store state: listing, license and
// method overrides. A snapshot is never modified once it has been installed;
// changes produce a new snapshot that replaces it.
type Snapshot struct {
	Listing *models.StoreListing       `json:"listing" yaml:"listing"`
	License *models.LicenseInformation `json:"license" yaml:"license"`
	Methods models.MethodResults       `json:"methods" yaml:"methods"`
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Listing: s.Listing.Clone(),
		License: s.License.Clone(),
		Methods: s.Methods.Clone(),
	}
}

// ProductCount returns the number of in-app products in the listing
func (s *Snapshot) ProductCount() int {
	if s == nil || s.Listing == nil || s.Listing.Listing == nil {
		return 0
	}
	return len(s.Listing.Listing.ProductListings)
}
