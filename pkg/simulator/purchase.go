package simulator

import (
	"context"

	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
)

// RequestAppPurchase simulates buying the full app. On success the license
// becomes active and leaves trial; the change lasts until the next reload.
// The receipt is returned only when includeReceipt is set.
func (s *Simulator) RequestAppPurchase(ctx context.Context, includeReceipt bool) (string, error) {
	next, err := s.update(func(cur *Snapshot) (*Snapshot, error) {
		if !cur.Methods.Succeeds(models.MethodRequestAppPurchase) {
			return nil, errors.NewSimulatedFailureError(models.MethodRequestAppPurchase)
		}

		next := cur.Clone()
		next.License.IsActive = true
		next.License.IsTrial = false
		return next, nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Simulated app purchase for %s", next.Listing.AppID)
	if !includeReceipt {
		return "", nil
	}
	return s.appReceipt(next)
}

// RequestProductPurchase simulates buying an in-app product from the current
// listing and activates its license.
func (s *Simulator) RequestProductPurchase(ctx context.Context, productID string, includeReceipt bool) (string, error) {
	next, err := s.update(func(cur *Snapshot) (*Snapshot, error) {
		if !cur.Methods.Succeeds(models.MethodRequestProductPurchase) {
			return nil, errors.NewSimulatedFailureError(models.MethodRequestProductPurchase)
		}

		product, ok := cur.Listing.Listing.ProductListings[productID]
		if !ok {
			return nil, errors.NewProductNotFoundError(productID)
		}

		next := cur.Clone()
		next.License.ProductLicenses[productID] = &models.ProductLicense{
			ProductID:      productID,
			IsActive:       true,
			IsConsumable:   product.ProductType == models.ProductTypeConsumable,
			ExpirationDate: models.DeveloperLicenseExpires,
		}
		return next, nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("Simulated purchase of product %q", productID)
	if !includeReceipt {
		return "", nil
	}
	return s.productReceipt(next, productID)
}

// GetAppReceipt returns the receipt for the app and every active product
func (s *Simulator) GetAppReceipt(ctx context.Context) (string, error) {
	snap := s.current.Load()
	if snap == nil {
		return "", errors.NewNotInitializedError()
	}
	if !snap.Methods.Succeeds(models.MethodGetAppReceipt) {
		return "", errors.NewSimulatedFailureError(models.MethodGetAppReceipt)
	}
	return s.appReceipt(snap)
}

// GetProductReceipt returns the receipt for one licensed product
func (s *Simulator) GetProductReceipt(ctx context.Context, productID string) (string, error) {
	snap := s.current.Load()
	if snap == nil {
		return "", errors.NewNotInitializedError()
	}
	if !snap.Methods.Succeeds(models.MethodGetProductReceipt) {
		return "", errors.NewSimulatedFailureError(models.MethodGetProductReceipt)
	}
	return s.productReceipt(snap, productID)
}
