package simulator

import (
	"fmt"
	"sort"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
)

const receiptDateFormat = "2006-01-02T15:04:05.000Z"

// receipt builds a store receipt document
type receipt struct {
	doc  *etree.Document
	root *etree.Element
	now  time.Time
}

func (s *Simulator) newReceipt() *receipt {
	now := s.now().UTC()

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("Receipt")
	root.CreateAttr("Version", "1.0")
	root.CreateAttr("ReceiptDate", now.Format(receiptDateFormat))
	root.CreateAttr("ReceiptDeviceId", uuid.NewString())

	return &receipt{doc: doc, root: root, now: now}
}

func (r *receipt) addApp(snap *Snapshot) {
	licenseType := "Full"
	if snap.License.IsTrial {
		licenseType = "Trial"
	}

	el := r.root.CreateElement("AppReceipt")
	el.CreateAttr("Id", uuid.NewString())
	el.CreateAttr("AppId", snap.Listing.AppID.String())
	el.CreateAttr("LicenseType", licenseType)
	el.CreateAttr("PurchaseDate", r.now.Format(receiptDateFormat))
}

func (r *receipt) addProduct(snap *Snapshot, license *models.ProductLicense) {
	productType := models.ProductTypeUnknown
	if product, ok := snap.Listing.Listing.ProductListings[license.ProductID]; ok {
		productType = product.ProductType
	}

	el := r.root.CreateElement("ProductReceipt")
	el.CreateAttr("Id", uuid.NewString())
	el.CreateAttr("AppId", snap.Listing.AppID.String())
	el.CreateAttr("ProductId", license.ProductID)
	el.CreateAttr("ProductType", productType.String())
	el.CreateAttr("PurchaseDate", r.now.Format(receiptDateFormat))
	if !license.ExpirationDate.Equal(models.DeveloperLicenseExpires) {
		el.CreateAttr("ExpirationDate", license.ExpirationDate.UTC().Format(receiptDateFormat))
	}
}

func (r *receipt) String() (string, error) {
	r.doc.Indent(2)
	out, err := r.doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write receipt: %w", err)
	}
	return out, nil
}

func (s *Simulator) appReceipt(snap *Snapshot) (string, error) {
	r := s.newReceipt()
	r.addApp(snap)

	ids := make([]string, 0, len(snap.License.ProductLicenses))
	for id, license := range snap.License.ProductLicenses {
		if license.IsActive {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		r.addProduct(snap, snap.License.ProductLicenses[id])
	}
	return r.String()
}

func (s *Simulator) productReceipt(snap *Snapshot, productID string) (string, error) {
	license, ok := snap.License.ProductLicenses[productID]
	if !ok || !license.IsActive {
		return "", errors.NewProductNotFoundError(productID).
			WithSuggestion("Purchase the product before requesting its receipt")
	}

	r := s.newReceipt()
	r.addProduct(snap, license)
	return r.String()
}
