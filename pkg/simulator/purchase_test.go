package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var purchaseTime = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

func newPurchaseSimulator(t *testing.T, fixture string) *Simulator {
	t.Helper()
	sim := newTestSimulator()
	sim.now = func() time.Time { return purchaseTime }
	loadFixture(t, sim, fixture)
	return sim
}

func readReceipt(t *testing.T, receipt string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(receipt))
	root := doc.SelectElement("Receipt")
	require.NotNil(t, root)
	return root
}

func TestRequestAppPurchase(t *testing.T) {
	sim := newPurchaseSimulator(t, "inapppurchase-appinfo.xml")
	require.True(t, sim.LicenseInformation().IsTrial)

	receipt, err := sim.RequestAppPurchase(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, receipt)

	license := sim.LicenseInformation()
	assert.True(t, license.IsActive)
	assert.False(t, license.IsTrial)
}

func TestRequestAppPurchaseReceipt(t *testing.T) {
	sim := newPurchaseSimulator(t, "inapppurchase-appinfo.xml")

	receipt, err := sim.RequestAppPurchase(context.Background(), true)
	require.NoError(t, err)

	root := readReceipt(t, receipt)
	assert.Equal(t, "1.0", root.SelectAttrValue("Version", ""))
	assert.Equal(t, "2024-03-05T14:30:00.000Z", root.SelectAttrValue("ReceiptDate", ""))
	_, err = uuid.Parse(root.SelectAttrValue("ReceiptDeviceId", ""))
	assert.NoError(t, err)

	app := root.SelectElement("AppReceipt")
	require.NotNil(t, app)
	assert.Equal(t, "Full", app.SelectAttrValue("LicenseType", ""))
	assert.Equal(t, sim.AppID().String(), app.SelectAttrValue("AppId", ""))

	// Only active product licenses are listed
	products := root.SelectElements("ProductReceipt")
	require.Len(t, products, 1)
	assert.Equal(t, "MarkedUpExtraFeature", products[0].SelectAttrValue("ProductId", ""))
	assert.Equal(t, "Durable", products[0].SelectAttrValue("ProductType", ""))
}

func TestRequestProductPurchase(t *testing.T) {
	sim := newPurchaseSimulator(t, "inapppurchase-appinfo.xml")

	receipt, err := sim.RequestProductPurchase(context.Background(), "MarkedUpPremiumFeature", true)
	require.NoError(t, err)

	license := sim.LicenseInformation().ProductLicenses["MarkedUpPremiumFeature"]
	require.NotNil(t, license)
	assert.True(t, license.IsActive)
	assert.True(t, license.IsConsumable)

	product := readReceipt(t, receipt).SelectElement("ProductReceipt")
	require.NotNil(t, product)
	assert.Equal(t, "MarkedUpPremiumFeature", product.SelectAttrValue("ProductId", ""))
	assert.Equal(t, "Consumable", product.SelectAttrValue("ProductType", ""))
	assert.Equal(t, "2024-03-05T14:30:00.000Z", product.SelectAttrValue("PurchaseDate", ""))
	assert.Nil(t, product.SelectAttr("ExpirationDate"))
}

func TestRequestProductPurchaseUnknownProduct(t *testing.T) {
	sim := newPurchaseSimulator(t, "inapppurchase-appinfo.xml")
	before := sim.Snapshot()

	_, err := sim.RequestProductPurchase(context.Background(), "NoSuchFeature", true)
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
	assert.Equal(t, before, sim.Snapshot())
}

func TestPurchasesResetOnReload(t *testing.T) {
	sim := newPurchaseSimulator(t, "inapppurchase-appinfo.xml")

	_, err := sim.RequestAppPurchase(context.Background(), false)
	require.NoError(t, err)
	_, err = sim.RequestProductPurchase(context.Background(), "SomeOtherFeature", false)
	require.NoError(t, err)

	loadFixture(t, sim, "inapppurchase-appinfo.xml")
	license := sim.LicenseInformation()
	assert.True(t, license.IsTrial)
	assert.NotContains(t, license.ProductLicenses, "SomeOtherFeature")
}

func TestPurchaseOverrides(t *testing.T) {
	methods := []string{
		models.MethodRequestAppPurchase,
		models.MethodRequestProductPurchase,
		models.MethodGetAppReceipt,
		models.MethodGetProductReceipt,
	}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			sim := newTestSimulator()
			doc := settingsDoc(appFragment(""),
				`<Product ProductId="p1"><MarketData><Price>1.00</Price></MarketData></Product>`,
				`<App><IsTrial>true</IsTrial></App><Product ProductId="p1"><IsActive>true</IsActive></Product>`,
				`<Simulation><DefaultResponse MethodName="`+method+`" HResult="E_FAIL"/></Simulation>`)
			require.NoError(t, sim.ReloadBytes([]byte(doc)))
			before := sim.Snapshot()

			var err error
			switch method {
			case models.MethodRequestAppPurchase:
				_, err = sim.RequestAppPurchase(context.Background(), true)
			case models.MethodRequestProductPurchase:
				_, err = sim.RequestProductPurchase(context.Background(), "p1", true)
			case models.MethodGetAppReceipt:
				_, err = sim.GetAppReceipt(context.Background())
			case models.MethodGetProductReceipt:
				_, err = sim.GetProductReceipt(context.Background(), "p1")
			}

			assert.ErrorIs(t, err, errors.ErrSimulatedRemoteFailure)
			assert.Equal(t, before, sim.Snapshot())

			// Listing queries are unaffected by other overrides
			_, err = sim.LoadListingInformation(context.Background())
			assert.NoError(t, err)
		})
	}
}

func TestGetAppReceipt(t *testing.T) {
	sim := newPurchaseSimulator(t, "purchased-appinfo.xml")

	receipt, err := sim.GetAppReceipt(context.Background())
	require.NoError(t, err)

	root := readReceipt(t, receipt)
	app := root.SelectElement("AppReceipt")
	require.NotNil(t, app)
	assert.Equal(t, "Full", app.SelectAttrValue("LicenseType", ""))
	assert.Empty(t, root.SelectElements("ProductReceipt"))
}

func TestGetProductReceipt(t *testing.T) {
	sim := newPurchaseSimulator(t, "inapppurchase-appinfo.xml")

	receipt, err := sim.GetProductReceipt(context.Background(), "MarkedUpExtraFeature")
	require.NoError(t, err)
	product := readReceipt(t, receipt).SelectElement("ProductReceipt")
	require.NotNil(t, product)
	assert.Equal(t, "MarkedUpExtraFeature", product.SelectAttrValue("ProductId", ""))

	// Inactive and unknown licenses have no receipt
	_, err = sim.GetProductReceipt(context.Background(), "MarkedUpPremiumFeature")
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
	_, err = sim.GetProductReceipt(context.Background(), "NoSuchFeature")
	assert.ErrorIs(t, err, errors.ErrProductNotFound)
}

func TestPurchasesBeforeInitialization(t *testing.T) {
	sim := newTestSimulator()
	ctx := context.Background()

	_, err := sim.RequestAppPurchase(ctx, false)
	assert.ErrorIs(t, err, errors.ErrNotInitialized)
	_, err = sim.RequestProductPurchase(ctx, "p1", false)
	assert.ErrorIs(t, err, errors.ErrNotInitialized)
	_, err = sim.GetAppReceipt(ctx)
	assert.ErrorIs(t, err, errors.ErrNotInitialized)
	_, err = sim.GetProductReceipt(ctx, "p1")
	assert.ErrorIs(t, err, errors.ErrNotInitialized)
}
