package store

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/huanfeng/storesim/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var fixtures = filepath.Join("..", "simulator", "testdata")

// fakeClient stands in for a live store connection
type fakeClient struct {
	appID uuid.UUID
}

func (f *fakeClient) AppID() uuid.UUID                               { return f.appID }
func (f *fakeClient) LinkURI() *url.URL                              { return nil }
func (f *fakeClient) CurrentMarket() string                          { return "US" }
func (f *fakeClient) LicenseInformation() *models.LicenseInformation { return nil }
func (f *fakeClient) LoadListingInformation(ctx context.Context) (*models.ListingInformation, error) {
	return models.NewListingInformation(), nil
}
func (f *fakeClient) RequestAppPurchase(ctx context.Context, includeReceipt bool) (string, error) {
	return "", nil
}
func (f *fakeClient) RequestProductPurchase(ctx context.Context, productID string, includeReceipt bool) (string, error) {
	return "", nil
}
func (f *fakeClient) GetAppReceipt(ctx context.Context) (string, error) { return "", nil }
func (f *fakeClient) GetProductReceipt(ctx context.Context, productID string) (string, error) {
	return "", nil
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeSimulator, false},
		{"simulator", ModeSimulator, false},
		{" Simulator ", ModeSimulator, false},
		{"live", ModeLive, false},
		{"LIVE", ModeLive, false},
		{"sandbox", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, errors.ErrInvalidMode, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestOpenLive(t *testing.T) {
	live := &fakeClient{appID: uuid.New()}

	client, err := Open(models.StoreConfig{Mode: "live"}, WithLiveClient(live))
	require.NoError(t, err)
	assert.Same(t, live, client)

	_, err = Open(models.StoreConfig{Mode: "live"})
	assert.ErrorIs(t, err, errors.ErrInvalidMode)
}

func TestOpenSimulatorFromConfig(t *testing.T) {
	cfg := models.StoreConfig{
		Mode:            "simulator",
		SimulatorConfig: filepath.Join(fixtures, "inapppurchase-appinfo.xml"),
	}

	client, err := Open(cfg, WithLogger(utils.NopLogger()), WithLiveClient(&fakeClient{}))
	require.NoError(t, err)
	assert.IsType(t, &simulator.Simulator{}, client)

	listing, err := client.LoadListingInformation(context.Background())
	require.NoError(t, err)
	assert.Len(t, listing.ProductListings, 3)
}

func TestOpenSimulatorFromManifest(t *testing.T) {
	cfg := models.StoreConfig{
		Manifest:   filepath.Join(fixtures, "WMAppManifest.xml"),
		LinkFormat: "https://example.com/%s",
	}

	loc := simulator.NewLocale(language.BritishEnglish, language.Region{})
	client, err := Open(cfg, WithLogger(utils.NopLogger()), WithLocale(loc))
	require.NoError(t, err)

	assert.Equal(t, "GB", client.CurrentMarket())
	assert.Equal(t, "example.com", client.LinkURI().Host)

	listing, err := client.LoadListingInformation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GBP0.00", listing.FormattedPrice)
}

func TestOpenSimulatorConfigOverridesManifest(t *testing.T) {
	cfg := models.StoreConfig{
		Manifest:        filepath.Join(fixtures, "WMAppManifest.xml"),
		SimulatorConfig: filepath.Join(fixtures, "purchased-appinfo.xml"),
	}

	sim, err := OpenSimulator(cfg, WithLogger(utils.NopLogger()))
	require.NoError(t, err)
	assert.Equal(t, uuid.MustParse("2B14D306-D8F8-4066-A45B-0FB3464C67F2"), sim.AppID())
}

func TestOpenSimulatorErrors(t *testing.T) {
	_, err := OpenSimulator(models.StoreConfig{}, WithLogger(utils.NopLogger()))
	assert.ErrorIs(t, err, errors.ErrInvalidMode)

	_, err = OpenSimulator(models.StoreConfig{Manifest: filepath.Join(t.TempDir(), "missing.xml")}, WithLogger(utils.NopLogger()))
	assert.ErrorIs(t, err, errors.ErrManifestNotFound)

	_, err = OpenSimulator(models.StoreConfig{SimulatorConfig: filepath.Join(fixtures, "missing-license.xml")}, WithLogger(utils.NopLogger()))
	assert.ErrorIs(t, err, errors.ErrConfigMissingSection)
}
