package simulator

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSampleLoads(t *testing.T) {
	opts := DefaultSampleOptions()
	opts.AppID = uuid.MustParse(testAppID)

	var buf bytes.Buffer
	require.NoError(t, WriteSample(&buf, opts))

	sim := newTestSimulator()
	require.NoError(t, sim.Reload(&buf))

	assert.Equal(t, opts.AppID, sim.AppID())
	listing, err := sim.LoadListingInformation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sample app", listing.Name)
	assert.Equal(t, "$4.99", listing.FormattedPrice)
	assert.Equal(t, uint(3), listing.AgeRating)
	require.Contains(t, listing.ProductListings, "feature1")
	assert.Equal(t, "$1.99", listing.ProductListings["feature1"].FormattedPrice)
	assert.Equal(t, models.ProductTypeDurable, listing.ProductListings["feature1"].ProductType)

	license := sim.LicenseInformation()
	assert.True(t, license.IsTrial)
	assert.False(t, license.ProductLicenses["feature1"].IsActive)
}

func TestWriteSampleFailingMethods(t *testing.T) {
	opts := DefaultSampleOptions()
	opts.Products = nil
	opts.FailingMethods = []string{models.MethodLoadListingInformation}

	var buf bytes.Buffer
	require.NoError(t, WriteSample(&buf, opts))

	sim := newTestSimulator()
	require.NoError(t, sim.Reload(&buf))

	_, err := sim.LoadListingInformation(context.Background())
	assert.ErrorIs(t, err, errors.ErrSimulatedRemoteFailure)
}
