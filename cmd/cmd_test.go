package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/huanfeng/storesim/pkg/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLangFromArgs(t *testing.T) {
	assert.Equal(t, "de-DE", langFromArgs([]string{"listing", "--lang", "de-DE"}))
	assert.Equal(t, "zh-CN", langFromArgs([]string{"--lang=zh-CN", "license"}))
	assert.Equal(t, "", langFromArgs([]string{"listing", "--lang"}))
	assert.Equal(t, "", langFromArgs(nil))
}

func TestWriteStructured(t *testing.T) {
	listing := models.NewListingInformation()
	listing.Name = "Demo"
	listing.ProductListings["p1"] = &models.ProductListing{ProductID: "p1", ProductType: models.ProductTypeConsumable}

	var buf bytes.Buffer
	handled, err := writeStructured(&buf, "json", listing)
	require.NoError(t, err)
	assert.True(t, handled)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "Demo", decoded["name"])
	assert.Equal(t, "Consumable", decoded["product_listings"].(map[string]interface{})["p1"].(map[string]interface{})["product_type"])

	buf.Reset()
	handled, err = writeStructured(&buf, "YAML", listing)
	require.NoError(t, err)
	assert.True(t, handled)
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "Demo", fromYAML["name"])

	handled, err = writeStructured(&buf, "", listing)
	assert.NoError(t, err)
	assert.False(t, handled)

	handled, err = writeStructured(&buf, "xml", listing)
	assert.Error(t, err)
	assert.True(t, handled)
}

func TestInteractiveSample(t *testing.T) {
	id := uuid.New()
	input := strings.Join([]string{
		id.String(),
		"My App",
		"",
		"GB",
		"2.50",
		"£",
		"12",
		"n",
		"n",
	}, "\n") + "\n"

	opts := interactiveSample(bufio.NewReader(strings.NewReader(input)), simulator.DefaultSampleOptions())

	assert.Equal(t, id, opts.AppID)
	assert.Equal(t, "My App", opts.Name)
	assert.Equal(t, simulator.DefaultSampleOptions().Description, opts.Description)
	assert.Equal(t, "GB", opts.Market)
	assert.Equal(t, "2.50", opts.Price)
	assert.Equal(t, "£", opts.CurrencySymbol)
	assert.Equal(t, uint(12), opts.AgeRating)
	assert.False(t, opts.Trial)
	assert.Empty(t, opts.Products)
}

func TestDiagnosisCollectsSuggestions(t *testing.T) {
	d := newDiagnosis()
	d.pass("fine")
	d.fail("Manifest", errors.NewManifestNotFoundError("WMAppManifest.xml", nil))
	d.fail("Currency", fmt.Errorf("region ZZ has no currency"))

	require.Len(t, d.issues, 2)
	assert.Contains(t, d.issues[0], "Manifest")
	assert.NotEmpty(t, d.suggestions)
	assert.Equal(t, []string{"not_found: 1", "unknown: 1"}, d.breakdown())
}

func TestRootCommandWiring(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentPreRunE)
	assert.NotPanics(t, applyCommandLocalization)

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"listing", "license", "validate", "purchase", "receipt", "watch", "init", "doctor", "version"} {
		assert.Contains(t, names, want)
	}
}
