package simulator

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml))
	return doc.Root()
}

func TestLookup(t *testing.T) {
	el := element(t, `<Root Kind="a"><App><Name>Demo</Name><Empty/></App></Root>`)

	v, ok := lookup(el, "App/Name")
	assert.True(t, ok)
	assert.Equal(t, "Demo", v)

	v, ok = lookup(el, "@Kind")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = lookup(el, "App/Empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = lookup(el, "App/Missing")
	assert.False(t, ok)

	_, ok = lookup(el, "@Missing")
	assert.False(t, ok)

	_, ok = lookup(el, "@Kind/App")
	assert.False(t, ok)

	_, ok = lookup(nil, "App")
	assert.False(t, ok)
}

func TestReadOptional(t *testing.T) {
	el := element(t, `<MarketData><Price>1.99</Price><CurrencySymbol></CurrencySymbol></MarketData>`)

	assert.Equal(t, "1.99", readOptional(el, "Price", "0.00"))
	assert.Equal(t, "0.00", readOptional(el, "Missing", "0.00"))
	// Present but empty is not absent
	assert.Equal(t, "", readOptional(el, "CurrencySymbol", "$"))
}

func TestReadOptionalEnum(t *testing.T) {
	tests := []struct {
		xml        string
		want       models.ProductType
		recognized bool
	}{
		{`<M><ProductType>Durable</ProductType></M>`, models.ProductTypeDurable, true},
		{`<M><ProductType>Consumable</ProductType></M>`, models.ProductTypeConsumable, true},
		{`<M><ProductType> 2 </ProductType></M>`, models.ProductTypeConsumable, true},
		{`<M><ProductType>Unknown</ProductType></M>`, models.ProductTypeUnknown, true},
		{`<M></M>`, models.ProductTypeUnknown, true},
		{`<M><ProductType>durable</ProductType></M>`, models.ProductTypeUnknown, false},
		{`<M><ProductType>Subscription</ProductType></M>`, models.ProductTypeUnknown, false},
	}

	for _, tt := range tests {
		got, _, recognized := readOptionalEnum(element(t, tt.xml), "ProductType", models.ProductTypeUnknown)
		assert.Equal(t, tt.want, got, tt.xml)
		assert.Equal(t, tt.recognized, recognized, tt.xml)
	}
}
