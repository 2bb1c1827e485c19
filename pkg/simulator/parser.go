package simulator

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/huanfeng/storesim/internal/errors"
	"github.com/huanfeng/storesim/pkg/models"
	"github.com/huanfeng/storesim/pkg/utils"
	"github.com/shopspring/decimal"
)

// hresultFail is the canonical general failure code. A DefaultResponse
// without an HResult attribute is read as this code.
const hresultFail = "E_FAIL"

// Top-level sections of a simulator document
const (
	sectionListing    = "ListingInformation"
	sectionLicense    = "LicenseInformation"
	sectionSimulation = "Simulation"
)

var (
	errNoRootElement = stderrors.New("document has no root element")
	errNotBoolean    = stderrors.New("expected true or false")
)

// expirationLayouts are tried in order when reading an ExpirationDate
var expirationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"01/02/2006",
}

// Parse reads a simulator document and builds a snapshot from it. Nothing is
// returned unless the whole document could be interpreted.
func Parse(r io.Reader, loc Locale) (*Snapshot, error) {
	return newParser(loc, utils.GetGlobalLogger()).parse(r)
}

type parser struct {
	locale Locale
	logger utils.Logger
}

func newParser(loc Locale, logger utils.Logger) *parser {
	if logger == nil {
		logger = utils.NopLogger()
	}
	return &parser{locale: loc.withDefaults(), logger: logger}
}

func (p *parser) parse(r io.Reader) (*Snapshot, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.NewInvalidDocumentError(err)
	}
	if doc.Root() == nil {
		return nil, errors.NewInvalidDocumentError(errNoRootElement)
	}

	listingNode := doc.FindElement("//" + sectionListing)
	if listingNode == nil {
		return nil, errors.NewMissingSectionError(sectionListing)
	}
	licenseNode := doc.FindElement("//" + sectionLicense)
	if licenseNode == nil {
		return nil, errors.NewMissingSectionError(sectionLicense)
	}

	listing, err := p.parseListing(listingNode)
	if err != nil {
		return nil, err
	}

	license, err := p.parseLicense(licenseNode)
	if err != nil {
		return nil, err
	}

	// Product licenses inherit consumability from the matching listing
	for id, pl := range license.ProductLicenses {
		if product, ok := listing.Listing.ProductListings[id]; ok {
			pl.IsConsumable = product.ProductType == models.ProductTypeConsumable
		}
	}

	methods := p.parseMethodResults(doc.FindElements("//" + sectionSimulation))

	return &Snapshot{
		Listing: listing,
		License: license,
		Methods: methods,
	}, nil
}

func (p *parser) parseListing(node *etree.Element) (*models.StoreListing, error) {
	app := node.SelectElement("App")
	if app == nil {
		return nil, errors.NewMissingSectionError(sectionListing + "/App")
	}

	appIDText := readOptional(app, "AppId", "")
	appID, err := uuid.Parse(strings.TrimSpace(appIDText))
	if err != nil {
		return nil, errors.NewMalformedFieldError(sectionListing+"/App/AppId", appIDText, err)
	}

	linkText := readOptional(app, "LinkUri", "")
	link, err := url.Parse(strings.TrimSpace(linkText))
	if err == nil && !link.IsAbs() {
		err = fmt.Errorf("not an absolute URI")
	}
	if err != nil {
		return nil, errors.NewMalformedFieldError(sectionListing+"/App/LinkUri", linkText, err)
	}

	info := models.NewListingInformation()

	if market, ok := lookup(app, "CurrentMarket"); ok {
		code, err := ResolveMarket(market)
		if err != nil {
			return nil, errors.NewMalformedFieldError(sectionListing+"/App/CurrentMarket", market, err)
		}
		info.CurrentMarket = code
	} else {
		info.CurrentMarket = p.locale.RegionCode()
	}

	ageText := readOptional(app, "AgeRating", "0")
	age, err := strconv.ParseUint(strings.TrimSpace(ageText), 10, 32)
	if err != nil {
		return nil, errors.NewMalformedFieldError(sectionListing+"/App/AgeRating", ageText, err)
	}
	info.AgeRating = uint(age)

	marketData := app.SelectElement("MarketData")
	if marketData == nil {
		return nil, errors.NewMissingSectionError(sectionListing + "/App/MarketData")
	}

	info.Description = readOptional(marketData, "Description", "")
	info.Name = readOptional(marketData, "Name", "")
	info.FormattedPrice, err = p.formatPrice(marketData, sectionListing+"/App/MarketData")
	if err != nil {
		return nil, err
	}

	for _, productNode := range node.SelectElements("Product") {
		product, err := p.parseProduct(productNode)
		if err != nil {
			return nil, err
		}
		if _, dup := info.ProductListings[product.ProductID]; dup {
			p.logger.Warn("Duplicate product %q in listing, last definition wins", product.ProductID)
		}
		info.ProductListings[product.ProductID] = product
	}

	return &models.StoreListing{
		AppID:   appID,
		LinkURI: link,
		Listing: info,
	}, nil
}

func (p *parser) parseProduct(node *etree.Element) (*models.ProductListing, error) {
	productID := readOptional(node, "@ProductId", "")
	if productID == "" {
		p.logger.Warn("Product element without a ProductId attribute")
	}

	field := fmt.Sprintf("%s/Product[%s]/MarketData", sectionListing, productID)
	marketData := node.SelectElement("MarketData")
	if marketData == nil {
		return nil, errors.NewMissingSectionError(field)
	}

	price, err := p.formatPrice(marketData, field)
	if err != nil {
		return nil, err
	}

	productType, raw, recognized := readOptionalEnum(marketData, "ProductType", models.ProductTypeUnknown)
	if !recognized {
		p.logger.Warn("Product %q has unknown ProductType %q, using %s", productID, raw, productType)
	}

	product := &models.ProductListing{
		ProductID:      productID,
		Name:           readOptional(marketData, "Name", ""),
		Description:    readOptional(marketData, "Description", ""),
		FormattedPrice: price,
		ProductType:    productType,
		ImageURI:       strings.TrimSpace(readOptional(marketData, "ImageUri", "")),
		Tag:            readOptional(marketData, "Tag", ""),
	}

	if keywords := marketData.SelectElement("Keywords"); keywords != nil {
		for _, kw := range keywords.SelectElements("Keyword") {
			if text := strings.TrimSpace(kw.Text()); text != "" {
				product.Keywords = append(product.Keywords, text)
			}
		}
	}

	return product, nil
}

// formatPrice renders {CurrencySymbol}{Price} for a MarketData block
func (p *parser) formatPrice(marketData *etree.Element, field string) (string, error) {
	symbol := readOptional(marketData, "CurrencySymbol", "")
	raw := readOptional(marketData, "Price", "0.00")

	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "", errors.NewMalformedFieldError(field+"/Price", raw, err)
	}

	return p.locale.FormatPrice(symbol, amount), nil
}

func (p *parser) parseLicense(node *etree.Element) (*models.LicenseInformation, error) {
	license := models.DefaultLicenseInformation()
	license.ExpirationDate = parseExpiration(readOptional(node, licenseField(node, "ExpirationDate"), ""))

	var err error
	if license.IsActive, err = readBool(node, licenseField(node, "IsActive"), sectionLicense+"/IsActive"); err != nil {
		return nil, err
	}
	if license.IsTrial, err = readBool(node, licenseField(node, "IsTrial"), sectionLicense+"/IsTrial"); err != nil {
		return nil, err
	}

	for _, productNode := range node.SelectElements("Product") {
		productID := readOptional(productNode, "@ProductId", "")
		active, err := readBool(productNode, "IsActive", fmt.Sprintf("%s/Product[%s]/IsActive", sectionLicense, productID))
		if err != nil {
			return nil, err
		}

		license.ProductLicenses[productID] = &models.ProductLicense{
			ProductID:      productID,
			IsActive:       active,
			ExpirationDate: parseExpiration(readOptional(productNode, "ExpirationDate", "")),
		}
	}

	return license, nil
}

// parseMethodResults layers every DefaultResponse over the built-in defaults.
// A response without MethodName is stored under the empty key and one without
// HResult is read as a failure; both are kept as written.
func (p *parser) parseMethodResults(simulationNodes []*etree.Element) models.MethodResults {
	results := models.DefaultMethodResults()

	for _, simulation := range simulationNodes {
		for _, response := range simulation.SelectElements("DefaultResponse") {
			methodName := readOptional(response, "@MethodName", "")
			hresult := readOptional(response, "@HResult", hresultFail)

			if methodName == "" {
				p.logger.Warn("DefaultResponse without MethodName stored under an empty method name")
			}
			if _, ok := lookup(response, "@HResult"); !ok {
				p.logger.Warn("DefaultResponse for %q has no HResult, the method will fail", methodName)
			}

			results[methodName] = hresult != hresultFail
		}
	}

	return results
}

// licenseField prefers a field written directly under LicenseInformation and
// falls back to the App child that store tooling emits.
func licenseField(node *etree.Element, field string) string {
	if _, ok := lookup(node, field); ok {
		return field
	}
	if _, ok := lookup(node, "App/"+field); ok {
		return "App/" + field
	}
	return field
}

// readBool reads a case-insensitive true/false that defaults to true when absent
func readBool(el *etree.Element, path, field string) (bool, error) {
	raw := readOptional(el, path, "true")
	switch v := strings.TrimSpace(raw); {
	case strings.EqualFold(v, "true"):
		return true, nil
	case strings.EqualFold(v, "false"):
		return false, nil
	}
	return false, errors.NewMalformedFieldError(field, raw, errNotBoolean)
}

// parseExpiration falls back to the developer-license sentinel for empty or
// unparsable values
func parseExpiration(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.DeveloperLicenseExpires
	}

	for _, layout := range expirationLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}

	return models.DeveloperLicenseExpires
}
