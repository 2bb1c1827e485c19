package simulator

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/huanfeng/storesim/pkg/models"
)

// SampleProduct is one in-app product written to a sample document
type SampleProduct struct {
	ProductID   string
	Name        string
	Price       string
	ProductType models.ProductType
	Active      bool
}

// SampleOptions describes the settings document written by WriteSample
type SampleOptions struct {
	AppID          uuid.UUID
	Name           string
	Description    string
	Market         string
	Price          string
	CurrencySymbol string
	AgeRating      uint
	Trial          bool
	Products       []SampleProduct
	FailingMethods []string
}

// DefaultSampleOptions is a trial app with one durable product
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{
		AppID:          uuid.New(),
		Name:           "Sample app",
		Description:    "Sample app for demonstrating trial license management",
		Market:         "US",
		Price:          "4.99",
		CurrencySymbol: "$",
		AgeRating:      3,
		Trial:          true,
		Products: []SampleProduct{
			{ProductID: "feature1", Name: "Premium feature", Price: "1.99", ProductType: models.ProductTypeDurable},
		},
	}
}

// WriteSample writes a simulator settings document built from opts
func WriteSample(w io.Writer, opts SampleOptions) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	root := doc.CreateElement("CurrentApp")

	listing := root.CreateElement(sectionListing)
	app := listing.CreateElement("App")
	app.CreateElement("AppId").SetText(opts.AppID.String())
	app.CreateElement("LinkUri").SetText(fmt.Sprintf(DefaultStoreLinkFormat, opts.AppID))
	if opts.Market != "" {
		app.CreateElement("CurrentMarket").SetText(opts.Market)
	}
	app.CreateElement("AgeRating").SetText(fmt.Sprint(opts.AgeRating))
	writeMarketData(app, opts.Name, opts.Description, opts.Price, opts.CurrencySymbol)

	for _, p := range opts.Products {
		product := listing.CreateElement("Product")
		product.CreateAttr("ProductId", p.ProductID)
		md := writeMarketData(product, p.Name, "", p.Price, opts.CurrencySymbol)
		md.CreateElement("ProductType").SetText(p.ProductType.String())
	}

	license := root.CreateElement(sectionLicense).CreateElement("App")
	license.CreateElement("IsActive").SetText("true")
	license.CreateElement("IsTrial").SetText(fmt.Sprint(opts.Trial))

	for _, p := range opts.Products {
		product := root.SelectElement(sectionLicense).CreateElement("Product")
		product.CreateAttr("ProductId", p.ProductID)
		product.CreateElement("IsActive").SetText(fmt.Sprint(p.Active))
	}

	if len(opts.FailingMethods) > 0 {
		simulation := root.CreateElement(sectionSimulation)
		simulation.CreateAttr("SimulationMode", "Automatic")
		for _, method := range opts.FailingMethods {
			response := simulation.CreateElement("DefaultResponse")
			response.CreateAttr("MethodName", method)
			response.CreateAttr("HResult", hresultFail)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func writeMarketData(parent *etree.Element, name, description, price, symbol string) *etree.Element {
	md := parent.CreateElement("MarketData")
	md.CreateAttr("xml:lang", "en-us")
	md.CreateElement("Name").SetText(name)
	if description != "" {
		md.CreateElement("Description").SetText(description)
	}
	md.CreateElement("Price").SetText(price)
	md.CreateElement("CurrencySymbol").SetText(symbol)
	return md
}
