package simulator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the host culture the simulator formats prices and markets for.
// Culture drives numeric formatting; Region is the market used when a
// document does not name one.
type Locale struct {
	Culture language.Tag
	Region  language.Region
}

// NewLocale builds a Locale from a culture tag. When region is not a country
// the region implied by the culture is used.
func NewLocale(culture language.Tag, region language.Region) Locale {
	return Locale{Culture: culture, Region: region}.withDefaults()
}

// DefaultLocale is en-US
func DefaultLocale() Locale {
	return NewLocale(language.AmericanEnglish, language.Region{})
}

func (l Locale) withDefaults() Locale {
	if l.Culture == language.Und {
		l.Culture = language.AmericanEnglish
	}
	if !l.Region.IsCountry() {
		if region, _ := l.Culture.Region(); region.IsCountry() {
			l.Region = region
		} else {
			l.Region = language.MustParseRegion("US")
		}
	}
	return l
}

// RegionCode returns the two-letter ISO 3166 code of the host region
func (l Locale) RegionCode() string {
	return l.withDefaults().Region.String()
}

// CurrencyCode returns the ISO 4217 code of the host region's currency,
// or an empty string when the region has none.
func (l Locale) CurrencyCode() string {
	unit, ok := currency.FromRegion(l.withDefaults().Region)
	if !ok {
		return ""
	}
	return unit.String()
}

// FormatAmount renders amount with exactly two fraction digits using the
// culture's decimal mark and no grouping separators. Digits come from the
// decimal itself so large amounts keep every place.
func (l Locale) FormatAmount(amount decimal.Decimal) string {
	return strings.Replace(amount.StringFixed(2), ".", l.decimalMark(), 1)
}

// decimalMark is the separator the culture prints between integer and
// fraction digits. Cultures that print non-Latin digits fall back to ".".
func (l Locale) decimalMark() string {
	p := message.NewPrinter(l.withDefaults().Culture)
	sample := p.Sprintf("%v", number.Decimal(1.5, number.Scale(1), number.NoSeparator()))
	if !strings.HasPrefix(sample, "1") || !strings.HasSuffix(sample, "5") || len(sample) < 3 {
		return "."
	}
	return sample[1 : len(sample)-1]
}

// FormatPrice joins a currency symbol with a formatted amount
func (l Locale) FormatPrice(symbol string, amount decimal.Decimal) string {
	return symbol + l.FormatAmount(amount)
}

// ResolveMarket normalizes a market value to its two-letter ISO 3166 region
// code. Two- and three-letter codes, UN M.49 numeric codes and specific
// culture names such as en-US are accepted.
func ResolveMarket(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("empty region")
	}

	region, err := language.ParseRegion(v)
	if err == nil {
		if region.IsCountry() {
			return region.String(), nil
		}
		return "", fmt.Errorf("%q is not a country or territory", v)
	}

	if tag, tagErr := language.Parse(v); tagErr == nil {
		if region, confidence := tag.Region(); confidence == language.Exact && region.IsCountry() {
			return region.String(), nil
		}
	}

	return "", err
}
