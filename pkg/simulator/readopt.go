package simulator

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/huanfeng/storesim/pkg/models"
)

// lookup walks path below el. Segments name child elements and a final
// "@Name" segment selects an attribute. The second result is false when any
// step is missing.
func lookup(el *etree.Element, path string) (string, bool) {
	if el == nil {
		return "", false
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, "@") {
			if i != len(segments)-1 {
				return "", false
			}
			attr := el.SelectAttr(seg[1:])
			if attr == nil {
				return "", false
			}
			return attr.Value, true
		}

		el = el.SelectElement(seg)
		if el == nil {
			return "", false
		}
	}

	return el.Text(), true
}

// readOptional returns the value at path, or def when it is absent
func readOptional(el *etree.Element, path, def string) string {
	if v, ok := lookup(el, path); ok {
		return v
	}
	return def
}

// readOptionalEnum reads a product type at path. Absent values and values
// outside the lookup table both yield def; recognized reports which case applied.
func readOptionalEnum(el *etree.Element, path string, def models.ProductType) (pt models.ProductType, raw string, recognized bool) {
	raw, ok := lookup(el, path)
	if !ok {
		return def, "", true
	}
	if pt, ok := models.ParseProductType(strings.TrimSpace(raw)); ok {
		return pt, raw, true
	}
	return def, raw, false
}
