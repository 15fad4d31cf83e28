package catalog

import (
	_ "embed"
	"sync"
)

//go:embed defaults/product_feedback.yaml
var productFeedback []byte

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the compiled-in product feedback catalog.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(productFeedback)
		if err != nil {
			panic("embedded catalog is invalid: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// DefaultSource returns the raw YAML of the compiled-in catalog.
func DefaultSource() []byte {
	return append([]byte(nil), productFeedback...)
}
