package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/shopsense/backend/internal/domain"
)

// productFields maps Product fields to the keys accepted for them
var productFields = struct {
	name, brand, price, link, image, rating []string
}{
	name:   []string{"name", "title"},
	brand:  []string{"brand"},
	price:  []string{"price"},
	link:   []string{"link", "url"},
	image:  []string{"image", "image_url"},
	rating: []string{"rating"},
}

// decodeListings decodes a JSON object mapping source names to product
// arrays, e.g. {"myntra": [...], "ajio": [...]}. Sources are returned sorted
// by name. A source whose value is not an array is skipped.
func decodeListings(data []byte) ([]domain.SourceProducts, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty output", domain.ErrMalformedOutput)
	}

	var bySource map[string]json.RawMessage
	if err := json.Unmarshal(data, &bySource); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	names := make([]string, 0, len(bySource))
	for name := range bySource {
		names = append(names, name)
	}
	sort.Strings(names)

	listings := make([]domain.SourceProducts, 0, len(names))
	for _, name := range names {
		products, err := decodeProducts(name, bySource[name])
		if err != nil {
			log.Printf("[SCRAPER] Skipping source %q: %v", name, err)
			continue
		}
		listings = append(listings, domain.SourceProducts{
			Source:   domain.SourceName(name),
			Products: products,
		})
	}

	return listings, nil
}

// decodeProducts decodes a JSON array of product records. Records that are
// not objects are dropped individually; records without a name are kept with
// an empty Name so they still count toward the source total.
// A {"products": [...]} envelope is also accepted.
func decodeProducts(source string, raw json.RawMessage) ([]domain.Product, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.HasPrefix(raw, []byte("{")) {
		var envelope struct {
			Products json.RawMessage `json:"products"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Products == nil {
			return nil, fmt.Errorf("%w: expected product array", domain.ErrMalformedOutput)
		}
		raw = envelope.Products
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		product, err := decodeProduct(rec)
		if err != nil {
			log.Printf("[SCRAPER] %s: dropping record %d: %v", source, i, err)
			continue
		}
		products = append(products, product)
	}

	return products, nil
}

// decodeProduct decodes one record. Display fields may be strings or
// numbers; anything else is treated as missing.
func decodeProduct(raw json.RawMessage) (domain.Product, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec map[string]interface{}
	if err := dec.Decode(&rec); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", domain.ErrMalformedOutput, err)
	}
	if rec == nil {
		return domain.Product{}, fmt.Errorf("%w: null record", domain.ErrMalformedOutput)
	}

	return domain.Product{
		Name:   stringField(rec, productFields.name),
		Brand:  stringField(rec, productFields.brand),
		Price:  stringField(rec, productFields.price),
		Link:   stringField(rec, productFields.link),
		Image:  stringField(rec, productFields.image),
		Rating: stringField(rec, productFields.rating),
	}, nil
}

// stringField returns the first present string or number value among keys
func stringField(rec map[string]interface{}, keys []string) string {
	for _, key := range keys {
		switch v := rec[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}
