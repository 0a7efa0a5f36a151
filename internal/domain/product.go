package domain

import "time"

// SourceName identifies the catalog a product was scraped from (e.g. "myntra").
type SourceName string

// Product represents a single listing returned by the scrape collaborator.
// Only Name is required for matching; the rest is carried for display.
type Product struct {
	Name   string `json:"name"`
	Brand  string `json:"brand,omitempty"`
	Price  string `json:"price,omitempty"`
	Link   string `json:"link,omitempty"`
	Image  string `json:"image,omitempty"`
	Rating string `json:"rating,omitempty"`
}

// SourceProducts holds one source's listings in scrape order
type SourceProducts struct {
	Source   SourceName `json:"source"`
	Products []Product  `json:"products"`
}

// TaggedProduct is a read-only view of a scraped Product annotated with its
// source and the normalized forms used for comparison. Product is a copy, so
// building a TaggedProduct never touches the caller's slice.
type TaggedProduct struct {
	Source          SourceName
	Product         Product
	NormalizedName  string
	NormalizedBrand string
}

// MatchedGroup maps every compared source to the product it contributed to a
// cross-source cluster, or to nil when it contributed nothing.
type MatchedGroup map[SourceName]*Product

// Filled returns the number of sources with a product in the group
func (g MatchedGroup) Filled() int {
	n := 0
	for _, p := range g {
		if p != nil {
			n++
		}
	}
	return n
}

// WishlistItem is a product saved by the user, keyed by its link
type WishlistItem struct {
	Product
	Source  SourceName `json:"source,omitempty"`
	AddedAt time.Time  `json:"addedAt"`
}

// WishlistRequest is the body of an add-to-wishlist call
type WishlistRequest struct {
	Product Product    `json:"product"`
	Source  SourceName `json:"source"`
}
