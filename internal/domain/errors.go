package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrScrapeFailed is returned when the scrape collaborator fails or times out
	ErrScrapeFailed = errors.New("product scrape failed")

	// ErrMalformedOutput is returned when a collaborator's response cannot be decoded
	ErrMalformedOutput = errors.New("malformed collaborator output")

	// ErrSummaryFailed is returned when the summary collaborator fails
	ErrSummaryFailed = errors.New("summary generation failed")

	// ErrSearchFailed is returned when the web search collaborator fails
	ErrSearchFailed = errors.New("web search failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrWishlistItemNotFound is returned when removing a link that is not saved
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)
