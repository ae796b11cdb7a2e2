package ytscrape

import (
	ythttp "ytscrape/http"
	"ytscrape/youtube"
	"ytscrape/youtube/innertube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytscrape.ErrInvalidURL) {
//		fmt.Println("Not a YouTube URL")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var decErr *ytscrape.DecryptionError
//	if errors.As(err, &decErr) {
//		fmt.Printf("Format %d of %s dropped: %v\n", decErr.Itag, decErr.VideoID, decErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// DecryptionError reports one stream format whose protected URL could
	// not be recovered.
	DecryptionError = youtube.DecryptionError
	// ExtractionError reports an expected marker missing from a scraped
	// page.
	ExtractionError = innertube.ExtractionError
	// HTTPError reports a non-success HTTP status.
	HTTPError = ythttp.HTTPError
	// RateLimitError reports a 429 or 503 answer, with the advertised
	// retry delay when present.
	RateLimitError = ythttp.RateLimitError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrInvalidURL indicates the provided URL is not a recognized YouTube
	// video or playlist URL.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrNegativeMaxResults indicates a negative result cap.
	ErrNegativeMaxResults = youtube.ErrNegativeMaxResults
	// ErrNoSearch indicates pagination on a session that never searched.
	ErrNoSearch = youtube.ErrNoSearch
)
