package youtube

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL indicates a URL that does not match any recognized
	// YouTube video or playlist form.
	ErrInvalidURL = errors.New("youtube: invalid URL")

	// ErrNegativeMaxResults indicates a negative result cap, which has no
	// meaning (zero means unbounded).
	ErrNegativeMaxResults = errors.New("youtube: max results cannot be negative")

	// ErrNoSearch indicates a pagination call on a session that has not
	// performed its initial search.
	ErrNoSearch = errors.New("youtube: no search has been performed yet")
)

// DecryptionError reports that one stream format's protected URL could not
// be recovered. The surrounding extraction continues without that format.
type DecryptionError struct {
	VideoID string
	Itag    int
	Err     error
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("youtube: decrypting format %d of video %s: %v", e.Itag, e.VideoID, e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }
