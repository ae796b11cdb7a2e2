package innertube

import (
	"fmt"
	"regexp"
)

// ExtractionError reports that an expected marker or structure could not be
// located in a scraped page.
type ExtractionError struct {
	Marker string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("innertube: marker %q not found in page", e.Marker)
}

// Page markers for the embedded JSON blobs consumed by the client.
const (
	MarkerInitialData    = "ytInitialData"
	MarkerPlayerResponse = "ytInitialPlayerResponse"
	MarkerContext        = "INNERTUBE_CONTEXT"
)

var (
	apiKeyRe       = regexp.MustCompile(`"INNERTUBE_API_KEY":"([A-Za-z0-9_-]+)"`)
	continuationRe = regexp.MustCompile(`"continuationCommand":\{"token":"([^"]+)","request":"CONTINUATION_REQUEST_TYPE_SEARCH"`)
	playerJSRe     = regexp.MustCompile(`"jsUrl":"([^"]+)"`)
)

// ExtractObject locates the JSON object assigned to marker inside body and
// returns its exact byte range. The marker may introduce the object either
// as a script assignment (marker = {...}) or as a quoted key ("marker":{...}).
// The object end is found by brace counting that is aware of string literals
// and escape sequences, so payloads containing "};" inside string values are
// handled correctly.
func ExtractObject(body []byte, marker string) ([]byte, error) {
	start := objectStart(body, marker)
	if start < 0 {
		return nil, &ExtractionError{Marker: marker}
	}
	end := scanObject(body, start)
	if end < 0 {
		return nil, &ExtractionError{Marker: marker}
	}
	return body[start:end], nil
}

func objectStart(body []byte, marker string) int {
	for _, pattern := range []string{
		regexp.QuoteMeta(marker) + `\s*=\s*\{`,
		`"` + regexp.QuoteMeta(marker) + `"\s*:\s*\{`,
	} {
		re := regexp.MustCompile(pattern)
		if loc := re.FindIndex(body); loc != nil {
			return loc[1] - 1
		}
	}
	return -1
}

// scanObject returns the index one past the matching close brace of the
// object opening at start, or -1 when the braces never balance.
func scanObject(body []byte, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(body); i++ {
		c := body[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// ExtractAPIKey pulls the INNERTUBE_API_KEY value out of a page.
func ExtractAPIKey(body []byte) (string, error) {
	m := apiKeyRe.FindSubmatch(body)
	if m == nil {
		return "", &ExtractionError{Marker: "INNERTUBE_API_KEY"}
	}
	return string(m[1]), nil
}

// ExtractContext pulls the raw INNERTUBE_CONTEXT JSON object out of a page.
// It is carried forward verbatim in continuation requests.
func ExtractContext(body []byte) ([]byte, error) {
	return ExtractObject(body, MarkerContext)
}

// ExtractContinuation pulls the search continuation token out of a first
// results page. A first page always carries one; its absence means the page
// layout drifted, so this fails with an ExtractionError. Continuation
// responses signal exhaustion differently, through a missing
// continuationItemRenderer section (see NextContinuation).
func ExtractContinuation(body []byte) (string, error) {
	m := continuationRe.FindSubmatch(body)
	if m == nil {
		return "", &ExtractionError{Marker: "continuationCommand"}
	}
	return string(m[1]), nil
}

// ExtractPlayerJSURL pulls the relative URL of the player script out of a
// watch page. The script holds the signature decipher routine.
func ExtractPlayerJSURL(body []byte) (string, error) {
	m := playerJSRe.FindSubmatch(body)
	if m == nil {
		return "", &ExtractionError{Marker: "jsUrl"}
	}
	return string(m[1]), nil
}
