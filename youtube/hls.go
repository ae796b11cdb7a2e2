package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// HLSVariant is one variant stream of a live broadcast's HLS master
// manifest.
type HLSVariant struct {
	Bandwidth  int
	Codecs     []string
	FrameRate  int
	Resolution string
	URL        string
}

// fetchHLSVariants downloads and parses a live broadcast's master manifest.
// The embedded manifest URL may arrive percent-encoded and is decoded before
// the fetch.
func (c *Client) fetchHLSVariants(ctx context.Context, manifestURL string) ([]HLSVariant, error) {
	if decoded, err := url.PathUnescape(manifestURL); err == nil {
		manifestURL = decoded
	}
	resp, err := c.http.Get(ctx, manifestURL, c.pageHeaders())
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch hls manifest: %w", err)
	}
	return ParseHLS(string(resp.Body)), nil
}

// ParseHLS extracts the variant streams of an HLS master manifest. Each
// #EXT-X-STREAM-INF tag describes the variant whose URL is the next
// non-blank line. Lines that are neither recognized tags nor variant URLs
// are ignored.
func ParseHLS(manifest string) []HLSVariant {
	variants := []HLSVariant{}
	lines := strings.Split(manifest, "\n")

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "#EXT-X-STREAM-INF:") {
			continue
		}
		variant := parseStreamInf(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))

		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if !strings.HasPrefix(next, "#") {
				variant.URL = next
				i = j
			}
			break
		}
		if variant.URL != "" {
			variants = append(variants, variant)
		}
	}
	return variants
}

func parseStreamInf(attrs string) HLSVariant {
	var variant HLSVariant
	for _, attr := range splitAttrs(attrs) {
		key, value, ok := strings.Cut(attr, "=")
		if !ok {
			continue
		}
		switch key {
		case "BANDWIDTH":
			variant.Bandwidth, _ = strconv.Atoi(value)
		case "CODECS":
			for _, codec := range strings.Split(strings.Trim(value, `"`), ",") {
				variant.Codecs = append(variant.Codecs, strings.TrimSpace(codec))
			}
		case "RESOLUTION":
			variant.Resolution = value
		case "FRAME-RATE":
			// The attribute may carry decimals; only the integer part is
			// kept.
			whole, _, _ := strings.Cut(value, ".")
			variant.FrameRate, _ = strconv.Atoi(whole)
		}
	}
	return variant
}

// splitAttrs splits an attribute list on commas, keeping commas inside
// quoted values (the CODECS list) intact.
func splitAttrs(s string) []string {
	var attrs []string
	var inQuotes bool
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				attrs = append(attrs, s[start:i])
				start = i + 1
			}
		}
	}
	attrs = append(attrs, s[start:])
	return attrs
}
