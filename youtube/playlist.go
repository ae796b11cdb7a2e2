package youtube

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ytscrape/youtube/innertube"
)

// PlaylistEntry is one video inside a playlist. Only the list page fields
// are populated; the full metadata requires a Video call per entry.
type PlaylistEntry struct {
	ID         string
	Title      string
	Duration   string
	Thumbnails []string
}

// Equal reports whether two entries refer to the same video.
func (p PlaylistEntry) Equal(other PlaylistEntry) bool {
	return p.ID == other.ID
}

// PlaylistDetail is the metadata and entry list of one playlist.
type PlaylistDetail struct {
	ID          string
	Title       string
	Description string
	AuthorName  string
	AuthorURL   string
	Thumbnails  []string
	VideoCount  int
	Views       int
	Entries     []PlaylistEntry
}

// Playlist fetches a playlist page and extracts its metadata and entries.
func (c *Client) Playlist(ctx context.Context, url string) (*PlaylistDetail, error) {
	id, err := ExtractPlaylistID(url)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, c.baseURL+"/playlist?list="+id, c.pageHeaders())
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch playlist page: %w", err)
	}

	raw, err := innertube.ExtractObject(resp.Body, innertube.MarkerInitialData)
	if err != nil {
		return nil, fmt.Errorf("youtube: locate playlist data: %w", err)
	}
	var parsed innertube.BrowseResponse
	if err := c.codec.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("youtube: decode playlist data: %w", err)
	}

	detail := &PlaylistDetail{ID: id}
	c.fillPlaylistHeader(detail, &parsed)
	detail.Entries = playlistEntries(&parsed)

	c.log.Debug().Str("playlist_id", id).Int("entries", len(detail.Entries)).Msg("playlist extracted")
	return detail, nil
}

func (c *Client) fillPlaylistHeader(detail *PlaylistDetail, parsed *innertube.BrowseResponse) {
	if parsed.Metadata != nil && parsed.Metadata.PlaylistMetadataRenderer != nil {
		meta := parsed.Metadata.PlaylistMetadataRenderer
		detail.Title = norm.NFKD.String(meta.Title)
		detail.Description = norm.NFKD.String(meta.Description)
	}

	if parsed.Header == nil || parsed.Header.PlaylistHeaderRenderer == nil {
		return
	}
	header := parsed.Header.PlaylistHeaderRenderer

	if detail.Description == "" {
		detail.Description = norm.NFKD.String(header.DescriptionText.Value())
	}
	detail.AuthorName = norm.NFKD.String(header.OwnerText.GetText())
	if ep := header.OwnerEndpoint; ep != nil && ep.BrowseEndpoint != nil && ep.BrowseEndpoint.CanonicalBaseURL != "" {
		detail.AuthorURL = c.baseURL + ep.BrowseEndpoint.CanonicalBaseURL
	}
	detail.VideoCount = leadingNumber(header.NumVideosText.GetText())
	detail.Views = leadingNumber(header.ViewCountText.Value())

	if banner := header.PlaylistHeaderBanner; banner != nil &&
		banner.HeroPlaylistThumbnailRenderer != nil &&
		banner.HeroPlaylistThumbnailRenderer.Thumbnail != nil {
		for _, t := range banner.HeroPlaylistThumbnailRenderer.Thumbnail.Thumbnails {
			detail.Thumbnails = append(detail.Thumbnails, t.URL)
		}
	}
}

func playlistEntries(parsed *innertube.BrowseResponse) []PlaylistEntry {
	var entries []PlaylistEntry
	for _, section := range playlistSections(parsed) {
		if section.ItemSectionRenderer == nil {
			continue
		}
		for _, item := range section.ItemSectionRenderer.Contents {
			if item.PlaylistVideoListRenderer == nil {
				continue
			}
			for _, node := range item.PlaylistVideoListRenderer.Contents {
				r := node.PlaylistVideoRenderer
				if r == nil || r.VideoID == "" {
					continue
				}
				entries = append(entries, newPlaylistEntry(r))
			}
		}
	}
	return entries
}

func playlistSections(parsed *innertube.BrowseResponse) []innertube.SectionContent {
	if parsed.Contents == nil || parsed.Contents.TwoColumnBrowseResultsRenderer == nil {
		return nil
	}
	for _, tab := range parsed.Contents.TwoColumnBrowseResultsRenderer.Tabs {
		if tab.TabRenderer == nil || tab.TabRenderer.Content == nil ||
			tab.TabRenderer.Content.SectionListRenderer == nil {
			continue
		}
		return tab.TabRenderer.Content.SectionListRenderer.Contents
	}
	return nil
}

func newPlaylistEntry(r *innertube.PlaylistVideoRenderer) PlaylistEntry {
	entry := PlaylistEntry{
		ID:    r.VideoID,
		Title: norm.NFKD.String(r.Title.GetText()),
		// Some locales render durations with dots as separators.
		Duration: strings.ReplaceAll(r.LengthText.Value(), ".", ":"),
	}
	if r.Thumbnail != nil {
		for _, t := range r.Thumbnail.Thumbnails {
			entry.Thumbnails = append(entry.Thumbnails, t.URL)
		}
	}
	return entry
}

// leadingNumber parses the leading digit group of a display string such as
// "1,234,567 views", stripping thousands separators.
func leadingNumber(s string) int {
	s = strings.TrimSpace(s)
	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ',' || r == '.' || r == ' ' || r == ' ':
			if digits.Len() == 0 {
				return 0
			}
		default:
			n, _ := strconv.Atoi(digits.String())
			return n
		}
	}
	n, _ := strconv.Atoi(digits.String())
	return n
}
