// Package innertube models the renderer-tree JSON that YouTube embeds in its
// web pages and returns from its internal (undocumented, unversioned) API
// endpoints, and locates those embedded JSON blobs inside raw page text.
package innertube

import (
	"encoding/json"
	"strings"
)

// SearchResponse is the top of both a first-page ytInitialData blob and a
// continuation response from the internal search endpoint. Only one of the
// two content roots is populated at a time.
type SearchResponse struct {
	Contents                   *SearchContents   `json:"contents,omitempty"`
	OnResponseReceivedCommands []ResponseCommand `json:"onResponseReceivedCommands,omitempty"`
}

// SearchContents holds the first-page content root.
type SearchContents struct {
	TwoColumnSearchResultsRenderer *TwoColumnSearchResultsRenderer `json:"twoColumnSearchResultsRenderer,omitempty"`
}

// TwoColumnSearchResultsRenderer is the main search layout renderer.
type TwoColumnSearchResultsRenderer struct {
	PrimaryContents *PrimaryContents `json:"primaryContents,omitempty"`
}

// PrimaryContents wraps the section list of a search page.
type PrimaryContents struct {
	SectionListRenderer *SectionListRenderer `json:"sectionListRenderer,omitempty"`
}

// SectionListRenderer displays content in sections.
type SectionListRenderer struct {
	Contents []SectionContent `json:"contents,omitempty"`
}

// SectionContent is one top-level section node. Nodes without an item
// section (shelves, ad slots, continuation markers) are skipped by the
// normalizer.
type SectionContent struct {
	ItemSectionRenderer      *ItemSectionRenderer      `json:"itemSectionRenderer,omitempty"`
	ContinuationItemRenderer *ContinuationItemRenderer `json:"continuationItemRenderer,omitempty"`
}

// ItemSectionRenderer renders a section of result items.
type ItemSectionRenderer struct {
	Contents []ItemContent `json:"contents,omitempty"`
}

// ItemContent can be various renderer kinds; only the ones modeled here are
// consumed, everything else stays unmapped and is ignored.
type ItemContent struct {
	VideoRenderer             *VideoRenderer             `json:"videoRenderer,omitempty"`
	PlaylistVideoListRenderer *PlaylistVideoListRenderer `json:"playlistVideoListRenderer,omitempty"`
}

// ResponseCommand represents a command attached to a continuation response.
type ResponseCommand struct {
	AppendContinuationItemsAction *AppendContinuationItemsAction `json:"appendContinuationItemsAction,omitempty"`
}

// AppendContinuationItemsAction carries the next page of section nodes.
type AppendContinuationItemsAction struct {
	ContinuationItems []SectionContent `json:"continuationItems,omitempty"`
}

// ContinuationItemRenderer provides the pagination token for the next page.
type ContinuationItemRenderer struct {
	ContinuationEndpoint *ContinuationEndpoint `json:"continuationEndpoint,omitempty"`
}

// ContinuationEndpoint wraps the continuation command.
type ContinuationEndpoint struct {
	ContinuationCommand *ContinuationCommand `json:"continuationCommand,omitempty"`
}

// ContinuationCommand holds the actual token.
type ContinuationCommand struct {
	Token string `json:"token,omitempty"`
}

// VideoRenderer contains one search result's video metadata.
type VideoRenderer struct {
	VideoID                  string              `json:"videoId,omitempty"`
	Title                    *TextRuns           `json:"title,omitempty"`
	DetailedMetadataSnippets []MetadataSnippet   `json:"detailedMetadataSnippets,omitempty"`
	Thumbnail                *ThumbnailList      `json:"thumbnail,omitempty"`
	LongBylineText           *TextRuns           `json:"longBylineText,omitempty"`
	OwnerText                *TextRuns           `json:"ownerText,omitempty"`
	LengthText               *SimpleText         `json:"lengthText,omitempty"`
	ViewCountText            *SimpleText         `json:"viewCountText,omitempty"`
	PublishedTimeText        *SimpleText         `json:"publishedTimeText,omitempty"`
	NavigationEndpoint       *NavigationEndpoint `json:"navigationEndpoint,omitempty"`
}

// MetadataSnippet holds a description snippet below a search result.
type MetadataSnippet struct {
	SnippetText *TextRuns `json:"snippetText,omitempty"`
}

// TextRuns contains text either as formatted runs or as a simple string.
type TextRuns struct {
	Runs       []TextRun `json:"runs,omitempty"`
	SimpleText string    `json:"simpleText,omitempty"`
}

// TextRun is a segment of text, optionally carrying a navigation target.
type TextRun struct {
	Text               string              `json:"text,omitempty"`
	NavigationEndpoint *NavigationEndpoint `json:"navigationEndpoint,omitempty"`
}

// SimpleText holds a plain display string.
type SimpleText struct {
	SimpleText string `json:"simpleText,omitempty"`
}

// NavigationEndpoint represents a navigation target.
type NavigationEndpoint struct {
	CommandMetadata *CommandMetadata    `json:"commandMetadata,omitempty"`
	BrowseEndpoint  *BrowseEndpointData `json:"browseEndpoint,omitempty"`
}

// CommandMetadata wraps web navigation metadata.
type CommandMetadata struct {
	WebCommandMetadata *WebCommandMetadata `json:"webCommandMetadata,omitempty"`
}

// WebCommandMetadata holds the relative web URL of a navigation target.
type WebCommandMetadata struct {
	URL string `json:"url,omitempty"`
}

// BrowseEndpointData holds browse endpoint parameters.
type BrowseEndpointData struct {
	BrowseID         string `json:"browseId,omitempty"`
	CanonicalBaseURL string `json:"canonicalBaseUrl,omitempty"`
}

// ThumbnailList contains thumbnail images.
type ThumbnailList struct {
	Thumbnails []Thumbnail `json:"thumbnails,omitempty"`
}

// Thumbnail represents a single thumbnail.
type Thumbnail struct {
	URL    string `json:"url,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// PlayerResponse is the top of an embedded ytInitialPlayerResponse blob.
type PlayerResponse struct {
	VideoDetails  *VideoDetails  `json:"videoDetails,omitempty"`
	StreamingData *StreamingData `json:"streamingData,omitempty"`
}

// VideoDetails carries a watch page's core video metadata. Numeric values
// arrive as strings on the wire.
type VideoDetails struct {
	VideoID          string         `json:"videoId,omitempty"`
	Title            string         `json:"title,omitempty"`
	Author           string         `json:"author,omitempty"`
	ShortDescription string         `json:"shortDescription,omitempty"`
	LengthSeconds    string         `json:"lengthSeconds,omitempty"`
	ViewCount        string         `json:"viewCount,omitempty"`
	IsLiveContent    bool           `json:"isLiveContent,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	Thumbnail        *ThumbnailList `json:"thumbnail,omitempty"`
}

// StreamingData holds the raw stream format descriptors of one video.
// Formats carry muxed audio+video; AdaptiveFormats carry audio-only or
// video-only streams for adaptive playback.
type StreamingData struct {
	Formats         []FormatDescriptor `json:"formats,omitempty"`
	AdaptiveFormats []FormatDescriptor `json:"adaptiveFormats,omitempty"`
	HLSManifestURL  string             `json:"hlsManifestUrl,omitempty"`
}

// FormatDescriptor is one raw stream descriptor. Either URL or
// SignatureCipher is set, never both.
type FormatDescriptor struct {
	Itag            int    `json:"itag,omitempty"`
	MimeType        string `json:"mimeType,omitempty"`
	Bitrate         int    `json:"bitrate,omitempty"`
	AverageBitrate  int    `json:"averageBitrate,omitempty"`
	ContentLength   string `json:"contentLength,omitempty"`
	URL             string `json:"url,omitempty"`
	SignatureCipher string `json:"signatureCipher,omitempty"`
	QualityLabel    string `json:"qualityLabel,omitempty"`
	FPS             int    `json:"fps,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	AudioChannels   int    `json:"audioChannels,omitempty"`
	AudioQuality    string `json:"audioQuality,omitempty"`
	AudioSampleRate string `json:"audioSampleRate,omitempty"`
	ApproxDurationM string `json:"approxDurationMs,omitempty"`
}

// BrowseResponse is the top of an embedded ytInitialData blob on a playlist
// page.
type BrowseResponse struct {
	Header   *PlaylistHeader   `json:"header,omitempty"`
	Metadata *PlaylistMetadata `json:"metadata,omitempty"`
	Contents *BrowseContents   `json:"contents,omitempty"`
}

// PlaylistHeader wraps the playlist header renderer.
type PlaylistHeader struct {
	PlaylistHeaderRenderer *PlaylistHeaderRenderer `json:"playlistHeaderRenderer,omitempty"`
}

// PlaylistHeaderRenderer carries playlist-level metadata.
type PlaylistHeaderRenderer struct {
	PlaylistID           string              `json:"playlistId,omitempty"`
	OwnerText            *TextRuns           `json:"ownerText,omitempty"`
	OwnerEndpoint        *NavigationEndpoint `json:"ownerEndpoint,omitempty"`
	DescriptionText      *SimpleText         `json:"descriptionText,omitempty"`
	NumVideosText        *TextRuns           `json:"numVideosText,omitempty"`
	ViewCountText        *SimpleText         `json:"viewCountText,omitempty"`
	PlaylistHeaderBanner *HeaderBanner       `json:"playlistHeaderBanner,omitempty"`
}

// HeaderBanner wraps the hero thumbnail renderer at the top of a playlist.
type HeaderBanner struct {
	HeroPlaylistThumbnailRenderer *HeroThumbnailRenderer `json:"heroPlaylistThumbnailRenderer,omitempty"`
}

// HeroThumbnailRenderer holds the playlist banner thumbnails.
type HeroThumbnailRenderer struct {
	Thumbnail *ThumbnailList `json:"thumbnail,omitempty"`
}

// PlaylistMetadata wraps the playlist metadata renderer.
type PlaylistMetadata struct {
	PlaylistMetadataRenderer *PlaylistMetadataRenderer `json:"playlistMetadataRenderer,omitempty"`
}

// PlaylistMetadataRenderer holds the playlist title and description.
type PlaylistMetadataRenderer struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// BrowseContents holds the browse page content root.
type BrowseContents struct {
	TwoColumnBrowseResultsRenderer *TwoColumnBrowseResultsRenderer `json:"twoColumnBrowseResultsRenderer,omitempty"`
}

// TwoColumnBrowseResultsRenderer is the main browse layout renderer.
type TwoColumnBrowseResultsRenderer struct {
	Tabs []Tab `json:"tabs,omitempty"`
}

// Tab represents one browse tab.
type Tab struct {
	TabRenderer *TabRenderer `json:"tabRenderer,omitempty"`
}

// TabRenderer contains the tab content.
type TabRenderer struct {
	Content *TabContent `json:"content,omitempty"`
}

// TabContent holds the content within a tab.
type TabContent struct {
	SectionListRenderer *SectionListRenderer `json:"sectionListRenderer,omitempty"`
}

// PlaylistVideoListRenderer lists the entries of a playlist.
type PlaylistVideoListRenderer struct {
	Contents []PlaylistVideoContent `json:"contents,omitempty"`
}

// PlaylistVideoContent is one playlist list node.
type PlaylistVideoContent struct {
	PlaylistVideoRenderer *PlaylistVideoRenderer `json:"playlistVideoRenderer,omitempty"`
}

// PlaylistVideoRenderer represents a video entry inside a playlist.
type PlaylistVideoRenderer struct {
	VideoID    string         `json:"videoId,omitempty"`
	Title      *TextRuns      `json:"title,omitempty"`
	Thumbnail  *ThumbnailList `json:"thumbnail,omitempty"`
	LengthText *SimpleText    `json:"lengthText,omitempty"`
	IsPlayable bool           `json:"isPlayable,omitempty"`
}

// SearchPayload is the JSON body of a continuation POST to the internal
// search endpoint. The context is carried forward verbatim from the first
// HTML page.
type SearchPayload struct {
	Context      json.RawMessage `json:"context"`
	Continuation string          `json:"continuation"`
}

// GetText extracts plain text from TextRuns, joining runs when present.
func (t *TextRuns) GetText() string {
	if t == nil {
		return ""
	}
	if t.SimpleText != "" {
		return t.SimpleText
	}
	var parts []string
	for _, run := range t.Runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, "")
}

// Value returns the display string of a SimpleText, empty when absent.
func (t *SimpleText) Value() string {
	if t == nil {
		return ""
	}
	return t.SimpleText
}

// ContinuationSections returns the section nodes appended by a continuation
// response, nil when the response carries none (a no-op page).
func (r *SearchResponse) ContinuationSections() []SectionContent {
	if r == nil || len(r.OnResponseReceivedCommands) == 0 {
		return nil
	}
	action := r.OnResponseReceivedCommands[0].AppendContinuationItemsAction
	if action == nil {
		return nil
	}
	return action.ContinuationItems
}

// FirstPageSections returns the section nodes of a first-page response, nil
// when the expected content root is missing.
func (r *SearchResponse) FirstPageSections() []SectionContent {
	if r == nil || r.Contents == nil ||
		r.Contents.TwoColumnSearchResultsRenderer == nil ||
		r.Contents.TwoColumnSearchResultsRenderer.PrimaryContents == nil ||
		r.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer == nil {
		return nil
	}
	return r.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
}

// NextContinuation scans section nodes for a continuation marker and returns
// its token, empty when the page carries none (no more pages).
func NextContinuation(sections []SectionContent) string {
	for _, section := range sections {
		if section.ContinuationItemRenderer == nil {
			continue
		}
		endpoint := section.ContinuationItemRenderer.ContinuationEndpoint
		if endpoint != nil && endpoint.ContinuationCommand != nil {
			return endpoint.ContinuationCommand.Token
		}
	}
	return ""
}
