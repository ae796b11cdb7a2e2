package ytscrape

import (
	"context"

	"ytscrape/youtube"
)

// Result and detail types re-exported for convenience.
type (
	// VideoPreview is one search result.
	VideoPreview = youtube.VideoPreview
	// VideoDetail is a video's full metadata and stream URLs.
	VideoDetail = youtube.VideoDetail
	// PlaylistDetail is a playlist's metadata and entries.
	PlaylistDetail = youtube.PlaylistDetail
	// PlaylistEntry is one video inside a playlist.
	PlaylistEntry = youtube.PlaylistEntry
	// SearchSession accumulates results across pages.
	SearchSession = youtube.SearchSession
)

// Search runs a query with a short-lived client and returns the collected
// previews. pages is the number of result pages to fetch, maxResults caps
// the total (zero means unbounded). For incremental pagination, localization
// or a custom transport, use youtube.Client directly.
func Search(ctx context.Context, query string, pages, maxResults int) ([]VideoPreview, error) {
	client, err := youtube.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	session, err := client.Search(ctx, query, pages, maxResults)
	if err != nil {
		return nil, err
	}
	return session.Results(), nil
}

// Video fetches a video's metadata and playable stream URLs with a
// short-lived client. urlOrID accepts any recognized video URL form or a
// bare video ID.
func Video(ctx context.Context, urlOrID string) (*VideoDetail, error) {
	client, err := youtube.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Video(ctx, urlOrID)
}

// Playlist fetches a playlist's metadata and entries with a short-lived
// client.
func Playlist(ctx context.Context, url string) (*PlaylistDetail, error) {
	client, err := youtube.New()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Playlist(ctx, url)
}
