// Package ytscrape provides a library for scraping YouTube metadata without
// an API key.
//
// It extracts search results, video metadata, playable stream URLs and
// playlists from YouTube's public web pages and internal API.
//
// # Overview
//
// ytscrape provides high-level convenience functions for the most common
// operations:
//
//   - Search: Run a query and collect result previews
//   - Video: Fetch a video's metadata and stream URLs
//   - Playlist: Fetch a playlist's metadata and entries
//
// # Quick Start
//
// Search for videos:
//
//	ctx := context.Background()
//	results, err := ytscrape.Search(ctx, "lofi hip hop", 2, 40)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, v := range results {
//		fmt.Println(v.ID, v.Title)
//	}
//
// Fetch video metadata and streams:
//
//	detail, err := ytscrape.Video(ctx, "dQw4w9WgXcQ")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Title: %s\nAudio streams: %d\n", detail.Title, len(detail.AudioFormats))
//
// Fetch a playlist:
//
//	playlist, err := ytscrape.Playlist(ctx, "https://www.youtube.com/playlist?list=PLxxxx")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range playlist.Entries {
//		fmt.Println(e.ID, e.Title)
//	}
//
// # Configuration
//
// The CLI loads settings from multiple sources:
//
//  1. Environment variables (highest priority)
//  2. Config file (ytscrape.json or ~/.config/ytscrape/ytscrape.json)
//  3. Default values (lowest priority)
//
// Environment variables:
//
//   - YTSCRAPE_LANGUAGE: Response language (PREF cookie hl value)
//   - YTSCRAPE_REGION: Response region (PREF cookie gl value)
//   - YTSCRAPE_PAGES: Default number of search pages
//   - YTSCRAPE_MAX_RESULTS: Default result cap (0 = unbounded)
//   - YTSCRAPE_TIMEOUT: Per-request HTTP timeout
//   - YTSCRAPE_RPS: Outgoing requests per second
//   - YTSCRAPE_PROXY_URL: HTTP proxy for all requests
//   - YTSCRAPE_MAX_RETRIES: Maximum retry attempts
//   - YTSCRAPE_INITIAL_BACKOFF: Initial retry backoff duration
//   - YTSCRAPE_MAX_BACKOFF: Maximum retry backoff duration
//
// # Error Handling
//
// All operations return errors that implement standard Go error handling:
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytscrape.ErrInvalidURL) {
//		fmt.Println("Not a YouTube URL")
//	}
//
// Extracting wrapped error details:
//
//	var httpErr *ytscrape.HTTPError
//	if errors.As(err, &httpErr) {
//		fmt.Printf("YouTube answered %d\n", httpErr.StatusCode)
//	}
//
// # Advanced Usage
//
// For more control, such as pagination, localization or a custom transport,
// use the sub-packages directly:
//
//   - youtube: Search sessions, video, playlist and HLS extraction
//   - youtube/cipher: Protected stream URL recovery
//   - http: Rate-limited, retrying HTTP transport
//   - config: Configuration management for the CLI
//
// Example using the youtube package directly:
//
//	client, err := youtube.New(youtube.WithConcurrentPages())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	session, err := client.Search(ctx, "lofi hip hop", 1, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for session.HasMore() {
//		if err := client.NextPage(ctx, session); err != nil {
//			break
//		}
//	}
package ytscrape
