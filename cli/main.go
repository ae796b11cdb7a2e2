package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"ytscrape/config"
	ythttp "ytscrape/http"
	"ytscrape/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "search":
		cmdSearch(args)
	case "video":
		cmdVideo(args)
	case "playlist":
		cmdPlaylist(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		// Assume it's a search query for convenience
		cmdSearch(os.Args[1:])
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytscrape - YouTube metadata scraper (no API key required)

Usage:
  ytscrape search [flags] <query>        Search for videos
  ytscrape video [flags] <url-or-id>     Show video metadata and stream URLs
  ytscrape playlist [flags] <url>        List the entries of a playlist
  ytscrape help                          Show this help message

Examples:
  ytscrape search "lofi hip hop"                     # First page of results
  ytscrape search --pages 3 --max 50 "lofi hip hop"  # Paginate
  ytscrape video dQw4w9WgXcQ                         # Metadata + streams
  ytscrape video --json dQw4w9WgXcQ                  # Raw JSON output
  ytscrape playlist https://www.youtube.com/playlist?list=PLxxxx

For help on specific command: ytscrape <command> -h
`)
}

// newClient builds a youtube client from the loaded configuration.
func newClient(cfg *config.Config, verbose bool, extra ...youtube.Option) (*youtube.Client, error) {
	httpCfg := ythttp.DefaultConfig()
	httpCfg.Timeout = cfg.Timeout
	httpCfg.RequestsPerSecond = cfg.RequestsPerSecond
	httpCfg.ProxyURL = cfg.ProxyURL
	httpCfg.Retry.MaxRetries = cfg.MaxRetries
	httpCfg.Retry.InitialBackoff = cfg.InitialBackoff
	httpCfg.Retry.MaxBackoff = cfg.MaxBackoff

	httpClient, err := ythttp.New(httpCfg)
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	opts := append([]youtube.Option{
		youtube.WithHTTPClient(httpClient),
		youtube.WithLogger(log),
	}, extra...)
	client, err := youtube.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := client.SetLocalization(cfg.Language, cfg.Region); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func cmdSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	pages := fs.Int("pages", 0, "Number of result pages to fetch (0 = config default)")
	maxResults := fs.Int("max", -1, "Maximum results to accumulate (0 = unbounded, -1 = config default)")
	concurrent := fs.Bool("concurrent", false, "Fetch continuation pages concurrently")
	asJSON := fs.Bool("json", false, "Print results as JSON")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscrape search [flags] <query>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing query\n")
		fs.Usage()
		os.Exit(1)
	}
	query := strings.Join(argv, " ")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *pages == 0 {
		*pages = cfg.Pages
	}
	if *maxResults < 0 {
		*maxResults = cfg.MaxResults
	}

	var opts []youtube.Option
	if *concurrent {
		opts = append(opts, youtube.WithConcurrentPages())
	}
	client, err := newClient(cfg, *verbose, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*3)
	defer cancel()

	session, err := client.Search(ctx, query, *pages, *maxResults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		os.Exit(1)
	}
	results := session.Results()

	if *asJSON {
		printJSON(results)
		return
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIDEO ID\tTITLE\tCHANNEL\tDURATION\tVIEWS")
	for _, v := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			truncate(v.Title, 50),
			truncate(v.Channel, 25),
			v.Duration,
			v.Views,
		)
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "\nTotal: %d results", len(results))
	if session.HasMore() {
		fmt.Fprint(os.Stderr, " (more available)")
	}
	fmt.Fprintln(os.Stderr)
}

func cmdVideo(args []string) {
	fs := flag.NewFlagSet("video", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print metadata as JSON")
	showStreams := fs.Bool("streams", false, "Print full stream URLs")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscrape video [flags] <url-or-id>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing url-or-id\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	client, err := newClient(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*3)
	defer cancel()

	detail, err := client.Video(ctx, argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching video: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		printJSON(detail)
		return
	}

	fmt.Printf("Video ID:    %s\n", detail.ID)
	fmt.Printf("Title:       %s\n", detail.Title)
	fmt.Printf("Author:      %s\n", detail.Author)
	fmt.Printf("Duration:    %s\n", detail.Duration)
	fmt.Printf("Views:       %d\n", detail.Views)
	fmt.Printf("Live:        %v\n", detail.IsLive)
	if len(detail.Keywords) > 0 {
		fmt.Printf("Keywords:    %s\n", strings.Join(detail.Keywords, ", "))
	}

	fmt.Printf("\nStreams: %d audio, %d video", len(detail.AudioFormats), len(detail.VideoFormats))
	if len(detail.FormatErrors) > 0 {
		fmt.Printf(" (%d dropped)", len(detail.FormatErrors))
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITAG\tKIND\tQUALITY\tCODECS\tBITRATE")
	for _, f := range detail.AudioFormats {
		fmt.Fprintf(w, "%d\taudio\t%s\t%s\t%d\n", f.Itag, f.Quality, strings.Join(f.Codecs, ","), f.Bitrate)
	}
	for _, f := range detail.VideoFormats {
		kind := "video"
		if f.Audio != nil {
			kind = "muxed"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", f.Itag, kind, f.Quality, strings.Join(f.Codecs, ","), f.Bitrate)
	}
	w.Flush()

	if *showStreams {
		fmt.Println()
		for _, f := range detail.AudioFormats {
			fmt.Printf("[%d] %s\n", f.Itag, f.URL)
		}
		for _, f := range detail.VideoFormats {
			fmt.Printf("[%d] %s\n", f.Itag, f.URL)
		}
	}

	if len(detail.HLSVariants) > 0 {
		fmt.Printf("\nHLS variants: %d\n", len(detail.HLSVariants))
		for _, v := range detail.HLSVariants {
			fmt.Printf("  %s @%d %s\n", v.Resolution, v.Bandwidth, v.URL)
		}
	}
}

func cmdPlaylist(args []string) {
	fs := flag.NewFlagSet("playlist", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print playlist as JSON")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytscrape playlist [flags] <url>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing playlist url\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	client, err := newClient(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*3)
	defer cancel()

	detail, err := client.Playlist(ctx, argv[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching playlist: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		printJSON(detail)
		return
	}

	fmt.Printf("Playlist:  %s\n", detail.Title)
	fmt.Printf("Author:    %s\n", detail.AuthorName)
	fmt.Printf("Videos:    %d\n", detail.VideoCount)
	fmt.Printf("Views:     %d\n", detail.Views)
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VIDEO ID\tTITLE\tDURATION")
	for _, e := range detail.Entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, truncate(e.Title, 60), e.Duration)
	}
	w.Flush()

	fmt.Fprintf(os.Stderr, "\nTotal: %d entries\n", len(detail.Entries))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
