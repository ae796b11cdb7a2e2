package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"ytscrape/youtube/innertube"
)

// VideoPreview is one search result. Its fields come from the result list
// page only; fetching the full watch page is Video's job.
type VideoPreview struct {
	ID          string
	Title       string
	Channel     string
	ChannelURL  string
	Description string
	Duration    string
	Views       string
	PublishTime string
	Thumbnails  []string
	URLSuffix   string
}

// Equal reports whether two previews refer to the same video.
func (v VideoPreview) Equal(other VideoPreview) bool {
	return v.ID == other.ID
}

// URL returns the watch URL of the preview on the canonical youtube.com
// origin. Callers pointing a client at another origin via WithBaseURL can
// resolve URLSuffix against that origin instead.
func (v VideoPreview) URL() string {
	return BaseURL + v.URLSuffix
}

// SearchSession accumulates the results of one query across pages. Obtain
// one from Client.Search and page it forward with Client.NextPage. Safe for
// concurrent use.
type SearchSession struct {
	id         uuid.UUID
	query      string
	maxResults int
	base       string

	mu           sync.Mutex
	searched     bool
	apiKey       string
	context      json.RawMessage
	continuation string
	results      []VideoPreview
}

// ID returns the session correlation ID used in log lines.
func (s *SearchSession) ID() uuid.UUID { return s.id }

// Query returns the search query the session was created with.
func (s *SearchSession) Query() string { return s.query }

// Results returns a copy of the results accumulated so far.
func (s *SearchSession) Results() []VideoPreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VideoPreview, len(s.results))
	copy(out, s.results)
	return out
}

// Count returns the number of results accumulated so far.
func (s *SearchSession) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Flush discards the accumulated results, keeping the pagination state so
// the next page appends into an empty slice.
func (s *SearchSession) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
}

// HasMore reports whether another page can be fetched.
func (s *SearchSession) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.continuation != ""
}

// Search runs a query and returns a session holding up to pages pages of
// results. maxResults caps the total number of accumulated results; zero
// means unbounded, negative is rejected before any network traffic.
func (c *Client) Search(ctx context.Context, query string, pages, maxResults int) (*SearchSession, error) {
	if maxResults < 0 {
		return nil, ErrNegativeMaxResults
	}
	if pages < 1 {
		pages = 1
	}

	session := &SearchSession{
		id:         uuid.New(),
		query:      query,
		maxResults: maxResults,
		base:       c.baseURL,
	}
	log := c.log.With().Stringer("session_id", session.id).Str("query", query).Logger()

	searchURL := c.baseURL + "/results?search_query=" + url.QueryEscape(query)
	resp, err := c.http.Get(ctx, searchURL, c.pageHeaders())
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch search page: %w", err)
	}
	if err := c.parseSearchPage(session, resp.Body); err != nil {
		return nil, err
	}
	log.Debug().Int("results", session.Count()).Msg("first search page parsed")

	if c.concurrentPages {
		err = c.fetchPagesConcurrent(ctx, session, pages-1)
	} else {
		err = c.fetchPagesSequential(ctx, session, pages-1)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Int("results", session.Count()).Bool("has_more", session.HasMore()).Msg("search complete")
	return session, nil
}

func (c *Client) fetchPagesSequential(ctx context.Context, session *SearchSession, extra int) error {
	for i := 0; i < extra && session.HasMore(); i++ {
		if err := c.NextPage(ctx, session); err != nil {
			return err
		}
	}
	return nil
}

// fetchPagesConcurrent posts the remaining page requests in parallel. Every
// request reuses the most recent token observed at dispatch, so pages may
// overlap and arrive out of order; the token written last wins.
func (c *Client) fetchPagesConcurrent(ctx context.Context, session *SearchSession, extra int) error {
	if extra < 1 || !session.HasMore() {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := 0; i < extra; i++ {
		g.Go(func() error {
			return c.NextPage(ctx, session)
		})
	}
	return g.Wait()
}

// NextPage fetches one continuation page into the session. Calling it on a
// session whose initial search never ran returns ErrNoSearch; calling it
// after the results are exhausted is a no-op.
func (c *Client) NextPage(ctx context.Context, session *SearchSession) error {
	session.mu.Lock()
	if !session.searched {
		session.mu.Unlock()
		return ErrNoSearch
	}
	token := session.continuation
	apiKey := session.apiKey
	innertubeCtx := session.context
	session.mu.Unlock()

	if token == "" {
		return nil
	}

	payload, err := c.codec.Marshal(innertube.SearchPayload{
		Context:      innertubeCtx,
		Continuation: token,
	})
	if err != nil {
		return fmt.Errorf("youtube: marshal continuation payload: %w", err)
	}

	endpoint := c.baseURL + "/youtubei/v1/search?key=" + apiKey + "&prettyPrint=false"
	headers := c.pageHeaders()
	headers["Content-Type"] = "application/json"
	resp, err := c.http.Post(ctx, endpoint, payload, headers)
	if err != nil {
		return fmt.Errorf("youtube: fetch continuation page: %w", err)
	}

	var parsed innertube.SearchResponse
	if err := c.codec.Unmarshal(resp.Body, &parsed); err != nil {
		return fmt.Errorf("youtube: decode continuation response: %w", err)
	}
	sections := parsed.ContinuationSections()

	session.mu.Lock()
	defer session.mu.Unlock()
	session.continuation = innertube.NextContinuation(sections)
	session.appendSectionsLocked(sections)
	return nil
}

// parseSearchPage extracts the embedded result data and pagination state
// from a raw search results page.
func (c *Client) parseSearchPage(session *SearchSession, body []byte) error {
	raw, err := innertube.ExtractObject(body, innertube.MarkerInitialData)
	if err != nil {
		return fmt.Errorf("youtube: locate search data: %w", err)
	}
	apiKey, err := innertube.ExtractAPIKey(body)
	if err != nil {
		return fmt.Errorf("youtube: locate api key: %w", err)
	}
	innertubeCtx, err := innertube.ExtractContext(body)
	if err != nil {
		return fmt.Errorf("youtube: locate innertube context: %w", err)
	}
	token, err := innertube.ExtractContinuation(body)
	if err != nil {
		return fmt.Errorf("youtube: locate continuation token: %w", err)
	}

	var parsed innertube.SearchResponse
	if err := c.codec.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("youtube: decode search data: %w", err)
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.searched = true
	session.apiKey = apiKey
	session.context = json.RawMessage(innertubeCtx)
	session.continuation = token
	session.appendSectionsLocked(parsed.FirstPageSections())
	return nil
}

// appendSectionsLocked normalizes section nodes into previews, enforcing the
// result cap mid-page. Callers hold s.mu.
func (s *SearchSession) appendSectionsLocked(sections []innertube.SectionContent) {
	for _, section := range sections {
		if section.ItemSectionRenderer == nil {
			continue
		}
		for _, item := range section.ItemSectionRenderer.Contents {
			if s.maxResults > 0 && len(s.results) >= s.maxResults {
				s.continuation = ""
				return
			}
			if item.VideoRenderer == nil || item.VideoRenderer.VideoID == "" {
				continue
			}
			s.results = append(s.results, newVideoPreview(item.VideoRenderer, s.base))
		}
	}
}

func newVideoPreview(r *innertube.VideoRenderer, base string) VideoPreview {
	preview := VideoPreview{
		ID:          r.VideoID,
		Title:       norm.NFKD.String(r.Title.GetText()),
		Duration:    r.LengthText.Value(),
		Views:       r.ViewCountText.Value(),
		PublishTime: r.PublishedTimeText.Value(),
	}

	channel := r.OwnerText
	if channel == nil {
		channel = r.LongBylineText
	}
	preview.Channel = norm.NFKD.String(channel.GetText())
	if channel != nil && len(channel.Runs) > 0 {
		if ep := channel.Runs[0].NavigationEndpoint; ep != nil &&
			ep.CommandMetadata != nil && ep.CommandMetadata.WebCommandMetadata != nil {
			preview.ChannelURL = base + ep.CommandMetadata.WebCommandMetadata.URL
		}
	}

	if len(r.DetailedMetadataSnippets) > 0 {
		preview.Description = norm.NFKD.String(r.DetailedMetadataSnippets[0].SnippetText.GetText())
	}
	if r.NavigationEndpoint != nil && r.NavigationEndpoint.CommandMetadata != nil &&
		r.NavigationEndpoint.CommandMetadata.WebCommandMetadata != nil {
		preview.URLSuffix = r.NavigationEndpoint.CommandMetadata.WebCommandMetadata.URL
	}
	if r.Thumbnail != nil {
		for _, t := range r.Thumbnail.Thumbnails {
			preview.Thumbnails = append(preview.Thumbnails, t.URL)
		}
	}
	return preview
}
