// Package youtube extracts search results, video metadata, stream URLs and
// playlists from YouTube's web pages and internal API, without an API key.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"

	ythttp "ytscrape/http"
	"ytscrape/youtube/cipher"
)

// BaseURL is the YouTube web origin all page and API paths resolve against.
const BaseURL = "https://www.youtube.com"

var (
	videoURLRe = regexp.MustCompile(`^(?:https?://)(?:youtu\.be/|(?:www\.|m\.)?youtube\.com/(?:(?:watch|v|embed|live)(?:\?v=|/)|shorts/))(?P<video_id>[a-zA-Z0-9_-]{7,15})`)

	playlistURLRe = regexp.MustCompile(`^(?:https?://)(?:www\.)?(?:youtube\.com/playlist\?list=)(?P<playlist_id>[a-zA-Z0-9_-]+)`)

	videoIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{7,15}$`)
)

// Codec serializes and deserializes the JSON payloads exchanged with
// YouTube. The default uses encoding/json; swap it to plug in a faster
// implementation without touching any other configuration.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Decrypter recovers a playable stream URL from a raw signatureCipher
// bundle. Implementations fetch whatever player script state they need via
// playerJSURL.
type Decrypter interface {
	Decrypt(ctx context.Context, bundle, videoID, playerJSURL string) (string, error)
}

// Client scrapes YouTube. Construct with New; the zero value is not usable.
// A Client is safe for concurrent use.
type Client struct {
	http            *ythttp.Client
	codec           Codec
	log             zerolog.Logger
	baseURL         string
	decrypter       Decrypter
	concurrentPages bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithCodec replaces the JSON codec.
func WithCodec(codec Codec) Option {
	return func(c *Client) { c.codec = codec }
}

// WithBaseURL points the client at a different origin. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient supplies a pre-configured transport, for custom timeouts,
// proxies or rate limits.
func WithHTTPClient(httpClient *ythttp.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithDecrypter replaces the stream URL decrypter.
func WithDecrypter(d Decrypter) Option {
	return func(c *Client) { c.decrypter = d }
}

// WithConcurrentPages makes Search fetch continuation pages with a bounded
// worker group instead of sequentially. Result ordering across pages is not
// preserved in this mode.
func WithConcurrentPages() Option {
	return func(c *Client) { c.concurrentPages = true }
}

// New creates a Client. Without options it talks to youtube.com through a
// rate-limited default transport and decrypts protected streams with the
// built-in player script interpreter.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		codec:   jsonCodec{},
		log:     zerolog.Nop(),
		baseURL: BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		httpClient, err := ythttp.New(nil)
		if err != nil {
			return nil, fmt.Errorf("youtube: create http client: %w", err)
		}
		c.http = httpClient
	}
	if c.decrypter == nil {
		d, err := cipher.New(c.http, c.baseURL, c.log)
		if err != nil {
			return nil, fmt.Errorf("youtube: create decrypter: %w", err)
		}
		c.decrypter = d
	}
	return c, nil
}

// SetLocalization sets the PREF cookie controlling the language and region
// of subsequent responses, for example ("en", "US").
func (c *Client) SetLocalization(language, region string) error {
	return c.http.SetCookie(c.baseURL, &http.Cookie{
		Name:  "PREF",
		Value: fmt.Sprintf("hl=%s&gl=%s", language, region),
	})
}

// Close releases idle transport resources. The Client must not be used
// afterwards.
func (c *Client) Close() error {
	return c.http.Close()
}

// pageHeaders returns the headers sent with page and API requests.
func (c *Client) pageHeaders() map[string]string {
	return map[string]string{
		"Origin":  c.baseURL,
		"Referer": c.baseURL + "/",
	}
}

// ExtractVideoID pulls the video ID out of any recognized video URL form,
// or validates urlOrID as a bare ID. Returns ErrInvalidURL otherwise.
func ExtractVideoID(urlOrID string) (string, error) {
	if m := videoURLRe.FindStringSubmatch(urlOrID); m != nil {
		return m[videoURLRe.SubexpIndex("video_id")], nil
	}
	if videoIDRe.MatchString(urlOrID) {
		return urlOrID, nil
	}
	return "", fmt.Errorf("%w: %q is not a video URL or ID", ErrInvalidURL, urlOrID)
}

// ExtractPlaylistID pulls the playlist ID out of a playlist URL. Returns
// ErrInvalidURL for anything else.
func ExtractPlaylistID(url string) (string, error) {
	if m := playlistURLRe.FindStringSubmatch(url); m != nil {
		return m[playlistURLRe.SubexpIndex("playlist_id")], nil
	}
	return "", fmt.Errorf("%w: %q is not a playlist URL", ErrInvalidURL, url)
}
