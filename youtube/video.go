package youtube

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"ytscrape/youtube/innertube"
)

// Thumbnail is one thumbnail rendition of a video or playlist.
type Thumbnail struct {
	URL    string
	Width  int
	Height int
}

// StreamFormat holds the fields shared by audio and video streams. URL is
// fully playable: protected signatures are already deciphered.
type StreamFormat struct {
	Itag           int
	AverageBitrate int
	Bitrate        int
	Codecs         []string
	ContentLength  int64
	URL            string
}

// AudioFormat is an audio stream.
type AudioFormat struct {
	StreamFormat
	Channels   int
	Quality    string
	SampleRate string
}

// VideoFormat is a video stream. Audio is set when the stream muxes an
// audio track alongside the video track.
type VideoFormat struct {
	StreamFormat
	FPS     int
	Quality string
	Audio   *AudioFormat
}

// VideoDetail is the full metadata of one video, including its playable
// stream URLs. FormatErrors records formats dropped because their protected
// URL could not be recovered.
type VideoDetail struct {
	ID              string
	Title           string
	Author          string
	Description     string
	DurationSeconds int
	Duration        string
	IsLive          bool
	Keywords        []string
	Views           int
	Thumbnails      []Thumbnail
	AudioFormats    []AudioFormat
	VideoFormats    []VideoFormat
	HLSVariants     []HLSVariant
	FormatErrors    []*DecryptionError
}

var codecsRe = regexp.MustCompile(`codecs="([^"]+)"`)

// Video fetches a watch page and extracts the video's metadata and stream
// formats. urlOrID accepts any recognized video URL form or a bare ID.
func (c *Client) Video(ctx context.Context, urlOrID string) (*VideoDetail, error) {
	id, err := ExtractVideoID(urlOrID)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Get(ctx, c.baseURL+"/watch?v="+id, c.pageHeaders())
	if err != nil {
		return nil, fmt.Errorf("youtube: fetch watch page: %w", err)
	}

	raw, err := innertube.ExtractObject(resp.Body, innertube.MarkerPlayerResponse)
	if err != nil {
		return nil, fmt.Errorf("youtube: locate player response: %w", err)
	}
	var player innertube.PlayerResponse
	if err := c.codec.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("youtube: decode player response: %w", err)
	}
	if player.VideoDetails == nil {
		return nil, fmt.Errorf("youtube: watch page for %s carries no video details", id)
	}

	detail := newVideoDetail(player.VideoDetails)

	if player.StreamingData != nil {
		// The player script is only needed for protected formats; its
		// absence is fatal only when such a format shows up.
		playerJSURL, jsErr := innertube.ExtractPlayerJSURL(resp.Body)
		c.buildFormats(ctx, detail, player.StreamingData, playerJSURL, jsErr)

		if detail.IsLive && player.StreamingData.HLSManifestURL != "" {
			variants, err := c.fetchHLSVariants(ctx, player.StreamingData.HLSManifestURL)
			if err != nil {
				return nil, err
			}
			detail.HLSVariants = variants
		}
	}

	c.log.Debug().Str("video_id", id).
		Int("audio_formats", len(detail.AudioFormats)).
		Int("video_formats", len(detail.VideoFormats)).
		Int("dropped_formats", len(detail.FormatErrors)).
		Msg("video extracted")
	return detail, nil
}

func newVideoDetail(d *innertube.VideoDetails) *VideoDetail {
	seconds, _ := strconv.Atoi(d.LengthSeconds)
	views, _ := strconv.Atoi(d.ViewCount)

	detail := &VideoDetail{
		ID:              d.VideoID,
		Title:           norm.NFKD.String(d.Title),
		Author:          norm.NFKD.String(d.Author),
		Description:     norm.NFKD.String(d.ShortDescription),
		DurationSeconds: seconds,
		Duration:        formatDuration(seconds),
		IsLive:          d.IsLiveContent,
		Keywords:        d.Keywords,
		Views:           views,
	}
	if d.Thumbnail != nil {
		for _, t := range d.Thumbnail.Thumbnails {
			detail.Thumbnails = append(detail.Thumbnails, Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height})
		}
	}
	return detail
}

// buildFormats classifies the raw descriptors into audio and video formats,
// resolving each one's playable URL. Muxed formats and adaptive formats are
// processed in their wire order. A format whose URL cannot be recovered is
// dropped and recorded, never failing the whole extraction.
func (c *Client) buildFormats(ctx context.Context, detail *VideoDetail, sd *innertube.StreamingData, playerJSURL string, jsErr error) {
	descriptors := make([]innertube.FormatDescriptor, 0, len(sd.Formats)+len(sd.AdaptiveFormats))
	descriptors = append(descriptors, sd.Formats...)
	descriptors = append(descriptors, sd.AdaptiveFormats...)

	for _, f := range descriptors {
		streamURL, err := c.resolveStreamURL(ctx, detail.ID, f, playerJSURL, jsErr)
		if err != nil {
			decErr := &DecryptionError{VideoID: detail.ID, Itag: f.Itag, Err: err}
			detail.FormatErrors = append(detail.FormatErrors, decErr)
			c.log.Warn().Err(decErr).Msg("stream format dropped")
			continue
		}

		contentLength, _ := strconv.ParseInt(f.ContentLength, 10, 64)
		base := StreamFormat{
			Itag:           f.Itag,
			AverageBitrate: f.AverageBitrate,
			Bitrate:        f.Bitrate,
			Codecs:         parseCodecs(f.MimeType),
			ContentLength:  contentLength,
			URL:            streamURL,
		}

		switch {
		case strings.HasPrefix(f.MimeType, "audio/"):
			detail.AudioFormats = append(detail.AudioFormats, newAudioFormat(base, f))
		case strings.HasPrefix(f.MimeType, "video/"):
			vf := VideoFormat{
				StreamFormat: base,
				FPS:          f.FPS,
				Quality:      f.QualityLabel,
			}
			if f.AudioChannels > 0 {
				audio := newAudioFormat(base, f)
				vf.Audio = &audio
			}
			detail.VideoFormats = append(detail.VideoFormats, vf)
		}
	}
}

func newAudioFormat(base StreamFormat, f innertube.FormatDescriptor) AudioFormat {
	return AudioFormat{
		StreamFormat: base,
		Channels:     f.AudioChannels,
		Quality:      audioQualityLabel(f.AudioQuality),
		SampleRate:   f.AudioSampleRate,
	}
}

// resolveStreamURL returns the playable URL of one descriptor. Unprotected
// descriptors carry a percent-encoded url field; protected ones carry a
// signatureCipher bundle that goes through the decrypter.
func (c *Client) resolveStreamURL(ctx context.Context, videoID string, f innertube.FormatDescriptor, playerJSURL string, jsErr error) (string, error) {
	if f.URL != "" {
		decoded, err := url.PathUnescape(f.URL)
		if err != nil {
			return f.URL, nil
		}
		return decoded, nil
	}
	if f.SignatureCipher == "" {
		return "", fmt.Errorf("descriptor carries neither url nor signatureCipher")
	}
	if jsErr != nil {
		return "", fmt.Errorf("locate player script: %w", jsErr)
	}
	return c.decrypter.Decrypt(ctx, f.SignatureCipher, videoID, playerJSURL)
}

// parseCodecs pulls the codec list out of a MIME type such as
// `audio/mp4; codecs="mp4a.40.2"`.
func parseCodecs(mimeType string) []string {
	m := codecsRe.FindStringSubmatch(mimeType)
	if m == nil {
		return nil
	}
	parts := strings.Split(m[1], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// audioQualityLabel turns wire values like AUDIO_QUALITY_MEDIUM into Medium.
func audioQualityLabel(raw string) string {
	q := strings.TrimPrefix(raw, "AUDIO_QUALITY_")
	if q == "" {
		return ""
	}
	return strings.ToUpper(q[:1]) + strings.ToLower(q[1:])
}

// formatDuration renders seconds as h:mm:ss, omitting the hour part when
// zero.
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
