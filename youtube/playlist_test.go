package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

const playlistDataJSON = `{
	"header":{"playlistHeaderRenderer":{
		"playlistId":"PLtest123",
		"ownerText":{"runs":[{"text":"Curator"}]},
		"ownerEndpoint":{"browseEndpoint":{"browseId":"UCtest","canonicalBaseUrl":"/@curator"}},
		"descriptionText":{"simpleText":"header description"},
		"numVideosText":{"runs":[{"text":"42 videos"}]},
		"viewCountText":{"simpleText":"1,234,567 views"},
		"playlistHeaderBanner":{"heroPlaylistThumbnailRenderer":{"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/pl.jpg","width":640,"height":360}]}}}
	}},
	"metadata":{"playlistMetadataRenderer":{"title":"My Playlist","description":"meta description"}},
	"contents":{"twoColumnBrowseResultsRenderer":{"tabs":[{"tabRenderer":{"content":{"sectionListRenderer":{"contents":[
		{"itemSectionRenderer":{"contents":[{"playlistVideoListRenderer":{"contents":[
			{"playlistVideoRenderer":{"videoId":"aaaaaaa0001","title":{"runs":[{"text":"Entry One"}]},"lengthText":{"simpleText":"3.05"},"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/vi/aaaaaaa0001/default.jpg"}]}}},
			{"playlistVideoRenderer":{"videoId":"aaaaaaa0002","title":{"runs":[{"text":"Entry Two"}]},"lengthText":{"simpleText":"1:02:03"}}},
			{"continuationItemRenderer":{}}
		]}}]}}
	]}}}}]}}
}`

func playlistHandler(data string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlist" || r.URL.Query().Get("list") == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<!DOCTYPE html><html><body><script>var ytInitialData = %s;</script></body></html>`, data)
	})
}

func TestPlaylist(t *testing.T) {
	c := newTestClient(t, playlistHandler(playlistDataJSON))

	detail, err := c.Playlist(context.Background(), "https://www.youtube.com/playlist?list=PLtest123")
	if err != nil {
		t.Fatalf("Playlist() error = %v", err)
	}

	if detail.ID != "PLtest123" {
		t.Errorf("ID = %q", detail.ID)
	}
	if detail.Title != "My Playlist" || detail.Description != "meta description" {
		t.Errorf("title/description = %q %q", detail.Title, detail.Description)
	}
	if detail.AuthorName != "Curator" {
		t.Errorf("AuthorName = %q", detail.AuthorName)
	}
	if want := c.baseURL + "/@curator"; detail.AuthorURL != want {
		t.Errorf("AuthorURL = %q, want %q", detail.AuthorURL, want)
	}
	if detail.VideoCount != 42 {
		t.Errorf("VideoCount = %d, want 42", detail.VideoCount)
	}
	if detail.Views != 1234567 {
		t.Errorf("Views = %d, want 1234567", detail.Views)
	}
	if len(detail.Thumbnails) != 1 {
		t.Errorf("Thumbnails = %v", detail.Thumbnails)
	}

	if len(detail.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(detail.Entries))
	}
	first := detail.Entries[0]
	if first.ID != "aaaaaaa0001" || first.Title != "Entry One" {
		t.Errorf("first entry = %+v", first)
	}
	if first.Duration != "3:05" {
		t.Errorf("Duration = %q, dotted separators must be normalized", first.Duration)
	}
	if len(first.Thumbnails) != 1 {
		t.Errorf("entry thumbnails = %v", first.Thumbnails)
	}
	if detail.Entries[1].Duration != "1:02:03" {
		t.Errorf("second entry duration = %q", detail.Entries[1].Duration)
	}
}

func TestPlaylist_InvalidURL(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	if _, err := c.Playlist(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ"); !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
}

func TestPlaylistEntryEqual(t *testing.T) {
	a := PlaylistEntry{ID: "aaaaaaa0001", Title: "x"}
	if !a.Equal(PlaylistEntry{ID: "aaaaaaa0001", Title: "y"}) {
		t.Error("entries with equal IDs must compare equal")
	}
	if a.Equal(PlaylistEntry{ID: "bbbbbbb0001"}) {
		t.Error("entries with different IDs must not compare equal")
	}
}

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"42 videos", 42},
		{"1,234,567 views", 1234567},
		{"1.234 Aufrufe", 1234},
		{"No views", 0},
		{"", 0},
		{"987", 987},
	}
	for _, tt := range tests {
		if got := leadingNumber(tt.in); got != tt.want {
			t.Errorf("leadingNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
