package youtube

import (
	"reflect"
	"testing"
)

func TestParseHLS(t *testing.T) {
	manifest := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=831000,CODECS="mp4a.40.2,avc1.42001E",RESOLUTION=640x360,FRAME-RATE=30
https://example.com/variant1.m3u8

#EXT-X-STREAM-INF:BANDWIDTH=2149000,CODECS="mp4a.40.2,avc1.4d401f",RESOLUTION=1280x720,FRAME-RATE=59.94
https://example.com/variant2.m3u8
#junk-comment
https://example.com/not-a-variant.m3u8`

	variants := ParseHLS(manifest)
	if len(variants) != 2 {
		t.Fatalf("got %d variants, want 2", len(variants))
	}

	want := HLSVariant{
		Bandwidth:  831000,
		Codecs:     []string{"mp4a.40.2", "avc1.42001E"},
		FrameRate:  30,
		Resolution: "640x360",
		URL:        "https://example.com/variant1.m3u8",
	}
	if !reflect.DeepEqual(variants[0], want) {
		t.Errorf("variant[0] = %+v, want %+v", variants[0], want)
	}

	if variants[1].FrameRate != 59 {
		t.Errorf("FrameRate = %d, want integer part 59", variants[1].FrameRate)
	}
	if variants[1].Resolution != "1280x720" {
		t.Errorf("Resolution = %q", variants[1].Resolution)
	}
	if variants[1].URL != "https://example.com/variant2.m3u8" {
		t.Errorf("URL = %q", variants[1].URL)
	}
}

func TestParseHLS_StreamInfWithoutURL(t *testing.T) {
	manifest := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=831000,RESOLUTION=640x360
#EXT-X-ENDLIST`
	if got := ParseHLS(manifest); len(got) != 0 {
		t.Errorf("got %d variants, a tag without a URL line yields none", len(got))
	}
}

func TestParseHLS_Empty(t *testing.T) {
	if got := ParseHLS(""); len(got) != 0 {
		t.Errorf("ParseHLS(\"\") = %v, want empty", got)
	}
}
