// Package cipher recovers playable stream URLs from protected format
// descriptors. Protected formats ship a signatureCipher bundle instead of a
// plain URL; the scrambled signature must be run through transform
// operations defined in the page's player script, and the URL's n parameter
// through a second transform, before the URL is accepted by the CDN.
package cipher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/dop251/goja"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	ythttp "ytscrape/http"
)

// ErrNoSignature indicates a signatureCipher bundle without the expected
// s and url fields.
var ErrNoSignature = errors.New("cipher: bundle carries no signature")

// playerCacheSize bounds the number of distinct player scripts kept parsed
// in memory. YouTube rotates the script every few days, so a handful covers
// any realistic client lifetime.
const playerCacheSize = 8

type decipherOp func([]byte) []byte

// Cipher fetches and caches player scripts and applies their transforms.
// Safe for concurrent use.
type Cipher struct {
	http    *ythttp.Client
	baseURL string
	cache   *lru.Cache[string, *playerScript]
	log     zerolog.Logger
}

type playerScript struct {
	ops   []decipherOp
	nBody string
}

// New returns a Cipher that resolves player script paths against baseURL.
func New(httpClient *ythttp.Client, baseURL string, log zerolog.Logger) (*Cipher, error) {
	cache, err := lru.New[string, *playerScript](playerCacheSize)
	if err != nil {
		return nil, err
	}
	return &Cipher{
		http:    httpClient,
		baseURL: baseURL,
		cache:   cache,
		log:     log.With().Str("component", "cipher").Logger(),
	}, nil
}

// Decrypt takes a raw signatureCipher bundle and returns the playable stream
// URL. The bundle is an URL-encoded triple of s (scrambled signature), sp
// (query parameter name for the deciphered signature, "signature" when
// absent) and url (the bare stream URL).
func (c *Cipher) Decrypt(ctx context.Context, bundle, videoID, playerJSURL string) (string, error) {
	vals, err := url.ParseQuery(bundle)
	if err != nil {
		return "", fmt.Errorf("cipher: parse bundle: %w", err)
	}
	sig := vals.Get("s")
	streamURL := vals.Get("url")
	if sig == "" || streamURL == "" {
		return "", ErrNoSignature
	}
	sp := vals.Get("sp")
	if sp == "" {
		sp = "signature"
	}

	script, err := c.player(ctx, playerJSURL)
	if err != nil {
		return "", err
	}

	bs := []byte(sig)
	for _, op := range script.ops {
		bs = op(bs)
	}

	u, err := url.Parse(streamURL)
	if err != nil {
		return "", fmt.Errorf("cipher: parse stream url: %w", err)
	}
	query := u.Query()
	query.Set(sp, string(bs))

	// The n parameter throttles playback when left untransformed; a failed
	// transform still yields a usable, if slow, URL.
	if n := query.Get("n"); n != "" && script.nBody != "" {
		decoded, err := evalPlayerFunc(script.nBody, n)
		if err != nil {
			c.log.Warn().Err(err).Str("video_id", videoID).Msg("n parameter transform failed")
		} else {
			query.Set("n", decoded)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (c *Cipher) player(ctx context.Context, jsURL string) (*playerScript, error) {
	if script, ok := c.cache.Get(jsURL); ok {
		return script, nil
	}
	resp, err := c.http.Get(ctx, c.baseURL+jsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cipher: fetch player script: %w", err)
	}
	ops, err := parseDecipherOps(resp.Body)
	if err != nil {
		return nil, err
	}
	script := &playerScript{ops: ops}
	nBody, err := nFunctionBody(resp.Body)
	if err != nil {
		c.log.Debug().Err(err).Str("js_url", jsURL).Msg("n function not located in player script")
	} else {
		script.nBody = nBody
	}
	c.cache.Add(jsURL, script)
	c.log.Debug().Str("js_url", jsURL).Int("ops", len(ops)).Msg("player script parsed")
	return script, nil
}

const (
	jsvarStr   = "[a-zA-Z_\\$][a-zA-Z_0-9]*"
	reverseStr = ":function\\(a\\)\\{" +
		"(?:return )?a\\.reverse\\(\\)" +
		"\\}"
	spliceStr = ":function\\(a,b\\)\\{" +
		"a\\.splice\\(0,b\\)" +
		"\\}"
	swapStr = ":function\\(a,b\\)\\{" +
		"var c=a\\[0\\];a\\[0\\]=a\\[b(?:%a\\.length)?\\];a\\[b(?:%a\\.length)?\\]=c(?:;return a)?" +
		"\\}"
)

var (
	nFunctionNameRegexp = regexp.MustCompile("\\.get\\(\"n\"\\)\\)&&\\(b=([a-zA-Z0-9$]{0,3})\\[(\\d+)\\](.+)\\|\\|([a-zA-Z0-9]{0,3})")
	actionsObjRegexp    = regexp.MustCompile(fmt.Sprintf(
		"var (%s)=\\{((?:(?:%s%s|%s%s|%s%s),?\\n?)+)\\};", jsvarStr, jsvarStr, swapStr, jsvarStr, spliceStr, jsvarStr, reverseStr))
	actionsFuncRegexp = regexp.MustCompile(fmt.Sprintf(
		"function(?: %s)?\\(a\\)\\{"+
			"a=a\\.split\\(\"\"\\);\\s*"+
			"((?:(?:a=)?%s\\.%s\\(a,\\d+\\);)+)"+
			"return a\\.join\\(\"\"\\)"+
			"\\}", jsvarStr, jsvarStr, jsvarStr))
	reverseRegexp = regexp.MustCompile(fmt.Sprintf("(?m)(?:^|,)(%s)%s", jsvarStr, reverseStr))
	spliceRegexp  = regexp.MustCompile(fmt.Sprintf("(?m)(?:^|,)(%s)%s", jsvarStr, spliceStr))
	swapRegexp    = regexp.MustCompile(fmt.Sprintf("(?m)(?:^|,)(%s)%s", jsvarStr, swapStr))
)

func parseDecipherOps(script []byte) ([]decipherOp, error) {
	objResult := actionsObjRegexp.FindSubmatch(script)
	funcResult := actionsFuncRegexp.FindSubmatch(script)
	if len(objResult) < 3 || len(funcResult) < 2 {
		return nil, fmt.Errorf("cipher: error parsing signature tokens (#obj=%d, #func=%d)", len(objResult), len(funcResult))
	}
	obj := objResult[1]
	objBody := objResult[2]
	funcBody := funcResult[1]

	var reverseKey, spliceKey, swapKey string
	if result := reverseRegexp.FindSubmatch(objBody); len(result) > 1 {
		reverseKey = string(result[1])
	}
	if result := spliceRegexp.FindSubmatch(objBody); len(result) > 1 {
		spliceKey = string(result[1])
	}
	if result := swapRegexp.FindSubmatch(objBody); len(result) > 1 {
		swapKey = string(result[1])
	}

	regex, err := regexp.Compile(fmt.Sprintf("(?:a=)?%s\\.(%s|%s|%s)\\(a,(\\d+)\\)",
		regexp.QuoteMeta(string(obj)), regexp.QuoteMeta(reverseKey), regexp.QuoteMeta(spliceKey), regexp.QuoteMeta(swapKey)))
	if err != nil {
		return nil, err
	}

	var ops []decipherOp
	for _, s := range regex.FindAllSubmatch(funcBody, -1) {
		switch string(s[1]) {
		case reverseKey:
			ops = append(ops, reverseOp)
		case swapKey:
			arg, _ := strconv.Atoi(string(s[2]))
			ops = append(ops, newSwapOp(arg))
		case spliceKey:
			arg, _ := strconv.Atoi(string(s[2]))
			ops = append(ops, newSpliceOp(arg))
		}
	}
	return ops, nil
}

func reverseOp(bs []byte) []byte {
	l, r := 0, len(bs)-1
	for l < r {
		bs[l], bs[r] = bs[r], bs[l]
		l++
		r--
	}
	return bs
}

func newSwapOp(arg int) decipherOp {
	return func(bs []byte) []byte {
		pos := arg % len(bs)
		bs[0], bs[pos] = bs[pos], bs[0]
		return bs
	}
}

func newSpliceOp(pos int) decipherOp {
	return func(bs []byte) []byte {
		return bs[pos:]
	}
}

// nFunctionBody locates the n parameter transform inside a player script and
// returns its full source, ready to hand to the JS interpreter.
func nFunctionBody(script []byte) (string, error) {
	nameResult := nFunctionNameRegexp.FindSubmatch(script)
	if len(nameResult) == 0 {
		return "", errors.New("cipher: unable to extract n function name")
	}

	var name string
	if idx, _ := strconv.Atoi(string(nameResult[2])); idx == 0 {
		name = string(nameResult[4])
	} else {
		name = string(nameResult[1])
	}
	return extractFunction(script, name)
}

// extractFunction cuts the definition of name out of script by brace
// counting, skipping braces inside string literals.
func extractFunction(script []byte, name string) (string, error) {
	def := []byte(name + "=function(")
	start := bytes.Index(script, def)
	if start < 1 {
		return "", fmt.Errorf("cipher: unable to extract function body for %q", name)
	}

	pos := start + bytes.IndexByte(script[start:], '{') + 1

	var strChar byte
	for brackets := 1; brackets > 0; pos++ {
		if pos >= len(script) {
			return "", fmt.Errorf("cipher: unterminated function body for %q", name)
		}
		b := script[pos]
		switch b {
		case '{':
			if strChar == 0 {
				brackets++
			}
		case '}':
			if strChar == 0 {
				brackets--
			}
		case '`', '"', '\'':
			if script[pos-1] == '\\' && script[pos-2] != '\\' {
				continue
			}
			if strChar == 0 {
				strChar = b
			} else if strChar == b {
				strChar = 0
			}
		}
	}

	return string(script[start:pos]), nil
}

func evalPlayerFunc(jsFunction, arg string) (string, error) {
	const fnName = "transform"

	vm := goja.New()
	if _, err := vm.RunString(fnName + "=" + jsFunction); err != nil {
		return "", err
	}

	var output func(string) string
	if err := vm.ExportTo(vm.Get(fnName), &output); err != nil {
		return "", err
	}
	return output(arg), nil
}
