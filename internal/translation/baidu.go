package translation

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"horse.fit/polyglot/internal/language"
)

const (
	// DefaultBaiduEndpoint is the Baidu Fanyi general translation endpoint.
	DefaultBaiduEndpoint = "https://fanyi-api.baidu.com/api/trans/vip/translate"

	baiduModelName  = "baidu-translate"
	baiduConfidence = 0.82
)

// BaiduOptions configures the Baidu provider.
type BaiduOptions struct {
	AppID     string
	SecretKey string
	Endpoint  string
	Timeout   time.Duration
}

// BaiduProvider translates text through the Baidu Fanyi API.
type BaiduProvider struct {
	appID     string
	secretKey string
	endpoint  string
	client    *http.Client
	salt      func() string
}

func NewBaiduProvider(opts BaiduOptions) *BaiduProvider {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = DefaultBaiduEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BaiduProvider{
		appID:     strings.TrimSpace(opts.AppID),
		secretKey: strings.TrimSpace(opts.SecretKey),
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
		salt: func() string {
			return strconv.Itoa(32768 + rand.Intn(32769))
		},
	}
}

func (p *BaiduProvider) Name() string {
	return "baidu"
}

func (p *BaiduProvider) Confidence() float64 {
	return baiduConfidence
}

func (p *BaiduProvider) Translate(ctx context.Context, req Request) (*Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	sourceLang := language.NormalizeCode(req.SourceLang)
	if sourceLang == "" {
		sourceLang = "auto"
	}

	salt := p.salt()
	sum := md5.Sum([]byte(p.appID + text + salt + p.secretKey))
	sign := hex.EncodeToString(sum[:])

	form := url.Values{}
	form.Set("q", text)
	form.Set("from", sourceLang)
	form.Set("to", language.NormalizeCode(req.TargetLang))
	form.Set("appid", p.appID)
	form.Set("salt", salt)
	form.Set("sign", sign)

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed baiduTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	if parsed.ErrorCode != "" && parsed.ErrorCode != "0" {
		return nil, fmt.Errorf("translation endpoint error %s: %s", parsed.ErrorCode, parsed.ErrorMsg)
	}
	if len(parsed.TransResult) == 0 {
		return nil, fmt.Errorf("translation response missing trans_result")
	}

	parts := make([]string, 0, len(parsed.TransResult))
	for _, entry := range parsed.TransResult {
		if line := strings.TrimSpace(entry.Dst); line != "" {
			parts = append(parts, line)
		}
	}
	translated := strings.Join(parts, "\n")
	if translated == "" {
		return nil, fmt.Errorf("translation response was empty")
	}

	return newResult(p, baiduModelName, translated, sourceLang, req.TargetLang, text, started), nil
}

type baiduTranslateResponse struct {
	ErrorCode   string `json:"error_code"`
	ErrorMsg    string `json:"error_msg"`
	TransResult []struct {
		Src string `json:"src"`
		Dst string `json:"dst"`
	} `json:"trans_result"`
}
