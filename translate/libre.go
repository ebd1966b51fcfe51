package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/language"
)

// libreClient talks to a LibreTranslate-compatible /translate endpoint.
type libreClient struct {
	baseURL string
	apiKey  string
	http    *resty.Client
}

func openLibre(prov Provider) *libreClient {
	base := prov.BaseURL
	if base == "" {
		base = DefaultProviders()[ProviderLibre].BaseURL
	}
	c := resty.New()
	if prov.Timeout > 0 {
		c.SetTimeout(prov.Timeout)
	}
	return &libreClient{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  prov.APIKey,
		http:    c,
	}
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
}

type libreError struct {
	Error string `json:"error"`
}

func (l *libreClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	var (
		out    libreResponse
		errOut libreError
	)
	resp, err := l.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(libreRequest{
			Q:      text,
			Source: libreLang(source),
			Target: libreLang(target),
			Format: "text",
			APIKey: l.apiKey,
		}).
		SetResult(&out).
		SetError(&errOut).
		Post(l.baseURL + "/translate")
	if err != nil {
		return "", fmt.Errorf("libretranslate request failed: %w", err)
	}
	if resp.IsError() {
		if errOut.Error != "" {
			return "", fmt.Errorf("libretranslate: %s: %s", resp.Status(), errOut.Error)
		}
		return "", fmt.Errorf("libretranslate: %s: %s", resp.Status(), truncate(resp.String(), 500))
	}
	return out.TranslatedText, nil
}

func (l *libreClient) Close() error { return nil }

// libreLang reduces a locale such as en_US or pt-BR to the base language
// code LibreTranslate understands. Unparseable codes pass through.
func libreLang(code string) string {
	tag, err := language.Raw.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
