package translate

import (
	"context"
	"errors"
	"fmt"

	cloudtranslate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// googleClient talks to Cloud Translation v2.
type googleClient struct {
	client *cloudtranslate.Client
}

func openGoogle(ctx context.Context, prov Provider) (*googleClient, error) {
	var opts []option.ClientOption
	if prov.APIKey != "" {
		opts = append(opts, option.WithAPIKey(prov.APIKey))
	}
	if prov.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(prov.BaseURL))
	}

	c, err := cloudtranslate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", prov.Name, err)
	}
	return &googleClient{client: c}, nil
}

// Translate requests plain-text output so the service does not turn quotes
// and ampersands into HTML entities.
func (g *googleClient) Translate(ctx context.Context, text, source, target string) (string, error) {
	src, tgt, err := googleTags(source, target)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Translate(ctx, []string{text}, tgt, &cloudtranslate.Options{
		Source: src,
		Format: cloudtranslate.Text,
	})
	if err != nil {
		return "", err
	}
	if len(resp) == 0 {
		return "", errors.New("translate returned an empty response")
	}
	return resp[0].Text, nil
}

// googleTags parses the language codes without canonicalizing them, so
// codes such as tl or iw reach the service as written.
func googleTags(source, target string) (language.Tag, language.Tag, error) {
	src, err := language.Raw.Parse(source)
	if err != nil {
		return language.Und, language.Und, fmt.Errorf("source language %q: %w", source, err)
	}
	tgt, err := language.Raw.Parse(target)
	if err != nil {
		return language.Und, language.Und, fmt.Errorf("target language %q: %w", target, err)
	}
	return src, tgt, nil
}

func (g *googleClient) Close() error {
	return g.client.Close()
}
