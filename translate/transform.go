package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diceweaver/seedtr/msgfile"
	"github.com/diceweaver/seedtr/placeholder"
)

// DefaultSourceLang is the language the source messages are written in.
const DefaultSourceLang = "en_US"

// DateLayout is the format of the "last-updated" metadata field.
const DateLayout = "2006-01-02"

var (
	// ErrEmptyTranslation is reported when the service returns nothing for
	// a non-empty message.
	ErrEmptyTranslation = errors.New("empty translation")
	// ErrPlaceholderMismatch is reported in strict mode when a translation
	// gains, loses or renumbers positional arguments.
	ErrPlaceholderMismatch = errors.New("placeholders changed by translation")
)

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls how a file is transformed.
type Options struct {
	// Language is the target language code, e.g. "fr" or "pt-BR".
	Language string
	// SourceLang is the language passed to the service as the source.
	// Defaults to DefaultSourceLang.
	SourceLang string
	// Now returns the time used for "last-updated". Defaults to time.Now.
	Now func() time.Time
	// Timeout bounds each translation call. Zero means no limit.
	Timeout time.Duration
	// StrictPlaceholders turns a placeholder mismatch into a failed
	// message instead of a warning.
	StrictPlaceholders bool
	// OnLog emits detail messages (verbose mode).
	OnLog func(format string, args ...any)
	// OnWarn emits per-message problems.
	OnWarn func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) warn(format string, args ...any) {
	if o.OnWarn != nil {
		o.OnWarn(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) sourceLang() string {
	if o.SourceLang != "" {
		return o.SourceLang
	}
	return DefaultSourceLang
}

// Date returns the "last-updated" value for this run.
func (o *Options) Date() string {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return now().Format(DateLayout)
}

// ---------------------------------------------------------------------------
// Per-message results
// ---------------------------------------------------------------------------

// Result is the outcome of translating one message.
type Result struct {
	// Key is the message identifier.
	Key string
	// Source is the original message text.
	Source string
	// Text is the translation in source placeholder form. Empty on failure.
	Text string
	// Err is set when the message could not be translated.
	Err error
	// PlaceholderMismatch is set when Text carries different positional
	// arguments than Source.
	PlaceholderMismatch bool
}

// OK reports whether the message was translated.
func (r Result) OK() bool { return r.Err == nil }

// TranslateMessage translates a single message text, rewriting positional
// arguments to the service encoding for the call and back afterwards.
func TranslateMessage(ctx context.Context, tr Translator, key, text string, opts Options) Result {
	res := Result{Key: key, Source: text}
	if text == "" {
		return res
	}

	callCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	translated, err := tr.Translate(callCtx, placeholder.ToService(text), opts.sourceLang(), opts.Language)
	if err != nil {
		res.Err = err
		return res
	}
	if translated == "" {
		res.Err = ErrEmptyTranslation
		return res
	}

	res.Text = placeholder.FromService(translated)
	if !placeholder.Same(text, res.Text) {
		res.PlaceholderMismatch = true
		if opts.StrictPlaceholders {
			res.Err = fmt.Errorf("%w: %q became %q", ErrPlaceholderMismatch, text, res.Text)
			res.Text = ""
		}
	}
	return res
}

// ---------------------------------------------------------------------------
// Whole files
// ---------------------------------------------------------------------------

// TransformFile builds the translated counterpart of src.
//
// The metadata is copied with locale, last-updated and other-metadata
// rewritten for opts.Language. Every message is translated on its own; a
// message that fails is reported through OnWarn and left out of the
// result, and the remaining messages are still processed. Other reserved
// "@" keys are copied unchanged.
//
// The returned error is only set for problems with the file itself (a
// malformed "@metadata") or when ctx is cancelled.
func TransformFile(ctx context.Context, tr Translator, src *msgfile.File, opts Options) (*msgfile.File, []Result, error) {
	meta, err := src.Metadata()
	if err != nil {
		return nil, nil, err
	}
	meta.Stamp(opts.Language, opts.Date())

	dst := msgfile.New()
	dst.SetMetadata(meta)

	var results []Result
	for _, key := range src.AllKeys() {
		if key == msgfile.MetadataKey {
			continue
		}
		if msgfile.IsReserved(key) {
			raw, _ := src.Raw(key)
			dst.SetRaw(key, raw)
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, results, err
		}

		var res Result
		text, err := src.Message(key)
		if err != nil {
			res = Result{Key: key, Err: err}
		} else {
			res = TranslateMessage(ctx, tr, key, text, opts)
		}

		// A cancelled run is not a per-message failure.
		if res.Err != nil && ctx.Err() != nil {
			return nil, results, ctx.Err()
		}

		results = append(results, res)
		if !res.OK() {
			opts.warn("Failed to translate %s: %v", key, res.Err)
			continue
		}
		if res.PlaceholderMismatch {
			opts.warn("Placeholders changed in %s: %q -> %q", key, res.Source, res.Text)
		}
		opts.log("%s: %q -> %q", key, res.Source, res.Text)
		dst.Set(key, res.Text)
	}

	return dst, results, nil
}
