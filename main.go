// seedtr generates seed translations of JSON message trees.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/diceweaver/seedtr/config"
	"github.com/diceweaver/seedtr/i18n"
	"github.com/diceweaver/seedtr/msgtree"
	"github.com/diceweaver/seedtr/report"
	"github.com/diceweaver/seedtr/seed"
	"github.com/diceweaver/seedtr/settings"
	"github.com/diceweaver/seedtr/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit statuses.
const (
	exitError          = 1
	exitSourceNotFound = 2
)

var (
	blue   = color.New(color.FgBlue).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.Bold, color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

// The log helpers translate format through the tool's own catalog.

func logInfo(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", blue("[INFO]"), i18n.T(format, args...))
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", green("[OK]"), i18n.T(format, args...))
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", yellow("[WARN]"), i18n.T(format, args...))
}

func logError(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s %s\n", red("[ERROR]"), i18n.T(format, args...))
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

type runArgs struct {
	messages   string
	language   string
	configPath string
	envFile    string
	provider   string
	apiKey     string
	baseURL    string
	sourceLang string
	sourceDir  string
	reportPath string
	timeout    time.Duration
	strict     bool
	dryRun     bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var a runArgs

	root := &cobra.Command{
		Use:   "seedtr --language LANG [--messages DIR]",
		Short: i18n.T("Generate a seed translation of JSON message files"),
		Long: i18n.T(`seedtr machine-translates a tree of JSON message files into a new language.

Source messages are read from <messages>/src/en-US and the translations are
written to a parallel tree under <messages>/translated/<language>. Positional
arguments such as $1 are kept intact. Messages that fail to translate are
reported and left out; the output is a starting point for human review.

Providers:
  google          Google Cloud Translation (API key or application default credentials)
  libretranslate  LibreTranslate-compatible server

Examples:
  seedtr --language fr
  seedtr --messages game/messages --language pt-BR --report review.yaml
  seedtr --language de --provider libretranslate --base-url http://localhost:5000`),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.Flags(), a)
		},
	}

	f := root.Flags()
	f.StringVar(&a.messages, "messages", config.DefaultMessages, i18n.T("Top of the message tree"))
	f.StringVar(&a.language, "language", "", i18n.T("Target language code, e.g. fr or pt-BR (required)"))
	f.StringVar(&a.configPath, "config", "", i18n.T("Config file (default ./%s if present)", config.FileName))
	f.StringVar(&a.envFile, "env-file", "", i18n.T("Dotenv file to load (default ./%s if present)", settings.DefaultEnvFile))
	f.StringVar(&a.provider, "provider", config.DefaultProvider, i18n.T("Translation provider: google, libretranslate"))
	f.StringVar(&a.apiKey, "api-key", "", i18n.T("API key (or %s env var)", settings.EnvAPIKey))
	f.StringVar(&a.baseURL, "base-url", "", i18n.T("Provider endpoint override"))
	f.StringVar(&a.sourceLang, "source-lang", config.DefaultSourceLang, i18n.T("Language of the source messages"))
	f.StringVar(&a.sourceDir, "source-dir", config.DefaultSourceDir, i18n.T("Source directory relative to the message tree"))
	f.DurationVar(&a.timeout, "timeout", 0, i18n.T("Per-request timeout (0 = no limit)"))
	f.BoolVar(&a.strict, "strict-placeholders", false, i18n.T("Drop translations whose $N arguments changed"))
	f.StringVar(&a.reportPath, "report", "", i18n.T("Write a YAML review report to this path"))
	f.BoolVar(&a.dryRun, "dry-run", false, i18n.T("Parse and count messages without translating or writing"))
	f.BoolVar(&a.verbose, "verbose", false, i18n.T("Enable detailed logging"))
	_ = root.MarkFlagRequired("language")

	_ = root.RegisterFlagCompletionFunc("provider", completeProviders)

	root.AddCommand(
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func completeProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, id := range translate.ProviderIDs() {
		p, _ := translate.LookupProvider(id)
		out = append(out, id+"\t"+p.Name)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		logError("%v", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, msgtree.ErrSourceNotFound) {
		return exitSourceNotFound
	}
	return exitError
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Long:  i18n.T("Display version, commit hash, and build date."),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seedtr version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// Seed run
// ---------------------------------------------------------------------------

func runSeed(ctx context.Context, flags *pflag.FlagSet, a runArgs) error {
	if err := settings.LoadEnv(a.envFile, a.envFile != ""); err != nil {
		return err
	}

	tag, err := parseLanguage(a.language)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(flags, a)
	if err != nil {
		return err
	}
	if a.verbose {
		if cfg.Path() != "" {
			logInfo("Using config %s", cfg.Path())
		}
		logInfo("Target language: %s (%s)", display.Self.Name(tag), display.English.Tags().Name(tag))
	}

	topts := translate.Options{
		Language:           a.language,
		SourceLang:         cfg.SourceLang,
		Timeout:            cfg.TimeoutDuration(),
		StrictPlaceholders: cfg.StrictPlaceholders,
	}

	var rep *report.Report
	if a.reportPath != "" && !a.dryRun {
		rep = report.New(a.reportPath, a.language, topts.Date())
	}

	opts := seed.Options{
		Source:    cfg.SourceRoot(),
		Dest:      cfg.DestRoot(a.language),
		Translate: topts,
		DryRun:    a.dryRun,
		Report:    rep,
		OnLog:     logInfo,
		OnWarn:    logWarning,
	}
	if a.verbose {
		opts.OnDetail = logInfo
	}

	var tr translate.Translator
	if !a.dryRun {
		// A missing source is reported before credentials are looked at.
		if err := msgtree.CheckRoot(opts.Source); err != nil {
			return err
		}
		prov, source, err := resolveProvider(cfg, a.apiKey)
		if err != nil {
			return err
		}
		if a.verbose {
			logInfo("Provider: %s", prov.Name)
			if source != "" {
				logInfo("API key from %s: %s", source, settings.MaskKey(prov.APIKey))
			}
		}
		client, err := translate.Open(ctx, prov)
		if err != nil {
			return err
		}
		defer client.Close()
		tr = client
	}

	start := time.Now()
	sum, err := seed.Run(ctx, tr, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New(i18n.T("interrupted"))
		}
		return err
	}

	printSummary(sum, a.dryRun, time.Since(start))

	if rep != nil {
		if err := rep.Save(); err != nil {
			return err
		}
		if files, _, _ := rep.Stats(); files > 0 {
			logInfo("Review report written to %s", rep.Path())
		}
	}
	return nil
}

func printSummary(sum seed.Summary, dryRun bool, elapsed time.Duration) {
	if dryRun {
		logInfo("Dry run: %s, %s", filesText(sum.Files), i18n.N("%d message", "%d messages", sum.Messages, sum.Messages))
		return
	}
	msg := i18n.T("Translated %d of %d messages in %s (%s)",
		sum.Translated(), sum.Messages, filesText(sum.Files), elapsed.Round(time.Millisecond))
	if sum.Failed > 0 {
		logWarning("%s; %s", msg, i18n.N("%d failed", "%d failed", sum.Failed, sum.Failed))
	} else {
		logSuccess("%s", msg)
	}
	if sum.Mismatched > 0 {
		logWarning("%s", i18n.N("%d translation has changed arguments", "%d translations have changed arguments", sum.Mismatched, sum.Mismatched))
	}
}

func filesText(n int) string {
	return i18n.N("%d file", "%d files", n, n)
}

// parseLanguage validates a target language code without canonicalizing
// it. The code itself is passed to the provider as written.
func parseLanguage(code string) (language.Tag, error) {
	if code == "" {
		return language.Und, errors.New(i18n.T("--language is required"))
	}
	tag, err := language.Raw.Parse(code)
	if err != nil {
		return language.Und, errors.New(i18n.T("invalid language code %q: %v", code, err))
	}
	return tag, nil
}

// resolveConfig merges the config file with the flags the user set.
func resolveConfig(flags *pflag.FlagSet, a runArgs) (*config.File, error) {
	var (
		cfg *config.File
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
		if err == nil && cfg == nil {
			err = errors.New(i18n.T("config file %s not found", a.configPath))
		}
	} else {
		cfg, err = config.LoadDir(".")
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if flags.Changed("messages") {
		cfg.Messages = a.messages
	}
	if flags.Changed("source-dir") {
		cfg.SourceDir = a.sourceDir
	}
	if flags.Changed("source-lang") {
		cfg.SourceLang = a.sourceLang
	}
	if flags.Changed("provider") {
		cfg.Provider = a.provider
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = a.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration(a.timeout)
	}
	if flags.Changed("strict-placeholders") {
		cfg.StrictPlaceholders = a.strict
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveProvider builds the provider definition from the config and the
// stored credentials. It also reports where the API key came from.
func resolveProvider(cfg *config.File, apiKeyFlag string) (translate.Provider, string, error) {
	prov, err := translate.LookupProvider(cfg.Provider)
	if err != nil {
		return prov, "", err
	}

	key, source := settings.ResolveAPIKey(prov.ID, apiKeyFlag)
	prov.APIKey = key

	if cfg.BaseURL != "" {
		prov.BaseURL = cfg.BaseURL
	} else if stored := settings.GetBaseURL(prov.ID); stored != "" {
		prov.BaseURL = stored
	}
	if t := cfg.TimeoutDuration(); t > 0 {
		prov.Timeout = t
	}
	return prov, source, nil
}
