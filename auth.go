package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/diceweaver/seedtr/i18n"
	"github.com/diceweaver/seedtr/settings"
	"github.com/diceweaver/seedtr/translate"
)

// ---------------------------------------------------------------------------
// auth (manage stored provider credentials)
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage provider credentials"),
		Long: i18n.T(`Manage the API keys stored in %s.

Keys given with --api-key, SEEDTR_API_KEY or the provider's own variable
(GOOGLE_TRANSLATE_API_KEY, LIBRETRANSLATE_API_KEY) take precedence over
stored keys. Without any key, the google provider falls back to application
default credentials (GOOGLE_APPLICATION_CREDENTIALS or gcloud).

Examples:
  seedtr auth set --provider google
  seedtr auth set --provider libretranslate --base-url https://lt.example.com
  seedtr auth list
  seedtr auth remove --provider google
  seedtr auth remove --all`, settings.FilePath()),
	}

	cmd.AddCommand(
		newAuthSetCmd(),
		newAuthListCmd(),
		newAuthRemoveCmd(),
	)
	return cmd
}

func newAuthSetCmd() *cobra.Command {
	var provider, key, baseURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: i18n.T("Store an API key for a provider"),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prov, err := translate.LookupProvider(provider)
			if err != nil {
				return err
			}
			if key == "" && baseURL == "" {
				existing := settings.GetAPIKey(prov.ID)
				key, err = promptKey(cmd.InOrStdin(), prov.Name, existing)
				if err != nil {
					return err
				}
				if key == "" {
					logInfo("Keeping existing key")
					return nil
				}
			}
			if key == "" {
				key = settings.GetAPIKey(prov.ID)
			}
			if key == "" && prov.ID == translate.ProviderGoogle {
				return errors.New(i18n.T("provider google needs an API key"))
			}
			if baseURL == "" {
				baseURL = settings.GetBaseURL(prov.ID)
			}
			if err := settings.SetAPIKey(prov.ID, key, baseURL); err != nil {
				return err
			}
			logSuccess("%s credentials saved to %s", prov.Name, settings.FilePath())
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", translate.ProviderGoogle, i18n.T("Provider to configure"))
	cmd.Flags().StringVar(&key, "key", "", i18n.T("API key (prompted when omitted)"))
	cmd.Flags().StringVar(&baseURL, "base-url", "", i18n.T("Endpoint to use with this key"))
	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)
	return cmd
}

// promptKey reads a key from in. An empty answer keeps existing and returns
// "" if there is one; otherwise it is an error.
func promptKey(in io.Reader, name, existing string) (string, error) {
	fmt.Fprintf(color.Error, "\n%s\n", blue(i18n.T("%s API key setup", name)))
	fmt.Fprintln(color.Error, strings.Repeat("─", 60))
	if existing != "" {
		fmt.Fprintf(color.Error, "  %s %s\n", i18n.T("Current key:"), yellow(settings.MaskKey(existing)))
		fmt.Fprintf(color.Error, "  %s ", i18n.T("Enter new key to replace, or press Enter to keep:"))
	} else {
		fmt.Fprintf(color.Error, "  %s ", i18n.T("Enter API key:"))
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New(i18n.T("no input received"))
	}
	key := strings.TrimSpace(scanner.Text())
	if key == "" && existing == "" {
		return "", errors.New(i18n.T("no API key provided"))
	}
	return key, nil
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   i18n.T("Show stored credentials"),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := color.Error
			fmt.Fprintf(out, "\n%s\n", blue(i18n.T("Stored Credentials")))
			fmt.Fprintln(out, strings.Repeat("─", 60))

			for _, id := range translate.ProviderIDs() {
				entry := settings.Get(id)
				status := red(i18n.T("not configured"))
				if entry != nil {
					status = green(i18n.T("configured"))
					if entry.Key != "" {
						status += " " + i18n.T("(key: %s)", settings.MaskKey(entry.Key))
					}
					if entry.BaseURL != "" {
						status += fmt.Sprintf("\n  %14s %s", "", i18n.T("endpoint: %s", entry.BaseURL))
					}
				}
				fmt.Fprintf(out, "  %-16s %s\n", id, status)
			}

			fmt.Fprintf(out, "\n  %s\n", yellow(i18n.T("Environment Variables")))
			envVars := []string{settings.EnvAPIKey}
			for _, id := range translate.ProviderIDs() {
				if name := settings.EnvVarForProvider(id); name != "" {
					envVars = append(envVars, name)
				}
			}
			for _, name := range envVars {
				if v := os.Getenv(name); v != "" {
					fmt.Fprintf(out, "  %-26s %s\n", name+":", green(settings.MaskKey(v)))
				} else {
					fmt.Fprintf(out, "  %-26s %s\n", name+":", red(i18n.T("not set")))
				}
			}
			fmt.Fprintln(out)
		},
	}
}

func newAuthRemoveCmd() *cobra.Command {
	var provider string
	var all bool

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   i18n.T("Remove stored credentials"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("All stored credentials removed")
				return nil
			}
			if provider == "" {
				return errors.New(i18n.T("--provider or --all is required"))
			}
			if settings.Get(provider) == nil {
				logInfo("No stored credentials for %s", provider)
				return nil
			}
			if err := settings.Remove(provider); err != nil {
				return err
			}
			logSuccess("Removed credentials for %s", provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", i18n.T("Provider whose credentials to remove"))
	cmd.Flags().BoolVar(&all, "all", false, i18n.T("Remove all stored credentials"))
	cmd.MarkFlagsMutuallyExclusive("provider", "all")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeProviders)
	return cmd
}
