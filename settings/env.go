package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// EnvAPIKey overrides the API key of any provider.
const EnvAPIKey = "SEEDTR_API_KEY"

var providerEnv = map[string]string{
	"google":         "GOOGLE_TRANSLATE_API_KEY",
	"libretranslate": "LIBRETRANSLATE_API_KEY",
}

// EnvVarForProvider returns the provider-specific API key variable, or "".
func EnvVarForProvider(providerID string) string {
	return providerEnv[providerID]
}

// LoadEnv loads variables from a dotenv file without overriding variables
// that are already set. A missing file is only an error when required is
// set, i.e. when the path was given explicitly.
func LoadEnv(path string, required bool) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Key sources reported by ResolveAPIKey.
const (
	SourceFlag  = "flag"
	SourceStore = "store"
)

// ResolveAPIKey finds the API key for a provider and reports where it came
// from: SourceFlag, the environment variable name, or SourceStore. Both are
// empty when no key is configured.
func ResolveAPIKey(providerID, flagValue string) (key, source string) {
	if flagValue != "" {
		return flagValue, SourceFlag
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		return v, EnvAPIKey
	}
	if name := EnvVarForProvider(providerID); name != "" {
		if v := os.Getenv(name); v != "" {
			return v, name
		}
	}
	if v := GetAPIKey(providerID); v != "" {
		return v, SourceStore
	}
	return "", ""
}
