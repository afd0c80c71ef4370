// Package secrets loads the bot's credentials from a local .env file and
// enforces the required-key set before anything touches the network.
package secrets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// RequiredKeys are the credentials the bot cannot start without.
var RequiredKeys = []string{
	"S3_REGION",
	"S3_BUCKET",
	"AWS_KEY",
	"AWS_SECRET",
	"DISCORD_CLIENT_ID",
	"DISCORD_TOKEN",
	"REDDIT_BOT_CLIENT_ID",
	"REDDIT_BOT_SECRET",
}

// Set maps credential names to values. Read-only after Load.
type Set map[string]string

// Load reads key=value pairs from the given .env file and verifies every
// required key is present and non-empty. A failed check is not recoverable:
// the caller is expected to print the error and exit non-zero.
func Load(path string) (Set, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var missing []string
	for _, key := range RequiredKeys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%s must be set in %s", strings.Join(missing, ", "), path)
	}

	return Set(values), nil
}
