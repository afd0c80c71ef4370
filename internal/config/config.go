// Package config parses the remote configuration document and merges the
// credential overrides into it. The result is a plain nested map, built
// once at startup and read-only afterwards; missing paths surface at lookup
// time, not at load time.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/local/hivebot/internal/secrets"
)

// RemoteKey is the fixed bucket key of the configuration document.
const RemoteKey = "config/app.yml"

// Document is the merged configuration mapping.
type Document map[string]any

// Merge parses remoteBytes as YAML and overlays the credential subtrees on
// top. The overlay is a shallow top-level replace: the discord and reddit
// keys are taken wholly from the secret set, everything else passes through
// from the remote document.
func Merge(s secrets.Set, remoteBytes []byte) (Document, error) {
	doc := make(map[string]any)
	if err := yaml.Unmarshal(remoteBytes, &doc); err != nil {
		return nil, fmt.Errorf("parse remote config: %w", err)
	}

	doc["discord"] = map[string]any{
		"client_id": s["DISCORD_CLIENT_ID"],
		"token":     s["DISCORD_TOKEN"],
	}
	doc["reddit"] = map[string]any{
		"client_id": s["REDDIT_BOT_CLIENT_ID"],
		"secret":    s["REDDIT_BOT_SECRET"],
	}

	return Document(doc), nil
}

// Lookup walks the nested mapping along path. It returns false when any
// segment is absent or a non-mapping is traversed.
func (d Document) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(d)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// String returns the string at path, or "" and false when the path is
// absent or holds a non-string.
func (d Document) String(path ...string) (string, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the integer at path. YAML numbers unmarshal as int, so no
// float coercion is attempted.
func (d Document) Int(path ...string) (int, bool) {
	v, ok := d.Lookup(path...)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
