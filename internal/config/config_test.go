package config

import (
	"reflect"
	"testing"

	"github.com/local/hivebot/internal/secrets"
)

var testSecrets = secrets.Set{
	"DISCORD_CLIENT_ID":    "abc",
	"DISCORD_TOKEN":        "xyz",
	"REDDIT_BOT_CLIENT_ID": "r1",
	"REDDIT_BOT_SECRET":    "s1",
}

const remoteDoc = `
commands:
  prefix: "!"
discord:
  unused: true
`

func TestMerge_CredentialsReplaceTopLevelSubtrees(t *testing.T) {
	doc, err := Merge(testSecrets, []byte(remoteDoc))
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	want := Document{
		"commands": map[string]any{"prefix": "!"},
		"discord":  map[string]any{"client_id": "abc", "token": "xyz"},
		"reddit":   map[string]any{"client_id": "r1", "secret": "s1"},
	}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("Merge = %#v, want %#v", doc, want)
	}

	// discord.unused must be gone: shallow top-level replace, not deep merge.
	if _, ok := doc.Lookup("discord", "unused"); ok {
		t.Error("discord.unused survived the merge")
	}
}

func TestMerge_IsIdempotentOnOverrideSubtrees(t *testing.T) {
	once, err := Merge(testSecrets, []byte(remoteDoc))
	if err != nil {
		t.Fatalf("first Merge failed: %v", err)
	}

	// Re-merging the already-merged document must leave the credential
	// subtrees unchanged.
	again := make(map[string]any, len(once))
	for k, v := range once {
		again[k] = v
	}
	again["discord"] = map[string]any{
		"client_id": testSecrets["DISCORD_CLIENT_ID"],
		"token":     testSecrets["DISCORD_TOKEN"],
	}
	again["reddit"] = map[string]any{
		"client_id": testSecrets["REDDIT_BOT_CLIENT_ID"],
		"secret":    testSecrets["REDDIT_BOT_SECRET"],
	}
	if !reflect.DeepEqual(once, Document(again)) {
		t.Errorf("re-merge changed the override subtrees: %#v vs %#v", once, again)
	}
}

func TestMerge_UntouchedKeysPassThrough(t *testing.T) {
	doc, err := Merge(testSecrets, []byte(`
channels:
  meta: general
  bot: bots
heartbeat:
  interval_seconds: 10
`))
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if got, _ := doc.String("channels", "meta"); got != "general" {
		t.Errorf("channels.meta = %q, want general", got)
	}
	if got, _ := doc.String("channels", "bot"); got != "bots" {
		t.Errorf("channels.bot = %q, want bots", got)
	}
	if got, _ := doc.Int("heartbeat", "interval_seconds"); got != 10 {
		t.Errorf("heartbeat.interval_seconds = %d, want 10", got)
	}
}

func TestMerge_ParseFailureIsFatal(t *testing.T) {
	_, err := Merge(testSecrets, []byte("commands: [unterminated"))
	if err == nil {
		t.Fatal("Merge accepted malformed YAML")
	}
}

func TestLookup_AbsentPathsReportMissing(t *testing.T) {
	doc, err := Merge(testSecrets, []byte(remoteDoc))
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if _, ok := doc.Lookup("channels", "meta"); ok {
		t.Error("Lookup found channels.meta in a document without it")
	}
	if _, ok := doc.String("commands", "prefix", "deeper"); ok {
		t.Error("Lookup traversed through a scalar")
	}
	if _, ok := doc.Int("commands", "prefix"); ok {
		t.Error("Int accepted a string value")
	}
}
