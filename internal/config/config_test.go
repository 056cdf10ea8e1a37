package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, databaseDSNEnv, openAIAPIKeyEnv, openAIModelEnv, firecrawlAPIKeyEnv,
		tinyURLAPIKeyEnv, telegramTokenEnv, telegramChatIDEnv, slackWebhookEnv,
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load("")

	if cfg.Report.Limit != 5 {
		t.Fatalf("expected report limit 5, got %d", cfg.Report.Limit)
	}
	if cfg.Report.Location().String() != "Asia/Seoul" {
		t.Fatalf("unexpected location %s", cfg.Report.Location())
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Scanner != "rss" {
		t.Fatalf("unexpected default sources: %+v", cfg.Sources)
	}
	if cfg.OpenAI.Pacing().Seconds() != 1 {
		t.Fatalf("unexpected pacing %s", cfg.OpenAI.Pacing())
	}
	if cfg.Files.ClippedNewsPath() != "clipped_news.json" {
		t.Fatalf("unexpected clipped path %s", cfg.Files.ClippedNewsPath())
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
report:
  title: "Pharma Daily"
  timezone: "UTC"
keywords:
  include: ["oncology"]
files:
  workDir: "/var/lib/digest"
openai:
  model: "gpt-4o-mini"
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(openAIAPIKeyEnv, "sk-test")
	t.Setenv(telegramTokenEnv, "bot")
	t.Setenv(telegramChatIDEnv, "42")

	cfg := Load("")

	if cfg.Report.Title != "Pharma Daily" {
		t.Fatalf("title not overridden: %s", cfg.Report.Title)
	}
	if cfg.Report.Subtitle == "" {
		t.Fatalf("subtitle default lost")
	}
	if cfg.Report.Location().String() != "UTC" {
		t.Fatalf("timezone not applied: %s", cfg.Report.Location())
	}
	if len(cfg.Keywords.Include) != 1 || cfg.Keywords.Include[0] != "oncology" {
		t.Fatalf("include keywords not replaced: %v", cfg.Keywords.Include)
	}
	if len(cfg.Keywords.Exclude) == 0 {
		t.Fatalf("exclude defaults lost")
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" || cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("openai settings not applied: %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.MaxTokens != 400 {
		t.Fatalf("max tokens default lost: %d", cfg.OpenAI.MaxTokens)
	}
	if got := cfg.Files.DailyReportPath(); got != filepath.Join("/var/lib/digest", "daily_report.json") {
		t.Fatalf("unexpected report path %s", got)
	}
	if err := cfg.RequireTelegram(); err != nil {
		t.Fatalf("expected telegram config to be complete: %v", err)
	}
}

func TestLoadExplicitPathWinsOverEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, writeFile(t, "report:\n  channel: from-env\n"))

	cfg := Load(writeFile(t, "report:\n  channel: from-flag\n"))
	if cfg.Report.Channel != "from-flag" {
		t.Fatalf("expected explicit path to win, got %s", cfg.Report.Channel)
	}
}

func TestLoadBrokenFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(writeFile(t, "report: [unterminated"))
	if cfg.Report.Title != defaultConfig().Report.Title {
		t.Fatalf("expected defaults, got %+v", cfg.Report)
	}

	cfg = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Report.Channel != "research" {
		t.Fatalf("expected defaults for missing file, got %s", cfg.Report.Channel)
	}
}

func TestLoadUnknownTimezone(t *testing.T) {
	clearEnv(t)

	cfg := Load(writeFile(t, "report:\n  timezone: Mars/Olympus\n"))
	if cfg.Report.Location().String() != defaultTimezone {
		t.Fatalf("expected fallback timezone, got %s", cfg.Report.Location())
	}
}

func TestRequireTelegram(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.Notifications.Telegram.BotToken = "bot"

	err := cfg.RequireTelegram()
	if !errors.Is(err, ErrTelegramConfig) {
		t.Fatalf("expected ErrTelegramConfig, got %v", err)
	}
}
