package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone    = "Asia/Seoul"
	configPathEnv      = "PHARMADIGEST_CONFIG"
	databaseDSNEnv     = "DATABASE_DSN"
	openAIAPIKeyEnv    = "OPENAI_API_KEY"
	openAIModelEnv     = "OPENAI_MODEL"
	firecrawlAPIKeyEnv = "FIRECRAWL_API_KEY"
	tinyURLAPIKeyEnv   = "TINYURL_API_KEY"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	slackWebhookEnv    = "SLACK_WEBHOOK_URL"
)

// ErrTelegramConfig is returned when the chat delivery target is not configured.
var ErrTelegramConfig = errors.New("telegram bot token and chat id must be set")

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Files         FilesConfig        `yaml:"files"`
	Sources       []SourceConfig     `yaml:"sources"`
	Firecrawl     FirecrawlConfig    `yaml:"firecrawl"`
	OpenAI        OpenAIConfig       `yaml:"openai"`
	TinyURL       TinyURLConfig      `yaml:"tinyurl"`
	Keywords      KeywordConfig      `yaml:"keywords"`
	Report        ReportConfig       `yaml:"report"`
	Notifications NotificationConfig `yaml:"notifications"`
	Database      DatabaseConfig     `yaml:"database"`
}

// LoggingConfig selects the log level and an optional rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// FilesConfig names the hand-off artifacts between stages.
type FilesConfig struct {
	WorkDir     string `yaml:"workDir"`
	ClippedNews string `yaml:"clippedNews"`
	DailyReport string `yaml:"dailyReport"`
}

// ClippedNewsPath resolves the clipped-news file inside the work directory.
func (f FilesConfig) ClippedNewsPath() string {
	return f.resolve(f.ClippedNews)
}

// DailyReportPath resolves the report document file inside the work directory.
func (f FilesConfig) DailyReportPath() string {
	return f.resolve(f.DailyReport)
}

func (f FilesConfig) resolve(name string) string {
	if filepath.IsAbs(name) || f.WorkDir == "" {
		return name
	}
	return filepath.Join(f.WorkDir, name)
}

// SourceConfig describes a single news listing with its scanner strategy.
type SourceConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Limit   int               `yaml:"limit"`
	Options map[string]string `yaml:"options"`
}

// FirecrawlConfig defines how to reach the article scraping API.
type FirecrawlConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// OpenAIConfig defines how to contact the summarization model.
type OpenAIConfig struct {
	BaseURL       string  `yaml:"baseUrl"`
	Model         string  `yaml:"model"`
	APIKey        string  `yaml:"apiKey"`
	Temperature   float32 `yaml:"temperature"`
	MaxTokens     int     `yaml:"maxTokens"`
	MaxBodyRunes  int     `yaml:"maxBodyRunes"`
	PacingSeconds float64 `yaml:"pacingSeconds"`
}

// Pacing is the minimum gap between two summarization calls.
func (o OpenAIConfig) Pacing() time.Duration {
	return time.Duration(o.PacingSeconds * float64(time.Second))
}

// TinyURLConfig holds the optional link-shortener credentials.
type TinyURLConfig struct {
	Endpoint       string `yaml:"endpoint"`
	PublicEndpoint string `yaml:"publicEndpoint"`
	APIKey         string `yaml:"apiKey"`
}

// KeywordConfig is the article filtering policy.
type KeywordConfig struct {
	Include []string `yaml:"include"`
	Policy  []string `yaml:"policy"`
	Exclude []string `yaml:"exclude"`
}

// ReportConfig controls the report header and size.
type ReportConfig struct {
	Title    string         `yaml:"title"`
	Subtitle string         `yaml:"subtitle"`
	Channel  string         `yaml:"channel"`
	Timezone string         `yaml:"timezone"`
	Limit    int            `yaml:"limit"`
	location *time.Location `yaml:"-"`
}

// Location resolves the report timezone string to a time.Location.
func (r ReportConfig) Location() *time.Location {
	if r.location != nil {
		return r.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Slack    SlackConfig    `yaml:"slack"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken  string `yaml:"botToken"`
	ChatID    string `yaml:"chatId"`
	ParseMode string `yaml:"parseMode"`
	BaseURL   string `yaml:"baseUrl"`
}

// SlackConfig enables posting the report document to an incoming webhook.
type SlackConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// DatabaseConfig describes the optional Postgres report archive.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"`
	SkipReported bool   `yaml:"skipReported"`
}

// RequireTelegram fails when the chat delivery target is incomplete.
func (c Config) RequireTelegram() error {
	t := c.Notifications.Telegram
	if t.BotToken == "" || t.ChatID == "" {
		return fmt.Errorf("notifications.telegram: %w", ErrTelegramConfig)
	}
	return nil
}

// Load reads YAML configuration (if present) over the defaults and applies environment
// overrides. An empty path falls back to PHARMADIGEST_CONFIG.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := cfg.merge(raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}
	if cfg.Report.Limit <= 0 {
		cfg.Report.Limit = defaultConfig().Report.Limit
	}

	return cfg
}

// merge decodes raw YAML on top of c. Lists present in the file replace the defaults.
func (c *Config) merge(raw []byte) error {
	merged := *c
	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return err
	}
	*c = merged
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(slackWebhookEnv); v != "" {
		c.Notifications.Slack.WebhookURL = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(firecrawlAPIKeyEnv); v != "" {
		c.Firecrawl.APIKey = v
	}

	if v := os.Getenv(tinyURLAPIKeyEnv); v != "" {
		c.TinyURL.APIKey = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Report.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, err = time.LoadLocation(defaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	c.Report.location = loc
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
		Files: FilesConfig{
			ClippedNews: "clipped_news.json",
			DailyReport: "daily_report.json",
		},
		Sources: []SourceConfig{
			{
				Name:    "biospace",
				Scanner: "rss",
				URL:     "https://www.biospace.com/all-news.rss",
				Limit:   25,
			},
		},
		Firecrawl: FirecrawlConfig{Endpoint: "https://api.firecrawl.dev/v1"},
		OpenAI: OpenAIConfig{
			Model:         "gpt-4",
			Temperature:   0.4,
			MaxTokens:     400,
			MaxBodyRunes:  2000,
			PacingSeconds: 1,
		},
		TinyURL: TinyURLConfig{
			Endpoint:       "https://api.tinyurl.com/create",
			PublicEndpoint: "https://tinyurl.com/api-create.php",
		},
		Keywords: KeywordConfig{
			Include: []string{
				"clinical", "fda", "approval", "partnership", "acquisition", "investment", "trial", "data",
				"launch", "deal", "collaboration", "policy", "regulation", "act", "bill", "guidance", "order",
				"agreement", "contract",
				"신약", "임상", "승인", "파트너십", "투자", "인수", "합병", "기술", "성과", "계약", "라이선스",
				"정책", "규제", "법", "지침", "명령",
			},
			Policy: []string{
				"policy", "regulation", "act", "bill", "guidance", "order",
				"정책", "규제", "법", "지침", "명령",
			},
			Exclude: []string{
				"layoff", "job", "market", "cut", "restructuring", "employment", "hiring", "fired", "termination",
				"고용", "해고", "감원", "구조조정", "일자리", "실업", "채용", "퇴사", "정리해고", "고용시장", "구직",
			},
		},
		Report: ReportConfig{
			Title:    "해외 제약/바이오 소식",
			Subtitle: "🔬 바이오스페이스 데일리 리포트",
			Channel:  "research",
			Timezone: defaultTimezone,
			Limit:    5,
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{
				ParseMode: "Markdown",
				BaseURL:   "https://api.telegram.org",
			},
		},
	}
}
