package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PharmaDigest/internal/config"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pharmadigest "+Version+"\n", out.String())
}

func TestSendRequiresTelegram(t *testing.T) {
	for _, key := range []string{"PHARMADIGEST_CONFIG", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}

	for _, stage := range []string{"send", "run"} {
		cmd := NewRootCommand()
		cmd.SetArgs([]string{stage, "--workdir", t.TempDir()})
		err := cmd.Execute()
		assert.True(t, errors.Is(err, config.ErrTelegramConfig), "%s: %v", stage, err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PHARMADIGEST_CONFIG", "")
	t.Setenv("PHARMADIGEST_LOG_LEVEL", "warn")

	cmd := NewRootCommand()
	dir := t.TempDir()
	require.NoError(t, cmd.PersistentFlags().Set("workdir", dir))

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	require.NoError(t, v.BindPFlag("workdir", cmd.PersistentFlags().Lookup("workdir")))

	cfg := loadConfig(v)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, dir, cfg.Files.WorkDir)
	assert.Equal(t, filepath.Join(dir, "clipped_news.json"), cfg.Files.ClippedNewsPath())
}
