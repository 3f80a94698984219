package adapter

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/troutctl/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, TabChannels, cfg.UI.DefaultTab)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.NotEmpty(t, cfg.CacheDir())
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.URL = "http://trout.local:8000"
	cfg.Server.Timeout = 5 * time.Second
	cfg.Player.Command = "mpv"
	cfg.UI.DefaultTab = TabPlaylists
	cfg.Cache.Disabled = true
	require.NoError(t, saveConfig(viper.New(), cfg, dir))

	got, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, "http://trout.local:8000", got.Server.URL)
	assert.Equal(t, 5*time.Second, got.Server.Timeout)
	assert.Equal(t, "mpv", got.Player.Command)
	assert.Equal(t, TabPlaylists, got.UI.DefaultTab)
	assert.True(t, got.IsConfigured())
	assert.Empty(t, got.CacheDir(), "disabled cache is memory only")
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("TROUTCTL_SERVER_URL", "http://env.example:9000/")
	t.Setenv("TROUTCTL_UI_DEFAULT_TAB", "bogus")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://env.example:9000", cfg.Server.URL)
	assert.Equal(t, TabChannels, cfg.UI.DefaultTab)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("loud"))
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "troutctl.log")
	logger, closer, err := SetupLogger(LoggingConfig{File: path, Level: "DEBUG"})
	require.NoError(t, err)
	logger.Debug("hello", "channelID", "c1")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"channelID":"c1"`)
}

func TestReadLogoFile(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "logo.PNG")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG"), 0644))
	asset, err := ReadLogoFile(png)
	require.NoError(t, err)
	assert.Equal(t, "logo.PNG", asset.Filename)
	assert.Equal(t, "image/png", asset.ContentType)
	assert.Equal(t, []byte("\x89PNG"), asset.Data)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	_, err = ReadLogoFile(txt)
	assert.ErrorIs(t, err, domain.ErrValidation)

	big := filepath.Join(dir, "big.jpg")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxLogoSize+1), 0644))
	_, err = ReadLogoFile(big)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ReadLogoFile(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrValidation))
}

type recordedCall struct {
	name string
	args []string
}

func newTestLauncher(command string, args []string) (*Launcher, *[]recordedCall) {
	var calls []recordedCall
	l := NewLauncher(command, args, NullLogger())
	l.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	l.start = func(name string, args ...string) error {
		calls = append(calls, recordedCall{name: name, args: args})
		return nil
	}
	return l, &calls
}

func TestLaunchConfiguredPlayer(t *testing.T) {
	l, calls := newTestLauncher("mpv", []string{"--mute"})
	require.NoError(t, l.Launch("http://h/stream/c1/master.m3u8"))
	require.Len(t, *calls, 1)
	assert.Equal(t, recordedCall{name: "mpv", args: []string{"--mute", "http://h/stream/c1/master.m3u8"}}, (*calls)[0])
	assert.Equal(t, "mpv", l.PlayerName())
}

func TestLaunchConfiguredPlayerFailure(t *testing.T) {
	l, _ := newTestLauncher("nope", nil)
	l.start = func(string, ...string) error { return errors.New("exec: not found") }
	assert.ErrorIs(t, l.Launch("http://h/x.m3u8"), ErrNoPlayer)
}

func TestLaunchFallsBackToSystemHandler(t *testing.T) {
	l, calls := newTestLauncher("", nil)
	l.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	l.start = func(name string, args ...string) error {
		// open -a fails for unknown apps; the final fallback succeeds
		if name == "open" && len(args) > 1 {
			return errors.New("app not found")
		}
		*calls = append(*calls, recordedCall{name: name, args: args})
		return nil
	}

	require.NoError(t, l.Launch("http://h/x.m3u8"))
	require.Len(t, *calls, 1)
	assert.Contains(t, (*calls)[0].args, "http://h/x.m3u8")
	assert.Equal(t, "auto", l.PlayerName())
}
