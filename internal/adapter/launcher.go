package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoPlayer is returned when no configured or known player could be started
var ErrNoPlayer = errors.New("no media player found")

// Launcher opens channel stream URLs in an external player
type Launcher struct {
	command string   // configured player command, empty to auto-detect
	args    []string // extra player arguments
	logger  *slog.Logger

	// seams for tests
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// launchPath is one way of starting a player. Paths prefixed with "open-a:"
// are macOS application names started through open(1).
type launchPath struct {
	path      string
	openFlags []string
	liveArgs  []string // flags that keep the player following a live HLS window
}

// players maps a player name to its launch paths per platform, tried in order
var players = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv", liveArgs: []string{"--force-window=immediate"}}},
		"linux":   {{path: "mpv", liveArgs: []string{"--force-window=immediate"}}},
		"windows": {{path: "mpv", liveArgs: []string{"--force-window=immediate"}}},
	},
	"vlc": {
		"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
}

// candidatePlayers is the preferred detection order per platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv"},
}

// NewLauncher creates a launcher. An empty command auto-detects a player.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  strings.TrimSpace(command),
		args:     args,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Launch opens url in the configured player, else the first detected
// candidate, else the system URL handler
func (l *Launcher) Launch(url string) error {
	if l.command != "" {
		return l.launchConfigured(url)
	}

	if name, err := l.detectAndLaunch(url); err == nil {
		l.logger.Info("launched stream", "player", name, "url", url)
		return nil
	}

	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(url)
}

func (l *Launcher) launchConfigured(url string) error {
	args := append(append([]string{}, l.args...), url)

	if runtime.GOOS == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			// Not on PATH; treat it as an application bundle name
			openArgs := []string{"-a", l.command}
			if len(l.args) > 0 {
				openArgs = append(openArgs, "--args")
				openArgs = append(openArgs, l.args...)
			}
			openArgs = append(openArgs, url)
			l.logger.Info("launching app with open", "app", l.command, "args", openArgs)
			return l.start("open", openArgs...)
		}
	}

	l.logger.Info("launching configured player", "command", l.command, "args", args)
	if err := l.start(l.command, args...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNoPlayer, l.command, err)
	}
	return nil
}

func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidatePlayers[runtime.GOOS]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		for _, lp := range players[name][runtime.GOOS] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				args := append(append([]string{}, lp.openFlags...), "-a", app, url)
				err = l.start("open", args...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, append(append([]string{}, lp.liveArgs...), url)...)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}
	return "", ErrNoPlayer
}

func (l *Launcher) launchDefault(url string) error {
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = l.start("open", url)
	case "windows":
		err = l.start("cmd", "/c", "start", "", url)
	default:
		err = l.start("xdg-open", url)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoPlayer, err)
	}
	return nil
}

// PlayerName returns the configured player's base name, "auto" when detecting
func (l *Launcher) PlayerName() string {
	if l.command == "" {
		return "auto"
	}
	base := filepath.Base(l.command)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
