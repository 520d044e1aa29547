package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "mdpage"

type Config struct {
	Style            string   `koanf:"style"`             // glamour style name, e.g. "tokyo-night", "dark"
	LogFile          string   `koanf:"log_file"`          // empty means $XDG_STATE_HOME/mdpage/mdpage.log
	LogLevel         string   `koanf:"log_level"`         // "debug", "info", "warn", "error"
	ScrollbarPadding int      `koanf:"scrollbar_padding"` // rows kept free below the secondary toolbar
	PrintCommand     string   `koanf:"print_command"`     // receives the plain-text document path as last argument
	DownloadDir      string   `koanf:"download_dir"`      // empty means the XDG download directory
	TreeWidth        int      `koanf:"tree_width"`        // preferred width of the file picker
	Extensions       []string `koanf:"extensions"`        // files listed by the picker
}

// Load reads the user config then ./mdpage.toml. extra, when set, is read last.
func Load(extra string) (*Config, error) {
	k := koanf.New(".")

	paths := getConfigPaths()
	if extra != "" {
		paths = append(paths, expandPath(extra))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Style == "" {
		c.Style = "tokyo-night"
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(xdg.StateHome, appName, appName+".log")
	} else {
		c.LogFile = expandPath(c.LogFile)
	}
	if c.ScrollbarPadding <= 0 {
		c.ScrollbarPadding = 2
	}
	if c.PrintCommand == "" {
		c.PrintCommand = "lp"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = xdg.UserDirs.Download
	} else {
		c.DownloadDir = expandPath(c.DownloadDir)
	}
	if c.TreeWidth <= 0 {
		c.TreeWidth = 28
	}
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".md", ".mdx", ".markdown"}
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/mdpage/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./mdpage.toml (pwd, highest priority)
		appName + ".toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
