package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Veraticus/foco-financeiro/internal/common"
	"github.com/spf13/viper"
)

// DefaultAPIURL is the API base used when nothing is configured.
const DefaultAPIURL = "http://localhost:8080/api"

// Configuration keys.
const (
	KeyAPIURL      = "api.url"
	KeySessionPath = "session.path"
	KeyLogLevel    = "logging.level"
	KeyLogFormat   = "logging.format"
	KeyLogFile     = "logging.file"
	KeyTheme       = "tui.theme"
)

// Settings is the validated runtime configuration.
type Settings struct {
	APIURL      string
	SessionPath string
	LogLevel    string
	LogFormat   string
	LogFile     string
	Theme       string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyTheme, "default")
}

// BindEnv maps environment variables onto configuration keys. The API base
// also honors REACT_APP_API_URL so an existing web .env keeps working.
func BindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		KeyAPIURL:      {"FOCO_API_URL", "REACT_APP_API_URL"},
		KeySessionPath: {"FOCO_SESSION_PATH"},
		KeyLogLevel:    {"FOCO_LOG_LEVEL"},
		KeyLogFormat:   {"FOCO_LOG_FORMAT"},
		KeyLogFile:     {"FOCO_LOG_FILE"},
		KeyTheme:       {"FOCO_THEME"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// Load reads Settings from v, filling the session path from the data
// directory when unset.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIURL:      strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIURL)), "/"),
		SessionPath: ExpandPath(v.GetString(KeySessionPath)),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		LogFile:     ExpandPath(v.GetString(KeyLogFile)),
		Theme:       v.GetString(KeyTheme),
	}

	if s.SessionPath == "" {
		dir, err := DataDir()
		if err != nil {
			return Settings{}, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		s.SessionPath = filepath.Join(dir, "session.db")
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.APIURL == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyAPIURL)
	}
	u, err := url.Parse(s.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", common.ErrInvalidConfig, KeyAPIURL, s.APIURL)
	}
	if s.SessionPath == "" {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, KeySessionPath)
	}
	return nil
}

// DefaultLogFile is where the TUI logs when no log file is configured.
func (s Settings) DefaultLogFile() string {
	if s.LogFile != "" {
		return s.LogFile
	}
	return filepath.Join(filepath.Dir(s.SessionPath), AppName+".log")
}
