package authform

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "AUTHFORM"

// Delays are the pauses between a success toast and the page leaving.
type Delays struct {
	ForgotPassword time.Duration
	ResetPassword  time.Duration
}

type Config struct {
	BaseURL     string
	Language    string
	LogLevel    string
	Timeout     time.Duration
	SessionPath string
	Delays      Delays
	Routes      Routes
	Elements    Elements
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("baseurl", "http://localhost:8080")
	v.SetDefault("language", "id")
	v.SetDefault("loglevel", "info")
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("sessionpath", "")

	v.SetDefault("delays.forgotpassword", 1000*time.Millisecond)
	v.SetDefault("delays.resetpassword", 1500*time.Millisecond)

	r := DefaultRoutes()
	v.SetDefault("routes.login", r.Login)
	v.SetDefault("routes.logout", r.Logout)
	v.SetDefault("routes.forgotpassword", r.ForgotPassword)
	v.SetDefault("routes.resetpassword", r.ResetPassword)
	v.SetDefault("routes.renewpassword", r.RenewPassword)

	e := DefaultElements()
	v.SetDefault("elements.loginform", e.LoginForm)
	v.SetDefault("elements.guestloginform", e.GuestLoginForm)
	v.SetDefault("elements.submittokenform", e.SubmitTokenForm)
	v.SetDefault("elements.forgotpasswordform", e.ForgotPasswordForm)
	v.SetDefault("elements.resetpasswordform", e.ResetPasswordForm)
	v.SetDefault("elements.passwordchangeform", e.PasswordChangeForm)
	v.SetDefault("elements.forgotpasswordlink", e.ForgotPasswordLink)
	v.SetDefault("elements.loginlink", e.LoginLink)
	v.SetDefault("elements.logout", e.Logout)
	v.SetDefault("elements.tokenbox", e.TokenBox)
	v.SetDefault("elements.redirectpath", e.RedirectPath)
}

// DefaultConfig returns the configuration used when no file is given,
// with AUTHFORM_* environment overrides applied.
func DefaultConfig() (*Config, error) {
	return ReadConfig("")
}

// ReadConfig reads the config file at path (any format viper supports) on
// top of the defaults. An empty path reads defaults and environment only.
func ReadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: base url %q must be an absolute url", cfg.BaseURL)
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("config: negative timeout %s", cfg.Timeout)
	}
	return nil
}

// Level returns the configured log level, info when unparsable.
func (cfg *Config) Level() log.Level {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
