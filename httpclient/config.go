// Copyright 2021 The httpadapter Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gogama/httpadapter"
	"github.com/spf13/viper"
	"golang.org/x/net/http/httpguts"
)

// EnvPrefix is the prefix of the environment variables read by
// LoadConfig. For example HTTPADAPTER_BASE_URL sets Config.BaseURL and
// HTTPADAPTER_NETHTTP_IDLE_CONN_TIMEOUT sets
// Config.NetHTTP.IdleConnTimeout.
const EnvPrefix = "HTTPADAPTER"

// Config is the file and environment form of a Builder configuration.
//
// Header names in Headers are lowercased when loaded by LoadConfig,
// because keys are case-insensitive in viper. HTTP header names are
// case-insensitive too, so this only affects how the name is spelled on
// the wire.
type Config struct {
	// Backends lists the backends to activate. Empty means the compiled
	// features.
	Backends []string `mapstructure:"backends" validate:"dive,oneof=nethttp h2"`
	// ClientIdentifier is the client identifier. Empty means random.
	ClientIdentifier string `mapstructure:"client_identifier"`
	// IdentifierHeader is the name of the client identifier header.
	IdentifierHeader string `mapstructure:"identifier_header" validate:"omitempty,header_name"`
	// BaseURL is the base against which relative URLs are resolved.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
	// Headers are default headers.
	Headers map[string]string `mapstructure:"headers" validate:"dive,keys,header_name,endkeys"`

	NetHTTP NetHTTPConfig `mapstructure:"nethttp"`
	H2      H2Config      `mapstructure:"h2"`
}

// NetHTTPConfig holds nethttp backend settings. It is ignored in builds
// without the nethttp backend.
type NetHTTPConfig struct {
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host" validate:"gte=0"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout" validate:"gte=0"`
	DisableCompression  bool          `mapstructure:"disable_compression"`
}

// H2Config holds h2 backend settings. It is ignored in builds without
// the h2 backend.
type H2Config struct {
	AllowHTTP          bool          `mapstructure:"allow_http"`
	ReadIdleTimeout    time.Duration `mapstructure:"read_idle_timeout" validate:"gte=0"`
	PingTimeout        time.Duration `mapstructure:"ping_timeout" validate:"gte=0"`
	DisableCompression bool          `mapstructure:"disable_compression"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("header_name", func(fl validator.FieldLevel) bool {
			return httpguts.ValidHeaderFieldName(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the configuration. The error returned, if any, is a
// KindConfiguration *httpadapter.Error. Backend names are matched the
// way FeaturesFromNames matches them, ignoring case and surrounding
// space.
func (cfg Config) Validate() error {
	cfg.Backends = normalizeNames(cfg.Backends)
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return httpadapter.ConfigurationError(err)
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return httpadapter.ConfigurationError(
		fmt.Errorf("httpadapter/httpclient: invalid config: %s", strings.Join(messages, "; ")))
}

// LoadConfig reads a Config from the file at path, if path is not
// empty, overlaid with HTTPADAPTER_* environment variables, and
// validates it. The file format is chosen by extension, as supported by
// viper (YAML, JSON, TOML, and others).
//
// Duration values use time.ParseDuration syntax. A list of backends may
// be given in the environment as a comma-separated string.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only sees keys viper already knows about.
	v.SetDefault("backends", []string{})
	v.SetDefault("client_identifier", "")
	v.SetDefault("identifier_header", DefaultIdentifierHeader)
	v.SetDefault("base_url", "")
	v.SetDefault("nethttp.max_idle_conns_per_host", 0)
	v.SetDefault("nethttp.idle_conn_timeout", time.Duration(0))
	v.SetDefault("nethttp.disable_compression", false)
	v.SetDefault("h2.allow_http", false)
	v.SetDefault("h2.read_idle_timeout", time.Duration(0))
	v.SetDefault("h2.ping_timeout", time.Duration(0))
	v.SetDefault("h2.disable_compression", false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, httpadapter.ConfigurationError(
				fmt.Errorf("httpadapter/httpclient: failed to read config %s: %w", path, err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, httpadapter.ConfigurationError(
			fmt.Errorf("httpadapter/httpclient: failed to decode config: %w", err))
	}
	cfg.Backends = normalizeNames(cfg.Backends)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalizeNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = normalizeName(name)
	}
	return out
}

// FromConfig returns a Builder configured from cfg. Errors in cfg are
// recorded and returned by Build. The Builder may be configured further
// before building, for example with WithLogger.
func FromConfig(cfg Config) *Builder {
	b := NewBuilder()
	if err := cfg.Validate(); err != nil {
		b.err = err
		return b
	}

	if len(cfg.Backends) > 0 {
		f, err := FeaturesFromNames(cfg.Backends)
		if err != nil {
			b.err = err
			return b
		}
		b.WithFeatures(f)
	}
	if cfg.ClientIdentifier != "" {
		b.WithClientIdentifier(cfg.ClientIdentifier)
	}
	if cfg.IdentifierHeader != "" {
		b.WithIdentifierHeader(cfg.IdentifierHeader)
	}
	if cfg.BaseURL != "" {
		b.WithBaseURL(cfg.BaseURL)
	}

	names := make([]string, 0, len(cfg.Headers))
	for name := range cfg.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WithHeader(name, cfg.Headers[name])
	}

	b.configureNetHTTP(cfg.NetHTTP)
	b.configureH2(cfg.H2)
	return b
}
