package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the checkout service.
// Tags used:
// - mapstructure: key read by viper from .env or the environment
// - default: value applied when the key is missing
// - required: if "true", Load fails when the value is empty
type AppConfig struct {
	// Environment specifies the runtime environment (development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the HTTP API listens.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	Store    StoreAPIConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Checkout CheckoutConfig `mapstructure:",squash"`
	Breaker  BreakerConfig  `mapstructure:",squash"`
	Proxy    ProxyConfig    `mapstructure:",squash"`
}

// StoreAPIConfig points at the shop backend that owns parts, rates and orders.
type StoreAPIConfig struct {
	URL            string `mapstructure:"STORE_API_URL" required:"true"`
	TimeoutSeconds int    `mapstructure:"STORE_API_TIMEOUT_SECONDS" default:"15"`
}

// Timeout returns the per-request timeout for store API calls.
func (c StoreAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig holds the connection string for cart and pending-order storage.
type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// KeyPrefix namespaces every key this service writes.
	KeyPrefix string `mapstructure:"REDIS_KEY_PREFIX" default:"checkout:"`
}

// CheckoutConfig tunes the checkout flow.
type CheckoutConfig struct {
	// PublicURL is the storefront origin used to build confirmation and cancel URLs.
	PublicURL string `mapstructure:"CHECKOUT_PUBLIC_URL" required:"true"`
	Currency  string `mapstructure:"CHECKOUT_CURRENCY" default:"EUR"`
	ShopName  string `mapstructure:"CHECKOUT_SHOP_NAME" default:"Desguace Murcia"`

	QuoteDebounceMS        int `mapstructure:"CHECKOUT_QUOTE_DEBOUNCE_MS" default:"400"`
	QuoteTimeoutSeconds    int `mapstructure:"CHECKOUT_QUOTE_TIMEOUT_SECONDS" default:"20"`
	SnapshotTTLMinutes     int `mapstructure:"CHECKOUT_SNAPSHOT_TTL_MINUTES" default:"60"`
	SessionTTLMinutes      int `mapstructure:"CHECKOUT_SESSION_TTL_MINUTES" default:"120"`
	CatalogTTLMinutes      int `mapstructure:"CHECKOUT_CATALOG_TTL_MINUTES" default:"10"`
	WeightLookupConcurrent int `mapstructure:"CHECKOUT_WEIGHT_LOOKUP_CONCURRENCY" default:"8"`
}

func (c CheckoutConfig) QuoteDebounce() time.Duration {
	return time.Duration(c.QuoteDebounceMS) * time.Millisecond
}

func (c CheckoutConfig) QuoteTimeout() time.Duration {
	return time.Duration(c.QuoteTimeoutSeconds) * time.Second
}

func (c CheckoutConfig) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLMinutes) * time.Minute
}

func (c CheckoutConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c CheckoutConfig) CatalogTTL() time.Duration {
	return time.Duration(c.CatalogTTLMinutes) * time.Minute
}

// BreakerConfig controls the circuit breaker in front of the shipping rate service.
type BreakerConfig struct {
	MaxFailures int `mapstructure:"BREAKER_MAX_FAILURES" default:"5"`
	OpenSeconds int `mapstructure:"BREAKER_OPEN_SECONDS" default:"30"`
}

// ProxyConfig holds the upstream proxy used by the gateway probe browser.
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"PROXY_ENABLED" default:"false"`
	Host     string `mapstructure:"PROXY_HOST"`
	Port     string `mapstructure:"PROXY_PORT"`
	Username string `mapstructure:"PROXY_USERNAME"`
	Password string `mapstructure:"PROXY_PASSWORD"`
}

// Load loads configuration from a .env file in path and from environment variables.
func Load(path string) (*AppConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig

	bindTags(v, reflect.ValueOf(&cfg).Elem())

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(reflect.ValueOf(&cfg).Elem()); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadProxy reads only the proxy keys, for tools that do not talk to the store.
func LoadProxy(path string) (*ProxyConfig, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}

	var cfg ProxyConfig
	bindTags(v, reflect.ValueOf(&cfg).Elem())
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// bindTags registers every mapstructure key with viper and applies default tags.
func bindTags(v *viper.Viper, val reflect.Value) {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			bindTags(v, val.Field(i))
			continue
		}

		key := field.Tag.Get("mapstructure")
		if key == "" {
			continue
		}
		_ = v.BindEnv(key)
		if def := field.Tag.Get("default"); def != "" {
			v.SetDefault(key, def)
		}
	}
}

// validateRequired fails on the first required field left at its zero value.
func validateRequired(val reflect.Value) error {
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i)); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}
