package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/common"
	"github.com/AlexZinkM/anvil-tx/internal/crypto"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: when ANVIL_KEY_FILE is used the API key is decrypted at startup and
// kept in memory only - use GetAPIKey()
type Config struct {
	Network           string `envconfig:"ANVIL_NETWORK" default:"preprod"`
	APIURL            string `envconfig:"ANVIL_API_URL"`
	APIKey            string `envconfig:"ANVIL_API_KEY"`
	KeyFile           string `envconfig:"ANVIL_KEY_FILE"`
	TimeoutSeconds    int    `envconfig:"ANVIL_TIMEOUT_SECONDS" default:"30"`
	RateLimit         int    `envconfig:"ANVIL_RATE_LIMIT" default:"5"` // requests per second
	Port              string `envconfig:"PORT" default:"8080"`
	StorePath         string `envconfig:"STORE_PATH" default:"anvil.db"`
	PendingTTLMinutes int    `envconfig:"PENDING_TTL_MINUTES" default:"60"`
	SubmitCooldown    int    `envconfig:"SUBMIT_COOLDOWN_SECONDS" default:"0"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	ChangeAddress     string `envconfig:"CHANGE_ADDRESS"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.normalize(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) normalize() error {
	if err := common.ValidateNetwork(c.Network); err != nil {
		return err
	}
	if c.APIURL == "" {
		c.APIURL = common.APIBaseURL(c.Network)
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("ANVIL_TIMEOUT_SECONDS must be positive")
	}
	if c.RateLimit <= 0 {
		return errors.New("ANVIL_RATE_LIMIT must be positive")
	}
	if c.APIKey != "" && c.KeyFile != "" {
		return errors.New("set either ANVIL_API_KEY or ANVIL_KEY_FILE, not both")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// Set replaces the global configuration. Used by tools and tests that build
// a Config by hand.
func Set(c *Config) error {
	if err := c.normalize(); err != nil {
		return err
	}
	cfg = c
	return nil
}

// GetNetwork returns the Cardano network name
func GetNetwork() string {
	return Get().Network
}

// GetAPIURL returns the provider services root URL
func GetAPIURL() string {
	return Get().APIURL
}

// GetTimeout returns the HTTP timeout for provider calls
func GetTimeout() time.Duration {
	return time.Duration(Get().TimeoutSeconds) * time.Second
}

// GetRateLimit returns the allowed provider requests per second
func GetRateLimit() int {
	return Get().RateLimit
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetStorePath returns path to the pending transaction database
func GetStorePath() string {
	return Get().StorePath
}

// GetPendingTTL returns how long a built transaction waits for submission
func GetPendingTTL() time.Duration {
	return time.Duration(Get().PendingTTLMinutes) * time.Minute
}

// GetSubmitCooldown returns minimum delay between two submissions
func GetSubmitCooldown() time.Duration {
	return time.Duration(Get().SubmitCooldown) * time.Second
}

// GetLogLevel returns the zap level name
func GetLogLevel() string {
	return Get().LogLevel
}

// GetChangeAddress returns the default change address for the CLI
func GetChangeAddress() string {
	return Get().ChangeAddress
}

// GetAPIKey returns the credential sent as x-api-key.
// Returns an error when neither ANVIL_API_KEY was set nor LoadKeyFile succeeded.
func GetAPIKey() (string, error) {
	c := Get()
	if c.APIKey == "" {
		if c.KeyFile != "" {
			return "", errors.New("api key is sealed: call LoadKeyFile at startup")
		}
		return "", errors.New("api key not set: use ANVIL_API_KEY or ANVIL_KEY_FILE")
	}
	return c.APIKey, nil
}

// LoadKeyFile prompts for the key file password in the terminal and
// decrypts ANVIL_KEY_FILE into memory. No-op when no key file is configured.
func LoadKeyFile() error {
	c := Get()
	if c.KeyFile == "" {
		return nil
	}

	password, err := PromptForPassword("Enter key file password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	sealed, err := crypto.OpenKey(c.KeyFile, password)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	if sealed.Network != c.Network {
		return fmt.Errorf("key file is for %s, configured network is %s", sealed.Network, c.Network)
	}
	c.APIKey = sealed.APIKey
	return nil
}

// PromptForPassword reads a password from the terminal without echo.
// Caller must zero the returned slice after use.
func PromptForPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}
	return raw, nil
}
