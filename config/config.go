package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// The global, read-only config variable.
var (
	cfg  *Config
	once sync.Once
)

// LoadConfig reads the config file, parses it, and initializes the global cfg variable.
// It ensures that the configuration is set only once.
func LoadConfig(configFile string) (*Config, error) {
	var err error
	once.Do(func() {
		var configuration *Config
		configuration, err = Load(configFile)
		if err != nil {
			return
		}
		cfg = configuration
	})

	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("configuration was not set")
	}

	return cfg, nil
}

// GetConfig returns the loaded configuration.
// It panics if the configuration has not been set.
func GetConfig() *Config {
	if cfg == nil {
		panic("Config has not been set! Call LoadConfig first.")
	}
	return cfg
}

// Load builds a Config from defaults, the optional YAML file and CHATKIT_*
// environment variables, in increasing order of precedence.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CHATKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_root", "http://127.0.0.1:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("notifier.sinks", []string{SinkConsole})
	v.SetDefault("notifier.title", "chatkit")
	v.SetDefault("notifier.async", false)
	v.SetDefault("telegram.api_base", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("websocket.url", "ws://127.0.0.1:3000/ws/chat")
	v.SetDefault("websocket.room", "lobby")
	v.SetDefault("websocket.token", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the cross-field requirements that viper cannot express.
func (c *Config) Validate() error {
	if c.APIRoot == "" {
		return errors.New("api_root is required")
	}
	u, err := url.Parse(c.APIRoot)
	if err != nil {
		return fmt.Errorf("api_root: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_root must be an absolute URL, got %q", c.APIRoot)
	}

	for i, s := range c.Notifier.Sinks {
		s = strings.ToLower(strings.TrimSpace(s))
		if !knownSinks[s] {
			return fmt.Errorf("notifier.sinks: unknown sink %q", s)
		}
		c.Notifier.Sinks[i] = s
		switch s {
		case SinkTelegram:
			if c.Telegram.APIBase == "" {
				return errors.New("telegram.api_base is required for the telegram sink")
			}
			if c.Telegram.ChatID == 0 {
				return errors.New("telegram.chat_id is required for the telegram sink")
			}
		case SinkWebSocket:
			if c.WebSocket.URL == "" {
				return errors.New("websocket.url is required for the websocket sink")
			}
		}
	}
	return nil
}
