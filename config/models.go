package config

// NotifierConfig selects and tunes the notification sinks.
type NotifierConfig struct {
	Sinks []string `mapstructure:"sinks"`
	Title string   `mapstructure:"title"`
	Async bool     `mapstructure:"async"`
}

// TelegramConfig holds the Bot API settings for the telegram sink.
type TelegramConfig struct {
	APIBase string `mapstructure:"api_base"`
	ChatID  int64  `mapstructure:"chat_id"`
}

// WebSocketConfig holds the chat room settings for the websocket sink.
type WebSocketConfig struct {
	URL   string `mapstructure:"url"`
	Room  string `mapstructure:"room"`
	Token string `mapstructure:"token"`
}

// Config holds the application configuration.
type Config struct {
	APIRoot   string          `mapstructure:"api_root"`
	LogLevel  string          `mapstructure:"log_level"`
	Notifier  NotifierConfig  `mapstructure:"notifier"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// Sink names accepted in notifier.sinks.
const (
	SinkConsole   = "console"
	SinkLog       = "log"
	SinkPrompt    = "prompt"
	SinkDesktop   = "desktop"
	SinkTelegram  = "telegram"
	SinkWebSocket = "websocket"
)

var knownSinks = map[string]bool{
	SinkConsole:   true,
	SinkLog:       true,
	SinkPrompt:    true,
	SinkDesktop:   true,
	SinkTelegram:  true,
	SinkWebSocket: true,
}
