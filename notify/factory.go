package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"chatkit/api"
	"chatkit/config"

	"github.com/sirupsen/logrus"
)

// Deps are the collaborators the configured sinks need. Nil fields fall back
// to stdout, stdin and the shared logger.
type Deps struct {
	API    *api.Client
	Out    io.Writer
	In     io.Reader
	Logger *logrus.Logger
}

// FromConfig builds the sinks named in cfg.Notifier.Sinks. More than one sink
// yields a Multi; notifier.async puts a Queue in front of the result.
func FromConfig(cfg *config.Config, deps Deps) (Notifier, error) {
	return Build(cfg, cfg.Notifier.Sinks, deps)
}

// Build is FromConfig with an explicit sink list.
func Build(cfg *config.Config, sinks []string, deps Deps) (Notifier, error) {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.In == nil {
		deps.In = os.Stdin
	}
	if deps.Logger == nil {
		deps.Logger = log
	}
	if len(sinks) == 0 {
		return nil, fmt.Errorf("no notification sinks configured")
	}

	var built Multi
	for _, name := range sinks {
		n, err := buildSink(cfg, name, deps)
		if err != nil {
			_ = built.Close()
			return nil, err
		}
		built = append(built, n)
	}

	var result Notifier = built
	if len(built) == 1 {
		result = built[0]
	}
	if cfg.Notifier.Async {
		result = NewQueue(result)
	}
	return result, nil
}

func buildSink(cfg *config.Config, name string, deps Deps) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case config.SinkConsole:
		return Console{W: deps.Out}, nil
	case config.SinkLog:
		return Log{Logger: deps.Logger}, nil
	case config.SinkPrompt:
		return NewPrompt(deps.Out, deps.In), nil
	case config.SinkDesktop:
		return Desktop{Title: cfg.Notifier.Title}, nil
	case config.SinkTelegram:
		if deps.API == nil {
			return nil, fmt.Errorf("telegram sink needs an api client")
		}
		if cfg.Telegram.APIBase == "" || cfg.Telegram.ChatID == 0 {
			return nil, fmt.Errorf("telegram sink needs telegram.api_base and telegram.chat_id")
		}
		return NewTelegram(deps.API, cfg.Telegram.APIBase, cfg.Telegram.ChatID), nil
	case config.SinkWebSocket:
		return NewWebSocket(cfg.WebSocket.URL, cfg.WebSocket.Room, cfg.WebSocket.Token)
	default:
		return nil, fmt.Errorf("unknown notification sink %q", name)
	}
}
