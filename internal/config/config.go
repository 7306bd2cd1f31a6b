package config

import "time"

// Config is the root configuration for todoscope.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Models  ModelsConfig  `json:"models"`
	Slack   SlackConfig   `json:"slack"`
	Dedup   DedupConfig   `json:"dedup"`
	Events  EventsConfig  `json:"events"`
}

// GatewayConfig holds the HTTP/WebSocket server settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ModelsConfig holds LLM provider configuration.
type ModelsConfig struct {
	Default   string                    `json:"default"`
	Providers map[string]ProviderConfig `json:"providers"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Driver    string         `json:"driver"` // "openai", "claude", "ollama"
	Model     string         `json:"model"`
	BaseURL   string         `json:"base_url,omitempty"`
	APIKey    string         `json:"api_key,omitempty"` // direct key or ${{ .Env.VAR }} template
	MaxTokens int            `json:"max_tokens,omitempty"`
	Timeout   Duration       `json:"timeout,omitempty"`
	Options   map[string]any `json:"options,omitempty"`
}

// SlackConfig holds the chat platform credentials. Both tokens empty
// means the server runs without message ingestion.
type SlackConfig struct {
	BotToken string `json:"bot_token,omitempty"` // xoxb- token, or ${{ .Env.SLACK_BOT_TOKEN }}
	AppToken string `json:"app_token,omitempty"` // xapp- token for socket mode
}

// DedupConfig tunes the duplicate detector.
type DedupConfig struct {
	Threshold float64  `json:"threshold"` // similarity score in (0,1]
	Window    Duration `json:"window"`    // how long admitted tasks stay comparable
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
