// Package slack is the chat-platform collaborator: it feeds inbound
// messages to the ingestion pipeline and resolves user/channel ids for
// the directory resolver.
package slack

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/dohr-michael/todoscope/internal/config"
	"github.com/dohr-michael/todoscope/internal/directory"
	"github.com/dohr-michael/todoscope/internal/ingest"
)

const (
	maxStartRetries = 3
	retryBackoff    = 5 * time.Second
)

// Client wraps a socket-mode Slack connection.
type Client struct {
	api      *slack.Client
	socket   *socketmode.Client
	pipeline *ingest.Pipeline
}

// New creates a Client from config. The client also serves as the
// directory.Lookup for the resolver, so it is constructed before the
// pipeline; attach the pipeline with SetPipeline once it exists.
func New(cfg config.SlackConfig) *Client {
	api := slack.New(cfg.BotToken, slack.OptionAppLevelToken(cfg.AppToken))
	return &Client{
		api:    api,
		socket: socketmode.New(api),
	}
}

// SetPipeline wires the ingestion pipeline that receives every regular
// channel message the bot can see.
func (c *Client) SetPipeline(p *ingest.Pipeline) {
	c.pipeline = p
}

// DisplayName implements directory.Lookup against the Slack Web API.
func (c *Client) DisplayName(ctx context.Context, id string, kind directory.Kind) (string, error) {
	if kind == directory.KindChannel {
		ch, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{ChannelID: id})
		if err != nil {
			return "", fmt.Errorf("conversations.info %s: %w", id, err)
		}
		return ch.Name, nil
	}

	user, err := c.api.GetUserInfoContext(ctx, id)
	if err != nil {
		return "", fmt.Errorf("users.info %s: %w", id, err)
	}
	if user.RealName != "" {
		return user.RealName, nil
	}
	return user.Name, nil
}

// Run connects in socket mode and dispatches messages until ctx is
// cancelled. Connection attempts are retried with a fixed backoff
// before giving up.
func (c *Client) Run(ctx context.Context) error {
	go c.dispatch(ctx)

	var err error
	for attempt := 1; attempt <= maxStartRetries; attempt++ {
		err = c.socket.RunContext(ctx)
		if err == nil || ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("slack connection failed", "attempt", attempt, "error", err)

		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("slack: giving up after %d attempts: %w", maxStartRetries, err)
}

// dispatch consumes socket-mode events. Each message is processed in
// its own goroutine so a slow LLM call never stalls the event loop,
// and a failure in one message is isolated to that message.
func (c *Client) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-c.socket.Events:
			if !ok {
				return
			}
			c.handleEvent(ctx, evt)
		}
	}
}

func (c *Client) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnected:
		slog.Info("slack connected")
	case socketmode.EventTypeConnectionError:
		slog.Warn("slack connection error", "data", evt.Data)
	case socketmode.EventTypeEventsAPI:
		apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			c.socket.Ack(*evt.Request)
		}
		c.handleCallback(ctx, apiEvent)
	}
}

func (c *Client) handleCallback(ctx context.Context, apiEvent slackevents.EventsAPIEvent) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}

	msg, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok || c.pipeline == nil {
		return
	}
	// Skip bot echoes, edits, joins and other non-user messages.
	if msg.BotID != "" || msg.SubType != "" || msg.Text == "" {
		return
	}

	go func() {
		err := c.pipeline.Process(ctx, ingest.Message{
			Text:      msg.Text,
			UserID:    msg.User,
			ChannelID: msg.Channel,
		})
		if err != nil {
			slog.Error("message processing failed", "channel", msg.Channel, "error", err)
		}
	}()
}
