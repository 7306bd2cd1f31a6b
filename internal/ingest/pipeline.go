// Package ingest orchestrates the message-to-todo pipeline: classify,
// extract, normalize, dedup, resolve, commit, broadcast.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dohr-michael/todoscope/internal/dedup"
	"github.com/dohr-michael/todoscope/internal/detect"
	"github.com/dohr-michael/todoscope/internal/directory"
	"github.com/dohr-michael/todoscope/internal/events"
	"github.com/dohr-michael/todoscope/internal/format"
	"github.com/dohr-michael/todoscope/internal/todo"
)

// Classifier decides whether a message describes a task.
type Classifier interface {
	IsTask(ctx context.Context, text string) (bool, error)
}

// Extractor pulls the structured task out of a message.
type Extractor interface {
	Extract(ctx context.Context, text string) (*detect.Extraction, error)
}

// Message is an inbound chat message with its raw identity references.
type Message struct {
	Text      string
	UserID    string
	ChannelID string
}

// Pipeline wires the detection collaborators to the todo state. It is
// stateless itself; concurrent Process calls are safe and independent,
// an error in one message never affects another.
type Pipeline struct {
	classifier Classifier
	extractor  Extractor
	detector   *dedup.Detector
	resolver   *directory.Resolver
	store      *todo.Store
	bus        *events.Bus
}

// Config holds the pipeline dependencies.
type Config struct {
	Classifier Classifier
	Extractor  Extractor
	Detector   *dedup.Detector
	Resolver   *directory.Resolver
	Store      *todo.Store
	Bus        *events.Bus
}

// New creates a Pipeline.
func New(cfg Config) *Pipeline {
	return &Pipeline{
		classifier: cfg.Classifier,
		extractor:  cfg.Extractor,
		detector:   cfg.Detector,
		resolver:   cfg.Resolver,
		store:      cfg.Store,
		bus:        cfg.Bus,
	}
}

// Process runs one message through the pipeline. A nil return means
// either a committed todo or a deliberate drop (not a task, duplicate).
// Errors are per-message; the caller logs them and moves on.
//
// Two near-identical messages in flight at the same time can both pass
// the duplicate gate before either commits. That race is accepted: the
// window is consulted at check time, not reserved.
func (p *Pipeline) Process(ctx context.Context, msg Message) error {
	slog.Debug("analyzing message", "channel", msg.ChannelID)

	p.bus.Publish(events.NewTypedEvent(events.SourcePipeline, events.MessageReceivedPayload{
		Text:      msg.Text,
		UserID:    msg.UserID,
		ChannelID: msg.ChannelID,
	}))

	isTask, err := p.classifier.IsTask(ctx, msg.Text)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if !isTask {
		return nil
	}

	extraction, err := p.extractor.Extract(ctx, msg.Text)
	if err != nil {
		return fmt.Errorf("extractor: %w", err)
	}

	task := format.NormalizeTask(extraction.Task)
	deadline := format.NormalizeDeadline(extraction.Deadline)

	if p.detector.IsDuplicate(task) {
		slog.Info("duplicate todo skipped", "task", task)
		return nil
	}

	rec := todo.Record{
		Task:     task,
		Deadline: deadline,
		User: todo.Identity{
			ID:   msg.UserID,
			Name: p.resolver.Resolve(ctx, msg.UserID, directory.KindUser),
		},
		Channel: todo.Identity{
			ID:   msg.ChannelID,
			Name: p.resolver.Resolve(ctx, msg.ChannelID, directory.KindChannel),
		},
		Status:      todo.StatusOpen,
		IndentLevel: 0,
	}

	id, err := p.store.Insert(rec)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	p.detector.Admit(task)

	slog.Info("todo added", "task", task, "timestamp", id)
	p.bus.Publish(events.NewTypedEvent(events.SourcePipeline, events.TodoCreatedPayload{
		Timestamp: id,
		Task:      task,
	}))
	return nil
}
