// Package detect holds the LLM collaborators that decide whether a
// chat message is a todo and pull the structured task out of it.
package detect

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/todoscope/internal/models"
)

// ChatModel is the narrow slice of an eino chat model this package
// needs. Production code passes a model.ToolCallingChatModel from the
// registry; tests pass fakes.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

const classifierSystemPrompt = "You are a task detector. Respond with only 'yes' or 'no'."

// Classifier asks the model for a yes/no verdict on a message.
type Classifier struct {
	model ChatModel
}

// NewClassifier creates a Classifier backed by chatModel.
func NewClassifier(chatModel ChatModel) *Classifier {
	return &Classifier{model: chatModel}
}

// IsTask returns true if the message describes a task or todo item.
func (c *Classifier) IsTask(ctx context.Context, text string) (bool, error) {
	msgs := []*schema.Message{
		{Role: schema.System, Content: classifierSystemPrompt},
		{Role: schema.User, Content: fmt.Sprintf(
			"Is this message a task or todo item? Consider action items, future tasks, assignments, deadlines, and responsibilities. Message: %q", text)},
	}

	result, err := c.model.Generate(ctx, msgs)
	if err != nil {
		return false, fmt.Errorf("classify: %w", models.HandleError(err))
	}

	verdict := strings.ToLower(strings.TrimSpace(result.Content))
	return strings.Contains(verdict, "yes"), nil
}
