package detect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/dohr-michael/todoscope/internal/models"
)

// ErrExtraction marks a model response that could not be parsed into a
// usable task. Messages failing extraction are dropped, not retried.
var ErrExtraction = errors.New("detect: unparseable extraction response")

const extractorSystemPrompt = `Extract the core task, deadline, and assignee from the message. For deadlines:
- Convert relative dates to specific dates
- Include time if mentioned
- For rough deadlines, be specific

Respond in JSON format: {"task": "core task", "deadline": "formatted date or null", "assignee": "assignee or null"}`

// Extraction is the structured result pulled out of a message.
type Extraction struct {
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
	Assignee string `json:"assignee"`
}

// Extractor turns a positive-classified message into an Extraction.
type Extractor struct {
	model ChatModel
}

// NewExtractor creates an Extractor backed by chatModel.
func NewExtractor(chatModel ChatModel) *Extractor {
	return &Extractor{model: chatModel}
}

// Extract parses the task details out of text. Markdown code fences
// around the model response are stripped; a response that is not JSON
// or carries no task yields ErrExtraction.
func (e *Extractor) Extract(ctx context.Context, text string) (*Extraction, error) {
	msgs := []*schema.Message{
		{Role: schema.System, Content: extractorSystemPrompt},
		{Role: schema.User, Content: text},
	}

	result, err := e.model.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", models.HandleError(err))
	}

	ex, err := parseExtraction(result.Content)
	if err != nil {
		return nil, err
	}
	return ex, nil
}

func parseExtraction(content string) (*Extraction, error) {
	content = stripCodeFences(strings.TrimSpace(content))

	var ex Extraction
	if err := json.Unmarshal([]byte(content), &ex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if strings.TrimSpace(ex.Task) == "" {
		return nil, fmt.Errorf("%w: empty task", ErrExtraction)
	}
	return &ex, nil
}

// stripCodeFences unwraps a ```json ... ``` block if the model added one.
func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	lines := strings.Split(content, "\n")
	var jsonLines []string
	inBlock := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inBlock = !inBlock
			continue
		}
		if inBlock {
			jsonLines = append(jsonLines, line)
		}
	}
	return strings.Join(jsonLines, "\n")
}
