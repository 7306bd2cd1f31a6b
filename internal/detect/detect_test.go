package detect

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeModel struct {
	content string
	err     error
	calls   int
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func TestClassifierVerdicts(t *testing.T) {
	cases := []struct {
		response string
		want     bool
	}{
		{"yes", true},
		{"Yes.", true},
		{" YES ", true},
		{"no", false},
		{"this is not a task", false},
	}

	for _, tc := range cases {
		c := NewClassifier(&fakeModel{content: tc.response})
		got, err := c.IsTask(context.Background(), "remind me to ship the report")
		if err != nil {
			t.Fatalf("classify: %v", err)
		}
		if got != tc.want {
			t.Errorf("response %q: expected %v, got %v", tc.response, tc.want, got)
		}
	}
}

func TestClassifierModelError(t *testing.T) {
	c := NewClassifier(&fakeModel{err: errors.New("429 too many requests")})

	if _, err := c.IsTask(context.Background(), "anything"); err == nil {
		t.Fatal("expected error from failing model")
	}
}

func TestExtractorParsesPlainJSON(t *testing.T) {
	e := NewExtractor(&fakeModel{content: `{"task": "ship the report", "deadline": "Friday", "assignee": null}`})

	ex, err := e.Extract(context.Background(), "remind me to ship the report by Friday")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ex.Task != "ship the report" || ex.Deadline != "Friday" || ex.Assignee != "" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
}

func TestExtractorStripsCodeFences(t *testing.T) {
	e := NewExtractor(&fakeModel{content: "```json\n{\"task\": \"water plants\", \"deadline\": null, \"assignee\": null}\n```"})

	ex, err := e.Extract(context.Background(), "water the plants")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if ex.Task != "water plants" || ex.Deadline != "" {
		t.Fatalf("unexpected extraction: %+v", ex)
	}
}

func TestExtractorRejectsMalformedResponse(t *testing.T) {
	cases := []string{
		"sure, here's the task you asked about",
		`{"task": ""}`,
		`{"deadline": "Friday"}`,
	}

	for _, response := range cases {
		e := NewExtractor(&fakeModel{content: response})
		if _, err := e.Extract(context.Background(), "text"); !errors.Is(err, ErrExtraction) {
			t.Errorf("response %q: expected ErrExtraction, got %v", response, err)
		}
	}
}

func TestExtractorModelError(t *testing.T) {
	e := NewExtractor(&fakeModel{err: errors.New("connection refused")})

	_, err := e.Extract(context.Background(), "anything")
	if err == nil || errors.Is(err, ErrExtraction) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}
