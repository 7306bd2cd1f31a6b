package models

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dohr-michael/todoscope/internal/config"
)

func TestCreateModelUnknownDriver(t *testing.T) {
	_, err := CreateModel(context.Background(), config.ProviderConfig{Driver: "cobol"})
	if err == nil || !strings.Contains(err.Error(), "unknown driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	r := NewRegistry(config.ModelsConfig{})

	if _, err := r.Get(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, err := r.Default(context.Background()); err == nil {
		t.Fatal("expected error when no default configured")
	}
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"status 401 unauthorized", "authentication failed"},
		{"429 too many requests", "rate limited"},
		{"model not found", "model not found"},
		{"dial tcp: connection refused", "connection error"},
	}

	for _, tc := range cases {
		got := HandleError(errors.New(tc.in))
		if !strings.Contains(got.Error(), tc.want) {
			t.Errorf("HandleError(%q) = %q, want prefix %q", tc.in, got, tc.want)
		}
	}

	if HandleError(nil) != nil {
		t.Error("HandleError(nil) must be nil")
	}

	plain := errors.New("something odd")
	if HandleError(plain) != plain {
		t.Error("unclassified errors must pass through unchanged")
	}
}
