package config

import (
	"net/url"
	"os"
	"strings"
)

// CompletionConfig points at the external assignment completion service
type CompletionConfig struct {
	Endpoint  string `json:"endpoint"`
	APIKey    string `json:"-"` // Never serialize
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultCompletionConfig returns the completion endpoint settings
func DefaultCompletionConfig() *CompletionConfig {
	return &CompletionConfig{
		Endpoint:  strings.TrimRight(os.Getenv("COMPLETION_ENDPOINT"), "/"),
		APIKey:    os.Getenv("COMPLETION_API_KEY"),
		TimeoutMS: int(getEnvInt64("COMPLETION_TIMEOUT_MS", 15000)),
	}
}

// IsEnabled returns true if completions go to the external service
func (c *CompletionConfig) IsEnabled() bool {
	return c.Endpoint != ""
}

// AssignmentEndpoint returns the completion URL of one assignment
func (c *CompletionConfig) AssignmentEndpoint(assignmentID string) string {
	return c.Endpoint + "/" + url.PathEscape(assignmentID)
}
