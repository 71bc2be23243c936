package tools

import "context"

// Tool is the interface for all tools
type Tool interface {
	Name() string
	Description() string
	// Run answers a single free-text message.
	Run(ctx context.Context, message string) (string, error)
}
