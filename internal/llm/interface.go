package llm

import (
	"context"

	"github.com/comigor/advisor-go/internal/conversation"
	"github.com/comigor/advisor-go/internal/stream"
)

// Client is the generative-text service the advisor streams answers from; it is easy to mock in tests.
// StreamMessage fails when the call cannot be started; failures after that surface from the Source.
type Client interface {
	StreamMessage(ctx context.Context, message string, history []conversation.Turn) (stream.Source, error)
}
