package tools

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/comigor/advisor-go/internal/advisor"
	"github.com/comigor/advisor-go/internal/conversation"
	"github.com/comigor/advisor-go/internal/session"
	"github.com/comigor/advisor-go/internal/store"
	"github.com/comigor/advisor-go/internal/stream"
)

type mockLLM struct {
	answer string
	err    error
}

func (m *mockLLM) StreamMessage(context.Context, string, []conversation.Turn) (stream.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &oneShot{text: m.answer}, nil
}

type oneShot struct {
	text string
	sent bool
}

func (o *oneShot) Recv() (string, error) {
	if o.sent {
		return "", io.EOF
	}
	o.sent = true
	return o.text, nil
}

func (o *oneShot) Close() error { return nil }

func newAdvisor(client *mockLLM) *advisor.Advisor {
	return advisor.New(client, session.New(store.NewMemory(), ""))
}

func TestToolManager(t *testing.T) {
	m := NewToolManager(ClassifyTool{}, NewAskAdvisorTool(newAdvisor(&mockLLM{})))

	names := []string{}
	for _, tool := range m.List() {
		names = append(names, tool.Name())
	}
	require.Equal(t, []string{"ask_advisor", "classify_message"}, names)

	tool, err := m.GetTool("classify_message")
	require.NoError(t, err)
	require.Equal(t, "classify_message", tool.Name())

	_, err = m.GetTool("home_assistant")
	require.Error(t, err)
}

func TestClassifyTool(t *testing.T) {
	out, err := ClassifyTool{}.Run(context.Background(), "CSC-220 study guide")
	require.NoError(t, err)
	require.Equal(t, "course_related", out)
}

func TestAskAdvisorTool(t *testing.T) {
	out, err := NewAskAdvisorTool(newAdvisor(&mockLLM{answer: "Recursion is..."})).Run(context.Background(), "explain recursion in programming")
	require.NoError(t, err)
	require.Equal(t, "Recursion is...", out)

	_, err = NewAskAdvisorTool(newAdvisor(&mockLLM{err: errors.New("down")})).Run(context.Background(), "data")
	require.EqualError(t, err, advisor.ConnectionText)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func TestToolHandler(t *testing.T) {
	h := toolHandler(NewToolManager(ClassifyTool{}))

	res, err := h(context.Background(), callRequest("classify_message", map[string]any{"message": "bye"}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	require.Equal(t, "farewell", text.Text)

	res, err = h(context.Background(), callRequest("classify_message", map[string]any{}))
	require.NoError(t, err)
	require.True(t, res.IsError)

	res, err = h(context.Background(), callRequest("ask_advisor", map[string]any{"message": "bye"}))
	require.NoError(t, err)
	require.True(t, res.IsError, "unregistered tools are rejected")
}

func TestClassifyToolDescriptionListsPhrases(t *testing.T) {
	d := ClassifyTool{}.Description()
	require.Contains(t, d, "hello")
	require.Contains(t, d, "see you")
	require.Contains(t, d, "programming")
}

func TestNewMCPServer(t *testing.T) {
	s := NewMCPServer(NewToolManager(ClassifyTool{}), "test")
	require.NotNil(t, s)
}
