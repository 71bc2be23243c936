package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/comigor/advisor-go/internal/advisor"
	"github.com/comigor/advisor-go/internal/classifier"
)

// AskAdvisorTool answers a message through the advisor, recording it in the session.
type AskAdvisorTool struct {
	advisor *advisor.Advisor
}

func NewAskAdvisorTool(a *advisor.Advisor) *AskAdvisorTool {
	return &AskAdvisorTool{advisor: a}
}

func (t *AskAdvisorTool) Name() string { return "ask_advisor" }

func (t *AskAdvisorTool) Description() string {
	return "Ask the computer science advisor a question about courses (e.g. CSC 101), studying or computer science topics."
}

func (t *AskAdvisorTool) Run(ctx context.Context, message string) (string, error) {
	res := t.advisor.Send(ctx, message, nil)
	if res.Failed() {
		return "", errors.New(res.Reply.Text())
	}
	return res.Reply.Text(), nil
}

// ClassifyTool reports how the advisor would route a message, without answering it.
type ClassifyTool struct{}

func (ClassifyTool) Name() string { return "classify_message" }

func (ClassifyTool) Description() string {
	return fmt.Sprintf("Classify a message as greeting, farewell, course_related, study_related, generic_cs_related or unrelated. "+
		"Greetings: %s. Farewells: %s. Computer science keywords: %s.",
		strings.Join(classifier.Greetings(), ", "),
		strings.Join(classifier.Farewells(), ", "),
		strings.Join(classifier.Keywords(), ", "))
}

func (ClassifyTool) Run(_ context.Context, message string) (string, error) {
	return classifier.Classify(message).String(), nil
}
