package advisor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/qmuntal/stateless" // FSM library

	"github.com/comigor/advisor-go/internal/classifier"
	"github.com/comigor/advisor-go/internal/conversation"
	"github.com/comigor/advisor-go/internal/llm"
	"github.com/comigor/advisor-go/internal/logger"
	"github.com/comigor/advisor-go/internal/session"
	"github.com/comigor/advisor-go/internal/stream"
)

// Canned replies.
const (
	GreetingText   = "Hello! How can I assist you with computer science-related questions.?"
	FarewellText   = "Goodbye! Have a great day!"
	OffTopicText   = "This is a computer science advising system. Please ask computer science-related questions."
	ConnectionText = "Seems like I'm having trouble connecting to the server. Please try again later."
)

// FSM States
type FSMState string

const (
	StateReceived     FSMState = "Received"
	StateGreeted      FSMState = "Greeted"      // Terminal
	StateFarewellSaid FSMState = "FarewellSaid" // Terminal
	StateOffTopic     FSMState = "OffTopic"     // Terminal
	StateStreaming    FSMState = "Streaming"
	StateDone         FSMState = "Done"   // Terminal: answer streamed completely
	StateFailed       FSMState = "Failed" // Terminal: collaborator failed, error turn appended
)

// FSM Triggers
type FSMTrigger string

const (
	TriggerGreeting        FSMTrigger = "Greeting"
	TriggerFarewell        FSMTrigger = "Farewell"
	TriggerOffTopic        FSMTrigger = "OffTopic"
	TriggerRelated         FSMTrigger = "Related"
	TriggerStreamCompleted FSMTrigger = "StreamCompleted"
	TriggerStreamFailed    FSMTrigger = "StreamFailed"
)

// FragmentFunc observes text as it is appended to the reply turn.
type FragmentFunc func(fragment string)

// Result describes how a message was answered.
type Result struct {
	Category classifier.Category
	State    FSMState
	Reply    conversation.Turn
}

// Failed reports whether the answer was replaced by the connectivity error.
func (r Result) Failed() bool { return r.State == StateFailed }

// Advisor classifies user messages and answers them into the session log.
type Advisor struct {
	llmClient llm.Client
	session   *session.Session
	log       *slog.Logger

	loading atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// New creates an advisor writing into sess.
func New(llmClient llm.Client, sess *session.Session) *Advisor {
	return &Advisor{
		llmClient: llmClient,
		session:   sess,
		log:       logger.For("advisor").With("session", sess.GetShortID()),
	}
}

// Session returns the session the advisor writes into.
func (a *Advisor) Session() *session.Session { return a.session }

// Loading reports whether a live answer has been requested but not yet acknowledged.
func (a *Advisor) Loading() bool { return a.loading.Load() }

// Cancel stops the in-flight live answer, if any. The answer is then replaced
// by the connectivity error turn.
func (a *Advisor) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// Send records the user's message and appends the reply. Errors from the
// generative service never escape; they become the connectivity error turn.
func (a *Advisor) Send(ctx context.Context, message string, onFragment FragmentFunc) Result {
	type fsmContext struct {
		category classifier.Category
		history  []conversation.Turn
		index    int // reserved position of the reply turn
		err      error
	}

	if onFragment == nil {
		onFragment = func(string) {}
	}

	fsmCtx := &fsmContext{
		category: classifier.Classify(message),
		history:  a.session.Log.Snapshot(),
		index:    -1,
	}
	a.session.Log.Append(conversation.NewTurn(conversation.RoleUser, message))
	a.log.Debug("message classified", "category", fsmCtx.category.String())

	reply := func(text string) func(context.Context, ...any) error {
		return func(context.Context, ...any) error {
			fsmCtx.index = a.session.Log.Append(conversation.NewTurn(conversation.RoleModel, text))
			onFragment(text)
			return nil
		}
	}

	fsm := stateless.NewStateMachine(StateReceived)

	// State: Received
	// Transitions:
	//   - On Greeting/Farewell/OffTopic -> canned reply states
	//   - On Related -> StateStreaming
	fsm.Configure(StateReceived).
		Permit(TriggerGreeting, StateGreeted).
		Permit(TriggerFarewell, StateFarewellSaid).
		Permit(TriggerOffTopic, StateOffTopic).
		Permit(TriggerRelated, StateStreaming)

	fsm.Configure(StateGreeted).OnEntry(reply(GreetingText))
	fsm.Configure(StateFarewellSaid).OnEntry(reply(FarewellText))
	fsm.Configure(StateOffTopic).OnEntry(reply(OffTopicText))

	// State: Streaming
	// Action: reserve the reply position, then grow it fragment by fragment.
	// Transitions:
	//   - On StreamCompleted -> StateDone
	//   - On StreamFailed -> StateFailed
	fsm.Configure(StateStreaming).
		OnEntry(func(ctx context.Context, args ...any) error {
			fsmCtx.index = a.session.Log.Append(conversation.NewTurn(conversation.RoleModel, ""))
			if err := a.streamAnswer(ctx, message, fsmCtx.history, fsmCtx.index, onFragment); err != nil {
				fsmCtx.err = err
				return fsm.FireCtx(ctx, TriggerStreamFailed)
			}
			return fsm.FireCtx(ctx, TriggerStreamCompleted)
		}).
		Permit(TriggerStreamCompleted, StateDone).
		Permit(TriggerStreamFailed, StateFailed)

	fsm.Configure(StateDone).
		OnEntry(func(ctx context.Context, args ...any) error {
			a.log.Debug("FSM: Entering StateDone")
			return nil
		})

	// State: Failed
	// Action: swap the partially grown reply for the connectivity error. Only the
	// reserved turn is touched, so turns appended meanwhile survive.
	fsm.Configure(StateFailed).
		OnEntry(func(ctx context.Context, args ...any) error {
			a.log.Error("live answer failed", "error", fsmCtx.err)
			errTurn := conversation.NewTurn(conversation.RoleModel, ConnectionText)
			a.session.Log.Update(func(turns []conversation.Turn) []conversation.Turn {
				if fsmCtx.index >= 0 && fsmCtx.index < len(turns) {
					turns[fsmCtx.index] = errTurn
					return turns
				}
				// reserved turn is gone (log reset mid-answer)
				fsmCtx.index = len(turns)
				return append(turns, errTurn)
			})
			return nil
		})

	if err := fsm.FireCtx(ctx, triggerFor(fsmCtx.category)); err != nil {
		a.log.Warn("FSM fire error", "error", err)
	}

	result := Result{Category: fsmCtx.category, State: StateReceived}
	if st, err := fsm.State(ctx); err != nil {
		a.log.Error("FSM error when retrieving state", "error", err)
	} else if s, ok := st.(FSMState); ok {
		result.State = s
	}
	if t, ok := a.session.Log.At(fsmCtx.index); ok {
		result.Reply = t
	}
	return result
}

func triggerFor(c classifier.Category) FSMTrigger {
	switch {
	case c == classifier.Greeting:
		return TriggerGreeting
	case c == classifier.Farewell:
		return TriggerFarewell
	case c.Related():
		return TriggerRelated
	}
	return TriggerOffTopic
}

// streamAnswer asks the generative service and appends every fragment to the
// turn at index, in the order produced.
func (a *Advisor) streamAnswer(ctx context.Context, message string, history []conversation.Turn, index int, onFragment FragmentFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.cancel = nil
		a.mu.Unlock()
		cancel()
	}()

	a.loading.Store(true)
	defer a.loading.Store(false)

	src, err := a.llmClient.StreamMessage(ctx, message, history)
	if err != nil {
		return err
	}
	a.loading.Store(false)

	task := stream.Start(ctx, src)
	var appendErr error
	for fragment := range task.Fragments() {
		if appendErr != nil {
			continue
		}
		if err := a.session.Log.AppendText(index, fragment); err != nil {
			appendErr = err
			task.Cancel()
			continue
		}
		onFragment(fragment)
	}
	if err := task.Wait(); err != nil {
		if appendErr != nil {
			return errors.Join(appendErr, err)
		}
		return err
	}
	return appendErr
}
