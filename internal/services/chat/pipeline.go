// File: internal/services/chat/pipeline.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/iyunix/go-brainchat/internal/domain"
	"github.com/iyunix/go-brainchat/internal/idgen"
)

const recordTimeout = 5 * time.Second

// Pipeline runs message submissions against a Store: append the user
// message, call the answer service once, append the answer or an error
// bubble, and hold the chat's pending flag for the duration of the call.
//
// Submit does not reject overlapping submissions to the same chat;
// TrySubmit does.
type Pipeline struct {
	config      *Config
	store       *Store
	answerer    Answerer
	notifier    Notifier
	recorder    SubmissionRecorder
	ids         idgen.Generator
	logger      Logger
	workspaceID string
	now         func() time.Time

	inflight sync.WaitGroup
}

type PipelineOption func(*Pipeline)

func WithNotifier(n Notifier) PipelineOption {
	return func(p *Pipeline) { p.notifier = n }
}

func WithRecorder(r SubmissionRecorder) PipelineOption {
	return func(p *Pipeline) { p.recorder = r }
}

// WithMessageIDs overrides the message id generator.
func WithMessageIDs(g idgen.Generator) PipelineOption {
	return func(p *Pipeline) { p.ids = g }
}

func WithPipelineLogger(l Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

// WithWorkspaceID tags submission records with the owning workspace.
func WithWorkspaceID(id string) PipelineOption {
	return func(p *Pipeline) { p.workspaceID = id }
}

func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a new instance of the Pipeline.
func NewPipeline(config *Config, store *Store, answerer Answerer, opts ...PipelineOption) (*Pipeline, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewConfigError("invalid chat config", err)
	}
	if store == nil {
		return nil, NewValidationError("constructor", "store is required")
	}
	if answerer == nil {
		return nil, NewValidationError("constructor", "answerer is required")
	}

	p := &Pipeline{
		config:   config,
		store:    store,
		answerer: answerer,
		ids:      idgen.New("msg_"),
		logger:   noopLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Submission tracks one accepted submit call until it settles.
type Submission struct {
	ChatID      string
	UserMessage domain.Message

	done   chan struct{}
	result Result
}

// Done is closed once the assistant outcome is in the store (or discarded)
// and the pending flag is cleared.
func (s *Submission) Done() <-chan struct{} { return s.done }

// Result returns the outcome without blocking; ok is false while the
// submission is still in flight.
func (s *Submission) Result() (res Result, ok bool) {
	select {
	case <-s.done:
		return s.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the submission settles or ctx ends.
func (s *Submission) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
		return s.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// SubmitActive submits rawText to whichever chat is active right now.
func (p *Pipeline) SubmitActive(ctx context.Context, rawText string) (*Submission, bool) {
	return p.Submit(ctx, p.store.ActiveChatID(), rawText)
}

// Submit appends rawText as a user message and starts the answer call in
// the background. It returns false, with no state change, when the trimmed
// text is empty or the chat does not exist. A true return means the caller
// should clear its input.
//
// The answer call is detached from ctx cancellation (a closed HTTP request
// must not abort it) but keeps ctx values and is bounded by AnswerTimeout.
func (p *Pipeline) Submit(ctx context.Context, chatID, rawText string) (*Submission, bool) {
	sub, err := p.submit(ctx, chatID, rawText, false)
	return sub, err == nil && sub != nil
}

// TrySubmit is Submit for front ends that allow one outstanding answer per
// chat. It fails with ErrChatPending, changing nothing, while the chat is
// pending; the check and the append happen atomically. Blank text and
// unknown chats give (nil, nil) like Submit's false.
func (p *Pipeline) TrySubmit(ctx context.Context, chatID, rawText string) (*Submission, error) {
	sub, err := p.submit(ctx, chatID, rawText, true)
	if errors.Is(err, ErrChatPending) {
		return nil, err
	}
	return sub, nil
}

func (p *Pipeline) submit(ctx context.Context, chatID, rawText string, exclusive bool) (*Submission, error) {
	if strings.TrimSpace(rawText) == "" || chatID == "" {
		return nil, nil
	}

	userMsg := domain.NewUserMessage(p.ids.NewID(), rawText, p.now())
	if _, err := p.store.beginSubmission(chatID, userMsg, exclusive); err != nil {
		p.logger.Debug("submit ignored", "chat_id", chatID, "error", err)
		return nil, err
	}

	sub := &Submission{
		ChatID:      chatID,
		UserMessage: userMsg,
		done:        make(chan struct{}),
	}

	p.logger.Info("submission started", "chat_id", chatID, "prompt_chars", utf8.RuneCountInString(rawText))
	p.inflight.Add(1)
	go p.await(context.WithoutCancel(ctx), sub, rawText)
	return sub, nil
}

// WaitIdle blocks until every in-flight submission has settled.
func (p *Pipeline) WaitIdle() {
	p.inflight.Wait()
}

func (p *Pipeline) await(ctx context.Context, sub *Submission, prompt string) {
	start := p.now()
	res := Result{Outcome: OutcomeDiscarded}

	defer p.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("submission panicked", "chat_id", sub.ChatID, "panic", r)
			res.Err = fmt.Errorf("submission panicked: %v", r)
		}
		p.store.setPending(sub.ChatID, false)
		sub.result = res
		close(sub.done)
	}()

	reply, err := p.invoke(ctx, prompt)
	if err != nil {
		res = p.fail(sub.ChatID, err)
	} else {
		res = p.succeed(sub.ChatID, reply)
	}
	res.Latency = p.now().Sub(start)

	p.logger.Info("submission settled",
		"chat_id", sub.ChatID,
		"outcome", string(res.Outcome),
		"latency_ms", res.Latency.Milliseconds(),
	)
	p.record(ctx, sub, prompt, res)
}

// invoke is the single suspension point of a submission.
func (p *Pipeline) invoke(ctx context.Context, prompt string) (reply string, err error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.AnswerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("answer service panicked: %v", r)
		}
	}()
	return p.answerer.Answer(ctx, prompt)
}

func (p *Pipeline) succeed(chatID, reply string) Result {
	content := reply
	if strings.TrimSpace(content) == "" {
		content = p.config.NoResponseText
	}
	msg := domain.NewAssistantMessage(p.ids.NewID(), content, p.now())
	if _, err := p.store.AppendMessage(chatID, msg); err != nil {
		p.logger.Debug("answer discarded", "chat_id", chatID, "error", err)
		return Result{Outcome: OutcomeDiscarded}
	}
	return Result{Outcome: OutcomeAnswered, Reply: &msg}
}

func (p *Pipeline) fail(chatID string, cause error) Result {
	p.logger.Error("answer service call failed", "chat_id", chatID, "error", cause)
	answerErr := NewAnswerError(chatID, cause)

	msg := domain.NewAssistantMessage(p.ids.NewID(), p.config.FailureText, p.now())
	if _, err := p.store.AppendMessage(chatID, msg); err != nil {
		// Deleted mid-flight: nothing to attach the error to, nothing to tell.
		p.logger.Debug("failure discarded", "chat_id", chatID, "error", err)
		return Result{Outcome: OutcomeDiscarded, Err: answerErr}
	}

	if p.notifier != nil {
		p.notifier.Notify(domain.Notification{
			ChatID:      chatID,
			Title:       p.config.NotificationTitle,
			Description: p.config.FailurePrefix + errorDetail(cause, p.config.UnknownErrorText),
			Variant:     domain.VariantDestructive,
			CreatedAt:   p.now(),
		})
	}
	return Result{Outcome: OutcomeFailed, Reply: &msg, Err: answerErr}
}

func (p *Pipeline) record(ctx context.Context, sub *Submission, prompt string, res Result) {
	if p.recorder == nil {
		return
	}
	rec := &domain.SubmissionRecord{
		WorkspaceID: p.workspaceID,
		ChatID:      sub.ChatID,
		Outcome:     string(res.Outcome),
		PromptChars: utf8.RuneCountInString(prompt),
		LatencyMS:   res.Latency.Milliseconds(),
		CreatedAt:   p.now(),
	}
	if res.Reply != nil {
		rec.ReplyChars = utf8.RuneCountInString(res.Reply.Content)
	}
	if res.Err != nil {
		var chatErr *ChatError
		cause := res.Err
		if errors.As(res.Err, &chatErr) && chatErr.Cause != nil {
			cause = chatErr.Cause
		}
		rec.ErrorDetail = truncateRunes(errorDetail(cause, p.config.UnknownErrorText), 512)
	}

	recordCtx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()
	if err := p.recorder.Record(recordCtx, rec); err != nil {
		p.logger.Warn("failed to record submission", "chat_id", sub.ChatID, "error", err)
	}
}
