// File: internal/services/chat/store.go
package chat

import (
	"strings"
	"sync"
	"time"

	"github.com/iyunix/go-brainchat/internal/domain"
	"github.com/iyunix/go-brainchat/internal/idgen"
)

// Store is the in-memory collection of chats for one workspace plus the
// active-chat pointer and the per-chat pending flags.
//
// Every mutation swaps a whole domain.Chat value under the lock, and every
// read hands out a copy, so callers never observe a half-applied change.
// The store is never empty: it starts with one chat and replaces the last
// chat as soon as it is deleted.
type Store struct {
	config *Config
	ids    idgen.Generator
	now    func() time.Time
	logger Logger

	mu       sync.Mutex
	chats    map[string]domain.Chat
	order    []string // newest-created first
	activeID string
	pending  map[string]bool

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type StoreOption func(*Store)

// WithChatIDs overrides the chat id generator.
func WithChatIDs(g idgen.Generator) StoreOption {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithStoreLogger(l Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore builds a store holding a single fresh, active chat.
func NewStore(config *Config, opts ...StoreOption) *Store {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Store{
		config:  config,
		ids:     idgen.New("chat_"),
		now:     time.Now,
		logger:  noopLogger{},
		chats:   make(map[string]domain.Chat),
		pending: make(map[string]bool),
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	s.createLocked()
	s.mu.Unlock()
	return s
}

// CreateChat adds an empty chat at the front of the display order and makes
// it active.
func (s *Store) CreateChat() domain.Chat {
	s.mu.Lock()
	chat := s.createLocked()
	s.mu.Unlock()

	s.logger.Debug("chat created", "chat_id", chat.ID)
	s.publish(Event{Type: EventChatCreated, ChatID: chat.ID, At: chat.CreatedAt})
	return chat
}

func (s *Store) createLocked() domain.Chat {
	chat := domain.NewChat(s.ids.NewID(), s.now())
	s.chats[chat.ID] = chat
	s.order = append([]string{chat.ID}, s.order...)
	s.activeID = chat.ID
	return chat.Clone()
}

// SelectChat makes id the active chat. Unknown ids leave the state untouched.
func (s *Store) SelectChat(id string) error {
	s.mu.Lock()
	if _, ok := s.chats[id]; !ok {
		s.mu.Unlock()
		return NewNotFoundError("select_chat", id)
	}
	s.activeID = id
	s.mu.Unlock()

	s.publish(Event{Type: EventChatSelected, ChatID: id, At: s.now()})
	return nil
}

// DeleteChat removes a chat. Deleting the active chat selects the newest
// remaining one; deleting the last chat creates a replacement right away.
func (s *Store) DeleteChat(id string) error {
	s.mu.Lock()
	if _, ok := s.chats[id]; !ok {
		s.mu.Unlock()
		return NewNotFoundError("delete_chat", id)
	}

	now := s.now()
	events := []Event{{Type: EventChatDeleted, ChatID: id, At: now}}

	delete(s.chats, id)
	delete(s.pending, id)
	s.order = removeID(s.order, id)

	if len(s.order) == 0 {
		replacement := s.createLocked()
		events = append(events, Event{Type: EventChatCreated, ChatID: replacement.ID, At: now})
	} else if s.activeID == id {
		s.activeID = s.order[0]
		events = append(events, Event{Type: EventChatSelected, ChatID: s.activeID, At: now})
	}
	s.mu.Unlock()

	s.logger.Debug("chat deleted", "chat_id", id)
	s.publish(events...)
	return nil
}

// RenameChat sets a user-chosen title. Blank titles become the untitled
// placeholder. A renamed chat no longer takes its title from its messages.
func (s *Store) RenameChat(id, title string) (domain.Chat, error) {
	s.mu.Lock()
	chat, ok := s.chats[id]
	if !ok {
		s.mu.Unlock()
		return domain.Chat{}, NewNotFoundError("rename_chat", id)
	}
	next := chat.Clone()
	next.Title = normalizeTitle(title, domain.UntitledChatTitle, s.config.RenameMaxRunes)
	next.Renamed = true
	s.chats[id] = next
	s.mu.Unlock()

	s.publish(Event{Type: EventChatRenamed, ChatID: id, At: s.now()})
	return next.Clone(), nil
}

// AppendMessage appends msg to the chat and bumps its UpdatedAt. The first
// user message of a chat that was never renamed also sets the title.
func (s *Store) AppendMessage(chatID string, msg domain.Message) (domain.Chat, error) {
	if err := validateMessage(msg); err != nil {
		return domain.Chat{}, err
	}

	s.mu.Lock()
	next, err := s.appendLocked(chatID, msg)
	s.mu.Unlock()
	if err != nil {
		return domain.Chat{}, err
	}

	s.publish(Event{Type: EventMessageAppended, ChatID: chatID, MessageID: msg.ID, At: next.UpdatedAt})
	return next.Clone(), nil
}

// beginSubmission appends the user message and raises the pending flag
// under one lock. With exclusive set it refuses, changing nothing, while
// the chat is already pending.
func (s *Store) beginSubmission(chatID string, msg domain.Message, exclusive bool) (domain.Chat, error) {
	if err := validateMessage(msg); err != nil {
		return domain.Chat{}, err
	}

	s.mu.Lock()
	was := s.pending[chatID]
	if exclusive && was {
		s.mu.Unlock()
		return domain.Chat{}, ErrChatPending
	}
	next, err := s.appendLocked(chatID, msg)
	if err != nil {
		s.mu.Unlock()
		return domain.Chat{}, err
	}
	s.pending[chatID] = true
	s.mu.Unlock()

	events := []Event{{Type: EventMessageAppended, ChatID: chatID, MessageID: msg.ID, At: next.UpdatedAt}}
	if !was {
		events = append(events, Event{Type: EventPendingChanged, ChatID: chatID, Pending: true, At: next.UpdatedAt})
	}
	s.publish(events...)
	return next.Clone(), nil
}

func validateMessage(msg domain.Message) error {
	if strings.TrimSpace(msg.ID) == "" {
		return NewValidationError("append_message", "message id is required")
	}
	if !msg.Role.Valid() {
		return NewValidationError("append_message", "unknown message role "+string(msg.Role))
	}
	return nil
}

func (s *Store) appendLocked(chatID string, msg domain.Message) (domain.Chat, error) {
	chat, ok := s.chats[chatID]
	if !ok {
		return domain.Chat{}, NewNotFoundError("append_message", chatID)
	}

	next := chat.Clone()
	first := len(next.Messages) == 0
	next.Messages = append(next.Messages, msg)
	next.UpdatedAt = s.now()
	if first && !next.Renamed && msg.Role == domain.RoleUser {
		next.Title = DeriveTitle(msg.Content, s.config.TitleMaxRunes, s.config.TitleCutRunes, s.config.TitleEllipsis)
	}
	s.chats[chatID] = next
	return next, nil
}

// setPending flips the outstanding-call flag. Setting it for a chat that no
// longer exists is ignored; clearing it always succeeds.
func (s *Store) setPending(chatID string, pending bool) {
	s.mu.Lock()
	_, exists := s.chats[chatID]
	was := s.pending[chatID]
	if pending {
		if !exists {
			s.mu.Unlock()
			return
		}
		s.pending[chatID] = true
	} else {
		delete(s.pending, chatID)
	}
	s.mu.Unlock()

	if was != pending && exists {
		s.publish(Event{Type: EventPendingChanged, ChatID: chatID, Pending: pending, At: s.now()})
	}
}

// Chats returns every chat, newest-created first.
func (s *Store) Chats() []domain.Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatsLocked()
}

func (s *Store) chatsLocked() []domain.Chat {
	out := make([]domain.Chat, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chats[id].Clone())
	}
	return out
}

func (s *Store) Chat(id string) (domain.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok {
		return domain.Chat{}, false
	}
	return chat.Clone(), true
}

func (s *Store) ActiveChatID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) ActiveChat() (domain.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[s.activeID]
	if !ok {
		return domain.Chat{}, false
	}
	return chat.Clone(), true
}

// IsPending reports whether an answer call is outstanding for the chat.
func (s *Store) IsPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[id]
}

// PendingChatIDs lists chats with an outstanding answer call, in display
// order.
func (s *Store) PendingChatIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, id := range s.order {
		if s.pending[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of chats.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make(map[string]bool, len(s.pending))
	for id, v := range s.pending {
		pending[id] = v
	}
	return Snapshot{
		Chats:        s.chatsLocked(),
		ActiveChatID: s.activeID,
		Pending:      pending,
	}
}

// Subscribe registers fn for every future Event. Callbacks run on the
// goroutine that made the change, after the store lock is released.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) publish(events ...Event) {
	s.subMu.Lock()
	if len(s.subs) == 0 {
		s.subMu.Unlock()
		return
	}
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
