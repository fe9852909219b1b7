// File: internal/services/chat_service.go
package services

import (
	"strings"
	"sync"
	"time"

	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

// ChatServiceConfig controls how long idle workspaces are kept around.
type ChatServiceConfig struct {
	IdleTTL       time.Duration // zero disables eviction
	CleanupPeriod time.Duration
}

func DefaultChatServiceConfig() *ChatServiceConfig {
	return &ChatServiceConfig{
		IdleTTL:       2 * time.Hour,
		CleanupPeriod: 10 * time.Minute,
	}
}

type workspaceEntry struct {
	ws       *chatservice.Workspace
	lastSeen time.Time
}

// ChatService owns one chat workspace per signed-in owner. Workspaces are
// created on first use and live in memory only.
type ChatService struct {
	config *ChatServiceConfig
	deps   chatservice.WorkspaceDeps
	logger Logger
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*workspaceEntry

	// retired counts dropped or evicted workspaces whose pipelines
	// have not gone idle yet.
	retired sync.WaitGroup

	stopCh   chan struct{}
	stopOnce sync.Once
	loopDone chan struct{}
}

func NewChatService(
	config *ChatServiceConfig,
	chatConfig *chatservice.Config,
	answerer chatservice.Answerer,
	recorder chatservice.SubmissionRecorder,
	logger Logger,
) (*ChatService, error) {
	// Validate dependencies
	if answerer == nil {
		return nil, chatservice.NewValidationError("constructor", "answerer is required")
	}
	if config == nil {
		config = DefaultChatServiceConfig()
	}
	if chatConfig == nil {
		chatConfig = chatservice.DefaultConfig()
	}
	if err := chatConfig.Validate(); err != nil {
		return nil, chatservice.NewConfigError("invalid chat config", err)
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	deps := chatservice.WorkspaceDeps{
		Config:   chatConfig,
		Answerer: answerer,
		Recorder: recorder,
		Logger:   logger,
	}

	s := &ChatService{
		config:     config,
		deps:       deps,
		logger:     logger,
		now:        time.Now,
		workspaces: make(map[string]*workspaceEntry),
		stopCh:     make(chan struct{}),
		loopDone:   make(chan struct{}),
	}

	if config.IdleTTL > 0 && config.CleanupPeriod > 0 {
		go s.cleanupLoop()
	} else {
		close(s.loopDone)
	}
	return s, nil
}

// Workspace returns the owner's workspace, creating it (and its first chat)
// on first access.
func (s *ChatService) Workspace(ownerID string) (*chatservice.Workspace, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, chatservice.NewValidationError("workspace", "owner id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.workspaces[ownerID]; ok {
		entry.lastSeen = s.now()
		return entry.ws, nil
	}

	ws, err := chatservice.NewWorkspace(ownerID, s.deps)
	if err != nil {
		return nil, err
	}
	s.workspaces[ownerID] = &workspaceEntry{ws: ws, lastSeen: s.now()}
	s.logger.Info("workspace created", "owner_id", ownerID)
	return ws, nil
}

// Lookup returns an existing workspace without creating one.
func (s *ChatService) Lookup(ownerID string) (*chatservice.Workspace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.workspaces[ownerID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.ws, true
}

// Drop forgets the owner's workspace. Submissions already in flight finish
// against the detached store and are never seen again, but Close still
// waits for them.
func (s *ChatService) Drop(ownerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.workspaces[ownerID]
	if !ok {
		return false
	}
	delete(s.workspaces, ownerID)
	s.retire(entry.ws)
	s.logger.Info("workspace dropped", "owner_id", ownerID)
	return true
}

// Len returns the number of live workspaces.
func (s *ChatService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

func (s *ChatService) cleanupLoop() {
	defer close(s.loopDone)
	ticker := time.NewTicker(s.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle()
		case <-s.stopCh:
			return
		}
	}
}

// evictIdle drops workspaces unused for longer than IdleTTL. Workspaces with
// a submission still pending are kept.
func (s *ChatService) evictIdle() int {
	if s.config.IdleTTL <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, entry := range s.workspaces {
		if now.Sub(entry.lastSeen) <= s.config.IdleTTL {
			continue
		}
		if len(entry.ws.Store.Snapshot().Pending) > 0 {
			continue
		}
		delete(s.workspaces, id)
		s.retire(entry.ws)
		evicted++
	}
	if evicted > 0 {
		s.logger.Info("evicted idle workspaces", "count", evicted, "remaining", len(s.workspaces))
	}
	return evicted
}

// retire keeps Close waiting on ws until its pipeline drains.
// Callers hold s.mu.
func (s *ChatService) retire(ws *chatservice.Workspace) {
	s.retired.Add(1)
	go func() {
		defer s.retired.Done()
		ws.Pipeline.WaitIdle()
	}()
}

// Close stops the cleanup goroutine and waits for in-flight submissions,
// including those of workspaces already dropped or evicted.
func (s *ChatService) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.loopDone

	s.mu.Lock()
	pipelines := make([]*chatservice.Pipeline, 0, len(s.workspaces))
	for _, entry := range s.workspaces {
		pipelines = append(pipelines, entry.ws.Pipeline)
	}
	s.mu.Unlock()

	for _, p := range pipelines {
		p.WaitIdle()
	}
	s.retired.Wait()
}
