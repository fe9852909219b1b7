// File: internal/services/chat/workspace.go
package chat

import "github.com/iyunix/go-brainchat/internal/idgen"

// Workspace bundles everything one signed-in client works with: its chats,
// the pipeline feeding them and the notifications raised along the way.
type Workspace struct {
	ID            string
	Store         *Store
	Pipeline      *Pipeline
	Notifications *NotificationFeed
}

// WorkspaceDeps are the collaborators shared by every workspace.
type WorkspaceDeps struct {
	Config     *Config
	Answerer   Answerer
	Recorder   SubmissionRecorder // optional
	Logger     Logger             // optional
	ChatIDs    idgen.Generator    // optional
	MessageIDs idgen.Generator    // optional
}

// NewWorkspace creates a workspace holding one fresh, active chat.
func NewWorkspace(id string, deps WorkspaceDeps) (*Workspace, error) {
	config := deps.Config
	if config == nil {
		config = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	storeOpts := []StoreOption{WithStoreLogger(logger)}
	if deps.ChatIDs != nil {
		storeOpts = append(storeOpts, WithChatIDs(deps.ChatIDs))
	}
	store := NewStore(config, storeOpts...)

	feed := NewNotificationFeed(config.NotificationBacklog)
	pipeOpts := []PipelineOption{
		WithNotifier(feed),
		WithPipelineLogger(logger),
		WithWorkspaceID(id),
	}
	if deps.Recorder != nil {
		pipeOpts = append(pipeOpts, WithRecorder(deps.Recorder))
	}
	if deps.MessageIDs != nil {
		pipeOpts = append(pipeOpts, WithMessageIDs(deps.MessageIDs))
	}
	pipeline, err := NewPipeline(config, store, deps.Answerer, pipeOpts...)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		ID:            id,
		Store:         store,
		Pipeline:      pipeline,
		Notifications: feed,
	}, nil
}
