package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iyunix/go-brainchat/internal/idgen"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type echoAnswerer struct {
	err error
}

func (e echoAnswerer) Answer(_ context.Context, prompt string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return "echo: " + prompt, nil
}

func newConsole(t *testing.T, answerer chatservice.Answerer) (*Console, *chatservice.Workspace, *bytes.Buffer) {
	t.Helper()
	ws, err := chatservice.NewWorkspace("local", chatservice.WorkspaceDeps{
		Answerer: answerer,
		ChatIDs:  idgen.Sequence("c"),
	})
	require.NoError(t, err)
	t.Cleanup(ws.Pipeline.WaitIdle)

	var out bytes.Buffer
	c, err := New(ws, &out, WithLocation(time.UTC))
	require.NoError(t, err)
	return c, ws, &out
}

func TestSubmitPrintsReply(t *testing.T) {
	c, ws, out := newConsole(t, echoAnswerer{})

	quit, err := c.Execute(context.Background(), "hello there")
	require.NoError(t, err)
	assert.False(t, quit)

	assert.Contains(t, out.String(), "ai: echo: hello there")
	chat, _ := ws.Store.ActiveChat()
	assert.Equal(t, "hello there", chat.Title)
	assert.Len(t, chat.Messages, 2)
}

func TestBlankLineIsIgnored(t *testing.T) {
	c, ws, out := newConsole(t, echoAnswerer{})

	_, err := c.Execute(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, out.String())
	chat, _ := ws.Store.ActiveChat()
	assert.Empty(t, chat.Messages)
}

func TestFailurePrintsNotification(t *testing.T) {
	c, _, out := newConsole(t, echoAnswerer{err: errors.New("upstream down")})

	_, err := c.Execute(context.Background(), "hi")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Sorry, I encountered an error.")
	assert.Contains(t, out.String(), "! Error: Failed to get AI response: upstream down")
}

func TestChatCommands(t *testing.T) {
	c, ws, out := newConsole(t, echoAnswerer{})
	ctx := context.Background()

	_, err := c.Execute(ctx, "/new")
	require.NoError(t, err)
	assert.Equal(t, 2, ws.Store.Len())
	assert.Equal(t, "c2", ws.Store.ActiveChatID())

	_, err = c.Execute(ctx, "/rename  Notes ")
	require.NoError(t, err)
	chat, _ := ws.Store.Chat("c2")
	assert.Equal(t, "Notes", chat.Title)

	out.Reset()
	_, err = c.Execute(ctx, "/list")
	require.NoError(t, err)
	assert.Equal(t, "* 1. Notes [0]\n  2. New Chat [0]\n", out.String())

	_, err = c.Execute(ctx, "/use 2")
	require.NoError(t, err)
	assert.Equal(t, "c1", ws.Store.ActiveChatID())

	_, err = c.Execute(ctx, "/delete 1")
	require.NoError(t, err)
	assert.Equal(t, 1, ws.Store.Len())
	assert.Equal(t, "c1", ws.Store.ActiveChatID())

	_, err = c.Execute(ctx, "/delete")
	require.NoError(t, err)
	assert.Equal(t, 1, ws.Store.Len(), "the last chat is replaced")
	assert.Equal(t, "c3", ws.Store.ActiveChatID())
}

func TestBadCommands(t *testing.T) {
	c, ws, _ := newConsole(t, echoAnswerer{})
	ctx := context.Background()

	for _, line := range []string{"/use", "/use x", "/use 9", "/delete 0", "/frobnicate"} {
		_, err := c.Execute(ctx, line)
		assert.Error(t, err, line)
	}
	assert.Equal(t, 1, ws.Store.Len())
}

func TestRunUntilQuit(t *testing.T) {
	c, ws, out := newConsole(t, echoAnswerer{})

	in := strings.NewReader("/help\nfirst\n/bogus\n/quit\nnever sent\n")
	require.NoError(t, c.Run(context.Background(), in))

	assert.Contains(t, out.String(), "/rename TITLE")
	assert.Contains(t, out.String(), "echo: first")
	assert.Contains(t, out.String(), "error: unknown command /bogus")
	chat, _ := ws.Store.ActiveChat()
	assert.Len(t, chat.Messages, 2)
}

func TestRunStopsAtEOF(t *testing.T) {
	c, _, _ := newConsole(t, echoAnswerer{})
	assert.NoError(t, c.Run(context.Background(), strings.NewReader("/new\n")))
}

func TestNewRequiresWorkspace(t *testing.T) {
	_, err := New(nil, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestSubmitRefusedWhileChatPending(t *testing.T) {
	release := make(chan struct{})
	c, ws, _ := newConsole(t, chatservice.AnswerFunc(func(context.Context, string) (string, error) {
		<-release
		return "late", nil
	}))

	_, ok := ws.Pipeline.Submit(context.Background(), ws.Store.ActiveChatID(), "from elsewhere")
	require.True(t, ok)

	_, err := c.Execute(context.Background(), "me too")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "still waiting")

	close(release)
	ws.Pipeline.WaitIdle()
	chat, _ := ws.Store.ActiveChat()
	assert.Len(t, chat.Messages, 2)
}
