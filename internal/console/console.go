// File: internal/console/console.go
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/iyunix/go-brainchat/internal/domain"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

const helpText = `Commands:
  /new            start a new chat
  /list           list chats (newest first)
  /use N          switch to chat N from /list
  /rename TITLE   rename the active chat
  /delete [N]     delete chat N, or the active chat
  /help           show this help
  /quit           leave
Anything else is sent to the active chat.`

// Console is a line-oriented front end for a single workspace.
type Console struct {
	ws         *chatservice.Workspace
	out        io.Writer
	timeFormat string
	loc        *time.Location
}

type Option func(*Console)

// WithLocation sets the zone used for message timestamps.
func WithLocation(loc *time.Location) Option {
	return func(c *Console) { c.loc = loc }
}

func New(ws *chatservice.Workspace, out io.Writer, opts ...Option) (*Console, error) {
	if ws == nil {
		return nil, errors.New("console: workspace is required")
	}
	c := &Console{ws: ws, out: out, timeFormat: "15:04", loc: time.Local}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run reads commands from in until /quit, EOF or ctx ends.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.printf("brainchat console. Type /help for commands.\n")
	c.printActive()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for {
		c.printf("> ")
		if !scanner.Scan() {
			break
		}
		quit, err := c.Execute(ctx, scanner.Text())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.printf("error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read input")
	}
	return nil
}

// Execute handles one input line. Errors are user mistakes or a cancelled
// ctx; none of them end the session.
func (c *Console) Execute(ctx context.Context, line string) (quit bool, err error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return false, c.submit(ctx, line)
	}

	name, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)
	store := c.ws.Store

	switch strings.ToLower(name) {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		c.printf("%s\n", helpText)
	case "/new":
		chat := store.CreateChat()
		c.printf("Started %q\n", chat.Title)
	case "/list":
		c.printList()
	case "/use":
		chat, err := c.chatAt(arg)
		if err != nil {
			return false, err
		}
		if err := store.SelectChat(chat.ID); err != nil {
			return false, err
		}
		c.printActive()
	case "/rename":
		chat, err := store.RenameChat(store.ActiveChatID(), arg)
		if err != nil {
			return false, err
		}
		c.printf("Renamed to %q\n", chat.Title)
	case "/delete":
		id := store.ActiveChatID()
		if arg != "" {
			chat, err := c.chatAt(arg)
			if err != nil {
				return false, err
			}
			id = chat.ID
		}
		if err := store.DeleteChat(id); err != nil {
			return false, err
		}
		c.printf("Deleted.\n")
		c.printActive()
	default:
		return false, errors.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}

func (c *Console) submit(ctx context.Context, text string) error {
	sub, err := c.ws.Pipeline.TrySubmit(ctx, c.ws.Store.ActiveChatID(), text)
	if errors.Is(err, chatservice.ErrChatPending) {
		return errors.New("still waiting for the previous answer in this chat")
	}
	if sub == nil {
		return nil
	}
	res, err := sub.Wait(ctx)
	if err != nil {
		return err
	}
	if res.Reply != nil {
		c.printMessage(*res.Reply)
	}
	for _, n := range c.ws.Notifications.Drain() {
		c.printf("! %s: %s\n", n.Title, n.Description)
	}
	return nil
}

// chatAt resolves a 1-based position from /list.
func (c *Console) chatAt(arg string) (domain.Chat, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return domain.Chat{}, errors.Errorf("expected a chat number, got %q", arg)
	}
	chats := c.ws.Store.Chats()
	if n < 1 || n > len(chats) {
		return domain.Chat{}, errors.Errorf("no chat %d (have %d)", n, len(chats))
	}
	return chats[n-1], nil
}

func (c *Console) printList() {
	snap := c.ws.Store.Snapshot()
	for i, chat := range snap.Chats {
		marker := " "
		if chat.ID == snap.ActiveChatID {
			marker = "*"
		}
		status := ""
		if snap.Pending[chat.ID] {
			status = " (waiting)"
		}
		c.printf("%s %d. %s [%d]%s\n", marker, i+1, chat.Title, len(chat.Messages), status)
	}
}

func (c *Console) printActive() {
	chat, ok := c.ws.Store.ActiveChat()
	if !ok {
		return
	}
	c.printf("== %s ==\n", chat.Title)
	for _, m := range chat.Messages {
		c.printMessage(m)
	}
}

func (c *Console) printMessage(m domain.Message) {
	who := "you"
	if m.Role == domain.RoleAssistant {
		who = "ai"
	}
	c.printf("[%s] %s: %s\n", m.CreatedAt.In(c.loc).Format(c.timeFormat), who, m.Content)
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}
