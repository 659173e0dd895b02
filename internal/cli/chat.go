// chat.go - The "easyq chat" command: a line-mode assistant session.
//
// Shares the conversation rules of the TUI (welcome seeding, history
// restore, localized error turns) and streams answers straight to the
// terminal. Dishes named in an answer are numbered so /add can put them in
// the cart.
//
// Command: chat <slug>
//
// Slash commands:
//   /add N         Add dish N of the last answer to the cart
//   /cart          Show the cart
//   /menu          Print the menu
//   /lang L        Switch language
//   /clear         Erase the conversation
//   /export [fmt]  Save the transcript and cart (md or json)
//   /help          Show commands
//   /quit          Leave (also: exit, quit, Ctrl+D)
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/chat"
	"github.com/easyq/easyq-tui/internal/config"
	"github.com/easyq/easyq-tui/internal/export"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/menu"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of user input.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads its history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line, adding non-empty input to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes the history file, owner read/write only.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION
// =============================================================================

// chatSession is the state of one REPL run.
type chatSession struct {
	env    *Env
	slug   string
	doc    *menu.Document
	conv   *chat.Conversation
	dishes []chat.Segment

	// printed is how much of the in-progress answer is on screen.
	printed int
}

// HandleChat runs the interactive chat REPL.
func HandleChat(ctx context.Context, env *Env, args Args) error {
	if args.Slug == "" {
		return ErrMissingArgument("slug", "easyq chat chez-marie")
	}
	in := NewChatCLI()
	defer in.Close()
	return RunChat(ctx, env, args.Slug, in)
}

// RunChat drives a conversation on slug with input from in.
func RunChat(ctx context.Context, env *Env, slug string, in LineReader) error {
	doc, err := env.Client.GetMenu(ctx, slug, env.Lang)
	if err != nil {
		return err
	}

	s := &chatSession{env: env, slug: slug, doc: doc}
	s.conv = chat.New(chat.Options{
		Slug:       slug,
		Lang:       env.Lang,
		SessionID:  env.SessionID,
		Backend:    env.Client,
		Translator: env.Bundle,
		Listener:   s.onEvent,
	})

	fmt.Fprintln(env.Out, TitleStyle.Render(doc.RestaurantName)+" "+DimStyle.Render("· "+env.T("chat.title")))
	fmt.Fprintln(env.Out, DimStyle.Render("/help for commands, Ctrl+D to leave"))
	fmt.Fprintln(env.Out)

	s.conv.Activate(ctx)
	s.printHistory()

	for {
		input, err := in.ReadInput(PromptStyle.Render("> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D, or end of piped input.
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				logging.Debug().Err(err).Msg("input closed")
			}
			fmt.Fprintln(env.Out)
			return nil
		}

		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case strings.EqualFold(input, "exit"), strings.EqualFold(input, "quit"):
			return nil
		case strings.HasPrefix(input, "/"):
			cont, err := s.command(ctx, input)
			if err != nil {
				DisplayError(env.Err, err, false)
			}
			if !cont {
				return nil
			}
		default:
			s.send(ctx, input)
		}
	}
}

// send streams one answer. Ctrl+C abandons it and returns to the prompt.
func (s *chatSession) send(ctx context.Context, input string) {
	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s.printed = 0
	err := s.conv.Submit(reqCtx, input)
	switch {
	case err == nil:
	case errors.Is(err, chat.ErrBusy):
		fmt.Fprintln(s.env.Err, WarningStyle.Render(s.env.T("chat.busy")))
	case reqCtx.Err() != nil:
		fmt.Fprintln(s.env.Out, "\n"+WarningStyle.Render("[Cancelled]"))
	}
}

func (s *chatSession) onEvent(ev chat.Event) {
	out := s.env.Out
	switch ev.Kind {
	case chat.EventChunk:
		if len(ev.Content) > s.printed {
			fmt.Fprint(out, ev.Content[s.printed:])
			s.printed = len(ev.Content)
		}
	case chat.EventCommitted:
		if s.printed > 0 {
			fmt.Fprintln(out)
		}
		s.listDishes(ev.Content)
		fmt.Fprintln(out)
	case chat.EventFailed:
		if s.printed > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, ErrorStyle.Render(ev.Content))
		logging.Debug().Err(ev.Err).Msg("answer failed")
	case chat.EventHistory:
		s.dishes = nil
	}
}

// printHistory prints every message, numbering the dishes of the last
// assistant turn.
func (s *chatSession) printHistory() {
	msgs := s.conv.Messages()
	last := ""
	for _, m := range msgs {
		label := PromptStyle.Render("you: ")
		if m.Role == api.RoleAssistant {
			label = DishStyle.Render(s.env.T("chat.title") + ": ")
			last = m.Content
		}
		fmt.Fprintln(s.env.Out, label+m.Content)
	}
	s.listDishes(last)
	fmt.Fprintln(s.env.Out)
}

func (s *chatSession) listDishes(content string) {
	s.dishes = chat.Dishes(chat.ParseSegments(content, s.doc.Catalog()))
	if len(s.dishes) == 0 {
		return
	}
	for i, d := range s.dishes {
		fmt.Fprintf(s.env.Out, "  %s %s  %s\n",
			DimStyle.Render(fmt.Sprintf("[%d]", i+1)),
			DishStyle.Render(d.Entry.Name),
			PriceStyle.Render(displayPrice(d.Entry.Price, s.currency(), s.env.Lang)))
	}
	fmt.Fprintln(s.env.Out, DimStyle.Render("/add N"))
}

func (s *chatSession) currency() string {
	return s.doc.CurrencyOr(s.env.Currency())
}

// command runs a slash command. It returns false to leave the REPL.
func (s *chatSession) command(ctx context.Context, input string) (bool, error) {
	fields := strings.Fields(input)
	name, rest := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "/quit", "/exit", "/q":
		return false, nil

	case "/help", "/?":
		fmt.Fprintln(s.env.Out, chatHelp)

	case "/clear":
		if err := s.conv.Clear(ctx); err != nil {
			// The local conversation was reset regardless.
			fmt.Fprintln(s.env.Err, WarningStyle.Render("server history not cleared: "+err.Error()))
		}
		s.printHistory()

	case "/cart":
		return true, showCart(s.env)

	case "/menu":
		PrintMenu(s.env.Out, s.doc, s.env.Bundle, s.env.Lang, s.env.Currency(), menuWidth())

	case "/add":
		if len(rest) != 1 {
			return true, ErrMissingArgument("N", "/add 1")
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil || n < 1 || n > len(s.dishes) {
			return true, ErrInvalidValue("dish number", rest[0], "/add 1")
		}
		d := s.dishes[n-1].Entry
		if err := s.env.Cart.AddItem(d); err != nil {
			return true, err
		}
		count := s.env.Cart.ItemCount()
		fmt.Fprintf(s.env.Out, "%s %s  %s\n",
			SuccessStyle.Render("✓ "+s.env.T("added")),
			d.Name,
			DimStyle.Render(fmt.Sprintf("(%d %s)", count, s.env.Bundle.Plural(s.env.Lang, count))))

	case "/export", "/save":
		format := ""
		if len(rest) > 0 {
			format = rest[0]
		}
		exporter, err := export.ByName(format, nil)
		if err != nil {
			return true, &UsageError{Field: "format", Value: format, Reason: err.Error(), Example: "/export json"}
		}
		t := export.NewTranscript(s.doc.RestaurantName, s.slug, s.env.Lang, s.currency(), s.conv.Messages(), s.env.Cart)
		path, err := export.ExportToFile(t, exporter, &export.Options{OutputDir: s.env.ExportDir, IncludeMetadata: true})
		if err != nil {
			return true, &CommandError{Command: "chat", Action: "export", Reason: "could not write transcript", Err: err}
		}
		fmt.Fprintln(s.env.Out, SuccessStyle.Render("[OK]")+" "+path)

	case "/lang":
		if len(rest) != 1 || !s.env.Bundle.Has(rest[0]) {
			return true, &UsageError{
				Field:   "language",
				Value:   strings.Join(rest, " "),
				Reason:  "expected one of " + strings.Join(s.env.Bundle.Supported(), ", "),
				Example: "/lang fr",
			}
		}
		doc, err := s.env.Client.GetMenu(ctx, s.slug, rest[0])
		if err != nil {
			return true, err
		}
		s.doc = doc
		s.env.Lang = rest[0]
		s.conv.SetLanguage(rest[0])
		fmt.Fprintln(s.env.Out, SuccessStyle.Render("[OK]")+" "+s.env.T("language")+": "+rest[0])

	default:
		return true, &UsageError{Field: "command", Value: name, Reason: "unknown command", Example: "/help"}
	}
	return true, nil
}

const chatHelp = `  /add N     Add dish N of the last answer to the cart
  /cart      Show the cart
  /menu      Print the menu
  /lang L    Switch language (en, fr, es)
  /clear     Erase the conversation
  /export    Save the transcript and cart (/export json for JSON)
  /quit      Leave`
