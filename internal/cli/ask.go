// ask.go - The "easyq ask" command.
//
// Sends one question to a menu's assistant and prints the answer. Dishes
// the answer names in **bold** are listed afterwards with their prices so
// they can be added with "easyq cart add".
//
// Command: ask <slug> "question"
//
// Examples:
//   easyq ask chez-marie "What do you recommend with fish?"
//   easyq ask chez-marie "Vegetarian options?" --stream
//   easyq ask chez-marie "Any wine under 30?" --json
//
// Flags:
//   --stream            Print the answer as it arrives
//   --raw               Print markdown as-is instead of rendering it
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/chat"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/menu"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	rendererOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// renderMarkdown renders markdown for the terminal, returning content
// unchanged when no renderer is available.
func renderMarkdown(content string) string {
	rendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints an answer, rendering markdown only on a TTY so
// piped output stays clean.
func displayResponse(w io.Writer, response string, raw bool) {
	if !raw && IsStdoutTTY() {
		fmt.Fprint(w, renderMarkdown(response))
		return
	}
	fmt.Fprint(w, response)
	if !strings.HasSuffix(response, "\n") {
		fmt.Fprintln(w)
	}
}

// =============================================================================
// COMMAND
// =============================================================================

// AskResult is the --json payload.
type AskResult struct {
	Slug   string    `json:"slug"`
	Answer string    `json:"answer"`
	Dishes []AskDish `json:"dishes"`
}

// AskDish is a dish the answer mentions.
type AskDish struct {
	Name  string     `json:"name"`
	Price menu.Price `json:"price"`
}

// HandleAsk sends one question and prints the answer.
func HandleAsk(ctx context.Context, env *Env, args Args) error {
	if args.Slug == "" {
		return ErrMissingArgument("slug", `easyq ask chez-marie "What do you recommend?"`)
	}
	question := strings.TrimSpace(strings.Join(args.Sub.PositionalFrom(1), " "))
	if question == "" {
		return ErrMissingArgument("question", `easyq ask chez-marie "What do you recommend?"`)
	}

	req := api.ChatRequest{
		Messages:  []api.Message{{Role: api.RoleUser, Content: question}},
		Lang:      env.Lang,
		SessionID: env.SessionID,
	}
	stream := args.Sub.BoolFlag("stream") && !env.JSON
	raw := args.Sub.BoolFlag("raw")
	log := logging.Component("ask")

	var answer string
	if stream {
		var b strings.Builder
		err := env.Client.ChatStream(ctx, args.Slug, req, func(chunk string) {
			b.WriteString(chunk)
			fmt.Fprint(env.Out, chunk)
		})
		answer = b.String()
		fmt.Fprintln(env.Out)
		if err != nil {
			return err
		}
	} else {
		resp, err := env.Client.Chat(ctx, args.Slug, req)
		if err != nil {
			return err
		}
		answer = resp.Answer
	}
	log.Debug().Str("slug", args.Slug).Int("answer_len", len(answer)).Msg("answer received")

	dishes := mentionedDishes(ctx, env, args.Slug, answer)

	if env.JSON {
		return env.PrintJSON("ask", AskResult{Slug: args.Slug, Answer: answer, Dishes: dishes})
	}
	if !stream {
		displayResponse(env.Out, answer, raw)
	}
	printDishes(env, dishes)
	return nil
}

// mentionedDishes resolves the bold spans of answer against the menu. A
// menu that cannot be fetched just means no dish list.
func mentionedDishes(ctx context.Context, env *Env, slug, answer string) []AskDish {
	if !strings.Contains(answer, "**") {
		return nil
	}
	doc, err := env.Client.GetMenu(ctx, slug, env.Lang)
	if err != nil {
		logging.Warn().Err(err).Str("slug", slug).Msg("menu unavailable; dishes not resolved")
		return nil
	}

	var out []AskDish
	for _, seg := range chat.Dishes(chat.ParseSegments(answer, doc.Catalog())) {
		out = append(out, AskDish{Name: seg.Entry.Name, Price: seg.Entry.Price})
	}
	return out
}

func printDishes(env *Env, dishes []AskDish) {
	if len(dishes) == 0 {
		return
	}
	fmt.Fprintln(env.Out)
	for i, d := range dishes {
		fmt.Fprintf(env.Out, "  %s %s  %s\n",
			DimStyle.Render(fmt.Sprintf("[%d]", i+1)),
			DishStyle.Render(d.Name),
			PriceStyle.Render(displayPrice(d.Price, env.Currency(), env.Lang)))
	}
	fmt.Fprintln(env.Out, DimStyle.Render(`easyq cart add "NAME" PRICE`))
}
