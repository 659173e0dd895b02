// menu_cmd.go - The "easyq menu" command.
//
// Command: menu <slug>
// Short:   Print a restaurant menu
//
// Examples:
//   easyq menu chez-marie
//   easyq menu chez-marie --lang fr
//   easyq menu chez-marie --json
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/easyq/easyq-tui/internal/i18n"
	"github.com/easyq/easyq-tui/internal/menu"
	"github.com/easyq/easyq-tui/internal/money"
	"github.com/easyq/easyq-tui/internal/util"
)

// HandleMenu fetches and prints a menu.
func HandleMenu(ctx context.Context, env *Env, args Args) error {
	if args.Slug == "" {
		return ErrMissingArgument("slug", "easyq menu chez-marie")
	}

	doc, err := env.Client.GetMenu(ctx, args.Slug, env.Lang)
	if err != nil {
		return err
	}
	if env.JSON {
		return env.PrintJSON("menu", doc)
	}

	PrintMenu(env.Out, doc, env.Bundle, env.Lang, env.Currency(), menuWidth())
	return nil
}

func menuWidth() int {
	w := GetTerminalWidth() - 4
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

// PrintMenu writes doc as sections followed by the wine list.
func PrintMenu(w io.Writer, doc *menu.Document, b *i18n.Bundle, lang, fallbackCurrency string, width int) {
	cur := doc.CurrencyOr(fallbackCurrency)

	fmt.Fprintln(w, TitleStyle.Render(doc.RestaurantName))
	if langs := doc.Languages(lang); len(langs) > 1 {
		fmt.Fprintln(w, DimStyle.Render(strings.Join(langs, " · ")))
	}
	fmt.Fprintln(w)

	for _, sec := range doc.Sections {
		fmt.Fprintln(w, SectionStyle.Render(sec.Title))
		fmt.Fprintln(w, RenderSeparator(width))
		for _, it := range sec.Items {
			fmt.Fprintln(w, priceLine(it.Name, displayPrice(it.Price, cur, lang), width))
			if it.Description != "" {
				fmt.Fprintln(w, DimStyle.Render("  "+util.Truncate(it.Description, width-2)))
			}
			if len(it.Tags) > 0 {
				fmt.Fprintln(w, DimStyle.Render("  #"+strings.Join(it.Tags, " #")))
			}
		}
		fmt.Fprintln(w)
	}

	if len(doc.Wines) == 0 {
		return
	}
	fmt.Fprintln(w, SectionStyle.Render(b.T(lang, "wines")))
	fmt.Fprintln(w, RenderSeparator(width))
	for _, wine := range doc.Wines {
		fmt.Fprintln(w, priceLine(wine.Name, displayPrice(wine.Price, cur, lang), width))
		if info := wine.Info(); info != "" {
			fmt.Fprintln(w, WineStyle.Render("  "+info))
		}
	}
}

// displayPrice formats p, or returns "" for an absent price.
func displayPrice(p menu.Price, cur, lang string) string {
	if !p.IsSet() {
		return ""
	}
	return money.Format(p.Value(), cur, lang)
}

// priceLine puts name and price on one line with the price right-aligned.
func priceLine(name, price string, width int) string {
	if price == "" {
		return ValueStyle.Render(util.Truncate(name, width))
	}
	plain := util.Columns(name, price, width)
	head := strings.TrimSuffix(plain, price)
	return ValueStyle.Render(head) + PriceStyle.Render(price)
}
