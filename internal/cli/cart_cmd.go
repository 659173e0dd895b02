// cart_cmd.go - The "easyq cart" command.
//
// Command: cart [subcommand]
// Short:   Manage the local cart
//
// Subcommands:
//   show (default)        List lines, item count and total
//   add NAME PRICE        Add one unit; an equal (name, price) line is merged
//   remove NAME PRICE     Delete a line (or: remove N, 1-based)
//   set NAME PRICE QTY    Set a quantity; 0 removes the line
//   clear                 Empty the cart
//
// Prices are accepted as the menu writes them: "18,50€", "12.5", "24".
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/easyq/easyq-tui/internal/cart"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/menu"
	"github.com/easyq/easyq-tui/internal/money"
)

// CartSummary is the --json payload of every cart subcommand.
type CartSummary struct {
	Lines          []cart.Line `json:"lines"`
	ItemCount      int         `json:"item_count"`
	Total          float64     `json:"total"`
	Currency       string      `json:"currency"`
	PaymentMethods []string    `json:"payment_methods"`
}

// HandleCart dispatches the cart subcommands.
func HandleCart(ctx context.Context, env *Env, args Args) error {
	sub := args.Sub
	action := strings.ToLower(sub.Subcommand())

	var err error
	switch action {
	case "", "show", "list", "ls":
		return showCart(env)
	case "add":
		err = cartAdd(env, sub)
	case "remove", "rm", "del":
		err = cartRemove(env, sub)
	case "set":
		err = cartSet(env, sub)
	case "clear":
		err = env.Cart.Clear()
		if err == nil && !env.JSON {
			fmt.Fprintln(env.Out, SuccessStyle.Render(env.T("cart.cleared")))
		}
	default:
		return &UsageError{
			Field:   "cart subcommand",
			Value:   action,
			Reason:  "unknown subcommand",
			Example: "easyq cart add \"Grilled Salmon\" 18.50",
		}
	}
	if err != nil {
		return err
	}
	logging.Debug().Str("action", action).Int("lines", env.Cart.Len()).Msg("cart updated")
	return showCart(env)
}

func cartAdd(env *Env, sub *ArgParser) error {
	name, price := sub.Positional(1), sub.Positional(2)
	if strings.TrimSpace(name) == "" || price == "" {
		return ErrMissingArgument("NAME PRICE", "easyq cart add \"Grilled Salmon\" \"18,50€\"")
	}
	if err := env.Cart.AddFields(name, menu.Text(price)); err != nil {
		return &CommandError{Command: "cart", Action: "add", Reason: "could not save", Err: err}
	}
	return nil
}

func cartRemove(env *Env, sub *ArgParser) error {
	line, err := findLine(env.Cart, sub)
	if err != nil {
		return err
	}
	if err := env.Cart.Remove(line.Name, line.Price); err != nil {
		return &CommandError{Command: "cart", Action: "remove", Reason: "could not save", Err: err}
	}
	return nil
}

func cartSet(env *Env, sub *ArgParser) error {
	qtyArg := sub.Positional(sub.PositionalCount() - 1)
	qty, err := strconv.Atoi(qtyArg)
	if err != nil || sub.PositionalCount() < 3 {
		return ErrInvalidValue("QTY", qtyArg, "easyq cart set \"Grilled Salmon\" 18.50 3")
	}

	// Drop the quantity so findLine sees "set NAME PRICE" or "set N".
	trimmed := NewArgParser(sub.PositionalFrom(0)[:sub.PositionalCount()-1])
	line, err := findLine(env.Cart, trimmed)
	if err != nil {
		return err
	}
	if err := env.Cart.SetQuantity(line.Name, line.Price, qty); err != nil {
		return &CommandError{Command: "cart", Action: "set", Reason: "could not save", Err: err}
	}
	return nil
}

// findLine resolves "NAME PRICE" or a 1-based line number to a cart line.
func findLine(c *cart.Store, sub *ArgParser) (cart.Line, error) {
	lines := c.Lines()

	if sub.PositionalCount() == 2 {
		n, err := strconv.Atoi(sub.Positional(1))
		if err != nil || n < 1 || n > len(lines) {
			return cart.Line{}, ErrInvalidValue("line number", sub.Positional(1), "easyq cart remove 1")
		}
		return lines[n-1], nil
	}

	name, priceArg := sub.Positional(1), sub.Positional(2)
	if name == "" || priceArg == "" {
		return cart.Line{}, ErrMissingArgument("NAME PRICE", "easyq cart remove \"Grilled Salmon\" 18.50")
	}
	price := money.Normalize(priceArg)
	for _, l := range lines {
		if l.Name == name && l.Price == price {
			return l, nil
		}
	}
	return cart.Line{}, &CommandError{
		Command: "cart",
		Action:  sub.Subcommand(),
		Reason:  fmt.Sprintf("no line %q at %s", name, strconv.FormatFloat(price, 'f', -1, 64)),
	}
}

func summarize(env *Env) CartSummary {
	return CartSummary{
		Lines:          env.Cart.Lines(),
		ItemCount:      env.Cart.ItemCount(),
		Total:          env.Cart.Total(),
		Currency:       env.Currency(),
		PaymentMethods: cart.PaymentMethods,
	}
}

func showCart(env *Env) error {
	if env.JSON {
		return env.PrintJSON("cart", summarize(env))
	}

	w := env.Out
	width := menuWidth()
	cur := env.Currency()
	format := func(v float64) string { return money.Format(v, cur, env.Lang) }

	fmt.Fprintln(w, TitleStyle.Render(env.T("yourCart")))
	fmt.Fprintln(w, RenderSeparator(width))

	lines := env.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(w, DimStyle.Render(env.T("emptyCart")))
		fmt.Fprintln(w, DimStyle.Render("easyq menu <slug>  ("+env.T("browseMenu")+")"))
		return nil
	}

	for i, l := range lines {
		label := fmt.Sprintf("%2d. %s  x%d  %s", i+1, l.Name, l.Quantity, DimStyle.Render(format(l.Price)))
		sub := format(l.Subtotal())
		gap := width - lipgloss.Width(label) - lipgloss.Width(sub)
		if gap < 1 {
			gap = 1
		}
		fmt.Fprintln(w, label+strings.Repeat(" ", gap)+PriceStyle.Render(sub))
	}

	count := env.Cart.ItemCount()
	total := format(env.Cart.Total())
	fmt.Fprintln(w, RenderSeparator(width))
	fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("%d %s", count, env.Bundle.Plural(env.Lang, count))))
	fmt.Fprintln(w, priceLine(env.T("total"), total, width))
	fmt.Fprintln(w)
	fmt.Fprintln(w, SuccessStyle.Render(env.T("pay")+" • "+total))
	fmt.Fprintf(w, "%s: %s\n", LabelStyle.Render(env.T("acceptedPayments")), strings.Join(cart.PaymentMethods, ", "))
	return nil
}
