// upload.go - The "easyq upload" command.
//
// Publishes a PDF menu. The backend parses and translates it and answers
// with the public menu URL and a QR code image.
//
// Command: upload --name NAME --pdf FILE
//
// Examples:
//   easyq upload --name "Chez Marie" --pdf menu.pdf
//   easyq upload --name "Chez Marie" --pdf menu.pdf --languages en,fr --copy
//   easyq upload --name "Chez Marie" --pdf menu.pdf --qr-out chez-marie.png
//
// Flags:
//   --name NAME         Restaurant name (required)
//   --pdf FILE          PDF menu (required)
//   --languages LIST    Comma-separated languages (default: en,fr,es)
//   --copy              Copy the public URL to the clipboard
//   --qr-out FILE       Save the QR code image
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/logging"
	"github.com/easyq/easyq-tui/internal/util"
)

// copyToClipboard is swapped out by tests; CI machines have no clipboard.
var copyToClipboard = clipboard.WriteAll

// UploadOutput is the --json payload.
type UploadOutput struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	PublicURL string `json:"public_url"`
	QRURL     string `json:"qr_url"`
	QRFile    string `json:"qr_file,omitempty"`
	Copied    bool   `json:"copied"`
}

// HandleUpload submits a PDF menu.
func HandleUpload(ctx context.Context, env *Env, args Args) error {
	sub := args.Sub
	name := sub.Flag("name", "n")
	pdf := sub.Flag("pdf", "f", "file")

	req := api.UploadRequest{
		RestaurantName: name,
		FileName:       filepath.Base(pdf),
	}
	if langs := sub.Flag("languages", "l"); langs != "" {
		req.Languages = []string{langs}
	}

	// A missing --pdf stays a nil Body so Validate reports it before any I/O.
	if pdf != "" {
		if !strings.EqualFold(filepath.Ext(pdf), ".pdf") {
			return &UsageError{Field: "pdf", Value: pdf, Reason: "file must be a PDF", Example: "--pdf menu.pdf"}
		}
		f, err := os.Open(pdf)
		if err != nil {
			return &UsageError{Field: "pdf", Value: pdf, Reason: err.Error()}
		}
		defer f.Close()
		req.Body = f
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if !env.JSON {
		fmt.Fprintf(env.Err, "%s %s (%s)\n", DimStyle.Render("Uploading"), req.FileName, req.LanguageList())
	}
	res, err := env.Client.UploadMenu(ctx, req)
	if err != nil {
		return err
	}

	out := UploadOutput{ID: res.ID, Slug: res.Slug}
	if out.PublicURL, err = env.Client.ResolveURL(res.PublicURL); err != nil {
		return err
	}
	if res.QRURL != "" {
		if out.QRURL, err = env.Client.ResolveURL(res.QRURL); err != nil {
			return err
		}
	}
	logging.Info().Str("slug", res.Slug).Str("url", out.PublicURL).Msg("menu published")

	if dest := sub.Flag("qr-out", "qr"); dest != "" && res.QRURL != "" {
		var buf bytes.Buffer
		if _, err := env.Client.DownloadQR(ctx, res.QRURL, &buf); err != nil {
			return &CommandError{Command: "upload", Action: "qr", Reason: "menu published but QR download failed", Err: err}
		}
		if err := util.AtomicWriteFile(dest, buf.Bytes(), 0644); err != nil {
			return &CommandError{Command: "upload", Action: "qr", Reason: "could not write " + dest, Err: err}
		}
		out.QRFile = dest
	}

	if sub.BoolFlag("copy") {
		if err := copyToClipboard(out.PublicURL); err != nil {
			logging.Warn().Err(err).Msg("clipboard unavailable")
			fmt.Fprintln(env.Err, WarningStyle.Render("could not copy to clipboard: "+err.Error()))
		} else {
			out.Copied = true
		}
	}

	if env.JSON {
		return env.PrintJSON("upload", out)
	}

	fmt.Fprintln(env.Out, SuccessStyle.Render("[OK]")+" "+TitleStyle.Render(strings.TrimSpace(name)))
	fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Public URL:", 12), ValueStyle.Render(out.PublicURL))
	if out.Copied {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("", 12), DimStyle.Render("(copied)"))
	}
	if out.QRURL != "" {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("QR code:", 12), ValueStyle.Render(out.QRURL))
	}
	if out.QRFile != "" {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Saved:", 12), ValueStyle.Render(out.QRFile))
	}
	if res.Slug != "" {
		fmt.Fprintf(env.Out, "%s %s\n", RenderLabel("Open:", 12), DimStyle.Render("easyq "+res.Slug))
	}
	return nil
}
