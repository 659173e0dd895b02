// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultLanguages are requested when an upload names none.
var DefaultLanguages = []string{"en", "fr", "es"}

// uploadFailed is the message used when the server gives no detail.
const uploadFailed = "Upload failed"

// UploadRequest is a PDF menu submission.
type UploadRequest struct {
	RestaurantName string
	Languages      []string
	FileName       string
	Body           io.Reader
}

// UploadResult describes the published menu.
type UploadResult struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	PublicURL string `json:"public_url"`
	QRURL     string `json:"qr_url"`
}

// Validate checks the required fields without touching the network.
func (r UploadRequest) Validate() error {
	if strings.TrimSpace(r.RestaurantName) == "" {
		return &ValidationError{Field: "restaurant_name", Message: "restaurant name is required"}
	}
	if r.Body == nil {
		return &ValidationError{Field: "pdf", Message: "a PDF file is required"}
	}
	return nil
}

// LanguageList returns the comma-separated language field, defaulting to
// en,fr,es.
func (r UploadRequest) LanguageList() string {
	var langs []string
	for _, l := range r.Languages {
		for _, part := range strings.Split(l, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				langs = append(langs, part)
			}
		}
	}
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return strings.Join(langs, ",")
}

// UploadMenu submits the PDF as multipart form data.
func (c *Client) UploadMenu(ctx context.Context, r UploadRequest) (*UploadResult, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	name := r.FileName
	if name == "" {
		name = "menu.pdf"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(mw, r, filepath.Base(name)))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/menus", pr, mw.FormDataContentType())
	if err != nil {
		pr.Close()
		return nil, err
	}

	// Uploads include server-side PDF parsing; the context bounds them.
	resp, err := c.send(c.streamHTTP, req)
	if err != nil {
		pr.CloseWithError(err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransportError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
		detail := detailOf(raw)
		if detail == "" {
			detail = uploadFailed
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("detail", detail).Msg("upload rejected")
		return nil, &UploadError{Status: resp.StatusCode, Detail: detail}
	}

	var out UploadResult
	if err := decodeJSON(resp.Body, &out); err != nil {
		return nil, &TransportError{Op: "upload", Status: resp.StatusCode, Err: err}
	}
	return &out, nil
}

func writeUploadForm(mw *multipart.Writer, r UploadRequest, fileName string) error {
	if err := mw.WriteField("restaurant_name", strings.TrimSpace(r.RestaurantName)); err != nil {
		return err
	}
	if err := mw.WriteField("languages", r.LanguageList()); err != nil {
		return err
	}
	part, err := mw.CreateFormFile("pdf", fileName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r.Body); err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	return mw.Close()
}

// =============================================================================
// PUBLISHED ASSETS
// =============================================================================

// ResolveURL makes a public_url or qr_url absolute against the base URL.
func (c *Client) ResolveURL(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	return base.ResolveReference(u).String(), nil
}

// DownloadQR copies the QR image at ref into w.
func (c *Client) DownloadQR(ctx context.Context, ref string, w io.Writer) (int64, error) {
	abs, err := c.ResolveURL(ref)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, abs, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.send(c.httpClient, req)
	if err != nil {
		return 0, &TransportError{Op: "download qr", Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		drain(resp.Body)
		return 0, &TransportError{Op: "download qr", Status: resp.StatusCode}
	}
	n, err := io.Copy(w, io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return n, &TransportError{Op: "download qr", Err: err}
	}
	return n, nil
}
