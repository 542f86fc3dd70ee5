// Package upload drives the bulk résumé upload from the client side: staging
// files, pre-checking them, sending them, and deciding what stays staged for a retry.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"alfredoptarigan/ats-scanner/internal/client"
)

// RetryScope decides which files stay staged after a partial upload.
type RetryScope string

const (
	RetryFailedOnly RetryScope = "failed"
	RetryAll        RetryScope = "all"
)

// ParseRetryScope maps a config value to a scope, defaulting to RetryFailedOnly.
func ParseRetryScope(v string) RetryScope {
	if RetryScope(strings.ToLower(strings.TrimSpace(v))) == RetryAll {
		return RetryAll
	}
	return RetryFailedOnly
}

type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageInfo
	MessageSuccess
	MessageWarning
	MessageError
)

type Message struct {
	Kind MessageKind
	Text string
}

const (
	noFilesText      = "Please select files to save."
	savedText        = "Resumes saved successfully!"
	noResponseText   = "No response from server. Check connection or CORS settings."
	invalidTypesText = "Invalid file type(s). Please use PDF or DOCX."
	duplicatesText   = "Selected file(s) already listed."
)

// Options carries the client-side pre-checks. They mirror the server limits.
type Options struct {
	Scope             RetryScope
	AllowedExtensions []string
	MaxFileSize       int64
}

// Session holds the staged files between saves. It is not safe for
// concurrent use.
type Session struct {
	api     client.Client
	opts    Options
	staged  []client.UploadFile
	message Message
	saved   bool
}

func NewSession(api client.Client, opts Options) *Session {
	if opts.Scope == "" {
		opts.Scope = RetryFailedOnly
	}
	return &Session{api: api, opts: opts}
}

func (s *Session) Staged() []string {
	names := make([]string, 0, len(s.staged))
	for _, f := range s.staged {
		names = append(names, f.Filename)
	}
	return names
}

func (s *Session) Message() Message { return s.message }

// Saved reports whether the last save uploaded every staged file.
func (s *Session) Saved() bool { return s.saved }

// Add stages files that pass the extension and size checks, skipping names
// already staged.
func (s *Session) Add(files ...client.UploadFile) Message {
	s.saved = false

	seen := make(map[string]bool, len(s.staged))
	for _, f := range s.staged {
		seen[f.Filename] = true
	}

	var added, rejected, oversized int
	for _, f := range files {
		switch {
		case seen[f.Filename]:
			log.Printf("Duplicate file skipped: %s\n", f.Filename)
		case !s.allowed(f.Filename):
			log.Printf("⚠️  Invalid file type skipped: %s\n", f.Filename)
			rejected++
		case s.opts.MaxFileSize > 0 && int64(len(f.Content)) > s.opts.MaxFileSize:
			log.Printf("⚠️  Oversized file skipped: %s (%d bytes)\n", f.Filename, len(f.Content))
			oversized++
		default:
			s.staged = append(s.staged, f)
			seen[f.Filename] = true
			added++
		}
	}

	switch {
	case added > 0 && rejected+oversized > 0:
		s.message = Message{Kind: MessageWarning, Text: fmt.Sprintf("Added %d file(s). %s", added, skippedText(rejected, oversized))}
	case added > 0:
		s.message = Message{Kind: MessageInfo, Text: fmt.Sprintf("Added %d file(s). Ready to save.", added)}
	case rejected > 0 && oversized == 0:
		s.message = Message{Kind: MessageError, Text: invalidTypesText}
	case rejected+oversized > 0:
		s.message = Message{Kind: MessageError, Text: skippedText(rejected, oversized)}
	case len(files) > 0:
		s.message = Message{Kind: MessageInfo, Text: duplicatesText}
	default:
		s.message = Message{}
	}
	return s.message
}

func (s *Session) Remove(filename string) {
	kept := s.staged[:0]
	for _, f := range s.staged {
		if f.Filename != filename {
			kept = append(kept, f)
		}
	}
	s.staged = kept
	s.saved = false
	s.message = Message{}
}

// Save uploads every staged file. The returned message is also kept on the
// session; upload failures are reported there, not as errors.
func (s *Session) Save(ctx context.Context) Message {
	s.saved = false
	if len(s.staged) == 0 {
		s.message = Message{Kind: MessageError, Text: noFilesText}
		return s.message
	}

	result, err := s.api.Upload(ctx, s.staged)
	if err != nil {
		log.Printf("❌ Upload failed: %v\n", err)
		s.message = Message{Kind: MessageError, Text: "Failed to save resumes: " + failureText(err)}
		return s.message
	}

	resp := result.Response
	switch {
	case result.StatusCode == http.StatusOK || result.StatusCode == http.StatusCreated:
		text := savedText
		if resp.Success != nil && resp.Success.Message != "" {
			text = resp.Success.Message
		}
		s.message = Message{Kind: MessageSuccess, Text: text}
		s.staged = nil
		s.saved = true

	case result.StatusCode == http.StatusMultiStatus:
		failed := make([]string, 0, len(resp.Errors))
		failedSet := make(map[string]bool, len(resp.Errors))
		for _, e := range resp.Errors {
			name := e.Filename
			if name == "" {
				name = "Unknown file"
			}
			failed = append(failed, name)
			failedSet[e.Filename] = true
		}
		list := "some files"
		if len(failed) > 0 {
			list = strings.Join(failed, ", ")
		}
		s.message = Message{Kind: MessageWarning, Text: fmt.Sprintf("Partial success. Errors occurred with: %s.", list)}
		if s.opts.Scope == RetryFailedOnly {
			s.keepOnly(failedSet)
		}

	case result.StatusCode >= http.StatusBadRequest:
		s.message = Message{Kind: MessageError, Text: "Failed to save resumes: Server Error: " + rejectedText(result)}

	default:
		text := resp.Message
		if text == "" {
			text = "Unexpected response."
		}
		s.message = Message{Kind: MessageWarning, Text: fmt.Sprintf("Save finished with status %d. %s", result.StatusCode, text)}
	}
	return s.message
}

func (s *Session) keepOnly(names map[string]bool) {
	kept := s.staged[:0]
	for _, f := range s.staged {
		if names[f.Filename] {
			kept = append(kept, f)
		}
	}
	s.staged = kept
}

func (s *Session) allowed(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range s.opts.AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

func skippedText(rejected, oversized int) string {
	var parts []string
	if rejected > 0 {
		parts = append(parts, "Invalid types ignored.")
	}
	if oversized > 0 {
		parts = append(parts, "Files over the size limit ignored.")
	}
	return strings.Join(parts, " ")
}

func failureText(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNetwork):
		return noResponseText
	case errors.As(err, &apiErr):
		return "Server Error: " + apiErr.Message
	default:
		return err.Error()
	}
}

func rejectedText(result *client.UploadResult) string {
	resp := result.Response
	switch {
	case resp.Error != "":
		return resp.Error
	case resp.Message != "":
		return resp.Message
	case len(resp.Errors) > 0 && resp.Errors[0].Error != "":
		return resp.Errors[0].Error
	case resp.Info != nil && resp.Info.Message != "":
		return resp.Info.Message
	default:
		return fmt.Sprintf("Status %d", result.StatusCode)
	}
}
