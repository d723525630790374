// ABOUTME: Uniform tool response envelope and the handler result type.
// ABOUTME: Business non-results stay unflagged; operation failures set isError.

package packs

import (
	"log/slog"
)

// Content is a single item of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the envelope returned for every tool call.
// Content is never omitted from the encoded form.
type Response struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Text returns the concatenated text of all content items.
func (r *Response) Text() string {
	var s string
	for _, c := range r.Content {
		s += c.Text
	}
	return s
}

// Success wraps text as a single text-content response.
func Success(text string) *Response {
	return &Response{Content: []Content{{Type: "text", Text: text}}}
}

// Failure wraps an error as an error-flagged response and logs it.
func Failure(logger *slog.Logger, err error) *Response {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return FailureMessage(logger, msg)
}

// FailureMessage wraps a plain message as an error-flagged response and logs it.
func FailureMessage(logger *slog.Logger, msg string) *Response {
	if logger != nil {
		logger.Error("tool failed", "error", msg)
	}
	return &Response{
		Content: []Content{{Type: "text", Text: "Failed: " + msg}},
		IsError: true,
	}
}

// Outcome classifies a handler result.
type Outcome int

const (
	// OutcomeDone means the tool did what was asked.
	OutcomeDone Outcome = iota
	// OutcomeNotFound means the thing asked about does not exist.
	OutcomeNotFound
	// OutcomeRejected means the world state made the request inapplicable.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRejected:
		return "rejected"
	}
	return "unknown"
}

// Result is what a tool handler returns when it reached an answer.
type Result struct {
	Outcome Outcome
	Text    string
}

// Done returns a result for a completed action.
func Done(text string) *Result {
	return &Result{Outcome: OutcomeDone, Text: text}
}

// NotFound returns a result for a lookup that found nothing.
func NotFound(text string) *Result {
	return &Result{Outcome: OutcomeNotFound, Text: text}
}

// Rejected returns a result for a request the current world state does not allow.
func Rejected(text string) *Result {
	return &Result{Outcome: OutcomeRejected, Text: text}
}

// Response renders the result. Every outcome is an answer, not a fault,
// so none of them set the error flag.
func (r *Result) Response() *Response {
	return Success(r.Text)
}
