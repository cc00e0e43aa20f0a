package translator

import "context"

// CompletionKind discriminates gateway responses.
type CompletionKind int

const (
	// Text means the response carried a well-formed completion message.
	Text CompletionKind = iota
	// Unrecognized means the response shape was unexpected; Completion.Raw
	// holds a best-effort string rendering of the body.
	Unrecognized
)

// Completion is the result of one gateway call. Callers must handle both
// kinds: an Unrecognized completion is still delivered to the user rather
// than failing the job.
type Completion struct {
	Kind CompletionKind
	Text string // valid when Kind == Text
	Raw  string // raw body rendering when Kind == Unrecognized
}

// Output returns the usable text of the completion regardless of kind.
func (c Completion) Output() string {
	if c.Kind == Text {
		return c.Text
	}
	return c.Raw
}

// Gateway sends one rendered prompt to the external completion service and
// returns the completion text. Transport and non-2xx failures are errors;
// unexpected-but-parseable responses are not.
type Gateway interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}
