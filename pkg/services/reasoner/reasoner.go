// Package reasoner wraps the text-generating service the pipeline consults for
// candidate selection and budget optimization. The service produces free text;
// parsing it into structure is the caller's job, via ExtractObject, and every
// caller pairs it with a deterministic fallback.
package reasoner

import "context"

// Reasoner produces text for a prompt. Implementations may be slow, may fail,
// and may wrap their answer in prose or code fencing.
type Reasoner interface {
	Infer(ctx context.Context, prompt string) (string, error)
}
