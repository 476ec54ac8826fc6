package gemini

import "context"

// IGemini talks to the generateContent endpoint of one model. One value may be
// shared across request goroutines.
type IGemini interface {
	// GenerateContent posts one non-streaming request and decodes the full
	// body. Replies other than 200 come back as errors carrying the status.
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	Model() string
}

// New validates cfg and builds a client. Missing API keys fail here rather
// than on the first request.
func New(cfg Config) (IGemini, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newGeminiImpl(cfg), nil
}
