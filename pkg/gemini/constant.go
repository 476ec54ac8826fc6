package gemini

const (
	// DefaultModel is the default Gemini model
	DefaultModel = "gemini-1.5-flash"

	// DefaultAPIURL is the default Gemini API endpoint
	DefaultAPIURL = "https://generativelanguage.googleapis.com/v1beta"
)
