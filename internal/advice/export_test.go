package advice

// Gemini helpers exposed to tests.
var (
	GeminiText      = geminiText
	ConfigureGemini = configureGemini
)
