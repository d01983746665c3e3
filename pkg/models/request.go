package models

// Roles accepted in a chat history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is a single role-tagged turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// GenerateResponse is the body returned by POST /generate.
type GenerateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// TokenizeRequest is the body of POST /tokenize.
// OutputTokens is the caller's estimate of the generation length; it is
// only used for pricing and defaults to zero.
type TokenizeRequest struct {
	Model        string `json:"model"`
	Text         string `json:"text"`
	Detailed     bool   `json:"detailed"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	Currency     string `json:"currency,omitempty"`
}

// SummarizeRequest is the body of POST /optimizer/summarize.
type SummarizeRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// SummarizeResponse is the body returned by POST /optimizer/summarize.
type SummarizeResponse struct {
	Summary            string `json:"summary"`
	OriginalTokenCount int    `json:"original_token_count"`
	SummaryTokenCount  int    `json:"summary_token_count"`
	TokensSaved        int    `json:"tokens_saved"`
}
