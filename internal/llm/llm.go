package llm

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/knasser/eduparser/internal/model"
)

// fencedJSON matches a markdown-fenced JSON block anywhere in the reply.
// (?s) lets the interior span newlines.
var fencedJSON = regexp.MustCompile("(?s)```json(.*?)```")

// InferenceError reports a failure of the inference call itself (network,
// quota, service error). Parse failures are *model.ParseError instead.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference call: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// Client calls an OpenAI-compatible chat-completion endpoint. The access
// credential is supplied per call, never held by the client, because it
// belongs to the user's session.
type Client struct {
	baseURL string
	model   string
}

// New creates a new inference client.
func New(baseURL, modelName string) *Client {
	return &Client{baseURL: baseURL, model: modelName}
}

// StructureText sends the raw study text to the inference service and
// parses the reply into an ordered question list. Failures are typed:
// *InferenceError for the call, *model.ParseError for the reply.
func (c *Client) StructureText(ctx context.Context, apiKey, rawText string) ([]model.Question, error) {
	config := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		config.BaseURL = c.baseURL
	}
	api := openai.NewClientWithConfig(config)

	resp, err := api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(rawText)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &InferenceError{Err: fmt.Errorf("no choices in reply")}
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("inference reply", "raw", raw)

	return model.ParseQuestions(CleanResponse(raw))
}

// BuildPrompt combines the fixed extraction instruction with the verbatim
// raw text. No truncation: arbitrarily long text is passed through.
func BuildPrompt(rawText string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert teaching assistant. Analyze the following text and extract the questions it contains.\n\n")
	sb.WriteString("TEXT:\n")
	sb.WriteString(rawText)
	sb.WriteString("\n\n")
	sb.WriteString("Respond with a JSON array of objects ONLY, no extra prose. Each object must have:\n")
	sb.WriteString(`- "question": the question text.` + "\n")
	sb.WriteString(`- "options": the list of choices (empty list for non-choice questions).` + "\n")
	sb.WriteString(`- "answer": the correct answer if stated in the text, otherwise "needs review".` + "\n")
	sb.WriteString(`- "type": "mcq" or "essay".` + "\n")
	return sb.String()
}

// CleanResponse recovers the raw JSON string from a free-form inference
// reply. If a ```json fenced block is present its trimmed interior is
// returned; otherwise the whole reply is trimmed and returned on the
// assumption it is already raw JSON. Deliberately lenient: the service's
// formatting is not contractually guaranteed.
func CleanResponse(reply string) string {
	if m := fencedJSON.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(reply)
}
