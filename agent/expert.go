package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Expert is a chat session with a specialized model configuration. An expert
// with a Library resolves the model's function calls itself.
type Expert struct {
	Name        string
	Description string
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library
	chat        *genai.Chat
}

// Start opens the expert's chat session.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return err
	}
	e.chat = chat
	return nil
}

// Ask sends the parts to the expert, resolves function calls until the model
// produces plain content, and returns that content.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	for {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return nil, fmt.Errorf("no response from expert %s", e.Name)
		}
		content := resp.Candidates[0].Content

		call := content.Parts[0].FunctionCall
		if call == nil {
			return content, nil
		}
		if e.Library == nil {
			return nil, fmt.Errorf("expert %s doesn't know how to make function calls", e.Name)
		}
		parts = []*genai.Part{{FunctionResponse: e.Library(ctx, call)}}
	}
}

// Declaration describes this expert as a callable tool, so the facilitator
// can route questions to it.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"question": {
					Type:        genai.TypeString,
					Description: "The question to ask the expert.",
				},
			},
			Required: []string{"question"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "Expert's response.",
		},
	}
}

// Call asks this expert a question on behalf of another model.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	fresp := &genai.FunctionResponse{ID: id, Name: e.Name}

	question, ok := args["question"].(string)
	if !ok {
		fresp.Response = map[string]any{"error": fmt.Sprintf("invalid type %T for question, expected string", args["question"])}
		return fresp
	}

	content, err := e.Ask(ctx, &genai.Part{Text: question})
	if err != nil {
		fresp.Response = map[string]any{"error": err.Error()}
		return fresp
	}
	fresp.Response = map[string]any{"output": content.Parts[0].Text}
	return fresp
}
