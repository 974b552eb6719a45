package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/agenthands/quorum/internal/core/common"
	"github.com/agenthands/quorum/internal/core/model"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	client := anthropic.NewClient(apiKey, opts...)

	return &ClaudeClient{
		client: client,
		model:  model,
	}
}

func (c *ClaudeClient) Extract(ctx context.Context, req model.ExtractionRequest) (map[string]interface{}, error) {
	// This client does not send inline images; the fan-out controller
	// captures the error so the other backends still complete the round.
	if len(req.Images) > 0 {
		return nil, fmt.Errorf("inline images not supported by Claude client")
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: schemaInstructions(req.Schema),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(req.Prompt),
				},
			},
		},
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return common.ParseFields(*resp.Content[0].Text)
	}
	return nil, fmt.Errorf("no response content")
}
