package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/agenthands/quorum/internal/core/common"
	"github.com/agenthands/quorum/internal/core/model"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Extract(ctx context.Context, req model.ExtractionRequest) (map[string]interface{}, error) {
	gm := c.client.GenerativeModel(c.model)
	gm.ResponseMIMEType = "application/json"

	parts := []genai.Part{
		genai.Text(schemaInstructions(req.Schema) + "\n\n" + req.Prompt),
	}
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}

	resp, err := gm.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return common.ParseFields(string(txt))
		}
	}

	return nil, fmt.Errorf("no response candidates or content")
}
