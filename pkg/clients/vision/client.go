// Package vision wraps the Gemini generateContent endpoint for
// structured field extraction from product photos.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/venturalabs/ventura/internal/config"
	"github.com/venturalabs/ventura/internal/domain/models"
	"github.com/venturalabs/ventura/pkg/clients/reasoning"
)

// Extraction is the structured result of a vision call: an action
// keyword (expected CREATE) and the candidate fields read off the
// photo.
type Extraction struct {
	Action string                  `json:"action"`
	Data   models.ScannedCandidate `json:"data"`
}

// Client defines the single vision operation the scan pipeline needs.
type Client interface {
	ExtractProduct(ctx context.Context, image []byte, mimeType string) (Extraction, error)
}

// GeminiClient is a resty-backed implementation of Client.
type GeminiClient struct {
	httpClient *resty.Client
	model      string
}

// NewClient builds a vision client from configuration.
func NewClient(cfg config.VisionConfig) *GeminiClient {
	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)

	return &GeminiClient{httpClient: httpClient, model: cfg.Model}
}

const extractionPrompt = `Analyze the attached image of a product.
Extract the product_name and the expiry_date.
If you see a price or quantity, extract those too; quantity must be a whole number of units.
The expiry_date MUST be formatted as YYYY-MM-DD.
Respond ONLY with a JSON object of the form:
{"action": "CREATE", "data": {"product_name": ..., "price": ..., "quantity": ..., "expiry_date": ...}}
If any field is not found, its value must be null.`

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMimeType string `json:"response_mime_type,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// ExtractProduct sends the image bytes with the extraction prompt and
// decodes the structured candidate from the model answer.
func (c *GeminiClient) ExtractProduct(ctx context.Context, image []byte, mimeType string) (Extraction, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{Text: extractionPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}

	var respBody generateContentResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))

	if err != nil {
		return Extraction{}, fmt.Errorf("vision api call: %w", err)
	}
	if resp.IsError() {
		return Extraction{}, fmt.Errorf("vision api error: status=%d body=%s", resp.StatusCode(), resp.String())
	}
	if len(respBody.Candidates) == 0 || len(respBody.Candidates[0].Content.Parts) == 0 {
		return Extraction{}, fmt.Errorf("empty response from vision backend")
	}

	text := reasoning.StripFences(respBody.Candidates[0].Content.Parts[0].Text)

	var extraction Extraction
	if err := json.Unmarshal([]byte(text), &extraction); err != nil {
		return Extraction{}, fmt.Errorf("failed to unmarshal vision response: %w. Response was: %s", err, text)
	}

	return extraction, nil
}
