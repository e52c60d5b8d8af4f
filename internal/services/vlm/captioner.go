package vlm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"bemyeyes/internal/config"
	"bemyeyes/internal/logger"
)

// promptTemplate carries the functional constraints on the generated caption:
// one flowing paragraph without markup, elements ordered by descending
// detection confidence, people called out with count/position/activity, an
// inferred scene context, and a five sentence budget.
const promptTemplate = "Describe this image for a visually impaired user in one smooth, continuous paragraph — no headings, no bullet points, no line breaks. " +
	"Use natural, conversational language that paints a clear mental picture. " +
	"Start with the most prominent elements (highest confidence), then describe others in order of importance. " +
	"Mention people: how many, where they are (left/center/right), and what they might be doing or feeling. " +
	"Describe key objects (like tables, signs, decorations) and their placement. " +
	"Suggest the context — is it a celebration? A meal? A meeting? — based on what's visible. " +
	"Keep it under 5 sentences, but rich in useful sensory and spatial details. " +
	"Key elements in order of prominence: %s."

// Captioner generates accessibility captions through an OpenAI-compatible
// vision endpoint (OpenRouter by default). Without an API key the component
// is disabled and captioning is skipped, which is not an error.
type Captioner struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger) *Captioner {
	c := &Captioner{
		model:   cfg.VLMModelName,
		timeout: time.Duration(cfg.CaptionTimeoutSeconds) * time.Second,
		logger:  log,
	}

	if cfg.OpenRouterAPIKey == "" {
		log.Warning("OPENROUTER_API_KEY not set, captioning disabled")
		return c
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenRouterAPIKey)}
	if cfg.VLMAPIURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.VLMAPIURL))
	}
	client := openai.NewClient(opts...)
	c.client = &client
	return c
}

// Enabled reports whether a credential is configured.
func (c *Captioner) Enabled() bool {
	return c.client != nil
}

// Caption sends the image and the object summary to the vision model and
// returns the generated caption. The call runs under its own timeout so a
// slow remote never holds a request hostage.
func (c *Captioner) Caption(ctx context.Context, imagePath, objectSummary string) (string, error) {
	if c.client == nil {
		return "", nil
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeTypeFor(imagePath), base64.StdEncoding.EncodeToString(raw))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, objectSummary)
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.TextContentPart(prompt),
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL: dataURL,
							}),
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vision response contained no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func mimeTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
