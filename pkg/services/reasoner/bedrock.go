package reasoner

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rs/zerolog"
)

const (
	// defaultModelID is an inference profile id, not a foundation model id.
	defaultModelID = "us.amazon.nova-premier-v1:0"

	defaultMaxTokens = 4096

	// Low temperature keeps outputs more deterministic, which is what we want
	// for JSON-structured answers.
	defaultTemperature = 0.2
	defaultTopP        = 0.9
)

// converseAPI is the slice of the Bedrock runtime client the adapter needs.
type converseAPI interface {
	Converse(
		ctx context.Context,
		in *bedrockruntime.ConverseInput,
		opts ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ConverseOutput, error)
}

type BedrockOptions struct {
	ModelID     string
	MaxTokens   int32
	Temperature float32
	TopP        float32
}

// BedrockReasoner implements Reasoner over the Bedrock Converse API.
type BedrockReasoner struct {
	api  converseAPI
	opts BedrockOptions
}

func NewBedrockReasoner(api converseAPI, opts BedrockOptions) *BedrockReasoner {
	if opts.ModelID == "" {
		opts.ModelID = defaultModelID
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.TopP == 0 {
		opts.TopP = defaultTopP
	}
	return &BedrockReasoner{api: api, opts: opts}
}

func (r *BedrockReasoner) Infer(ctx context.Context, prompt string) (string, error) {
	logger := zerolog.Ctx(ctx)

	in := &bedrockruntime.ConverseInput{
		ModelId: aws.String(r.opts.ModelID),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
		}},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(r.opts.MaxTokens),
			Temperature: aws.Float32(r.opts.Temperature),
			TopP:        aws.Float32(r.opts.TopP),
		},
	}

	out, err := r.api.Converse(ctx, in)
	if err != nil {
		return "", fmt.Errorf("bedrock converse failed: %w", err)
	}

	text := textFromOutput(out)
	logger.Debug().
		Str("model", r.opts.ModelID).
		Str("stop_reason", string(out.StopReason)).
		Int("prompt_len", len(prompt)).
		Int("response_len", len(text)).
		Msg("reasoner responded")

	if out.StopReason == types.StopReasonMaxTokens {
		// The caller's extraction step decides whether the truncated text is
		// still usable.
		logger.Warn().Str("model", r.opts.ModelID).Msg("reasoner hit max tokens")
	}
	return text, nil
}

// textFromOutput joins the assistant's text blocks, preferring a trailing
// block that already looks like a single JSON object.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil || out.Output == nil {
		return ""
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, cb := range msg.Value.Content {
		if t, ok := cb.(*types.ContentBlockMemberText); ok && t.Value != "" {
			texts = append(texts, t.Value)
		}
	}

	for i := len(texts) - 1; i >= 0; i-- {
		s := strings.TrimSpace(texts[i])
		if len(s) > 1 && s[0] == '{' && s[len(s)-1] == '}' {
			return s
		}
	}
	return strings.Join(texts, "\n")
}
