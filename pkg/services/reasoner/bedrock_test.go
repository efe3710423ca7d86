package reasoner

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	in  *bedrockruntime.ConverseInput
	out *bedrockruntime.ConverseOutput
	err error
}

func (f *fakeConverse) Converse(
	_ context.Context,
	in *bedrockruntime.ConverseInput,
	_ ...func(*bedrockruntime.Options),
) (*bedrockruntime.ConverseOutput, error) {
	f.in = in
	return f.out, f.err
}

func converseOutput(texts ...string) *bedrockruntime.ConverseOutput {
	content := make([]types.ContentBlock, 0, len(texts))
	for _, t := range texts {
		content = append(content, &types.ContentBlockMemberText{Value: t})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{Role: types.ConversationRoleAssistant, Content: content},
		},
		StopReason: types.StopReasonEndTurn,
	}
}

func TestBedrockReasoner_Infer(t *testing.T) {
	api := &fakeConverse{out: converseOutput(`{"answer": 42}`)}
	r := NewBedrockReasoner(api, BedrockOptions{ModelID: "test-model"})

	text, err := r.Infer(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, `{"answer": 42}`, text)

	require.NotNil(t, api.in)
	assert.Equal(t, "test-model", aws.ToString(api.in.ModelId))
	require.Len(t, api.in.Messages, 1)
	assert.Equal(t, types.ConversationRoleUser, api.in.Messages[0].Role)
	require.NotNil(t, api.in.InferenceConfig)
	assert.Equal(t, int32(defaultMaxTokens), aws.ToInt32(api.in.InferenceConfig.MaxTokens))
}

func TestBedrockReasoner_PrefersTrailingJSONBlock(t *testing.T) {
	api := &fakeConverse{out: converseOutput(
		"Let me think about the architecture first...",
		`{"selections": []}`,
	)}
	r := NewBedrockReasoner(api, BedrockOptions{})

	text, err := r.Infer(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, `{"selections": []}`, text)
}

func TestBedrockReasoner_JoinsWhenNoJSONBlock(t *testing.T) {
	api := &fakeConverse{out: converseOutput("first", "second")}
	r := NewBedrockReasoner(api, BedrockOptions{})

	text, err := r.Infer(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", text)
}

func TestBedrockReasoner_Error(t *testing.T) {
	api := &fakeConverse{err: fmt.Errorf("throttled")}
	r := NewBedrockReasoner(api, BedrockOptions{})

	_, err := r.Infer(context.Background(), "question")
	assert.ErrorContains(t, err, "bedrock converse failed")
}

func TestNewBedrockReasoner_Defaults(t *testing.T) {
	r := NewBedrockReasoner(&fakeConverse{}, BedrockOptions{})
	assert.Equal(t, defaultModelID, r.opts.ModelID)
	assert.Equal(t, int32(defaultMaxTokens), r.opts.MaxTokens)
	assert.Equal(t, float32(defaultTemperature), r.opts.Temperature)
	assert.Equal(t, float32(defaultTopP), r.opts.TopP)
}
