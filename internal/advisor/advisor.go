package advisor

import (
	"context"
	"fmt"
	"strings"

	"market-mood/internal/domain"
	"market-mood/internal/sentiment"
	"market-mood/pkg/format"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/trace"
)

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// AdvisorService turns a dashboard snapshot into one paragraph of
// plain-language commentary. It holds no conversation state.
type AdvisorService struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewAdvisorService(tracer trace.Tracer, llm LLMClient, model string) *AdvisorService {
	return &AdvisorService{tracer: tracer, llm: llm, model: model}
}

const systemPrompt = "You are a cautious market sentiment commentator. " +
	"Given current readings, reply with ONE short paragraph of plain prose. " +
	"Describe what the readings say about risk appetite. Never give financial advice, " +
	"never recommend trades, no markdown."

func (s *AdvisorService) Comment(ctx context.Context, snapshot domain.Snapshot) (string, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.comment")
	defer span.End()

	completion, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(DescribeSnapshot(snapshot)),
		},
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("advisor unavailable: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty advisor completion")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// DescribeSnapshot renders the snapshot readings as the user prompt.
func DescribeSnapshot(snapshot domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("Current readings:\n")

	if latest, ok := snapshot.SeriesFor(domain.KindPrice).Latest(); ok {
		fmt.Fprintf(&sb, "bitcoin_price_eur=%s\n", format.Thousands(latest.Value))
	}
	if latest, ok := snapshot.SeriesFor(domain.KindEquity).Latest(); ok {
		fmt.Fprintf(&sb, "msci_world_proxy_close=%.2f\n", latest.Value)
	}
	if latest, ok := snapshot.SeriesFor(domain.KindVolatility).Latest(); ok {
		fmt.Fprintf(&sb, "vix=%.2f (%s)\n", latest.Value, snapshot.VolLabel)
	}
	if snapshot.Score.OK {
		fmt.Fprintf(&sb, "fear_greed=%d (%s)\n", snapshot.Score.Value, snapshot.ScoreLabel)
	} else {
		fmt.Fprintf(&sb, "fear_greed=n/a (%s)\n", sentiment.LabelNeutral)
	}
	if snapshot.DeltaOK {
		fmt.Fprintf(&sb, "fear_greed_delta=%s\n", format.SignedInt(snapshot.Delta))
	}
	for _, w := range snapshot.Warnings {
		fmt.Fprintf(&sb, "warning=%s\n", w)
	}

	return sb.String()
}

type openaiClient struct {
	client openai.Client
}

// NewOpenAIClient wraps the real OpenAI SDK client.
func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
