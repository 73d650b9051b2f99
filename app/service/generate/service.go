// Package generate delegates free-form replies to an OpenAI-compatible
// backend. Failures never escape this package: a failed call turns into a
// fixed localized fallback reply.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nspire/app/config"
	"nspire/app/service/locale"
	"nspire/app/service/session"

	_ "embed"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"
)

//go:embed intent_prompt.txt
var intentPrompt string

const (
	callTimeout = 20 * time.Second

	replyMaxTokens  = 400
	intentMaxTokens = 16

	replyTemperature  = 0.3
	intentTemperature = 0.1

	// Upper bound on concurrent backend calls across all users.
	maxInflightCalls = 8
)

type Service struct {
	cfg *config.Config

	replyClient  *openai.Client
	intentClient *openai.Client

	sem *semaphore.Weighted
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg:          cfg,
		replyClient:  createClient(cfg.OpenAI.Reply),
		intentClient: createClient(cfg.OpenAI.Intent),
		sem:          semaphore.NewWeighted(maxInflightCalls),
	}, nil
}

func createClient(cfg config.ModelConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: 30 * time.Second,
	}

	return openai.NewClientWithConfig(clientConfig)
}

// Reply sends the full role-tagged history to the backend and returns the
// generated text. On any failure it returns the localized fallback instead;
// when intent is empty or unknown, a localized clarifying question is
// appended to whatever came back.
func (s *Service) Reply(ctx context.Context, history []session.Turn, lang locale.Language, intent string) string {
	text, err := s.complete(ctx, s.replyClient, s.cfg.OpenAI.Reply.Model, toMessages(history), replyMaxTokens, replyTemperature)
	if err != nil {
		slog.Error("Generation backend failed, using fallback reply",
			"error", err,
			"turns", len(history))

		text = locale.Text(locale.KeyGenerationFailed, lang)
	}

	if intent == "" || intent == "unknown" {
		text = text + "\n\n" + locale.Text(locale.KeyClarifyIntent, lang)
	}

	return text
}

// ExtractIntent asks the backend for a single-token service category label
// over the conversation so far. Any failure degrades to "unknown".
func (s *Service) ExtractIntent(ctx context.Context, history []session.Turn) string {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: intentPrompt},
	}
	for _, turn := range history {
		if turn.Role == session.RoleSystem {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	text, err := s.complete(ctx, s.intentClient, s.cfg.OpenAI.Intent.Model, messages, intentMaxTokens, intentTemperature)
	if err != nil {
		slog.Warn("Intent extraction failed", "error", err)
		return "unknown"
	}

	label := strings.ToLower(strings.TrimSpace(text))
	if label == "" || strings.ContainsAny(label, " \n") {
		return "unknown"
	}

	return label
}

// complete runs one chat completion with a timeout and a single retry.
func (s *Service) complete(ctx context.Context, client *openai.Client, model string, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("failed to acquire call slot: %w", err)
	}
	defer s.sem.Release(1)

	var lastErr error

	for attempt := 0; attempt < 2; attempt++ {
		text, err := s.completeOnce(ctx, client, model, messages, maxTokens, temperature)
		if err == nil {
			return text, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return "", lastErr
}

func (s *Service) completeOnce(ctx context.Context, client *openai.Client, model string, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	aiResponse, err := client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:               model,
			Messages:            messages,
			MaxCompletionTokens: maxTokens,
			Temperature:         temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("no chat completion found")
	}

	result := strings.TrimSpace(aiResponse.Choices[0].Message.Content)
	if result == "" {
		return "", fmt.Errorf("empty chat completion")
	}

	return result, nil
}

func toMessages(history []session.Turn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))

	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	return messages
}
