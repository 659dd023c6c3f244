// Package genai turns topics, pasted source text, and revision requests into
// deck drafts by prompting an LLM through the eino chat-model abstraction.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/starford/skald/internal/models"
)

// Config holds the LLM connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator produces and revises decks via a chat model.
type Generator struct {
	chatModel model.ChatModel
	logger    *slog.Logger
}

// NewGenerator builds a Generator backed by an OpenAI-compatible endpoint.
func NewGenerator(ctx context.Context, cfg Config, logger *slog.Logger) (*Generator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("genai: create chat model: %w", err)
	}
	return NewGeneratorWithModel(cm, logger), nil
}

// NewGeneratorWithModel wires a Generator over an existing chat model.
// Used by tests and by callers that construct their own model.
func NewGeneratorWithModel(cm model.ChatModel, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{chatModel: cm, logger: logger}
}

// GenerateRequest describes what kind of deck to draft.
type GenerateRequest struct {
	Topic         string
	SourceText    string
	SlideCount    int
	IncludeImages bool
}

// GenerateDeck asks the model for a complete deck draft. Slide ids and
// timestamps are assigned here so the result is ready to persist.
func (g *Generator) GenerateDeck(ctx context.Context, req GenerateRequest) (*models.Deck, error) {
	if req.Topic == "" && req.SourceText == "" {
		return nil, fmt.Errorf("genai: generate needs a topic or source text")
	}
	if req.SlideCount <= 0 {
		req.SlideCount = defaultSlideCount
	}

	msgs := []*schema.Message{
		{Role: schema.System, Content: generateSystemPrompt},
		{Role: schema.User, Content: buildGeneratePrompt(req)},
	}

	resp, err := g.chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("genai: generate deck: %w", err)
	}

	deck, err := parseDeck(resp.Content)
	if err != nil {
		g.logger.Warn("deck draft parse failed", "error", err)
		return nil, err
	}

	deck.ID = models.NewDeckID()
	deck.IncludeImages = req.IncludeImages
	deck.EnsureSlideIDs()
	now := time.Now().UTC()
	deck.CreatedAt = now
	deck.UpdatedAt = now
	return deck, nil
}

// EditDeck asks the model to revise an existing deck per the user's message.
// The deck id, override maps, and existing slide ids survive the revision;
// slides the model adds get fresh ids.
func (g *Generator) EditDeck(ctx context.Context, deck *models.Deck, message string) (*models.Deck, error) {
	if message == "" {
		return nil, fmt.Errorf("genai: edit needs a message")
	}

	current, err := json.Marshal(deck)
	if err != nil {
		return nil, fmt.Errorf("genai: marshal current deck: %w", err)
	}

	msgs := []*schema.Message{
		{Role: schema.System, Content: editSystemPrompt},
		{Role: schema.User, Content: buildEditPrompt(string(current), message)},
	}

	resp, err := g.chatModel.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("genai: edit deck: %w", err)
	}

	revised, err := parseDeck(resp.Content)
	if err != nil {
		g.logger.Warn("deck revision parse failed", "error", err)
		return nil, err
	}

	revised.ID = deck.ID
	revised.IncludeImages = deck.IncludeImages
	revised.ImageSeeds = deck.ImageSeeds
	revised.CreatedAt = deck.CreatedAt
	revised.UpdatedAt = time.Now().UTC()
	revised.EnsureSlideIDs()
	// Overrides only survive for slides that still exist.
	revised.CustomImages = deck.CustomImages
	revised.PruneOverrides()
	return revised, nil
}
