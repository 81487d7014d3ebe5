package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"

	"github.com/google/uuid"
)

// Service defines the chatbot conversation service interface
type Service interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResult, error)
}

type service struct {
	repo      repositories.ConversationRepository
	responder Responder
}

// NewService creates a new chatbot service.
func NewService(repo repositories.ConversationRepository, responder Responder) Service {
	if repo == nil {
		panic("repo is required")
	}
	if responder == nil {
		panic("responder is required")
	}
	return &service{repo: repo, responder: responder}
}

func (s *service) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return nil, errs.ErrEmptyQuery
	}

	conv, err := s.resolveConversation(ctx, req)
	if err != nil {
		return nil, err
	}

	userMsg := &models.ChatMessage{
		ConversationID: conv.ConversationID,
		MessageType:    models.MessageTypeUser,
		Content:        req.Query,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, req.Query, req.Context)
	if err != nil {
		return nil, fmt.Errorf("responder failed: %w", err)
	}

	processingMs := int(time.Since(start).Milliseconds())
	botMsg := &models.ChatMessage{
		ConversationID:   conv.ConversationID,
		MessageType:      models.MessageTypeBot,
		Content:          reply.Answer,
		Topic:            reply.Topic,
		Confidence:       reply.Confidence,
		Suggestions:      reply.Suggestions,
		ProcessingTimeMs: processingMs,
		CreatedAt:        time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, botMsg); err != nil {
		return nil, err
	}

	conv.TotalMessages += 2
	if err := s.repo.UpdateConversation(ctx, conv); err != nil {
		return nil, err
	}

	return &ChatResult{
		Response:           reply.Answer,
		SuggestedQuestions: reply.Suggestions,
		Confidence:         reply.Confidence,
		ConversationID:     conv.ConversationID,
		ProcessingTimeMs:   processingMs,
	}, nil
}

func (s *service) resolveConversation(ctx context.Context, req ChatRequest) (*models.Conversation, error) {
	if req.ConversationID != "" {
		conv, err := s.repo.GetConversation(ctx, req.ConversationID)
		if err == nil {
			return conv, nil
		}
		if !errors.Is(err, errs.ErrConversationNotFound) {
			return nil, err
		}
		// Unknown IDs start a fresh conversation, mirroring the upstream
		// contract.
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	conv := &models.Conversation{
		ConversationID: uuid.NewString(),
		InitialQuery:   req.Query,
		Context:        req.Context,
		Language:       language,
		CreatedAt:      time.Now(),
	}
	if userID, ok := req.Context["user_id"].(string); ok {
		conv.UserID = userID
	}
	if sessionID, ok := req.Context["session_id"].(string); ok {
		conv.SessionID = sessionID
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}
