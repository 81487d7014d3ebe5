package chatbot

import (
	"context"
	"errors"
	"testing"

	errs "taxchain/internal/errors"
	"taxchain/internal/models"
	"taxchain/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	reply *Reply
	err   error
}

func (r *stubResponder) Respond(ctx context.Context, query string, conversationContext models.JSON) (*Reply, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.reply, nil
}

func TestService_Chat(t *testing.T) {
	ctx := context.Background()
	reply := &Reply{
		Answer:      "VAT returns are due on the 18th of the following month.",
		Suggestions: []string{"How do I pay VAT?"},
		Confidence:  0.9,
		Topic:       "vat",
	}

	t.Run("starts a conversation and persists both messages", func(t *testing.T) {
		repo := repositories.NewMemoryConversationRepository()
		svc := NewService(repo, &stubResponder{reply: reply})

		result, err := svc.Chat(ctx, ChatRequest{
			Query:   "When is VAT due?",
			Context: models.JSON{"user_id": "U1", "session_id": "S1"},
		})
		require.NoError(t, err)

		assert.Equal(t, reply.Answer, result.Response)
		assert.Equal(t, reply.Suggestions, result.SuggestedQuestions)
		assert.InDelta(t, 0.9, result.Confidence, 1e-9)
		assert.NotEmpty(t, result.ConversationID)

		conv, err := repo.GetConversation(ctx, result.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, "U1", conv.UserID)
		assert.Equal(t, "S1", conv.SessionID)
		assert.Equal(t, 2, conv.TotalMessages)
		assert.Equal(t, "en", conv.Language)

		msgs := repo.Messages()
		require.Len(t, msgs, 2)
		assert.Equal(t, models.MessageTypeUser, msgs[0].MessageType)
		assert.Equal(t, "When is VAT due?", msgs[0].Content)
		assert.Equal(t, models.MessageTypeBot, msgs[1].MessageType)
		assert.Equal(t, reply.Answer, msgs[1].Content)
	})

	t.Run("continues an existing conversation", func(t *testing.T) {
		repo := repositories.NewMemoryConversationRepository()
		svc := NewService(repo, &stubResponder{reply: reply})

		first, err := svc.Chat(ctx, ChatRequest{Query: "Hello"})
		require.NoError(t, err)
		second, err := svc.Chat(ctx, ChatRequest{Query: "And VAT?", ConversationID: first.ConversationID})
		require.NoError(t, err)

		assert.Equal(t, first.ConversationID, second.ConversationID)
		conv, err := repo.GetConversation(ctx, first.ConversationID)
		require.NoError(t, err)
		assert.Equal(t, 4, conv.TotalMessages)
	})

	t.Run("unknown conversation id starts fresh", func(t *testing.T) {
		repo := repositories.NewMemoryConversationRepository()
		svc := NewService(repo, &stubResponder{reply: reply})

		result, err := svc.Chat(ctx, ChatRequest{Query: "Hi", ConversationID: "no-such-id"})
		require.NoError(t, err)
		assert.NotEqual(t, "no-such-id", result.ConversationID)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		svc := NewService(repositories.NewMemoryConversationRepository(), &stubResponder{reply: reply})

		_, err := svc.Chat(ctx, ChatRequest{Query: "   "})
		assert.ErrorIs(t, err, errs.ErrEmptyQuery)
	})

	t.Run("responder failure surfaces", func(t *testing.T) {
		svc := NewService(repositories.NewMemoryConversationRepository(), &stubResponder{err: errors.New("upstream down")})

		_, err := svc.Chat(ctx, ChatRequest{Query: "Hello"})
		assert.ErrorContains(t, err, "responder failed")
	})
}

func TestStaticResponder(t *testing.T) {
	r := &StaticResponder{}
	reply, err := r.Respond(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, reply.Answer)
	assert.NotEmpty(t, reply.Suggestions)
	assert.Equal(t, "general", reply.Topic)
}
