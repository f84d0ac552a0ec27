package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/model"
)

func TestIsDesignRequest(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Please DESIGN my kitchen", true},
		{"generate a loft", true},
		{"create something", true},
		{"Show me a bedroom", true},
		{"what colors work?", false},
		{"show a room", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDesignRequest(tt.input))
		})
	}
}

func TestCannedReply(t *testing.T) {
	assert.Equal(t, designAck, CannedReply("anything", true))
	assert.Contains(t, CannedReply("Hello there", false), "How can I assist")
	assert.Contains(t, CannedReply("I like MODERN stuff", false), "clean lines")
	assert.Contains(t, CannedReply("traditional please", false), "classic elements")
	assert.Contains(t, CannedReply("Any palette ideas?", false), "calming space")
	assert.Contains(t, CannedReply("tiny apartment, small", false), "multi-functional")
	assert.Contains(t, CannedReply("affordable options", false), "on a budget")
	assert.Equal(t, defaultReply, CannedReply("eh", false))
}

func TestAssistant_EmptyInput(t *testing.T) {
	a := NewAssistant(fakeKeys{}, &fakeCompleter{}, &fakeGenerator{}, zap.NewNop())

	_, err := a.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAssistant_CannedWithoutKeys(t *testing.T) {
	completer := &fakeCompleter{reply: "unused"}
	gen := &fakeGenerator{}
	a := NewAssistant(fakeKeys{}, completer, gen, zap.NewNop())

	reply, err := a.Send(context.Background(), "modern living room ideas")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Equal(t, model.SenderUser, reply.Messages[0].Sender)
	assert.Equal(t, "modern living room ideas", reply.Messages[0].Text)
	assert.Equal(t, model.SenderBot, reply.Messages[1].Sender)
	assert.Contains(t, reply.Messages[1].Text, "clean lines")
	assert.Empty(t, completer.prompts)
	assert.Empty(t, gen.requests)
}

func TestAssistant_GeminiReply(t *testing.T) {
	completer := &fakeCompleter{reply: "Go with oak."}
	a := NewAssistant(fakeKeys{ProviderGemini: "g"}, completer, &fakeGenerator{}, zap.NewNop())

	reply, err := a.Send(context.Background(), "which wood?")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Equal(t, "Go with oak.", reply.Messages[1].Text)
	assert.Equal(t, []string{"which wood?"}, completer.prompts)
	assert.Empty(t, reply.Notices)
}

func TestAssistant_GeminiFailureApologizes(t *testing.T) {
	a := NewAssistant(fakeKeys{ProviderGemini: "g"}, &fakeCompleter{err: errUpstream}, &fakeGenerator{}, zap.NewNop())

	reply, err := a.Send(context.Background(), "which wood?")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	assert.Equal(t, apologyText, reply.Messages[1].Text)
	require.Len(t, reply.Notices, 1)
	assert.Contains(t, reply.Notices[0], "Gemini")
}

func TestAssistant_DesignRequestAddsImage(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAssistant(fakeKeys{ProviderRunware: "r"}, &fakeCompleter{}, gen, zap.NewNop())

	reply, err := a.Send(context.Background(), "design a cozy reading nook")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 3)
	assert.Equal(t, designAck, reply.Messages[1].Text)
	assert.Equal(t, imageIntro, reply.Messages[2].Text)
	assert.Equal(t, "https://img.test/1.webp", reply.Messages[2].Image)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "Interior design: design a cozy reading nook", gen.requests[0].PositivePrompt)
	assert.Equal(t, 1024, gen.requests[0].Width)
	assert.Equal(t, 768, gen.requests[0].Height)
	assert.Equal(t, []string{"r"}, gen.keys)
}

func TestAssistant_ImageFailureKeepsTextReply(t *testing.T) {
	a := NewAssistant(fakeKeys{ProviderRunware: "r"}, &fakeCompleter{}, &fakeGenerator{err: errUpstream}, zap.NewNop())

	reply, err := a.Send(context.Background(), "show me a bathroom")
	require.NoError(t, err)

	require.Len(t, reply.Messages, 2)
	require.Len(t, reply.Notices, 1)
	assert.Contains(t, reply.Notices[0], "Runware")
}

func TestAssistant_DesignRequestWithoutRunwareKey(t *testing.T) {
	gen := &fakeGenerator{}
	a := NewAssistant(fakeKeys{}, &fakeCompleter{}, gen, zap.NewNop())

	reply, err := a.Send(context.Background(), "generate a patio")
	require.NoError(t, err)
	assert.Len(t, reply.Messages, 2)
	assert.Empty(t, gen.requests)
}
