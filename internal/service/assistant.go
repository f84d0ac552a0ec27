package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/chat"
	"surana-backend/internal/imagegen"
	"surana-backend/internal/model"
)

const (
	GreetingText = "Hello! I'm Surana AI, your interior design assistant. How can I help with your space today?"
	apologyText  = "I'm sorry, I couldn't process your request right now. Please try again later."
	imageIntro   = "Here's a design based on your request:"

	chatImageWidth  = 1024
	chatImageHeight = 768
)

var designWords = []string{"design", "generate", "create", "show me"}

// cannedReplies keyword replies used when no Gemini key is set, first match wins
var cannedReplies = []struct {
	keywords []string
	reply    string
}{
	{[]string{"hello", "hi"}, "Hello! How can I assist with your interior design project today?"},
	{[]string{"modern"}, "Modern design emphasizes clean lines, minimal decoration, and a neutral color palette. Would you like me to suggest some modern furniture pieces or color schemes?"},
	{[]string{"traditional"}, "Traditional design features classic elements, rich color palettes, and ornate details. It often incorporates antique-inspired furniture and symmetrical arrangements. Would you like some traditional design recommendations?"},
	{[]string{"color", "palette"}, "Color is crucial in interior design! For a calming space, consider blues and greens. For energy, try reds or oranges. Neutral colors like beige, gray, and white are versatile foundations. Would you like me to suggest a specific palette for your space?"},
	{[]string{"small", "space"}, "For small spaces, consider multi-functional furniture, light colors to create the illusion of space, and mirrors to reflect light. Vertical storage solutions can also maximize your square footage. Would you like specific recommendations for your small space?"},
	{[]string{"budget", "affordable"}, "Creating a beautiful space on a budget is definitely possible! Consider upcycling existing furniture, shopping secondhand, DIY projects, and focusing on impactful changes like paint and lighting. Would you like budget-friendly recommendations for a specific room?"},
}

const (
	designAck    = "I'll create a design visualization based on your request..."
	defaultReply = "Thank you for sharing. To provide the best advice, could you tell me more about your space? What's your style preference, budget, and which room are you designing?"
)

// IsDesignRequest true when the message asks for a visual
func IsDesignRequest(input string) bool {
	lower := strings.ToLower(input)
	for _, w := range designWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// CannedReply offline reply for input
func CannedReply(input string, designRequest bool) string {
	if designRequest {
		return designAck
	}
	lower := strings.ToLower(input)
	for _, c := range cannedReplies {
		for _, k := range c.keywords {
			if strings.Contains(lower, k) {
				return c.reply
			}
		}
	}
	return defaultReply
}

// ChatReply messages appended to the transcript for one user turn, plus
// user-facing notices for failures that did not abort the turn
type ChatReply struct {
	Messages []model.ChatMessage `json:"messages"`
	Notices  []string            `json:"notices,omitempty"`
}

// Assistant design chat: Gemini when keyed, canned replies otherwise, and an
// optional generated image for design requests.
type Assistant struct {
	keys      KeySource
	completer chat.Completer
	images    imagegen.Generator
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssistant creates an Assistant
func NewAssistant(keys KeySource, completer chat.Completer, images imagegen.Generator, logger *zap.Logger) *Assistant {
	return &Assistant{
		keys:      keys,
		completer: completer,
		images:    images,
		logger:    logger.Named("assistant"),
		now:       time.Now,
	}
}

func (a *Assistant) message(sender model.Sender, text string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: a.now(),
	}
}

// Send handles one user turn. Messages come back in transcript order: the
// user's message, the text reply, then the image message if one was made.
func (a *Assistant) Send(ctx context.Context, input string) (ChatReply, error) {
	if strings.TrimSpace(input) == "" {
		return ChatReply{}, fmt.Errorf("%w: message is empty", apperr.ErrInvalidInput)
	}

	reply := ChatReply{Messages: []model.ChatMessage{a.message(model.SenderUser, input)}}
	designRequest := IsDesignRequest(input)

	geminiKey, err := a.keys.APIKey(ctx, ProviderGemini)
	if err != nil {
		return ChatReply{}, err
	}

	var text string
	if geminiKey != "" {
		text, err = a.completer.Complete(ctx, geminiKey, input)
		if err != nil {
			a.logger.Warn("chat completion failed", zap.Error(err))
			reply.Notices = append(reply.Notices, "Failed to get AI response. Please check your Gemini API key.")
			text = apologyText
		}
	} else {
		text = CannedReply(input, designRequest)
	}
	reply.Messages = append(reply.Messages, a.message(model.SenderBot, text))

	if !designRequest {
		return reply, nil
	}

	runwareKey, err := a.keys.APIKey(ctx, ProviderRunware)
	if err != nil {
		return ChatReply{}, err
	}
	if runwareKey == "" {
		return reply, nil
	}

	img, err := a.images.Generate(ctx, runwareKey, imagegen.Request{
		PositivePrompt: "Interior design: " + input,
		Width:          chatImageWidth,
		Height:         chatImageHeight,
	})
	if err != nil {
		a.logger.Warn("chat image generation failed", zap.Error(err))
		reply.Notices = append(reply.Notices, "Failed to generate image. Please check your Runware API key.")
		return reply, nil
	}

	msg := a.message(model.SenderBot, imageIntro)
	msg.Image = img.ImageURL
	reply.Messages = append(reply.Messages, msg)
	return reply, nil
}
