package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/rpupo63/portfolio-site-backend/config"
)

type fakeGenerator struct {
	reply       string
	err         error
	prompt      string
	hadDeadline bool
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	_, g.hadDeadline = ctx.Deadline()
	return g.reply, g.err
}

func TestChatService_NoGenerator(t *testing.T) {
	svc := NewChatService(nil, time.Second)

	reply := svc.Reply(context.Background(), "Tell me about your projects")
	assert.Equal(t, ReplySourceFallback, reply.Source)
	assert.Contains(t, reply.Text, "My Projects section")
}

func TestChatService_GeneratorReply(t *testing.T) {
	gen := &fakeGenerator{reply: "I build backends in Go."}
	svc := NewChatService(gen, time.Second)

	reply := svc.Reply(context.Background(), "What do you do?")
	assert.Equal(t, ReplySourceGenerator, reply.Source)
	assert.Equal(t, "I build backends in Go.", reply.Text)
	assert.Equal(t, "You are a helpful assistant for a developer portfolio website. Keep replies concise and helpful.\nUser: What do you do?", gen.prompt)
	assert.True(t, gen.hadDeadline)
}

func TestChatService_EmptyGeneratorReply(t *testing.T) {
	svc := NewChatService(&fakeGenerator{}, time.Second)

	reply := svc.Reply(context.Background(), "anything")
	assert.Equal(t, ReplySourceGenerator, reply.Source)
	assert.Equal(t, "I'm here to help with your portfolio.", reply.Text)
}

func TestChatService_GeneratorFailureFallsBack(t *testing.T) {
	svc := NewChatService(&fakeGenerator{err: errors.New("quota exceeded")}, 0)

	reply := svc.Reply(context.Background(), "Can I hire you?")
	assert.Equal(t, ReplySourceFallback, reply.Source)
	assert.Equal(t, "Great! Use the contact section to reach out, or share your requirements here.", reply.Text)
}

func TestCannedReply(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"project", "Show me a PROJECT", "You can explore my projects in the My Projects section. Want me to highlight a specific stack like Next.js or MongoDB?"},
		{"portfolio beats contact", "contact me about your portfolio", "You can explore my projects in the My Projects section. Want me to highlight a specific stack like Next.js or MongoDB?"},
		{"hire", "are you available to hire", "Great! Use the contact section to reach out, or share your requirements here."},
		{"next", "Is this Next.js?", "This site is built with Next.js, TypeScript, and Tailwind CSS. I can tell you more about the stack if you like."},
		{"database", "which database do you use", "Data is stored in MongoDB. I can walk you through the API endpoints if you want."},
		{"hello", "Hello there", "Hello! How can I help you today?"},
		{"hi substring", "this", "Hello! How can I help you today?"},
		{"generic", "good morning", "Thanks for your message! I'm a demo chat bot. How can I assist with your portfolio?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CannedReply(tt.message))
		})
	}
}

func TestResponseText(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	text, err := responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Hello, "}, {Text: "world"}}},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)

	text, err = responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{}},
	})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestNewGenerator(t *testing.T) {
	gen, err := NewGenerator(context.Background(), config.ChatConfig{Provider: config.ChatProviderGemini})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewGenerator(context.Background(), config.ChatConfig{Provider: config.ChatProviderOpenAI})
	require.NoError(t, err)
	assert.Nil(t, gen)

	gen, err = NewGenerator(context.Background(), config.ChatConfig{Provider: config.ChatProviderOpenAI, OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, gen)

	_, err = NewGenerator(context.Background(), config.ChatConfig{Provider: "claude"})
	assert.Error(t, err)
}
