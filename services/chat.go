package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site-backend/metrics"
)

// Generator produces a free-text reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Reply sources, also used as the chat metrics label.
const (
	ReplySourceGenerator = "generator"
	ReplySourceFallback  = "fallback"
)

// EmptyGeneratorReply is sent when a generator answers with no text.
const EmptyGeneratorReply = "I'm here to help with your portfolio."

const promptPreamble = "You are a helpful assistant for a developer portfolio website. Keep replies concise and helpful."

type ChatReply struct {
	Text   string
	Source string
}

// ChatService answers chat messages. It never fails: without a generator, or
// when the generator errors, the reply comes from CannedReply.
type ChatService struct {
	generator Generator
	timeout   time.Duration
}

// NewChatService accepts a nil generator.
func NewChatService(generator Generator, timeout time.Duration) *ChatService {
	return &ChatService{generator: generator, timeout: timeout}
}

func BuildPrompt(message string) string {
	return promptPreamble + "\nUser: " + message
}

func (s *ChatService) Reply(ctx context.Context, message string) ChatReply {
	if s.generator != nil {
		text, err := s.generate(ctx, message)
		if err == nil {
			if text == "" {
				text = EmptyGeneratorReply
			}
			metrics.ChatRepliesTotal.WithLabelValues(ReplySourceGenerator).Inc()
			return ChatReply{Text: text, Source: ReplySourceGenerator}
		}
		log.Warn().Err(err).Msg("Chat generator failed, falling back to canned reply")
	}

	metrics.ChatRepliesTotal.WithLabelValues(ReplySourceFallback).Inc()
	return ChatReply{Text: CannedReply(message), Source: ReplySourceFallback}
}

func (s *ChatService) generate(ctx context.Context, message string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.generator.Generate(ctx, BuildPrompt(message))
}

type cannedBucket struct {
	keywords []string
	reply    string
}

// Checked in order; the first bucket with a matching keyword wins.
var cannedBuckets = []cannedBucket{
	{
		keywords: []string{"project", "portfolio"},
		reply:    "You can explore my projects in the My Projects section. Want me to highlight a specific stack like Next.js or MongoDB?",
	},
	{
		keywords: []string{"contact", "hire"},
		reply:    "Great! Use the contact section to reach out, or share your requirements here.",
	},
	{
		keywords: []string{"next", "next.js"},
		reply:    "This site is built with Next.js, TypeScript, and Tailwind CSS. I can tell you more about the stack if you like.",
	},
	{
		keywords: []string{"mongodb", "database"},
		reply:    "Data is stored in MongoDB. I can walk you through the API endpoints if you want.",
	},
	{
		keywords: []string{"hello", "hi"},
		reply:    "Hello! How can I help you today?",
	},
}

const genericCannedReply = "Thanks for your message! I'm a demo chat bot. How can I assist with your portfolio?"

// CannedReply picks a reply by case-insensitive substring match.
func CannedReply(message string) string {
	lower := strings.ToLower(message)
	for _, bucket := range cannedBuckets {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lower, keyword) {
				return bucket.reply
			}
		}
	}
	return genericCannedReply
}
