// Package prose turns an outline into narrative text by streaming chat
// completions from an OpenAI-compatible service, one act at a time.
package prose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"heroforge/internal/logger"
	"heroforge/internal/story"
)

var (
	ErrRateLimited  = errors.New("prose service rate limited")
	ErrUnauthorized = errors.New("prose service rejected credentials")
	ErrUnavailable  = errors.New("prose service unavailable")
)

const Instructions = "# Writing instructions:\n" +
	"- You are given one act of a Hero's Journey outline as markdown bullets.\n" +
	"- Write that act as continuous prose, one or more paragraphs per beat, in beat order.\n" +
	"- Use every named character, place, trait and talisman from the outline.\n" +
	"- Treat modifier lines such as \"wants: a sword\" as facts about the character, not as text to quote.\n" +
	"- Earlier acts, when given, are context only. Do not retell them.\n" +
	"- Use short, plain sentences and keep the plot moving.\n" +
	"- Answer with the prose only. No headings, lists or commentary."

type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float32
}

type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func New(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{
		api:         openai.NewClientWithConfig(oc),
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// ActError reports which act failed. The outline itself is never touched,
// so the act can be retried.
type ActError struct {
	Act int
	Err error
}

func (e *ActError) Error() string {
	return fmt.Sprintf("act %d: %v", e.Act, e.Err)
}

func (e *ActError) Unwrap() error {
	return e.Err
}

// Messages builds the chat for act, numbered from 1. Earlier acts of the
// outline are included as context.
func Messages(s *story.Story, act int) ([]openai.ChatCompletionMessage, error) {
	slice, err := story.ActMarkdown(s, act)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title())
	if act > 1 {
		b.WriteString("Outline so far:\n\n")
		for prev := 1; prev < act; prev++ {
			md, _ := story.ActMarkdown(s, prev)
			b.WriteString(md)
			b.WriteString("\n")
		}
		b.WriteString("Write this act:\n\n")
	}
	b.WriteString(slice)

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: Instructions},
		{Role: openai.ChatMessageRoleUser, Content: b.String()},
	}, nil
}

// StreamAct writes the prose for act to w as chunks arrive and returns the
// number of bytes written.
func (c *Client) StreamAct(ctx context.Context, s *story.Story, act int, w io.Writer) (int, error) {
	messages, err := Messages(s, act)
	if err != nil {
		return 0, err
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      true,
	}

	logger.Debug("streaming prose", "act", act, "model", c.model)
	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return 0, &ActError{Act: act, Err: classify(err)}
	}
	defer stream.Close()

	written := 0
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, &ActError{Act: act, Err: classify(err)}
		}
		if len(resp.Choices) == 0 {
			continue
		}
		n, err := io.WriteString(w, resp.Choices[0].Delta.Content)
		written += n
		if err != nil {
			return written, &ActError{Act: act, Err: fmt.Errorf("writing prose: %w", err)}
		}
	}

	logger.Debug("prose act complete", "act", act, "bytes", written)
	return written, nil
}

// StreamStory streams every act in order, separated by a blank line, and
// stops at the first failing act.
func (c *Client) StreamStory(ctx context.Context, s *story.Story, w io.Writer) error {
	for act := 1; act <= story.ActCount; act++ {
		if act > 1 {
			if _, err := io.WriteString(w, "\n\n"); err != nil {
				return fmt.Errorf("writing prose: %w", err)
			}
		}
		if _, err := c.StreamAct(ctx, s, act, w); err != nil {
			return err
		}
	}
	return nil
}

func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case status == 0 || status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("prose request failed: %w", err)
}
