package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"contentradar/internal/config"
)

const (
	maxRetries = 3
	baseDelay  = 2 * time.Second
)

// Client wraps the chat model with rate limiting and retry handling. All
// agents go through it; none of them talk to the model directly.
type Client struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
	log       *logrus.Logger
}

// New initialises the chat model and the request limiter.
func New(ctx context.Context, cfg config.LLMConfig, conc config.ConcurrencyConfig, log *logrus.Logger) (*Client, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	limit := rate.Limit(float64(conc.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, conc.QPS)

	return &Client{chatModel: chatModel, limiter: limiter, log: log}, nil
}

// Generate runs a blocking completion and returns the full text.
func (c *Client) Generate(ctx context.Context, system, user string, temperature float32) (string, error) {
	messages := buildMessages(system, user)

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		resp, err := c.chatModel.Generate(ctx, messages, model.WithTemperature(temperature))
		if err != nil {
			if isRateLimited(err) && i < maxRetries {
				lastErr = err
				time.Sleep(baseDelay * time.Duration(1<<i))
				continue
			}
			return "", err
		}
		return resp.Content, nil
	}
	return "", lastErr
}

// GenerateJSON runs a completion that is expected to return a single JSON
// object and unmarshals it into out. Markdown fences around the payload are
// tolerated; an unparseable payload is retried before giving up.
func (c *Client) GenerateJSON(ctx context.Context, system, user string, temperature float32, out any) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		raw, err := c.Generate(ctx, system, user, temperature)
		if err != nil {
			return err
		}

		clean := StripFences(raw)
		if err := decodeInto(clean, out); err != nil {
			lastErr = fmt.Errorf("json unmarshal: %w", err)
			c.log.Debugf("discarding malformed model payload (attempt %d): %v", i+1, err)
			continue
		}
		return nil
	}
	return lastErr
}

// Stream runs a streaming completion. onText receives the accumulated text
// after every chunk, on the caller's goroutine, before Stream returns. A nil
// onText degrades to Generate.
func (c *Client) Stream(ctx context.Context, system, user string, temperature float32, onText func(accumulated string)) (string, error) {
	if onText == nil {
		return c.Generate(ctx, system, user, temperature)
	}

	messages := buildMessages(system, user)

	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		reader, err := c.chatModel.Stream(ctx, messages, model.WithTemperature(temperature))
		if err != nil {
			if isRateLimited(err) && i < maxRetries {
				lastErr = err
				time.Sleep(baseDelay * time.Duration(1<<i))
				continue
			}
			return "", err
		}

		var sb strings.Builder
		for {
			chunk, err := reader.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				reader.Close()
				return "", fmt.Errorf("stream recv: %w", err)
			}
			if chunk.Content == "" {
				continue
			}
			sb.WriteString(chunk.Content)
			onText(sb.String())
		}
		reader.Close()
		return sb.String(), nil
	}
	return "", lastErr
}

// decodeInto unmarshals through a fresh value so a failed attempt never
// leaves partially populated fields behind in out.
func decodeInto(data string, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer")
	}
	fresh := reflect.New(rv.Type().Elem())
	if err := json.Unmarshal([]byte(data), fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}

func buildMessages(system, user string) []*schema.Message {
	messages := make([]*schema.Message, 0, 2)
	if system != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: system})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: user})
	return messages
}

// StripFences removes a markdown code fence wrapped around a JSON payload.
func StripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "too many requests")
}
