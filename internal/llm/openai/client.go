package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"

	"github.com/joseph-ayodele/office-extract/internal/common"
	"github.com/joseph-ayodele/office-extract/internal/llm"
)

// Format implements llm.Formatter. Every failure comes back as a remote
// service error; the caller keeps the unformatted text.
func (c *Client) Format(ctx context.Context, req llm.FormatRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", common.NewRemoteError("refusing to format empty text", nil)
	}

	rid := uuid.New().String()
	start := time.Now()

	if cut, ok := llm.Truncate(text, c.cfg.MaxInputChars); !ok {
		c.logger.Warn("llm.format.truncated",
			"req_id", rid, "index", req.Index,
			"text_len", len(text), "max_chars", c.cfg.MaxInputChars,
		)
		text = cut
	}

	c.logger.Info("llm.format.start",
		"req_id", rid,
		"kind", req.Kind,
		"index", req.Index,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(text),
	)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.SystemPrompt),
			openai.UserMessage(llm.BuildUserPrompt(req.Kind, text)),
		},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		err = mapOpenAIError(err)
		c.logger.Error("llm.format.request_error",
			"req_id", rid, "index", req.Index, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}
	if resp == nil || len(resp.Choices) == 0 {
		c.logger.Error("llm.format.no_choices",
			"req_id", rid, "index", req.Index,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewRemoteError("no choices in openai response", nil)
	}

	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		c.logger.Error("llm.format.empty_content",
			"req_id", rid, "index", req.Index,
			"finish_reason", resp.Choices[0].FinishReason,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewRemoteError("empty completion", nil)
	}

	c.logger.Info("llm.format.ok",
		"req_id", rid,
		"index", req.Index,
		"out_len", len(out),
		"total_tokens", resp.Usage.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// mapOpenAIError turns SDK errors into remote service errors with the HTTP
// status spelled out.
func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		var what string
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			what = "authentication failed"
		case http.StatusTooManyRequests:
			what = "rate limited or quota exceeded"
		default:
			what = "request failed"
		}
		msg := fmt.Sprintf("openai %s (status %d)", what, apiErr.StatusCode)
		if apiErr.Message != "" {
			msg += ": " + apiErr.Message
		}
		return common.NewRemoteError(msg, nil)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return common.NewRemoteError("openai request aborted", err)
	}
	return common.NewRemoteError("openai request failed", err)
}

var _ llm.Formatter = (*Client)(nil)
