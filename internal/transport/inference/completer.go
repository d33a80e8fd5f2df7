// Package inference calls the Elasticsearch inference API chat completion stream.
package inference

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hybridsearch/internal/db"
	"github.com/kailas-cloud/hybridsearch/internal/domain"
)

const (
	maxLineSize  = 1 << 20
	maxErrorBody = 2048
	dataPrefix   = "data:"
	doneMarker   = "[DONE]"
)

// Completer streams chat completions from an Elasticsearch inference endpoint.
type Completer struct {
	perf       db.Performer
	endpointID string
	logger     *zap.Logger
}

// NewCompleter creates a completer for the given inference endpoint id.
func NewCompleter(perf db.Performer, endpointID string, logger *zap.Logger) (*Completer, error) {
	if endpointID == "" {
		return nil, errors.New("inference endpoint id is required")
	}
	return &Completer{perf: perf, endpointID: endpointID, logger: logger}, nil
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the concatenated stream deltas.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{Messages: []chatMessage{{Role: "user", Content: prompt}}})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	path := fmt.Sprintf("/_inference/chat_completion/%s/_stream", url.PathEscape(c.endpointID))
	header := http.Header{}
	header.Set("Accept", "text/event-stream")

	res, err := c.perf.Perform(ctx, http.MethodPost, path, bytes.NewReader(body), header)
	if err != nil {
		if domain.IsCanceled(err) {
			return "", err
		}
		return "", fmt.Errorf("inference stream: %v: %w", err, domain.ErrSummaryProvider)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return "", fmt.Errorf("inference API error %d: %s: %w",
			res.StatusCode, strings.TrimSpace(string(detail)), domain.ErrSummaryProvider)
	}

	text, err := c.readStream(res.Body)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("inference stream: %w", domain.ErrCanceled)
		}
		return "", fmt.Errorf("read inference stream: %v: %w", err, domain.ErrSummaryProvider)
	}
	return text, nil
}

// readStream parses OpenAI-style server-sent events and stops at [DONE].
// Non-data lines (event:, id:, comments) are ignored.
func (c *Completer) readStream(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var b strings.Builder
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if data == doneMarker {
			break
		}
		if data == "" {
			continue
		}

		var ch chunk
		if err := json.Unmarshal([]byte(data), &ch); err != nil {
			c.logger.Debug("Skipping undecodable stream event", zap.String("data", data), zap.Error(err))
			continue
		}
		if len(ch.Choices) > 0 {
			b.WriteString(ch.Choices[0].Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}
