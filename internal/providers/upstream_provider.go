package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"scd/internal/models"
	"scd/internal/structures"
	"strings"

	json "github.com/goccy/go-json"
)

// UpstreamSenderInterface is the real send primitive: it delivers the
// (possibly mutated) call to the upstream bot API.
type UpstreamSenderInterface interface {
	Send(ctx context.Context, api string, params *models.SendParams) (json.RawMessage, error)
}

type UpstreamSender struct {
	base   string
	client *http.Client
	logger Logger
}

func NewUpstreamSender(conf *structures.Config, logger Logger) UpstreamSenderInterface {
	return &UpstreamSender{
		base:   strings.TrimRight(conf.Upstream.Url, "/"),
		client: &http.Client{Timeout: conf.Upstream.Timeout},
		logger: logger,
	}
}

func (u *UpstreamSender) Send(ctx context.Context, api string, params *models.SendParams) (json.RawMessage, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode %s params: %w", api, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.base+"/"+api, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward %s: %w", api, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", api, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("forward %s: upstream status %d: %s", api, resp.StatusCode, raw)
	}
	return raw, nil
}
