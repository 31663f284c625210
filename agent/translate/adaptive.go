package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/dekomposit/agent/contract"
	languagex "github.com/tanpawarit/dekomposit/agent/language"
	"golang.org/x/oauth2"
)

var _ contractx.Translator = (*AdaptiveClient)(nil)

const (
	DefaultAdaptiveEndpoint = "https://translation.googleapis.com"
	DefaultAdaptiveLocation = "us-central1"
	maxResponseSizeBytes    = 2 << 20
)

type AdaptiveConfig struct {
	ProjectID   string        `envconfig:"PROJECT_ID" split_words:"true"`
	Location    string        `envconfig:"LOCATION" split_words:"true" default:"us-central1"`
	DatasetID   string        `envconfig:"DATASET_ID" split_words:"true"`
	DatasetName string        `envconfig:"DATASET_NAME" split_words:"true"`
	AccessToken string        `envconfig:"ACCESS_TOKEN" split_words:"true"`
	Endpoint    string        `envconfig:"ENDPOINT" split_words:"true" default:"https://translation.googleapis.com"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// AdaptiveOption customizes AdaptiveClient.
type AdaptiveOption func(*AdaptiveClient)

func WithHTTPClient(client *http.Client) AdaptiveOption {
	return func(c *AdaptiveClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTokenSource(ts oauth2.TokenSource) AdaptiveOption {
	return func(c *AdaptiveClient) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

func WithAdaptiveLogger(logger zerolog.Logger) AdaptiveOption {
	return func(c *AdaptiveClient) {
		c.logger = logger
	}
}

// AdaptiveClient calls Cloud Translation adaptiveMtTranslate over REST.
type AdaptiveClient struct {
	endpoint    string
	projectID   string
	location    string
	datasetID   string
	datasetName string
	httpClient  *http.Client
	tokens      oauth2.TokenSource
	logger      zerolog.Logger
}

type adaptiveRequest struct {
	Dataset  string   `json:"dataset"`
	Content  []string `json:"content"`
	MimeType string   `json:"mimeType,omitempty"`
}

type adaptiveResponse struct {
	Translations []struct {
		TranslatedText string `json:"translatedText"`
	} `json:"translations"`
	LanguageCode string `json:"languageCode"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewAdaptiveClient requires a project id. Without WithTokenSource it builds
// one from the configured access token or default credentials.
func NewAdaptiveClient(ctx context.Context, cfg AdaptiveConfig, opts ...AdaptiveOption) (*AdaptiveClient, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("%w: adaptive mt project id is required", contractx.ErrTranslationUnavailable)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultAdaptiveEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid adaptive mt endpoint: %w", err)
	}

	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = DefaultAdaptiveLocation
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &AdaptiveClient{
		endpoint:    endpoint,
		projectID:   projectID,
		location:    location,
		datasetID:   strings.TrimSpace(cfg.DatasetID),
		datasetName: strings.TrimSpace(cfg.DatasetName),
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.tokens == nil {
		ts, err := NewTokenSource(ctx, cfg.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", contractx.ErrTranslationUnavailable, err)
		}
		c.tokens = ts
	}
	return c, nil
}

func (c *AdaptiveClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (*contractx.Translation, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is empty", contractx.ErrValidation)
	}

	source := languagex.Normalize(sourceLang)
	target := languagex.Normalize(targetLang)
	dataset, err := c.datasetFor(source, target)
	if err != nil {
		return nil, err
	}

	resp, err := c.post(ctx, adaptiveRequest{Dataset: dataset, Content: []string{text}})
	if err != nil {
		return nil, err
	}
	if len(resp.Translations) == 0 {
		return nil, fmt.Errorf("%w: adaptive mt returned no translations", contractx.ErrSchemaViolation)
	}

	c.logger.Info().Str("dataset", dataset).Str("from", source).Str("to", target).Msg("adaptive mt translate")
	return &contractx.Translation{
		Source:     text,
		Translated: resp.Translations[0].TranslatedText,
		FromLang:   source,
		ToLang:     target,
	}, nil
}

// datasetFor resolves the dataset resource name. Without a configured
// dataset it derives "adaptive-<src>-<tgt>".
func (c *AdaptiveClient) datasetFor(source, target string) (string, error) {
	if c.datasetName != "" {
		return c.datasetName, nil
	}
	id := c.datasetID
	if id == "" && source != "" && target != "" {
		id = fmt.Sprintf("adaptive-%s-%s", source, target)
	}
	if id == "" {
		return "", fmt.Errorf("%w: dataset name or dataset id is required", contractx.ErrValidation)
	}
	return fmt.Sprintf("projects/%s/locations/%s/adaptiveMtDatasets/%s", c.projectID, c.location, id), nil
}

func (c *AdaptiveClient) post(ctx context.Context, payload adaptiveRequest) (*adaptiveResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal adaptive mt request: %w", err)
	}

	status, raw, err := c.do(ctx, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.logger.Warn().Msg("adaptive mt unauthorized, retrying with a fresh token")
		status, raw, err = c.do(ctx, body)
		if err != nil {
			return nil, err
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: adaptive mt status=%d: %s", contractx.ErrTranslationUnavailable, status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: adaptive mt status=%d body=%s", contractx.ErrTranslationUnavailable, status, string(raw))
	}

	var parsed adaptiveResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode adaptive mt response: %w", err)
	}
	return &parsed, nil
}

func (c *AdaptiveClient) do(ctx context.Context, body []byte) (int, []byte, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: access token: %v", contractx.ErrTranslationUnavailable, err)
	}
	if token == nil || token.AccessToken == "" {
		return 0, nil, errors.New("empty access token")
	}

	endpoint := fmt.Sprintf("%s/v3/projects/%s/locations/%s:adaptiveMtTranslate", c.endpoint, c.projectID, c.location)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build adaptive mt request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("x-goog-user-project", c.projectID)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute adaptive mt request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read adaptive mt response: %w", err)
	}
	return resp.StatusCode, raw, nil
}
