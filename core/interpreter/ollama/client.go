// Package ollama implements the interpreter contract against an Ollama
// chat endpoint with JSON-schema constrained output.
//
// The client owns the conversation context the service needs across turns: a
// message history seeded with a system prompt and cleared once an order
// resolves. On a DONE turn a second, schema-constrained call extracts the
// final structured order from the whole dialogue.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/mrdaebak/dinner-core/core/interpreter"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "gemma2:9b"

	// baseURLEnvKey overrides the default endpoint when no explicit option
	// is given.
	baseURLEnvKey = "DINNER_OLLAMA_URL"
)

// Client talks to an Ollama /api/chat endpoint. It is safe for concurrent
// use; turns are serialized internally.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu      sync.Mutex
	history []message
}

var _ interpreter.Interpreter = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a client against DINNER_OLLAMA_URL or the local Ollama
// default.
func NewClient(opts ...Option) *Client {
	baseURL := defaultBaseURL
	if fromEnv, ok := os.LookupEnv(baseURLEnvKey); ok {
		baseURL = strings.TrimRight(fromEnv, "/")
	}

	client := &Client{
		baseURL:    baseURL,
		model:      defaultModel,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string          `json:"model"`
	Messages []message       `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
	Options  map[string]any  `json:"options,omitempty"`
}

type chatResponse struct {
	Message message `json:"message"`
}

// turnReply is the envelope the model returns on every clarification turn.
type turnReply struct {
	Status        string          `json:"status"`
	Message       string          `json:"message"`
	ExtractedInfo json.RawMessage `json:"extracted_info"`
}

// Interpret sends one user utterance through the clarification dialogue and
// returns the service's raw response for classification.
func (c *Client) Interpret(ctx context.Context, userInput string) (*interpreter.Response, error) {
	ctx, span := tracer.Start(ctx, "interpret utterance")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		c.history = append(c.history, message{Role: "system", Content: systemPrompt})
	}

	messages := make([]message, len(c.history), len(c.history)+1)
	copy(messages, c.history)
	messages = append(messages, message{Role: "user", Content: userInput})

	content, err := c.chat(ctx, chatRequest{
		Model:    c.model,
		Messages: messages,
		Format:   turnFormat,
		Options:  map[string]any{"temperature": 0.1},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var reply turnReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		err = fmt.Errorf("failed to parse turn reply: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("turn.status", reply.Status))

	c.history = append(c.history,
		message{Role: "user", Content: userInput},
		message{Role: "assistant", Content: content},
	)

	switch {
	case strings.EqualFold(reply.Status, interpreter.StatusDone):
		payload, err := c.extractOrder(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		// The dialogue is finished; the next utterance starts a fresh round.
		c.history = nil

		return &interpreter.Response{
			Status:          interpreter.StatusDone,
			Message:         reply.Message,
			Menu:            payload.Menu,
			Style:           payload.Style,
			Items:           payload.itemsMap(),
			DeliveryAddress: payload.DeliveryAddress,
			CardNumber:      payload.CardNumber,
		}, nil

	case strings.EqualFold(reply.Status, interpreter.StatusContinue):
		return &interpreter.Response{
			Status:  interpreter.StatusContinue,
			Message: reply.Message,
		}, nil

	default:
		logger.WarnContext(ctx, "model returned unknown turn status", "status", reply.Status)
		return &interpreter.Response{Status: reply.Status, Message: reply.Message}, nil
	}
}

// Reset drops the conversation context so the next utterance starts a new
// dialogue.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history = nil
}

func (c *Client) extractOrder(ctx context.Context) (*orderPayload, error) {
	ctx, span := tracer.Start(ctx, "extract final order")
	defer span.End()

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema, err := reflector.Reflect(orderPayload{}).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order schema: %w", err)
	}
	span.SetAttributes(attribute.String("request.schema", string(schema)))

	messages := make([]message, len(c.history), len(c.history)+1)
	copy(messages, c.history)
	messages = append(messages, message{Role: "system", Content: extractionPrompt})

	content, err := c.chat(ctx, chatRequest{
		Model:    c.model,
		Messages: messages,
		Format:   json.RawMessage(schema),
	})
	if err != nil {
		return nil, err
	}

	var payload orderPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse extracted order: %w", err)
	}

	return &payload, nil
}

func (c *Client) chat(ctx context.Context, request chatRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "ollama chat")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", request.Model))

	requestBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("error marshalling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, readErr := io.ReadAll(resp.Body); readErr == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		return "", fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	var response chatResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return "", fmt.Errorf("error unmarshalling response: %w", err)
	}

	return response.Message.Content, nil
}
