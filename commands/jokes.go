package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"streamchat/errors"
)

const defaultJokeTimeout = 10 * time.Second

// JokeClient fetches jokes from an HTTP provider exposing the
// random_ten endpoint.
type JokeClient struct {
	baseURL string
	client  *http.Client
}

func NewJokeClient(baseURL string, timeout time.Duration) *JokeClient {
	if timeout <= 0 {
		timeout = defaultJokeTimeout
	}
	return &JokeClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type joke struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// Random returns the first joke of a random batch, setup and punchline
// joined by a newline.
func (c *JokeClient) Random(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/random_ten", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrCommandFailed, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrCommandFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: joke provider answered %s", errors.ErrCommandFailed, resp.Status)
	}

	var jokes []joke
	if err := json.NewDecoder(resp.Body).Decode(&jokes); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrCommandFailed, err)
	}
	if len(jokes) == 0 {
		return "", fmt.Errorf("%w: joke provider returned an empty batch", errors.ErrCommandFailed)
	}
	return jokes[0].Setup + "\n" + jokes[0].Punchline, nil
}

// Handler adapts the client to the registry contract.
func (c *JokeClient) Handler() Handler {
	return func(ctx context.Context, _ string) (string, error) {
		return c.Random(ctx)
	}
}
