// Package analysis submits chord progressions to the analysis server.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/chordstave/model"
)

var ErrNoURL = errors.New("no analysis url configured")

// Form mirrors the chord-builder form the analysis server expects.
type Form struct {
	Chords []string
	Key    string
	Time   string
	// DisplayForm is "piano" or "SATB".
	DisplayForm string
}

type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{URL: url, HTTP: &http.Client{Timeout: timeout}}
}

func (f Form) encode() (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, c := range f.Chords {
		if err := w.WriteField("chord", c); err != nil {
			return nil, "", err
		}
	}
	fields := [][2]string{{"key", f.Key}, {"time", f.Time}, {"display_options", f.DisplayForm}}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &body, w.FormDataContentType(), nil
}

// Analyze posts form and decodes the server's response. A response whose
// error flag is set is returned without error; deciding what to do with it
// is up to the caller.
func (c *Client) Analyze(ctx context.Context, form Form) (model.AnalysisResponse, error) {
	var res model.AnalysisResponse
	if c.URL == "" {
		return res, ErrNoURL
	}

	body, contentType, err := form.encode()
	if err != nil {
		return res, fmt.Errorf("encoding form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return res, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return res, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return res, fmt.Errorf("analysis server returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("decoding analysis response: %w", err)
	}
	return res, nil
}

// Latest wraps a Client so that only the most recent submission wins:
// starting a new one cancels whichever is still in flight, and a superseded
// call returns context.Canceled even if its response already arrived.
type Latest struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewLatest(c *Client) *Latest {
	return &Latest{client: c}
}

func (l *Latest) Analyze(ctx context.Context, form Form) (model.AnalysisResponse, error) {
	ctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	mine := l.seq
	l.cancel = cancel
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		if l.seq == mine {
			l.cancel = nil
		}
		l.mu.Unlock()
		cancel()
	}()

	res, err := l.client.Analyze(ctx, form)

	l.mu.Lock()
	superseded := l.seq != mine
	l.mu.Unlock()
	if superseded {
		return model.AnalysisResponse{}, context.Canceled
	}
	return res, err
}
