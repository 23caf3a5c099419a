package recognizer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	// ErrUnavailable covers network and backend failures. Retryable, but
	// audio is perishable: callers should retry at most once.
	ErrUnavailable = errors.New("recognition service unavailable")
	// ErrMalformedSample means the backend rejected the sample itself.
	// Never retryable.
	ErrMalformedSample = errors.New("malformed audio sample")
)

// Result is the recognition backend's verdict on one sample. A nil
// MatchedCommandID is a valid no-match outcome, not an error. The backend is
// the sole mapping authority; nothing here derives matches from the text.
type Result struct {
	RecognizedText   string   `json:"recognized_text"`
	MatchedCommandID *int     `json:"matched_command_id"`
	LanguageGuess    string   `json:"language_guess"`
	Confidence       *float64 `json:"confidence"`
	Error            string   `json:"error,omitempty"`
}

type IRecognizer interface {
	Recognize(ctx context.Context, sample []byte, contentType string, language string) (*Result, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type recognitionRequest struct {
	Audio       string `json:"audio"`
	ContentType string `json:"content_type"`
	Language    string `json:"language"`
}

type recognizerClient struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewRecognizerClient() IRecognizer {
	client := &recognizerClient{
		pingInterval: 30 * time.Second,
		readTimeout:  15 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := client.Reconnect(); err != nil {
			log.Printf("Initial connection to recognition service failed: %v. Will retry on demand.", err)
		} else {
			log.Printf("Successfully connected to recognition service")
		}
	}()

	return client
}

func (c *recognizerClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *recognizerClient) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("RECOGNITION_WS_URL")
	if url == "" {
		url = "ws://localhost:8000/api/v1/recognize/ws"
	}

	log.Printf("Connecting to recognition service at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn

	go c.keepAlive()

	return nil
}

func (c *recognizerClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *recognizerClient) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn
		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)
		if err != nil {
			log.Printf("Ping to recognition service failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// Recognize submits one sample and waits for the backend's result. The whole
// round trip is cancellable through ctx; cancellation drops the connection so
// the stale result can never be read later.
func (c *recognizerClient) Recognize(ctx context.Context, sample []byte, contentType string, language string) (*Result, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		c.mu.Lock()
		conn = c.conn
		c.mu.Unlock()
		if conn == nil {
			return nil, ErrUnavailable
		}
	}

	req := recognitionRequest{
		Audio:       base64.StdEncoding.EncodeToString(sample),
		ContentType: contentType,
		Language:    language,
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	type readResult struct {
		result *Result
		err    error
	}
	done := make(chan readResult, 1)

	go func() {
		c.mu.Lock()
		conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))

		log.Printf("Sending audio sample of size: %d bytes", len(sample))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			done <- readResult{nil, fmt.Errorf("%w: error sending sample: %v", ErrUnavailable, err)}
			return
		}

		conn.SetReadDeadline(time.Now().Add(c.readTimeout))
		c.mu.Unlock()

		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			done <- readResult{nil, fmt.Errorf("%w: error reading result: %v", ErrUnavailable, err)}
			return
		}

		c.mu.Lock()
		conn.SetReadDeadline(time.Time{})
		conn.SetWriteDeadline(time.Time{})
		c.mu.Unlock()

		var result Result
		if err := json.Unmarshal(message, &result); err != nil {
			done <- readResult{nil, fmt.Errorf("%w: error unmarshaling result: %v", ErrUnavailable, err)}
			return
		}

		if result.Error != "" {
			done <- readResult{nil, fmt.Errorf("%w: %s", ErrMalformedSample, result.Error)}
			return
		}

		done <- readResult{&result, nil}
	}()

	select {
	case <-ctx.Done():
		// Closing the connection unblocks the pending read.
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		conn.Close()
		c.mu.Unlock()
		return nil, ctx.Err()
	case r := <-done:
		return r.result, r.err
	}
}
