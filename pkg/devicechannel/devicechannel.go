package devicechannel

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrNotConnected = errors.New("device channel not connected")

// EventHandler receives inbound channel events. Within one connection the
// device delivers acknowledgements in the order commands were sent; no
// ordering holds across reconnects, which is why HandleDisconnect exists.
type EventHandler interface {
	HandleAck(requestID string)
	HandleReject(requestID string, reason string)
	HandleDisconnect()
}

type CommandFrame struct {
	RequestID string `json:"request_id"`
	CommandID int    `json:"command_id"`
}

type inboundFrame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"request_id,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

type IDeviceChannel interface {
	SendCommand(requestID string, commandID int) error
	SetHandler(handler EventHandler)
	Telemetry() <-chan json.RawMessage
	IsConnected() bool
	Reconnect() error
	Close()
}

type deviceChannel struct {
	conn         *websocket.Conn
	handler      EventHandler
	telemetry    chan json.RawMessage
	mu           sync.Mutex
	closed       bool
	pingInterval time.Duration
	writeTimeout time.Duration
}

func NewDeviceChannel() IDeviceChannel {
	c := &deviceChannel{
		telemetry:    make(chan json.RawMessage, 64),
		pingInterval: 30 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := c.Reconnect(); err != nil {
			log.Printf("Initial connection to device channel failed: %v. Will retry in background.", err)
			go c.retryLoop()
		} else {
			log.Printf("Successfully connected to device channel")
		}
	}()

	return c
}

func (c *deviceChannel) SetHandler(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

func (c *deviceChannel) Telemetry() <-chan json.RawMessage {
	return c.telemetry
}

func (c *deviceChannel) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *deviceChannel) Reconnect() error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return errors.New("device channel closed")
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("DEVICE_WS_URL")
	if url == "" {
		url = "ws://localhost:8100/device/ws"
	}

	log.Printf("Connecting to device channel at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		c.mu.Unlock()
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
	handler := c.handler
	c.mu.Unlock()

	// The device's state after a disconnect is unknown: any request that was
	// pending must be expired before new traffic flows on this connection.
	if handler != nil {
		handler.HandleDisconnect()
	}

	go c.readLoop(conn)
	go c.keepAlive(conn)

	return nil
}

func (c *deviceChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// SendCommand pushes one outbound command frame. Serialization of command
// submission is the dispatch coordinator's job; this is a dumb pipe.
func (c *deviceChannel) SendCommand(requestID string, commandID int) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return ErrNotConnected
	}

	frame := CommandFrame{RequestID: requestID, CommandID: commandID}
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	err = conn.WriteMessage(websocket.TextMessage, payload)
	conn.SetWriteDeadline(time.Time{})
	c.mu.Unlock()

	if err != nil {
		c.dropConn(conn)
		return fmt.Errorf("%w: %v", ErrNotConnected, err)
	}

	return nil
}

func (c *deviceChannel) readLoop(conn *websocket.Conn) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			stillCurrent := c.conn == conn
			closed := c.closed
			c.mu.Unlock()

			if stillCurrent && !closed {
				log.Printf("Device channel read error: %v", err)
				c.dropConn(conn)
				go c.retryLoop()
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Dropping unparseable device frame: %v", err)
			continue
		}

		c.mu.Lock()
		handler := c.handler
		c.mu.Unlock()

		switch frame.Type {
		case "ack":
			if handler != nil {
				handler.HandleAck(frame.RequestID)
			}
		case "reject":
			if handler != nil {
				handler.HandleReject(frame.RequestID, frame.Reason)
			}
		case "telemetry":
			// Telemetry must never block command delivery: drop when the
			// consumer is slow.
			select {
			case c.telemetry <- frame.Payload:
			default:
			}
		default:
			log.Printf("Dropping device frame with unknown type %q", frame.Type)
		}
	}
}

func (c *deviceChannel) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)
		c.mu.Unlock()

		if err != nil {
			log.Printf("Ping to device failed, marking connection as dead: %v", err)
			c.dropConn(conn)
			go c.retryLoop()
			return
		}
	}
}

func (c *deviceChannel) dropConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == conn {
		c.conn = nil
	}
	conn.Close()
}

func (c *deviceChannel) retryLoop() {
	for {
		time.Sleep(3 * time.Second)

		c.mu.Lock()
		if c.closed || c.conn != nil {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		if err := c.Reconnect(); err != nil {
			log.Printf("Device channel reconnect failed: %v", err)
			continue
		}
		log.Printf("Device channel reconnected")
		return
	}
}
