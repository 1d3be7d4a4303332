// Package deepgram implements the speechtotext contract over a Deepgram
// live-listen websocket.
package deepgram

import (
	"context"
	"fmt"
	"log"
	"sync"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
)

const (
	defaultLanguage   = "ko"
	defaultEncoding   = "linear16"
	defaultSampleRate = 16000
)

// TranscriptionClient streams audio to Deepgram and reports transcripts
// through the callbacks configured on Transcribe.
type TranscriptionClient struct {
	connMu sync.Mutex
	conn   *websocket.Conn

	accumulatedTranscript string
	unendedSegment        bool
}

// NewTranscriptionClient creates an unconnected client. The websocket is
// dialed by Transcribe.
func NewTranscriptionClient() *TranscriptionClient {
	return &TranscriptionClient{}
}

// SendAudio forwards one audio chunk to the open transcription stream.
func (c *TranscriptionClient) SendAudio(audio []byte) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("no open transcription stream")
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram socket: %w", err)
	}
	return nil
}

// StopStream asks Deepgram to flush and close the current stream. Remaining
// transcripts are still delivered before the socket closes.
func (c *TranscriptionClient) StopStream() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
		return fmt.Errorf("failed to close deepgram stream: %w", err)
	}
	return nil
}

// Close tears the websocket down without waiting for pending transcripts.
func (c *TranscriptionClient) Close(context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close deepgram socket: %w", err)
	}
	return nil
}

func (c *TranscriptionClient) sendKeepAlive() {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return
	}
	if err := c.conn.WriteJSON(struct {
		Type string `json:"type"`
	}{Type: "KeepAlive"}); err != nil {
		log.Println("Failed to send deepgram keep-alive", "error", err)
	}
}
