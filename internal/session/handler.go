package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/brightpath/voice-tutor/internal/config"
	"github.com/brightpath/voice-tutor/internal/llm"
	"github.com/brightpath/voice-tutor/internal/observability"
	"github.com/brightpath/voice-tutor/internal/persona"
	"github.com/brightpath/voice-tutor/internal/retrieval"
	"github.com/brightpath/voice-tutor/internal/stt"
	"github.com/brightpath/voice-tutor/internal/tts"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO(transport): validate Origin against the frontend host list
		// once the deployment domains are settled.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Handler upgrades /ws/{sessionID} requests and runs one session per
// connection. A missing session id gets a generated one.
func Handler(cfg *config.Config, personas *persona.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger := observability.GetLogger()
			logger.Error().Err(err).Msg("WebSocket upgrade failed")
			return
		}
		defer conn.Close()

		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		logger := observability.WithSession(sessionID)

		deps := Deps{
			Transcriber: stt.NewDeepgramTranscriber(cfg, logger),
			Generator:   llm.NewOpenAIGenerator(cfg, logger),
			Synthesizer: tts.NewCartesiaClient(cfg, logger),
			Retriever:   retrieval.NewClient(cfg, logger),
			Personas:    personas,
		}

		sess := New(sessionID, cfg, deps, logger)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		go sess.writePump(conn, cancel)
		go sess.readPump(ctx, conn, cancel)

		logger.Info().Msg("WebSocket connection established")
		sess.Run(ctx)
	}
}

// readPump reads socket frames, decodes them, and forwards them to the
// owner loop. It closes the inbound channel on any transport failure,
// which ends the session.
func (s *Session) readPump(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	defer close(s.inbound)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn().Err(&TransportError{Cause: err}).Msg("WebSocket read failed")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.logger.Warn().Err(err).Msg("Dropping unparseable client frame")
			continue
		}

		select {
		case s.inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// writePump drains the outbound queue onto the socket and keeps the
// connection alive with pings. It exits when the queue closes or a
// write fails; a failed write cancels the session so an owner blocked
// on the full queue is released.
func (s *Session) writePump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.outbound:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeTimeout))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Warn().Err(&TransportError{Cause: err}).Msg("WebSocket write failed")
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
