package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"healthrisk/ml"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// socketClient is one dashboard connected to the prediction socket.
type socketClient struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	clientID string
}

// handlePredictSocket answers every patient message on the socket with a
// prediction or an error object.
func (a *API) handlePredictSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &socketClient{
		conn:     conn,
		send:     make(chan []byte, 16),
		done:     make(chan struct{}),
		clientID: GetRequestID(r.Context()),
	}
	a.logger.Debug("socket client connected", zap.String("client_id", client.clientID))

	go client.writePump(a.logger)
	a.readPump(client)
}

func (a *API) readPump(c *socketClient) {
	defer close(c.send)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				a.logger.Warn("socket read failed", zap.String("client_id", c.clientID), zap.Error(err))
			}
			return
		}

		select {
		case c.send <- a.predictMessage(message):
		case <-c.done:
			return
		}
	}
}

func (c *socketClient) writePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
		logger.Debug("socket client disconnected", zap.String("client_id", c.clientID))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (a *API) predictMessage(message []byte) []byte {
	start := time.Now()
	query, err := ml.ParsePatientQuery(message)
	if err != nil {
		return a.socketError(err)
	}
	prediction, err := a.pipeline.Predict(query)
	if err != nil {
		return a.socketError(err)
	}
	data, err := json.Marshal(prediction)
	if err != nil {
		return a.socketError(err)
	}
	a.metrics.ObservePrediction(string(prediction.Level), time.Since(start))
	return data
}

func (a *API) socketError(err error) []byte {
	if errors.Is(err, ml.ErrSchemaMismatch) {
		a.metrics.ObserveSchemaMismatch()
	}
	data, _ := json.Marshal(errorResponse{Error: err.Error(), Kind: ml.ErrorKind(err)})
	return data
}
