package hxtoast

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

// serveStream pushes the session's toast region over a websocket, once on
// connect and again after every registry change. Each message is an
// out-of-band fragment, so the htmx ws extension swaps it into place:
//
//	<div hx-ext="ws" ws-connect="/_t/ws"></div>
//
// Changes that arrive while a message is being written are coalesced into
// a single follow-up message. When the session's scope closes the stream
// ends with a going-away frame; the ws extension reconnects into the
// session's new scope.
func (h *Handler) serveStream(w http.ResponseWriter, r *http.Request) {
	reg := MustRegistry(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Debug("hxtoast: websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	changed := make(chan struct{}, 1)
	cancel := reg.Subscribe(func([]Entry) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// The client never sends anything we need; reading detects the close.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func() error {
		var buf bytes.Buffer
		if err := h.presenter.OOB(reg).Render(ctx, &buf); err != nil {
			return err
		}
		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, buf.Bytes())
	}

	if err := send(); err != nil {
		h.logger.Debug("hxtoast: stream closed", "error", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-reg.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "scope closed")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteTimeout))
			return
		case <-changed:
			if err := send(); err != nil {
				h.logger.Debug("hxtoast: stream closed", "error", err)
				return
			}
		}
	}
}
