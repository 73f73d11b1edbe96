package httphandler

import (
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// settingsChangeEvent is pushed to watchers whenever a plugin's settings
// record changes. It carries no payload beyond the plugin identity; clients
// re-read the record through the settings endpoint.
type settingsChangeEvent struct {
	Plugin string `json:"plugin"`
}

// WatchSettings upgrades the request to a websocket and pushes a change event
// every time the plugin's settings are saved, by any controller in the
// process. Bursts of saves between writes coalesce into a single event.
func (h *Handler) WatchSettings(w http.ResponseWriter, r *http.Request) {
	plugin, ok := pluginFromPath(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket accept failed", "plugin", plugin, "error", err)
		return
	}
	defer conn.CloseNow()

	// Buffered by one so the bus handler never blocks the announcing
	// goroutine; a pending notification absorbs further saves.
	notify := make(chan struct{}, 1)
	unsub := h.bus.Subscribe(model.Topic(plugin), func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer unsub()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-notify:
			if err := wsjson.Write(ctx, conn, settingsChangeEvent{Plugin: string(plugin)}); err != nil {
				h.logger.Debug("watch connection closed", "plugin", plugin, "error", err)
				return
			}
		}
	}
}
