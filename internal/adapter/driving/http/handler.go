package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/paneldock/internal/application"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	panels    *application.PanelService
	snapshots *application.SnapshotService
	slack     *application.SlackController
	github    *application.GitHubController
	linear    *application.LinearController
	bus       *application.Bus
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	panels *application.PanelService,
	snapshots *application.SnapshotService,
	slack *application.SlackController,
	github *application.GitHubController,
	linear *application.LinearController,
	bus *application.Bus,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		panels:    panels,
		snapshots: snapshots,
		slack:     slack,
		github:    github,
		linear:    linear,
		bus:       bus,
		logger:    logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/plugins/{plugin}/settings", h.GetSettings)
	mux.HandleFunc("PATCH /api/v1/plugins/{plugin}/settings", h.PatchSettings)
	mux.HandleFunc("POST /api/v1/plugins/{plugin}/settings/reset", h.ResetSettings)
	mux.HandleFunc("GET /api/v1/plugins/{plugin}/settings/watch", h.WatchSettings)
	mux.HandleFunc("GET /api/v1/plugins/{plugin}/view", h.GetView)
	mux.HandleFunc("POST /api/v1/plugins/{plugin}/refresh", h.RefreshPlugin)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// pluginFromPath resolves the {plugin} path segment. Unknown plugins write a
// 404 and return false.
func pluginFromPath(w http.ResponseWriter, r *http.Request) (model.PluginID, bool) {
	plugin := model.PluginID(r.PathValue("plugin"))
	if !plugin.Valid() {
		writeError(w, http.StatusNotFound, "unknown plugin")
		return "", false
	}
	return plugin, true
}

// GetSettings returns the current settings record for a plugin. Reads never
// fail: a plugin that has no persisted record yet answers with its defaults.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	plugin, ok := pluginFromPath(w, r)
	if !ok {
		return
	}

	switch plugin {
	case model.PluginSlack:
		writeJSON(w, http.StatusOK, h.slack.Current())
	case model.PluginGitHub:
		writeJSON(w, http.StatusOK, h.github.Current())
	case model.PluginLinear:
		writeJSON(w, http.StatusOK, h.linear.Current())
	}
}

// PatchSettings merges a partial settings record onto the current one and
// returns the merged result. Fields absent from the body keep their previous
// values; nested flag sets merge flag-by-flag.
func (h *Handler) PatchSettings(w http.ResponseWriter, r *http.Request) {
	plugin, ok := pluginFromPath(w, r)
	if !ok {
		return
	}

	switch plugin {
	case model.PluginSlack:
		var patch model.SlackSettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, h.slack.Update(r.Context(), patch))
	case model.PluginGitHub:
		var patch model.GitHubSettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, h.github.Update(r.Context(), patch))
	case model.PluginLinear:
		var patch model.LinearSettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		writeJSON(w, http.StatusOK, h.linear.Update(r.Context(), patch))
	}
}

// ResetSettings restores a plugin's settings to the full default record.
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	plugin, ok := pluginFromPath(w, r)
	if !ok {
		return
	}

	switch plugin {
	case model.PluginSlack:
		writeJSON(w, http.StatusOK, h.slack.Reset(r.Context()))
	case model.PluginGitHub:
		writeJSON(w, http.StatusOK, h.github.Reset(r.Context()))
	case model.PluginLinear:
		writeJSON(w, http.StatusOK, h.linear.Reset(r.Context()))
	}
}

// GetView returns a plugin's derived view, computed fresh from the latest
// entity snapshot and the current settings.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	plugin, ok := pluginFromPath(w, r)
	if !ok {
		return
	}

	switch plugin {
	case model.PluginSlack:
		writeJSON(w, http.StatusOK, toChannelViewResponse(h.panels.ChannelView()))
	case model.PluginGitHub:
		writeJSON(w, http.StatusOK, toGitHubViewResponse(h.panels.GitHubView()))
	case model.PluginLinear:
		writeJSON(w, http.StatusOK, toIssueViewResponse(h.panels.IssueView()))
	}
}

// RefreshPlugin triggers an immediate snapshot refresh for one plugin,
// bypassing the poll interval. The stale snapshot survives a failed fetch, so
// an upstream error is reported without blanking the view.
func (h *Handler) RefreshPlugin(w http.ResponseWriter, r *http.Request) {
	plugin, ok := pluginFromPath(w, r)
	if !ok {
		return
	}

	if err := h.snapshots.Refresh(r.Context(), plugin); err != nil {
		h.logger.Error("manual refresh failed", "plugin", plugin, "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
