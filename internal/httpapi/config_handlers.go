package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"resumematch-engine/internal/config"
	"resumematch-engine/internal/events"
)

type ConfigHandler struct {
	D *Deps
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.D.config())
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: trailing data")
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// structured errors so the UI can show them per field
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.D.UserCfgPath, normalized); err != nil {
		h.D.Log.Error("save config", zap.String("path", h.D.UserCfgPath), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "save_failed", err.Error())
		return
	}

	saved, err := h.D.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reload_failed", "saved but reload failed: "+err.Error())
		return
	}
	h.D.CfgVal.Store(saved)
	h.D.Fetcher.Reconfigure(FetchConfig(saved))
	h.D.Log.Info("config updated", zap.Strings("warnings", vr.Warnings))
	h.D.Hub.Publish(events.MakeEvent(RequestIDFrom(r.Context()), events.ConfigUpdated, 1, nil))

	WriteJSON(w, http.StatusOK, saved)
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.D.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(h.D.config())
	WriteJSON(w, http.StatusOK, vr)
}
