package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

type SecretsHandler struct {
	D *Deps
}

type setFetchCookieReq struct {
	Cookie string `json:"cookie"`
}

// SetFetchCookie stores the job board session cookie in the OS keychain.
func (h SecretsHandler) SetFetchCookie(w http.ResponseWriter, r *http.Request) {
	var req setFetchCookieReq
	if !readJSON(w, r, &req) {
		return
	}
	if err := h.D.SetFetchCookie(req.Cookie); err != nil {
		h.D.Log.Warn("store fetch cookie", zap.Error(err))
		WriteError(w, r, http.StatusBadRequest, "keyring_failed", "failed to store cookie: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteFetchCookie removes the stored cookie; later fetches go out without
// one.
func (h SecretsHandler) DeleteFetchCookie(w http.ResponseWriter, r *http.Request) {
	if err := h.D.DeleteFetchCookie(); err != nil {
		h.D.Log.Warn("delete fetch cookie", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "keyring_failed", "failed to delete cookie: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
