package info

import (
	"net/http"

	"github.com/drblury/botweaver/router"
)

// GetStatus returns a simple health payload that can be used for lightweight diagnostics.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz implements the liveness probe recommended for Kubernetes.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe recommended for Kubernetes.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the structure provided by the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetOpenAPIJSON streams the configured OpenAPI JSON document to the caller.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bytes, err := ih.swaggerProvider()
	if err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load swagger spec")
		return
	}

	if _, err = w.Write(bytes); err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to write swagger response")
		return
	}
}

// Mount registers the endpoints on r: GET /status, /healthz, /readyz,
// /version, and /openapi.json.
func (ih *InfoHandler) Mount(r *router.Router) {
	r.HandleFunc("GET /status", ih.GetStatus)
	r.HandleFunc("GET /healthz", ih.GetHealthz)
	r.HandleFunc("GET /readyz", ih.GetReadyz)
	r.HandleFunc("GET /version", ih.GetVersion)
	r.HandleFunc("GET /openapi.json", ih.GetOpenAPIJSON)
}

// Routes lists the paths registered by Mount. Servers pass them to
// router.Config.QuietdownRoutes to keep probes out of request logs.
func Routes() []string {
	return []string{"/status", "/healthz", "/readyz", "/version", "/openapi.json"}
}
