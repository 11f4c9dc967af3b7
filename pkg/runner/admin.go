package runner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bft-labs/lifeline/pkg/healthcheck"
	"github.com/bft-labs/lifeline/pkg/lifecycle"
	"github.com/bft-labs/lifeline/pkg/log"
)

// adminServer serves the runner's introspection endpoints:
// GET /statusz for lifecycle state and epochs, GET /healthz for healthchecks.
type adminServer struct {
	srv    *http.Server
	logger log.Logger
}

func newAdminServer(addr string, lfc *lifecycle.Lifecycle, checks []*healthcheck.Healthcheck, logger log.Logger) *adminServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/statusz", statuszHandler(lfc))
	mux.HandleFunc("/healthz", healthzHandler(checks))

	return &adminServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (a *adminServer) start() {
	a.logger.Info("admin endpoint listening", log.String("addr", a.srv.Addr))
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("admin endpoint failed", log.Err(err))
		}
	}()
}

func (a *adminServer) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		a.logger.Warn("admin endpoint shutdown failed", log.Err(err))
	}
}

type statusResponse struct {
	State  string           `json:"state"`
	Epochs map[string]int64 `json:"epochs"`
}

func statuszHandler(lfc *lifecycle.Lifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		resp := statusResponse{
			State:  lfc.State().String(),
			Epochs: make(map[string]int64),
		}
		for s := lifecycle.StateNew; s <= lifecycle.StateFailed; s++ {
			if epoch := lfc.Epoch(s); epoch != 0 {
				resp.Epochs[s.String()] = epoch
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

type healthResponse struct {
	Status string                 `json:"status"`
	Checks map[string]checkResult `json:"checks"`
}

type checkResult struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func healthzHandler(checks []*healthcheck.Healthcheck) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		resp := healthResponse{
			Status: "ok",
			Checks: make(map[string]checkResult),
		}
		healthy := true

		for _, hc := range checks {
			h, err := hc.Poll()
			if errors.Is(err, healthcheck.ErrDisabled) {
				resp.Checks[hc.Name()] = checkResult{Status: "disabled"}
				continue
			}

			result := checkResult{Status: h.String()}
			if err != nil {
				result.Error = err.Error()
			}
			resp.Checks[hc.Name()] = result

			// Warnings keep the endpoint green; unknown and critical do not.
			if h == healthcheck.HealthCritical || h == healthcheck.HealthUnknown {
				healthy = false
			}
		}

		if !healthy {
			resp.Status = "unhealthy"
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
