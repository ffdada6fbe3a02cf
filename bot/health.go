package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// healthStatus is the payload of the /health/status endpoint
type healthStatus struct {
	Status    string `json:"status"`
	GatewayUp bool   `json:"gateway_up"`
	Guilds    int    `json:"guilds"`
	Uptime    string `json:"uptime"`
}

// StartHealthAPI starts the liveness endpoint used by the process supervisor
func (b *Bot) StartHealthAPI(port int) error {
	started := time.Now()
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/health/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		status := healthStatus{
			Status:    "ok",
			GatewayUp: b.session.DataReady,
			Guilds:    len(b.session.State.Guilds),
			Uptime:    time.Since(started).Round(time.Second).String(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Infof("Health API listening on port %d", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Health API error: %v", err)
		}
	}()

	return nil
}
