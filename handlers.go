package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/kwv/cloudfit/registration"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxEvaluateBody = 1 << 20

type evaluateRequest struct {
	Poses []registration.Pose `json:"poses"`
}

type evaluateResponse struct {
	Metrics []string              `json:"metrics"`
	Results []registration.Result `json:"results"`
	Best    int                   `json:"best"` // index into Results by the first metric
}

// newHTTPServer creates an HTTP server with all endpoints
func newHTTPServer(ev *registration.Evaluator) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Metrics   []string  `json:"metrics"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Metrics:   ev.Metrics(),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Score a batch of candidate poses
	mux.HandleFunc("/evaluate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req evaluateRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEvaluateBody)).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Poses) == 0 {
			http.Error(w, "No poses given", http.StatusBadRequest)
			return
		}

		results, err := ev.EvaluateBatch(r.Context(), req.Poses)
		if err != nil {
			log.Printf("[HTTP] /evaluate failed for %d poses: %v", len(req.Poses), err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := ev.Metrics()
		resp := evaluateResponse{
			Metrics: metrics,
			Results: results,
			Best:    registration.Best(results, metrics[0]),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("Error encoding evaluate response: %v", err)
		}
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
