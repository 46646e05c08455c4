package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/kwv/wallpack/packing"
)

// newHTTPHandler builds the status surface served while optimizations run.
func (a *App) newHTTPHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Results   int       `json:"results"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Results:   a.resultCount(),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("[HTTP] encoding health status: %v", err)
		}
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(a.Publisher.Latest()); err != nil {
			log.Printf("[HTTP] encoding status: %v", err)
		}
	})

	mux.HandleFunc("/render/latest.svg", func(w http.ResponseWriter, r *http.Request) {
		state := a.latestState()
		if state == nil {
			http.Error(w, "No results available", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		if err := packing.NewRenderer(state).RenderSVG(w); err != nil {
			log.Printf("[HTTP] rendering latest state: %v", err)
		}
	})

	mux.HandleFunc("/render/latest.png", func(w http.ResponseWriter, r *http.Request) {
		state := a.latestState()
		if state == nil {
			http.Error(w, "No results available", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := packing.NewRasterPreview(state).WritePNG(w); err != nil {
			log.Printf("[HTTP] rendering latest preview: %v", err)
		}
	})

	return mux
}

func (a *App) resultCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// latestState returns the best state of the most recently finished group.
func (a *App) latestState() *packing.PackedState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.results) == 0 {
		return nil
	}
	return a.results[len(a.results)-1].State
}
