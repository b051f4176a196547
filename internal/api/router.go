package api

import (
	"net/http"

	"trash-route-solver/internal/api/handlers"
	"trash-route-solver/internal/domain"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(runs handlers.RunStore, weights domain.Weights) http.Handler {
	mux := http.NewServeMux()

	solveHandler := &handlers.SolveHandler{
		Runs:    runs,
		Weights: weights,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/solve", solveHandler.Solve)

	return loggingMiddleware(mux)
}
