package api

import (
	"context"
	"fmt"
	"net/http"

	"trafficchain_go/blockchain"
	"trafficchain_go/roadstore"
	"trafficchain_go/traffic"
	"trafficchain_go/utils"

	"github.com/gorilla/mux"
)

// Server is the HTTP transport over the ledger, the road configuration
// store and the traffic controller.
type Server struct {
	Router     *mux.Router
	Chain      *blockchain.Blockchain
	Roads      *roadstore.Store
	Controller *traffic.Controller
	Events     *EventFeed

	httpServer *http.Server
}

// NewServer creates a new server instance. Controller and Roads may be nil
// when the node runs ledger-only.
func NewServer(chain *blockchain.Blockchain, roads *roadstore.Store, controller *traffic.Controller, events *EventFeed) *Server {
	return &Server{
		Router:     mux.NewRouter(),
		Chain:      chain,
		Roads:      roads,
		Controller: controller,
		Events:     events,
	}
}

// SetupRoutes configures the API routes
func (s *Server) SetupRoutes() {
	// Ledger write endpoints
	s.Router.HandleFunc("/tx", s.SubmitTransactionHandler).Methods("POST")
	s.Router.HandleFunc("/mine", s.MineHandler).Methods("POST")

	// Ledger read endpoints
	s.Router.HandleFunc("/chain", s.ChainHandler).Methods("GET")
	s.Router.HandleFunc("/block/{index}", s.BlockHandler).Methods("GET")
	s.Router.HandleFunc("/lane/{id}/transactions", s.LaneTransactionsHandler).Methods("GET")
	s.Router.HandleFunc("/lane/{id}/latest", s.LatestLaneTransactionHandler).Methods("GET")
	s.Router.HandleFunc("/stats", s.StatsHandler).Methods("GET")
	s.Router.HandleFunc("/validate", s.ValidateHandler).Methods("GET")

	// Node status endpoints
	s.Router.HandleFunc("/status", s.StatusHandler).Methods("GET")
	s.Router.HandleFunc("/events", s.EventsHandler).Methods("GET")

	// Road configuration endpoints
	s.Router.HandleFunc("/roads", s.ListRoadsHandler).Methods("GET")
	s.Router.HandleFunc("/roads/{id}", s.GetRoadHandler).Methods("GET")
	s.Router.HandleFunc("/roads/{id}", s.PutRoadHandler).Methods("PUT")
	s.Router.HandleFunc("/roads/{id}", s.DeleteRoadHandler).Methods("DELETE")
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(port int) error {
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router,
	}
	utils.LogInfo("API server listening on port %d", port)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
