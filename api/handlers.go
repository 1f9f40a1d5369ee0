package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"trafficchain_go/blockchain"
	"trafficchain_go/roadstore"
	"trafficchain_go/traffic"
	"trafficchain_go/utils"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		utils.LogError("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// SubmitTransactionResponse is returned by POST /tx. MinedBlock is set only
// when the submission filled a block and triggered mining.
type SubmitTransactionResponse struct {
	Transaction *blockchain.Transaction `json:"transaction"`
	MinedBlock  *blockchain.Block       `json:"minedBlock,omitempty"`
}

// SubmitTransactionHandler accepts a signal-change transaction. The
// submission timestamp is assigned server-side; any client-supplied value
// is discarded.
func (s *Server) SubmitTransactionHandler(w http.ResponseWriter, r *http.Request) {
	var tx blockchain.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		writeError(w, http.StatusBadRequest, "Error decoding request body: "+err.Error())
		return
	}
	tx.Timestamp = ""

	mined, err := s.Chain.AddTransaction(&tx)
	if err != nil {
		if errors.Is(err, blockchain.ErrInvalidTransaction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.LogError("SubmitTransactionHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit transaction")
		return
	}

	writeJSON(w, http.StatusCreated, SubmitTransactionResponse{
		Transaction: &tx,
		MinedBlock:  mined,
	})
}

// MineHandler forces all pending transactions into one block.
func (s *Server) MineHandler(w http.ResponseWriter, r *http.Request) {
	block, err := s.Chain.MinePending()
	if err != nil {
		if errors.Is(err, blockchain.ErrNoPendingTransactions) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		utils.LogError("MineHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to mine block")
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

// ChainHandler exports the full chain, the pending pool and the ledger
// configuration.
func (s *Server) ChainHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Chain.Snapshot())
}

// BlockHandler returns a single block by index.
func (s *Server) BlockHandler(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(mux.Vars(r)["index"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block index")
		return
	}

	block, err := s.Chain.GetBlock(index)
	if err != nil {
		if errors.Is(err, blockchain.ErrBlockNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.LogError("BlockHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load block")
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func laneIDFromRequest(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// LaneTransactionsHandler returns every mined transaction for a lane, in
// chain order.
func (s *Server) LaneTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	laneID, err := laneIDFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lane id")
		return
	}

	transactions := s.Chain.TransactionsByLane(laneID)
	if transactions == nil {
		transactions = []*blockchain.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

// LatestLaneTransactionHandler returns the most recent mined transaction
// for a lane.
func (s *Server) LatestLaneTransactionHandler(w http.ResponseWriter, r *http.Request) {
	laneID, err := laneIDFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lane id")
		return
	}

	tx := s.Chain.LatestLaneTransaction(laneID)
	if tx == nil {
		writeError(w, http.StatusNotFound, "no mined transactions for lane")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// StatsHandler returns ledger statistics.
func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Chain.Stats())
}

// ValidateHandler reports chain integrity as a boolean.
func (s *Server) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"isValid": s.Chain.IsChainValid()})
}

// NodeStatus is the summary served by GET /status.
type NodeStatus struct {
	NodeID     string              `json:"nodeId"`
	Height     int                 `json:"height"`
	Pending    int                 `json:"pending"`
	LatestHash string              `json:"latestHash"`
	ChainValid bool                `json:"chainValid"`
	Lanes      []traffic.LaneState `json:"lanes,omitempty"`
}

// StatusHandler reports the node's current view: chain height, pool size,
// validity and live lane states.
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := NodeStatus{
		NodeID:     s.Chain.NodeID(),
		Height:     s.Chain.GetLength(),
		Pending:    s.Chain.PendingCount(),
		LatestHash: s.Chain.GetLastBlock().Hash,
		ChainValid: s.Chain.IsChainValid(),
	}
	if s.Controller != nil {
		status.Lanes = s.Controller.Lanes()
	}
	writeJSON(w, http.StatusOK, status)
}

// EventsHandler returns the most recent ledger events, oldest first.
func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Events == nil {
		writeJSON(w, http.StatusOK, []Event{})
		return
	}
	writeJSON(w, http.StatusOK, s.Events.Recent())
}

// ListRoadsHandler returns all road configurations.
func (s *Server) ListRoadsHandler(w http.ResponseWriter, r *http.Request) {
	roads, err := s.Roads.List()
	if err != nil {
		utils.LogError("ListRoadsHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list roads")
		return
	}
	if roads == nil {
		roads = []*roadstore.RoadConfig{}
	}
	writeJSON(w, http.StatusOK, roads)
}

// GetRoadHandler returns one road configuration.
func (s *Server) GetRoadHandler(w http.ResponseWriter, r *http.Request) {
	road, err := s.Roads.Get(mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, roadstore.ErrRoadNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.LogError("GetRoadHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load road")
		return
	}
	writeJSON(w, http.StatusOK, road)
}

// PutRoadHandler creates or replaces a road configuration. The road id in
// the path wins over any id in the body.
func (s *Server) PutRoadHandler(w http.ResponseWriter, r *http.Request) {
	var road roadstore.RoadConfig
	if err := json.NewDecoder(r.Body).Decode(&road); err != nil {
		writeError(w, http.StatusBadRequest, "Error decoding request body: "+err.Error())
		return
	}
	road.RoadID = mux.Vars(r)["id"]

	if err := s.Roads.Put(&road); err != nil {
		utils.LogError("PutRoadHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save road")
		return
	}
	writeJSON(w, http.StatusOK, &road)
}

// DeleteRoadHandler removes a road configuration.
func (s *Server) DeleteRoadHandler(w http.ResponseWriter, r *http.Request) {
	roadID := mux.Vars(r)["id"]
	if err := s.Roads.Delete(roadID); err != nil {
		if errors.Is(err, roadstore.ErrRoadNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.LogError("DeleteRoadHandler: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete road")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": roadID})
}
