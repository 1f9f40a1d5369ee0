package blockchain

import (
	"fmt"
	"time"
)

// SignalState is the recorded state of a lane's traffic signal.
type SignalState string

const (
	StateGreen  SignalState = "GREEN"
	StateRed    SignalState = "RED"
	StateYellow SignalState = "YELLOW"
)

// Metadata carries open annotations on a transaction. The ledger never
// interprets it, but values are restricted to scalars (string, bool,
// integer, float) so hashing and serialization stay deterministic.
type Metadata map[string]any

/**
 * Transaction records a single traffic signal state change. It is immutable
 * once submitted: the only thing that ever happens to it afterwards is the
 * move from the pending pool into a mined block.
 */
type Transaction struct {
	LaneID           int         `json:"laneId"`           // Lane whose signal changed
	SignalState      SignalState `json:"signalState"`      // New state of the signal
	VehicleCount     int         `json:"vehicleCount"`     // Vehicles detected at decision time
	GreenTime        int         `json:"greenTime"`        // Computed green duration in seconds
	EmergencyVehicle bool        `json:"emergencyVehicle"` // Emergency vehicle present on the lane
	NodeID           string      `json:"nodeId"`           // Authoring node
	Timestamp        string      `json:"timestamp"`        // RFC3339Nano UTC, assigned once at submission
	Metadata         Metadata    `json:"metadata,omitempty"`
}

// NewTransaction builds a stamped signal-change record.
func NewTransaction(laneID int, state SignalState, vehicleCount, greenTime int, emergency bool, nodeID string, metadata Metadata) *Transaction {
	return &Transaction{
		LaneID:           laneID,
		SignalState:      state,
		VehicleCount:     vehicleCount,
		GreenTime:        greenTime,
		EmergencyVehicle: emergency,
		NodeID:           nodeID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339Nano),
		Metadata:         metadata,
	}
}

// Validate checks the transaction before it is admitted to the pending pool.
func (t *Transaction) Validate() error {
	if t.LaneID <= 0 {
		return fmt.Errorf("%w: lane id must be positive, got %d", ErrInvalidTransaction, t.LaneID)
	}
	switch t.SignalState {
	case StateGreen, StateRed, StateYellow:
	default:
		return fmt.Errorf("%w: unknown signal state %q", ErrInvalidTransaction, t.SignalState)
	}
	if t.VehicleCount < 0 {
		return fmt.Errorf("%w: negative vehicle count %d", ErrInvalidTransaction, t.VehicleCount)
	}
	if t.GreenTime < 0 {
		return fmt.Errorf("%w: negative green time %d", ErrInvalidTransaction, t.GreenTime)
	}
	if t.NodeID == "" {
		return fmt.Errorf("%w: node id is empty", ErrInvalidTransaction)
	}
	for key, value := range t.Metadata {
		switch value.(type) {
		case string, bool, int, int64, float64:
		default:
			return fmt.Errorf("%w: metadata key %q holds non-scalar value of type %T", ErrInvalidTransaction, key, value)
		}
	}
	return nil
}
