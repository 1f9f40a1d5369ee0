package traffic

import (
	"context"
	"sort"
	"sync"
	"time"

	"trafficchain_go/blockchain"
	"trafficchain_go/utils"
)

// LaneState is the controller's current view of one controlled approach.
type LaneState struct {
	LaneID           int    `json:"laneId"`
	Name             string `json:"name,omitempty"`
	VehicleCount     int    `json:"vehicleCount"`
	GreenTime        int    `json:"greenTime"`
	IsGreen          bool   `json:"isGreen"`
	EmergencyVehicle bool   `json:"emergencyVehicle"`
}

/**
 * Controller runs the signal-timing decision logic for one intersection: it
 * samples the vehicle source, grants green to exactly one lane at a time and
 * records every resulting signal change on the ledger. Only one lane is ever
 * green; everything else is red.
 */
type Controller struct {
	chain  *blockchain.Blockchain
	source VehicleSource
	nodeID string

	mu          sync.Mutex
	lanes       map[int]*LaneState
	order       []int // lane ids sorted ascending, for deterministic arbitration
	initialized bool  // first evaluation records a transaction for every lane
}

// NewController creates a controller for the given lanes. Lane names are
// keyed by id and may be empty.
func NewController(chain *blockchain.Blockchain, source VehicleSource, nodeID string, laneNames map[int]string) *Controller {
	c := &Controller{
		chain:  chain,
		source: source,
		nodeID: nodeID,
		lanes:  make(map[int]*LaneState),
	}
	for id, name := range laneNames {
		c.lanes[id] = &LaneState{LaneID: id, Name: name}
		c.order = append(c.order, id)
	}
	sort.Ints(c.order)
	return c
}

/**
 * Evaluate performs one decision cycle: sample every lane, compute green
 * times, pick the single green lane and submit one ledger transaction per
 * lane whose signal state changed. An emergency vehicle preempts normal
 * arbitration; otherwise the lowest-numbered lane with the highest vehicle
 * count wins, and with no traffic at all the first lane stays green.
 */
func (c *Controller) Evaluate() {
	c.mu.Lock()
	for _, id := range c.order {
		count, emergency := c.source.Sample(id)
		lane := c.lanes[id]
		lane.VehicleCount = count
		lane.GreenTime = GreenTime(count)
		lane.EmergencyVehicle = emergency
	}

	greenID := c.pickGreenLane()

	var changed []*blockchain.Transaction
	for _, id := range c.order {
		lane := c.lanes[id]
		isGreen := id == greenID
		if c.initialized && lane.IsGreen == isGreen {
			continue
		}
		lane.IsGreen = isGreen

		state := blockchain.StateRed
		if isGreen {
			state = blockchain.StateGreen
		}
		changed = append(changed, blockchain.NewTransaction(
			id, state, lane.VehicleCount, lane.GreenTime, lane.EmergencyVehicle, c.nodeID, nil))
	}
	c.initialized = true
	c.mu.Unlock()

	// Submission happens outside the controller lock: AddTransaction may
	// mine synchronously and there is no reason to stall sampling on it.
	for _, tx := range changed {
		if _, err := c.chain.AddTransaction(tx); err != nil {
			utils.LogError("Failed to record signal change for lane %d: %v", tx.LaneID, err)
		}
	}
}

// pickGreenLane returns the id of the lane to turn green. Caller holds c.mu.
func (c *Controller) pickGreenLane() int {
	if len(c.order) == 0 {
		return 0
	}

	for _, id := range c.order {
		if c.lanes[id].EmergencyVehicle {
			return id
		}
	}

	maxTraffic := 0
	for _, id := range c.order {
		if c.lanes[id].VehicleCount > maxTraffic {
			maxTraffic = c.lanes[id].VehicleCount
		}
	}
	if maxTraffic == 0 {
		return c.order[0]
	}
	for _, id := range c.order {
		if c.lanes[id].VehicleCount == maxTraffic {
			return id
		}
	}
	return c.order[0]
}

// Lanes returns a snapshot of the current lane states, ordered by lane id.
func (c *Controller) Lanes() []LaneState {
	c.mu.Lock()
	defer c.mu.Unlock()

	states := make([]LaneState, 0, len(c.order))
	for _, id := range c.order {
		states = append(states, *c.lanes[id])
	}
	return states
}

// Run evaluates the intersection on a fixed interval until the context is
// cancelled.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	utils.LogInfo("Traffic controller running: %d lanes, interval %s", len(c.order), interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Traffic controller stopped")
			return
		case <-ticker.C:
			c.Evaluate()
		}
	}
}
