package traffic

import (
	"math/rand"
	"sync"

	"trafficchain_go/utils"
)

// VehicleSource supplies the current vehicle count and emergency-vehicle
// flag for a lane. The production implementation wraps the video detection
// pipeline; the ledger only ever sees its numbers.
type VehicleSource interface {
	Sample(laneID int) (vehicleCount int, emergency bool)
}

// SimulatedSource produces reproducible pseudo-random traffic so the node
// can run without a detection pipeline attached. The same seed yields the
// same sequence of samples.
type SimulatedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

const (
	simMaxVehicles     = 25
	simEmergencyChance = 2 // percent per sample
)

func NewSimulatedSource(seed int64) *SimulatedSource {
	return &SimulatedSource{rng: utils.NewSeededRand(seed)}
}

func (s *SimulatedSource) Sample(laneID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := s.rng.Intn(simMaxVehicles)
	emergency := s.rng.Intn(100) < simEmergencyChance
	return count, emergency
}
