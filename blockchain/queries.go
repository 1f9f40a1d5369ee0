package blockchain

import "time"

// TransactionsByLane returns every mined transaction for laneID in chain
// order, oldest first. Pending transactions are excluded from lane queries
// until mined; the snapshot and stats are the only reads that expose the
// pool.
func (bc *Blockchain) TransactionsByLane(laneID int) []*Transaction {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	var matches []*Transaction
	for _, block := range bc.blocks {
		for _, tx := range block.Transactions {
			if tx.LaneID == laneID {
				matches = append(matches, tx)
			}
		}
	}
	return matches
}

// LatestLaneTransaction returns the mined transaction for laneID with the
// greatest timestamp, or nil when the lane has no mined history. Equal
// timestamps resolve to the transaction appearing later in chain order.
func (bc *Blockchain) LatestLaneTransaction(laneID int) *Transaction {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	var latest *Transaction
	var latestAt time.Time
	for _, block := range bc.blocks {
		for _, tx := range block.Transactions {
			if tx.LaneID != laneID {
				continue
			}
			at, err := time.Parse(time.RFC3339Nano, tx.Timestamp)
			if err != nil {
				continue
			}
			if latest == nil || !at.Before(latestAt) {
				latest = tx
				latestAt = at
			}
		}
	}
	return latest
}

// ChainStats summarizes the ledger for status and monitoring endpoints.
type ChainStats struct {
	TotalBlocks         int         `json:"totalBlocks"`
	TotalTransactions   int         `json:"totalTransactions"`
	PendingTransactions int         `json:"pendingTransactions"`
	LaneTransactions    map[int]int `json:"laneTransactions"`
	IsValid             bool        `json:"isValid"`
	NodeID              string      `json:"nodeId"`
	KnownNodes          int         `json:"knownNodes"`
}

// Stats computes ledger statistics under a single read lock, so the counts
// and the validity flag describe one consistent state.
func (bc *Blockchain) Stats() *ChainStats {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	stats := &ChainStats{
		TotalBlocks:         len(bc.blocks),
		PendingTransactions: len(bc.pending),
		LaneTransactions:    make(map[int]int),
		IsValid:             isValidChain(bc.blocks),
		NodeID:              bc.nodeID,
		KnownNodes:          len(bc.knownNodes),
	}
	for _, block := range bc.blocks {
		stats.TotalTransactions += len(block.Transactions)
		for _, tx := range block.Transactions {
			stats.LaneTransactions[tx.LaneID]++
		}
	}
	return stats
}
