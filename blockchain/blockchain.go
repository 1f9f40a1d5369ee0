package blockchain

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"trafficchain_go/utils"
)

/**
 * Blockchain is the signal-event ledger: the ordered, hash-linked chain of
 * blocks plus the FIFO pool of transactions awaiting inclusion. A single
 * RWMutex guards both; the whole sequence {pool append, capacity check,
 * mine, block append, pool drain} runs as one atomic unit under the write
 * lock, so no two callers can race to mine the same pending batch and no
 * reader ever observes a half-written block.
 */
type Blockchain struct {
	blocks     []*Block            // Ordered list of blocks, index 0 is genesis
	pending    []*Transaction      // FIFO pool of submitted, not yet mined transactions
	nodeID     string              // Identifier of this authoring node
	difficulty int                 // Leading zero characters required of a block hash
	blockSize  int                 // Pending-pool size that triggers automatic mining
	knownNodes map[string]struct{} // Extension hook for multi-node operation, holds only the local node today
	notifier   Notifier
	mutex      sync.RWMutex
}

// NewBlockchain creates a ledger with a genesis block. The genesis block
// holds no transactions, points at the all-zero sentinel hash and is exempt
// from proof of work: its hash is computed once at nonce 0.
func NewBlockchain(nodeID string, difficulty, blockSize int) *Blockchain {
	if difficulty < 0 {
		difficulty = 0
	}
	if blockSize < 1 {
		blockSize = 1
	}

	bc := &Blockchain{
		nodeID:     nodeID,
		difficulty: difficulty,
		blockSize:  blockSize,
		knownNodes: map[string]struct{}{nodeID: {}},
		notifier:   noopNotifier{},
	}

	genesis := NewBlock(0, nil, GenesisPreviousHash)
	genesis.Hash = genesis.CalculateHash()
	bc.blocks = []*Block{genesis}

	utils.LogInfo("Ledger initialized: node=%s difficulty=%d blockSize=%d genesis=%s",
		nodeID, difficulty, blockSize, genesis.Hash)
	return bc
}

// SetNotifier installs the event sink. Call before concurrent use begins.
func (bc *Blockchain) SetNotifier(n Notifier) {
	if n != nil {
		bc.notifier = n
	}
}

/**
 * AddTransaction validates the transaction and appends it to the pending
 * pool, stamping the submission time if the caller left it empty. When the
 * pool reaches the configured block size, the oldest blockSize transactions
 * are mined into a new block synchronously under the same lock; any surplus
 * stays pending for the next trigger.
 *
 * Returns the newly mined block when mining occurred, nil otherwise. A nil
 * transaction is a programming error, not a recoverable condition.
 */
func (bc *Blockchain) AddTransaction(tx *Transaction) (*Block, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if tx.Timestamp == "" {
		tx.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	bc.mutex.Lock()
	bc.pending = append(bc.pending, tx)
	var mined *Block
	if len(bc.pending) >= bc.blockSize {
		mined = bc.appendBlock(bc.blockSize)
	}
	bc.mutex.Unlock()

	bc.notifier.TransactionAccepted(tx)
	if mined != nil {
		bc.notifier.BlockMined(mined)
	}
	return mined, nil
}

// MinePending forces all currently pending transactions into one block,
// regardless of block size. Used for manual and administrative triggering.
func (bc *Blockchain) MinePending() (*Block, error) {
	bc.mutex.Lock()
	if len(bc.pending) == 0 {
		bc.mutex.Unlock()
		return nil, ErrNoPendingTransactions
	}
	mined := bc.appendBlock(len(bc.pending))
	bc.mutex.Unlock()

	bc.notifier.BlockMined(mined)
	return mined, nil
}

// appendBlock mines the oldest count pending transactions into the next
// block and drains them from the pool. The caller must hold the write lock.
func (bc *Blockchain) appendBlock(count int) *Block {
	batch := make([]*Transaction, count)
	copy(batch, bc.pending[:count])

	last := bc.blocks[len(bc.blocks)-1]
	block := NewBlock(last.Index+1, batch, last.Hash)
	block.MineBlock(bc.difficulty)

	bc.blocks = append(bc.blocks, block)
	bc.pending = bc.pending[count:]

	utils.LogDebug("Mined block %d: %d transactions, nonce %d, hash %s",
		block.Index, count, block.Nonce, block.Hash)
	return block
}

// GetBlock returns the block at index.
func (bc *Blockchain) GetBlock(index uint64) (*Block, error) {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	if index >= uint64(len(bc.blocks)) {
		return nil, fmt.Errorf("%w: index %d, chain height %d", ErrBlockNotFound, index, len(bc.blocks))
	}
	return bc.blocks[index], nil
}

// GetLastBlock returns the most recent block in the chain.
func (bc *Blockchain) GetLastBlock() *Block {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return bc.blocks[len(bc.blocks)-1]
}

// GetLength returns the number of blocks in the chain, genesis included.
func (bc *Blockchain) GetLength() int {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return len(bc.blocks)
}

// PendingCount returns the current size of the pending pool.
func (bc *Blockchain) PendingCount() int {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return len(bc.pending)
}

// NodeID returns the identifier of this authoring node.
func (bc *Blockchain) NodeID() string {
	return bc.nodeID
}

// Difficulty returns the configured proof-of-work difficulty.
func (bc *Blockchain) Difficulty() int {
	return bc.difficulty
}

// BlockSize returns the configured automatic mining trigger size.
func (bc *Blockchain) BlockSize() int {
	return bc.blockSize
}

// AddNode registers a known node identifier. Tracking only; there is no
// inter-node coordination in the current scope.
func (bc *Blockchain) AddNode(nodeID string) {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()
	bc.knownNodes[nodeID] = struct{}{}
}

// ChainSnapshot is an immutable export of the full ledger state, used for
// bulk export over the API.
type ChainSnapshot struct {
	Chain               []*Block       `json:"chain"`
	PendingTransactions []*Transaction `json:"pendingTransactions"`
	NodeID              string         `json:"nodeId"`
	Difficulty          int            `json:"difficulty"`
	BlockSize           int            `json:"blockSize"`
	KnownNodes          []string       `json:"knownNodes"`
}

// Snapshot returns a consistent copy of the chain and the pending pool.
func (bc *Blockchain) Snapshot() *ChainSnapshot {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	chain := make([]*Block, len(bc.blocks))
	copy(chain, bc.blocks)
	pending := make([]*Transaction, len(bc.pending))
	copy(pending, bc.pending)

	nodes := make([]string, 0, len(bc.knownNodes))
	for node := range bc.knownNodes {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	return &ChainSnapshot{
		Chain:               chain,
		PendingTransactions: pending,
		NodeID:              bc.nodeID,
		Difficulty:          bc.difficulty,
		BlockSize:           bc.blockSize,
		KnownNodes:          nodes,
	}
}
