package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// GenesisPreviousHash is the sentinel predecessor hash of the genesis block.
// SHA-256 output is 64 hex characters, so a real block never produces it at
// any difficulty used in practice.
const GenesisPreviousHash = "0000000000000000000000000000000000000000000000000000000000000000"

/**
 * Block is an immutable batch of transactions with linkage and proof-of-work
 * metadata. The stored hash always remains verifiable by recomputation over
 * (index, timestamp, transactions, previous hash, nonce).
 */
type Block struct {
	Index        uint64         `json:"index"`        // Position of the block in the chain
	Timestamp    string         `json:"timestamp"`    // Time when the block was created (UTC)
	Transactions []*Transaction `json:"transactions"` // Signal changes committed by this block, insertion order preserved
	PreviousHash string         `json:"previousHash"` // Hash of the preceding block
	Nonce        uint64         `json:"nonce"`        // Number found during mining to satisfy the difficulty
	Hash         string         `json:"hash"`         // Current block's content hash
}

// NewBlock initializes an unmined block. The timestamp is fixed here and
// never re-stamped during mining, which keeps the nonce search deterministic.
func NewBlock(index uint64, transactions []*Transaction, previousHash string) *Block {
	if transactions == nil {
		transactions = []*Transaction{}
	}
	return &Block{
		Index:        index,
		Timestamp:    time.Now().UTC().Format(time.RFC3339Nano),
		Transactions: transactions,
		PreviousHash: previousHash,
		Nonce:        0,
	}
}

/**
 * CalculateHash generates a SHA-256 hash of the block's content. The record
 * is canonical and order-sensitive: the transaction list is serialized as a
 * JSON array (encoding/json sorts map keys, so metadata is deterministic),
 * and two blocks with the same transactions in different order hash
 * differently. Transaction order within a block is part of the committed
 * record.
 */
func (b *Block) CalculateHash() string {
	txJSON, _ := json.Marshal(b.Transactions)

	records := []string{
		strconv.FormatUint(b.Index, 10),
		b.Timestamp,
		string(txJSON),
		b.PreviousHash,
		strconv.FormatUint(b.Nonce, 10),
	}

	sum := sha256.Sum256([]byte(strings.Join(records, "|")))
	return hex.EncodeToString(sum[:])
}

/**
 * MineBlock performs proof-of-work by incrementing the nonce from zero until
 * the hash starts with `difficulty` leading zero characters. Difficulty 0
 * accepts the first hash immediately. The search has no iteration bound; an
 * unreachable difficulty is a deployment misconfiguration, not a runtime
 * error this component detects.
 */
func (b *Block) MineBlock(difficulty int) {
	prefix := strings.Repeat("0", difficulty)

	b.Nonce = 0
	for {
		b.Hash = b.CalculateHash()
		if strings.HasPrefix(b.Hash, prefix) {
			return
		}
		b.Nonce++
	}
}
