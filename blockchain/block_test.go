package blockchain

import (
	"strings"
	"testing"
)

func testTransaction(laneID int, state SignalState) *Transaction {
	return &Transaction{
		LaneID:       laneID,
		SignalState:  state,
		VehicleCount: 7,
		GreenTime:    40,
		NodeID:       "test-node",
		Timestamp:    "2025-06-01T10:00:00.000000001Z",
	}
}

func TestMineBlockDeterministic(t *testing.T) {
	for _, difficulty := range []int{0, 1, 2} {
		txs := []*Transaction{testTransaction(1, StateGreen), testTransaction(2, StateRed)}

		first := &Block{Index: 1, Timestamp: "2025-06-01T10:00:01Z", Transactions: txs, PreviousHash: GenesisPreviousHash}
		second := &Block{Index: 1, Timestamp: "2025-06-01T10:00:01Z", Transactions: txs, PreviousHash: GenesisPreviousHash}

		first.MineBlock(difficulty)
		second.MineBlock(difficulty)

		if first.Nonce != second.Nonce {
			t.Errorf("difficulty %d: nonces differ: %d vs %d", difficulty, first.Nonce, second.Nonce)
		}
		if first.Hash != second.Hash {
			t.Errorf("difficulty %d: hashes differ: %s vs %s", difficulty, first.Hash, second.Hash)
		}
	}
}

func TestMineBlockSatisfiesDifficulty(t *testing.T) {
	block := NewBlock(1, []*Transaction{testTransaction(1, StateGreen)}, GenesisPreviousHash)
	block.MineBlock(2)

	if !strings.HasPrefix(block.Hash, "00") {
		t.Errorf("hash %s does not start with 00", block.Hash)
	}
	if block.Hash != block.CalculateHash() {
		t.Error("stored hash is not reproducible")
	}
}

func TestMineBlockZeroDifficultyAcceptsNonceZero(t *testing.T) {
	block := NewBlock(1, nil, GenesisPreviousHash)
	block.MineBlock(0)

	if block.Nonce != 0 {
		t.Errorf("expected nonce 0 at difficulty 0, got %d", block.Nonce)
	}
}

func TestCalculateHashOrderSensitive(t *testing.T) {
	a := testTransaction(1, StateGreen)
	b := testTransaction(2, StateRed)

	forward := &Block{Index: 1, Timestamp: "2025-06-01T10:00:01Z", Transactions: []*Transaction{a, b}, PreviousHash: GenesisPreviousHash}
	reversed := &Block{Index: 1, Timestamp: "2025-06-01T10:00:01Z", Transactions: []*Transaction{b, a}, PreviousHash: GenesisPreviousHash}

	if forward.CalculateHash() == reversed.CalculateHash() {
		t.Error("transaction order must be part of the committed record")
	}
}

func TestCalculateHashFieldSensitivity(t *testing.T) {
	base := &Block{Index: 1, Timestamp: "2025-06-01T10:00:01Z",
		Transactions: []*Transaction{testTransaction(1, StateGreen)},
		PreviousHash: GenesisPreviousHash, Nonce: 3}
	baseHash := base.CalculateHash()

	t.Run("Nonce", func(t *testing.T) {
		changed := *base
		changed.Nonce = 4
		if changed.CalculateHash() == baseHash {
			t.Error("nonce change did not change the hash")
		}
	})

	t.Run("Timestamp", func(t *testing.T) {
		changed := *base
		changed.Timestamp = "2025-06-01T10:00:02Z"
		if changed.CalculateHash() == baseHash {
			t.Error("timestamp change did not change the hash")
		}
	})

	t.Run("TransactionField", func(t *testing.T) {
		tx := testTransaction(1, StateGreen)
		tx.VehicleCount = 8
		changed := *base
		changed.Transactions = []*Transaction{tx}
		if changed.CalculateHash() == baseHash {
			t.Error("transaction field change did not change the hash")
		}
	})

	t.Run("Metadata", func(t *testing.T) {
		tx := testTransaction(1, StateGreen)
		tx.Metadata = Metadata{"greenTime": 52}
		changed := *base
		changed.Transactions = []*Transaction{tx}
		if changed.CalculateHash() == baseHash {
			t.Error("metadata change did not change the hash")
		}
	})
}
