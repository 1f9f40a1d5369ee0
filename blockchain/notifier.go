package blockchain

// Notifier receives ledger events for a transport layer to relay. Both
// callbacks fire outside the chain's critical section: TransactionAccepted
// once per admitted submission, BlockMined once per successfully mined
// block. Implementations must be safe for concurrent use.
type Notifier interface {
	TransactionAccepted(tx *Transaction)
	BlockMined(block *Block)
}

type noopNotifier struct{}

func (noopNotifier) TransactionAccepted(*Transaction) {}

func (noopNotifier) BlockMined(*Block) {}
