package blockchain

/**
 * IsChainValid walks the chain from the block after genesis to the tip,
 * confirming for each block that its stored previousHash equals the prior
 * block's stored hash and that recomputing the content hash reproduces the
 * stored value. It returns false on the first mismatch without reporting
 * which block failed.
 *
 * The difficulty predicate is deliberately not re-verified here: proof of
 * work is an admission-time cost, not a standing invariant re-checked on
 * read.
 */
func (bc *Blockchain) IsChainValid() bool {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return isValidChain(bc.blocks)
}

func isValidChain(blocks []*Block) bool {
	for i := 1; i < len(blocks); i++ {
		if !isBlockConsistentWithPrevious(blocks[i], blocks[i-1]) {
			return false
		}
	}
	return true
}

func isBlockConsistentWithPrevious(block, previous *Block) bool {
	if block.Index != previous.Index+1 {
		return false
	}
	if block.PreviousHash != previous.Hash {
		return false
	}
	return block.Hash == block.CalculateHash()
}
