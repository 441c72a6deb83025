package ssa

import (
	"fmt"
)

// BlockControlFinalizedError is returned when a control flow edge is
// added into a block that has already been finalized. The failed call
// leaves no partial state behind.
type BlockControlFinalizedError struct {
	Block BlockID
}

func (e *BlockControlFinalizedError) Error() string {
	return fmt.Sprintf("%s is finalized, and cannot be flowed into", e.Block)
}
