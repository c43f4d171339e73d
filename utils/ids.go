package utils

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator issues time-ordered, prefixed identifiers such as
// "prod-1790412345678901234".
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator creates a generator for the given node number (0–1023).
// Distinct processes sharing a store must use distinct node numbers.
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create id node %d: %w", nodeID, err)
	}
	return &IDGenerator{node: node}, nil
}

// New returns prefix + "-" + a fresh snowflake id.
func (g *IDGenerator) New(prefix string) string {
	return prefix + "-" + g.node.Generate().String()
}

var (
	defaultIDs     *IDGenerator
	defaultIDsOnce sync.Once
)

// DefaultIDGenerator returns a process-wide generator on node 1, used when
// none is injected.
func DefaultIDGenerator() *IDGenerator {
	defaultIDsOnce.Do(func() {
		defaultIDs, _ = NewIDGenerator(1)
	})
	return defaultIDs
}
