package service

import (
	"sync"

	"mycluster/domain"
	"mycluster/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// instanceBinding implements interfaces.InstanceBinding. release runs at most once; its error is logged
// because nobody can act on a failed teardown.
type instanceBinding struct {
	node           domain.NodeID
	bindAddress    string
	connectAddress string
	chain          interfaces.SecurityChain
	release        func() error
	logger         log.Logger
	once           sync.Once
}

func newInstanceBinding(
	node domain.NodeID,
	bindAddress string,
	connectAddress string,
	chain interfaces.SecurityChain,
	release func() error,
	logger log.Logger,
) *instanceBinding {
	return &instanceBinding{
		node:           node,
		bindAddress:    bindAddress,
		connectAddress: connectAddress,
		chain:          chain,
		release:        release,
		logger:         logger,
	}
}

func (b *instanceBinding) NodeID() domain.NodeID { return b.node }
func (b *instanceBinding) BindAddress() string { return b.bindAddress }
func (b *instanceBinding) InstanceConnectAddress() string { return b.connectAddress }
func (b *instanceBinding) SecurityChain() interfaces.SecurityChain { return b.chain }

func (b *instanceBinding) Close() {
	b.once.Do(func() {
		if err := b.release(); err != nil {
			level.Warn(b.logger).Log("msg", "closing binding failed", "node", b.node, "err", err)
			return
		}
		level.Debug(b.logger).Log("msg", "binding closed", "node", b.node)
	})
}
