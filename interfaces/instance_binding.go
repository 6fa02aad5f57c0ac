package interfaces

import "mycluster/domain"

// InstanceBinding is the lease "node is bound and reachable at BindAddress via the instance at
// InstanceConnectAddress, secured by SecurityChain". Close issues CLOSE_BINDING_FOR_NODE exactly once;
// failures are logged, never returned.
//
// Implemented by service.instanceBinding; returned by ControlClient.OpenBinding.
type InstanceBinding interface {
	NodeID() domain.NodeID
	BindAddress() string
	InstanceConnectAddress() string
	SecurityChain() SecurityChain
	Close()
}
