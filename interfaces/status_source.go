package interfaces

import "mycluster/domain"

// StatusSource exposes the local instance's tables to the admin HTTP surface.
//
// Implemented by service.InstanceServer.
//
//go:generate moq -stub -out mock/status_source.go -pkg mock . StatusSource
type StatusSource interface {
	InstanceStatus() domain.InstanceStatus
	RoutingStatus() domain.RoutingStatus
}
