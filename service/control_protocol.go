package service

import (
	"mycluster/domain"
	"mycluster/protocol"

	"github.com/go-zeromq/zmq4"
)

// Request and reply layouts of the control commands (after the empty delimiter):
//
//	GET_ROUTING_STATUS         []                      -> [OK][instance]([node][address])*
//	GET_INSTANCE_STATUS        []                      -> [OK][instance]([node])*
//	OPEN_ROUTE_TO_NODE         [node][connect address] -> [OK][route address]
//	CLOSE_ROUTES_VIA_INSTANCE  [instance][address]     -> [OK]
//	OPEN_BINDING_FOR_NODE      [node]                  -> [OK][bind address]
//	CLOSE_BINDING_FOR_NODE     [node]                  -> [OK]
//	HEALTH_CHECK               []                      -> [OK][instance]
//	FORWARD                    [node][ids...][empty][invocation request]

// controlRequest builds [empty][command][args...].
func controlRequest(c protocol.Command, args ...[]byte) zmq4.Msg {
	msg := protocol.NewMessage(args...)
	protocol.PushCommand(&msg, c)
	protocol.PushIdentity(&msg, nil)
	return msg
}

func getRoutingStatusRequest() zmq4.Msg {
	return controlRequest(protocol.CommandGetRoutingStatus)
}

func getInstanceStatusRequest() zmq4.Msg {
	return controlRequest(protocol.CommandGetInstanceStatus)
}

func openRouteToNodeRequest(node domain.NodeID, instanceConnectAddress string) zmq4.Msg {
	return controlRequest(protocol.CommandOpenRouteToNode, node.Bytes(), []byte(instanceConnectAddress))
}

func closeRoutesViaInstanceRequest(instance domain.InstanceID, instanceConnectAddress string) zmq4.Msg {
	return controlRequest(protocol.CommandCloseRoutesViaInstance, instance.Bytes(), []byte(instanceConnectAddress))
}

func openBindingRequest(node domain.NodeID) zmq4.Msg {
	return controlRequest(protocol.CommandOpenBindingForNode, node.Bytes())
}

func closeBindingRequest(node domain.NodeID) zmq4.Msg {
	return controlRequest(protocol.CommandCloseBindingForNode, node.Bytes())
}

func healthCheckRequest() zmq4.Msg {
	return controlRequest(protocol.CommandHealthCheck)
}

// controlReplyBody strips the delimiter and the status code of a reply and returns the remaining frames.
//
// Returns: (body, nil) for OK; (zero, typed error) for any other code or a malformed envelope.
func controlReplyBody(msg zmq4.Msg) (zmq4.Msg, error) {
	if len(msg.Frames) == 0 {
		return zmq4.Msg{}, domain.NewProtocolError("empty reply", nil)
	}
	if _, err := protocol.StripIdentity(&msg); err != nil {
		return zmq4.Msg{}, err
	}
	code, err := protocol.StripCode(&msg)
	if err != nil {
		return zmq4.Msg{}, err
	}
	if err := protocol.ErrorForCode(code, &msg); err != nil {
		return zmq4.Msg{}, err
	}
	return msg, nil
}

func parseRoutingStatusReply(msg zmq4.Msg) (domain.RoutingStatus, error) {
	body, err := controlReplyBody(msg)
	if err != nil {
		return domain.RoutingStatus{}, err
	}
	responder, err := protocol.PopInstanceID(&body)
	if err != nil {
		return domain.RoutingStatus{}, err
	}
	if len(body.Frames)%2 != 0 {
		return domain.RoutingStatus{}, domain.NewProtocolError("routing status has an unpaired route frame", nil)
	}
	routes := make([]domain.Route, 0, len(body.Frames)/2)
	for len(body.Frames) > 0 {
		node, err := protocol.PopNodeID(&body)
		if err != nil {
			return domain.RoutingStatus{}, err
		}
		address, err := protocol.PopString(&body, "route address")
		if err != nil {
			return domain.RoutingStatus{}, err
		}
		routes = append(routes, domain.Route{NodeID: node, Address: address})
	}
	return domain.NewRoutingStatus(responder, routes), nil
}

func parseInstanceStatusReply(msg zmq4.Msg) (domain.InstanceStatus, error) {
	body, err := controlReplyBody(msg)
	if err != nil {
		return domain.InstanceStatus{}, err
	}
	instance, err := protocol.PopInstanceID(&body)
	if err != nil {
		return domain.InstanceStatus{}, err
	}
	nodes := make([]domain.NodeID, 0, len(body.Frames))
	for len(body.Frames) > 0 {
		node, err := protocol.PopNodeID(&body)
		if err != nil {
			return domain.InstanceStatus{}, err
		}
		nodes = append(nodes, node)
	}
	return domain.InstanceStatus{InstanceID: instance, Nodes: nodes}, nil
}

// parseAddressReply reads the single address frame of OPEN_ROUTE_TO_NODE and OPEN_BINDING_FOR_NODE.
func parseAddressReply(msg zmq4.Msg) (string, error) {
	body, err := controlReplyBody(msg)
	if err != nil {
		return "", err
	}
	address, err := protocol.PopString(&body, "address")
	if err != nil {
		return "", err
	}
	if address == "" {
		return "", domain.NewProtocolError("empty address in reply", nil)
	}
	return address, nil
}

func parseEmptyReply(msg zmq4.Msg) error {
	_, err := controlReplyBody(msg)
	return err
}

func parseHealthCheckReply(msg zmq4.Msg) (domain.InstanceID, error) {
	body, err := controlReplyBody(msg)
	if err != nil {
		return domain.InstanceID{}, err
	}
	return protocol.PopInstanceID(&body)
}

// Server side encoders.

func routingStatusFrames(status domain.RoutingStatus) [][]byte {
	frames := make([][]byte, 0, 1+2*len(status.Routes))
	frames = append(frames, status.InstanceID.Bytes())
	for _, r := range status.Routes {
		frames = append(frames, r.NodeID.Bytes(), []byte(r.Address))
	}
	return frames
}

func instanceStatusFrames(status domain.InstanceStatus) [][]byte {
	frames := make([][]byte, 0, 1+len(status.Nodes))
	frames = append(frames, status.InstanceID.Bytes())
	for _, n := range status.Nodes {
		frames = append(frames, n.Bytes())
	}
	return frames
}

// okReply builds [ids...][empty][OK][frames...].
func okReply(ids [][]byte, frames ...[]byte) zmq4.Msg {
	msg := protocol.NewMessage(frames...)
	protocol.PushCode(&msg, protocol.CodeOK)
	protocol.PushIdentity(&msg, ids)
	return msg
}

// errorReply builds [ids...][empty][code][error frames...] for err.
func errorReply(ids [][]byte, err error) zmq4.Msg {
	msg := protocol.NewMessage()
	protocol.PushError(&msg, err)
	protocol.PushIdentity(&msg, ids)
	return msg
}
