package network

import (
	"errors"
	"fmt"

	gterrors "github.com/matzehuels/gridtrace/pkg/errors"
)

var (
	// ErrInvalidEquipmentID is returned by [Network.AddEquipment] and
	// [Network.Connect] when an equipment or connectivity node ID fails
	// validation (empty, control characters, surrounding whitespace).
	ErrInvalidEquipmentID = errors.New("invalid equipment or node ID")

	// ErrDuplicateEquipmentID is returned by [Network.AddEquipment] when
	// equipment with the same ID already exists. Equipment IDs must be unique.
	ErrDuplicateEquipmentID = errors.New("duplicate equipment ID")

	// ErrUnknownEquipment is returned by [Network.Connect] when the
	// equipment does not exist in the network.
	ErrUnknownEquipment = errors.New("unknown equipment")

	// ErrUnknownTerminal is returned by [Network.Connect] when the terminal
	// sequence number is outside the equipment's terminals.
	ErrUnknownTerminal = errors.New("unknown terminal")

	// ErrTerminalConnected is returned by [Network.Connect] when the
	// terminal is already attached to a connectivity node.
	ErrTerminalConnected = errors.New("terminal already attached to a connectivity node")

	// ErrDanglingTerminal is returned by [Equipment.Connectivity] and
	// [Network.Validate] when a connectivity node holds a terminal that
	// belongs to no equipment, or to equipment outside the network. This
	// indicates model corruption.
	ErrDanglingTerminal = errors.New("dangling terminal")
)

// Metadata stores arbitrary key-value pairs attached to equipment, such as
// ratings or asset numbers. Metadata maps are never nil - they are
// initialized to empty maps when equipment is added.
type Metadata map[string]any

// ConnectivityNode joins terminals of different equipment. Every terminal
// attached to the same node is electrically connected to every other.
type ConnectivityNode struct {
	id        string
	terminals []*Terminal
}

// ID returns the node's identifier.
func (c *ConnectivityNode) ID() string { return c.id }

// Terminals returns the terminals attached to the node in attachment order.
func (c *ConnectivityNode) Terminals() []*Terminal {
	return append([]*Terminal(nil), c.terminals...)
}

// Network is an in-memory model of equipment joined through connectivity
// nodes. Equipment and nodes keep their insertion order, so traversals over
// a network are deterministic.
//
// The zero value is not usable - use New to create a valid Network instance.
// Network is not safe for concurrent mutation; concurrent reads (which is
// all a traversal does) are safe.
type Network struct {
	equipment map[string]*Equipment
	order     []*Equipment
	nodes     map[string]*ConnectivityNode
	nodeOrder []*ConnectivityNode
}

// New creates an empty network.
func New() *Network {
	return &Network{
		equipment: make(map[string]*Equipment),
		nodes:     make(map[string]*ConnectivityNode),
	}
}

// AddEquipment adds equipment with the given number of terminals, numbered
// from 1. Terminals start in service and unattached; use [Network.Connect]
// to attach them to connectivity nodes. New equipment is in service and
// closed in both the normal and current state.
func (n *Network) AddEquipment(id, kind string, terminals int) (*Equipment, error) {
	if err := gterrors.ValidateID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEquipmentID, err)
	}
	if _, ok := n.equipment[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEquipmentID, id)
	}
	if terminals < 0 {
		return nil, fmt.Errorf("%w: equipment %s cannot have %d terminals", ErrUnknownTerminal, id, terminals)
	}

	e := &Equipment{
		id:                id,
		Kind:              kind,
		NormallyInService: true,
		InService:         true,
		Meta:              Metadata{},
	}
	for seq := 1; seq <= terminals; seq++ {
		e.terminals = append(e.terminals, &Terminal{equipment: e, sequence: seq, connected: true})
	}
	n.equipment[id] = e
	n.order = append(n.order, e)
	return e, nil
}

// Connect attaches terminal seq of the equipment to the connectivity node
// with the given ID, creating the node on first use.
func (n *Network) Connect(equipmentID string, seq int, nodeID string) error {
	e, ok := n.equipment[equipmentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEquipment, equipmentID)
	}
	t := e.Terminal(seq)
	if t == nil {
		return fmt.Errorf("%w: %s/%d", ErrUnknownTerminal, equipmentID, seq)
	}
	if t.node != nil {
		return fmt.Errorf("%w: %s/%d is on %s", ErrTerminalConnected, equipmentID, seq, t.node.id)
	}
	if err := gterrors.ValidateID(nodeID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEquipmentID, err)
	}

	node, ok := n.nodes[nodeID]
	if !ok {
		node = &ConnectivityNode{id: nodeID}
		n.nodes[nodeID] = node
		n.nodeOrder = append(n.nodeOrder, node)
	}
	node.terminals = append(node.terminals, t)
	t.node = node
	return nil
}

// Equipment returns the equipment with the given ID.
func (n *Network) Equipment(id string) (*Equipment, bool) {
	e, ok := n.equipment[id]
	return e, ok
}

// Equipments returns all equipment in insertion order.
func (n *Network) Equipments() []*Equipment {
	return append([]*Equipment(nil), n.order...)
}

// Node returns the connectivity node with the given ID.
func (n *Network) Node(id string) (*ConnectivityNode, bool) {
	c, ok := n.nodes[id]
	return c, ok
}

// Nodes returns all connectivity nodes in creation order.
func (n *Network) Nodes() []*ConnectivityNode {
	return append([]*ConnectivityNode(nil), n.nodeOrder...)
}

// Len returns the number of equipment in the network.
func (n *Network) Len() int { return len(n.order) }

// Lookup resolves equipment IDs, failing on the first unknown one. The
// error wraps [ErrUnknownEquipment] and carries the EQUIPMENT_NOT_FOUND code.
func (n *Network) Lookup(ids ...string) ([]*Equipment, error) {
	out := make([]*Equipment, 0, len(ids))
	for _, id := range ids {
		e, ok := n.equipment[id]
		if !ok {
			return nil, gterrors.Wrap(gterrors.ErrCodeEquipmentNotFound, ErrUnknownEquipment, "equipment %q not in network", id)
		}
		out = append(out, e)
	}
	return out, nil
}

// Validate checks the network's structural integrity: every terminal on a
// connectivity node must belong to equipment registered in this network and
// point back at that node. It returns the first problem found.
func (n *Network) Validate() error {
	for _, node := range n.nodeOrder {
		for _, t := range node.terminals {
			if t == nil || t.equipment == nil {
				return fmt.Errorf("%w: on node %s", ErrDanglingTerminal, node.id)
			}
			if n.equipment[t.equipment.id] != t.equipment {
				return fmt.Errorf("%w: %s on node %s belongs to equipment outside the network",
					ErrDanglingTerminal, t.Ref(), node.id)
			}
			if t.node != node {
				return fmt.Errorf("%w: %s listed on node %s but attached elsewhere",
					ErrDanglingTerminal, t.Ref(), node.id)
			}
		}
	}
	return nil
}
