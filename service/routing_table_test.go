package service

import (
	"testing"

	"mycluster/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutingTable(t *testing.T) {
	owner := domain.NewInstanceID()
	n1 := domain.NewNodeID(owner, uuid.New())
	n2 := domain.MasterNodeID(owner)
	entry := func(node domain.NodeID, connect string) *routeEntry {
		return &routeEntry{node: node, owner: owner, connectAddress: connect}
	}

	t.Run("put_if_absent_is_idempotent", func(t *testing.T) {
		table := newRoutingTable()
		first := entry(n1, "tcp://a:1")
		current, stored, replaced := table.putIfAbsent(first)
		assert.Same(t, first, current)
		assert.True(t, stored)
		assert.Nil(t, replaced)

		current, stored, replaced = table.putIfAbsent(entry(n1, "tcp://a:1"))
		assert.Same(t, first, current)
		assert.False(t, stored)
		assert.Nil(t, replaced)

		moved := entry(n1, "tcp://a:2")
		current, stored, replaced = table.putIfAbsent(moved)
		assert.Same(t, moved, current)
		assert.True(t, stored)
		assert.Same(t, first, replaced)
	})

	t.Run("remove_only_matching_entry", func(t *testing.T) {
		table := newRoutingTable()
		e := entry(n1, "tcp://a:1")
		table.putIfAbsent(e)

		_, ok := table.remove(n1, entry(n1, "tcp://a:1"))
		assert.False(t, ok)
		got, ok := table.remove(n1, e)
		require.True(t, ok)
		assert.Same(t, e, got)
		_, ok = table.get(n1)
		assert.False(t, ok)
		_, ok = table.remove(n1, nil)
		assert.False(t, ok)
	})

	t.Run("remove_via_address", func(t *testing.T) {
		table := newRoutingTable()
		table.putIfAbsent(entry(n1, "tcp://a:1"))
		table.putIfAbsent(entry(n2, "tcp://a:2"))

		assert.Empty(t, table.removeVia(domain.NewInstanceID(), "tcp://z:9"))
		removed := table.removeVia(domain.NewInstanceID(), "tcp://a:1")
		require.Len(t, removed, 1)
		assert.Equal(t, n1, removed[0].node)
		assert.Len(t, table.removeAll(), 1)
		assert.Empty(t, table.snapshot())
	})

	t.Run("remove_via_owner", func(t *testing.T) {
		table := newRoutingTable()
		table.putIfAbsent(entry(n1, "tcp://a:1"))
		table.putIfAbsent(entry(n2, "tcp://a:2"))
		assert.Len(t, table.removeVia(owner, ""), 2)
	})
}
