package main

import (
	"bytes"
	pb "chat-relay/proto/chat"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderStatus(t *testing.T) {
	var out bytes.Buffer

	renderStatus(&out, &pb.NodeStatus{
		NodeId:            "relay-1",
		ConnectedUsers:    []string{"alice", "bob"},
		MessagesBroadcast: 3,
		UptimeSeconds:     90,
	})

	got := out.String()
	require.Contains(t, got, "relay-1")
	require.Contains(t, got, "alice, bob")
	require.Contains(t, got, "1m30s")
}
