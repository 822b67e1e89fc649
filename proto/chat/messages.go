// Package chat holds the chat.v1 wire contract described in chat.proto.
//
// Message types carry protobuf struct tags, which the protobuf runtime
// understands without generated reflection tables. Keep the field numbers
// in sync with chat.proto.
package chat

import (
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/protoadapt"
)

type ConnectRequest struct {
	UserName string `protobuf:"bytes,1,opt,name=user_name,json=userName,proto3" json:"user_name,omitempty"`
}

func (x *ConnectRequest) Reset()         { *x = ConnectRequest{} }
func (x *ConnectRequest) String() string { return textOf(x) }
func (*ConnectRequest) ProtoMessage()   {}

func (x *ConnectRequest) GetUserName() string {
	if x != nil {
		return x.UserName
	}
	return ""
}

type ChatMessage struct {
	UserName string `protobuf:"bytes,1,opt,name=user_name,json=userName,proto3" json:"user_name,omitempty"`
	Content  string `protobuf:"bytes,2,opt,name=content,proto3" json:"content,omitempty"`
	Id       string `protobuf:"bytes,3,opt,name=id,proto3" json:"id,omitempty"`
	SentAt   int64  `protobuf:"varint,4,opt,name=sent_at,json=sentAt,proto3" json:"sent_at,omitempty"`
}

func (x *ChatMessage) Reset()         { *x = ChatMessage{} }
func (x *ChatMessage) String() string { return textOf(x) }
func (*ChatMessage) ProtoMessage()   {}

func (x *ChatMessage) GetUserName() string {
	if x != nil {
		return x.UserName
	}
	return ""
}

func (x *ChatMessage) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

func (x *ChatMessage) GetId() string {
	if x != nil {
		return x.Id
	}
	return ""
}

func (x *ChatMessage) GetSentAt() int64 {
	if x != nil {
		return x.SentAt
	}
	return 0
}

type NodeStatus struct {
	NodeId            string   `protobuf:"bytes,1,opt,name=node_id,json=nodeId,proto3" json:"node_id,omitempty"`
	Pid               int64    `protobuf:"varint,2,opt,name=pid,proto3" json:"pid,omitempty"`
	PidStatus         string   `protobuf:"bytes,3,opt,name=pid_status,json=pidStatus,proto3" json:"pid_status,omitempty"`
	CpuPercent        float64  `protobuf:"fixed64,4,opt,name=cpu_percent,json=cpuPercent,proto3" json:"cpu_percent,omitempty"`
	RamBytes          uint64   `protobuf:"varint,5,opt,name=ram_bytes,json=ramBytes,proto3" json:"ram_bytes,omitempty"`
	ConnectedUsers    []string `protobuf:"bytes,6,rep,name=connected_users,json=connectedUsers,proto3" json:"connected_users,omitempty"`
	MessagesBroadcast uint64   `protobuf:"varint,7,opt,name=messages_broadcast,json=messagesBroadcast,proto3" json:"messages_broadcast,omitempty"`
	DeliveriesOk      uint64   `protobuf:"varint,8,opt,name=deliveries_ok,json=deliveriesOk,proto3" json:"deliveries_ok,omitempty"`
	DeliveriesFailed  uint64   `protobuf:"varint,9,opt,name=deliveries_failed,json=deliveriesFailed,proto3" json:"deliveries_failed,omitempty"`
	SessionsOpened    uint64   `protobuf:"varint,10,opt,name=sessions_opened,json=sessionsOpened,proto3" json:"sessions_opened,omitempty"`
	SessionsClosed    uint64   `protobuf:"varint,11,opt,name=sessions_closed,json=sessionsClosed,proto3" json:"sessions_closed,omitempty"`
	UserReplacements  uint64   `protobuf:"varint,12,opt,name=user_replacements,json=userReplacements,proto3" json:"user_replacements,omitempty"`
	UptimeSeconds     int64    `protobuf:"varint,13,opt,name=uptime_seconds,json=uptimeSeconds,proto3" json:"uptime_seconds,omitempty"`
}

func (x *NodeStatus) Reset()         { *x = NodeStatus{} }
func (x *NodeStatus) String() string { return textOf(x) }
func (*NodeStatus) ProtoMessage()   {}

func (x *NodeStatus) GetConnectedUsers() []string {
	if x != nil {
		return x.ConnectedUsers
	}
	return nil
}

func (x *NodeStatus) GetNodeId() string {
	if x != nil {
		return x.NodeId
	}
	return ""
}

func (x *NodeStatus) GetPid() int64 {
	if x != nil {
		return x.Pid
	}
	return 0
}

func (x *NodeStatus) GetPidStatus() string {
	if x != nil {
		return x.PidStatus
	}
	return ""
}

func (x *NodeStatus) GetCpuPercent() float64 {
	if x != nil {
		return x.CpuPercent
	}
	return 0
}

func (x *NodeStatus) GetRamBytes() uint64 {
	if x != nil {
		return x.RamBytes
	}
	return 0
}

func (x *NodeStatus) GetMessagesBroadcast() uint64 {
	if x != nil {
		return x.MessagesBroadcast
	}
	return 0
}

func (x *NodeStatus) GetDeliveriesOk() uint64 {
	if x != nil {
		return x.DeliveriesOk
	}
	return 0
}

func (x *NodeStatus) GetDeliveriesFailed() uint64 {
	if x != nil {
		return x.DeliveriesFailed
	}
	return 0
}

func (x *NodeStatus) GetSessionsOpened() uint64 {
	if x != nil {
		return x.SessionsOpened
	}
	return 0
}

func (x *NodeStatus) GetSessionsClosed() uint64 {
	if x != nil {
		return x.SessionsClosed
	}
	return 0
}

func (x *NodeStatus) GetUserReplacements() uint64 {
	if x != nil {
		return x.UserReplacements
	}
	return 0
}

func (x *NodeStatus) GetUptimeSeconds() int64 {
	if x != nil {
		return x.UptimeSeconds
	}
	return 0
}

func textOf(m protoadapt.MessageV1) string {
	return prototext.MarshalOptions{}.Format(protoadapt.MessageV2Of(m))
}
