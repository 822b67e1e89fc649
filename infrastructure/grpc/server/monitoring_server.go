package server

import (
	"chat-relay/domain"
	"chat-relay/observability"
	pb "chat-relay/proto/chat"
	"chat-relay/services"
	"context"

	"github.com/samber/lo"
	"google.golang.org/protobuf/types/known/emptypb"
)

type MonitoringServer struct {
	pb.UnimplementedMonitoringServiceServer
	monitoring  *observability.MonitoringManager
	chatService services.IChatService
}

func NewMonitoringServer(monitoring *observability.MonitoringManager, chatService services.IChatService) *MonitoringServer {
	return &MonitoringServer{monitoring: monitoring, chatService: chatService}
}

func (s *MonitoringServer) GetStatus(_ context.Context, _ *emptypb.Empty) (*pb.NodeStatus, error) {
	return ToNodeStatus(s.monitoring.Snapshot(s.chatService.Participants())), nil
}

func ToNodeStatus(status domain.NodeStatus) *pb.NodeStatus {
	return &pb.NodeStatus{
		NodeId:            status.NodeID,
		Pid:               status.Process.PID,
		PidStatus:         string(status.Process.Status),
		CpuPercent:        status.Process.CPU,
		RamBytes:          status.Process.RAM,
		ConnectedUsers:    lo.Map(status.ConnectedUsers, func(u domain.UserName, _ int) string { return u.String() }),
		MessagesBroadcast: status.MessagesBroadcast,
		DeliveriesOk:      status.DeliveriesOK,
		DeliveriesFailed:  status.DeliveriesFailed,
		SessionsOpened:    status.SessionsOpened,
		SessionsClosed:    status.SessionsClosed,
		UserReplacements:  status.UserReplacements,
		UptimeSeconds:     int64(status.Uptime.Seconds()),
	}
}
