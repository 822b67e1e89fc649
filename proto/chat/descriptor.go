package chat

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File_chat_proto describes chat.proto. It is registered in the global
// registry so that server reflection can serve it.
var File_chat_proto protoreflect.FileDescriptor

func init() {
	fd, err := protodesc.NewFile(fileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(err)
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(err)
	}
	File_chat_proto = fd
}

func fileDescriptorProto() *descriptorpb.FileDescriptorProto {
	str := descriptorpb.FieldDescriptorProto_TYPE_STRING
	i64 := descriptorpb.FieldDescriptorProto_TYPE_INT64
	u64 := descriptorpb.FieldDescriptorProto_TYPE_UINT64
	f64 := descriptorpb.FieldDescriptorProto_TYPE_DOUBLE

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("chat/v1/chat.proto"),
		Package:    proto.String("chat.v1"),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/empty.proto"},
		Options:    &descriptorpb.FileOptions{GoPackage: proto.String("chat-relay/proto/chat")},
		MessageType: []*descriptorpb.DescriptorProto{
			message("ConnectRequest",
				field("user_name", 1, str, false),
			),
			message("ChatMessage",
				field("user_name", 1, str, false),
				field("content", 2, str, false),
				field("id", 3, str, false),
				field("sent_at", 4, i64, false),
			),
			message("NodeStatus",
				field("node_id", 1, str, false),
				field("pid", 2, i64, false),
				field("pid_status", 3, str, false),
				field("cpu_percent", 4, f64, false),
				field("ram_bytes", 5, u64, false),
				field("connected_users", 6, str, true),
				field("messages_broadcast", 7, u64, false),
				field("deliveries_ok", 8, u64, false),
				field("deliveries_failed", 9, u64, false),
				field("sessions_opened", 10, u64, false),
				field("sessions_closed", 11, u64, false),
				field("user_replacements", 12, u64, false),
				field("uptime_seconds", 13, i64, false),
			),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{
			{
				Name: proto.String("ChatService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:            proto.String("Connect"),
						InputType:       proto.String(".chat.v1.ConnectRequest"),
						OutputType:      proto.String(".chat.v1.ChatMessage"),
						ServerStreaming: proto.Bool(true),
					},
					{
						Name:       proto.String("SendMessage"),
						InputType:  proto.String(".chat.v1.ChatMessage"),
						OutputType: proto.String(".google.protobuf.Empty"),
					},
				},
			},
			{
				Name: proto.String("MonitoringService"),
				Method: []*descriptorpb.MethodDescriptorProto{
					{
						Name:       proto.String("GetStatus"),
						InputType:  proto.String(".google.protobuf.Empty"),
						OutputType: proto.String(".chat.v1.NodeStatus"),
					},
				},
			},
		},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func field(name string, number int32, kind descriptorpb.FieldDescriptorProto_Type, repeated bool) *descriptorpb.FieldDescriptorProto {
	label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	if repeated {
		label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	}
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  label.Enum(),
		Type:   kind.Enum(),
	}
}
