package chat

// Regenerating with protoc-gen-go and protoc-gen-go-grpc replaces the hand-kept
// messages.go, descriptor.go, chat_grpc.go and monitoring_grpc.go with
// chat.pb.go and chat_grpc.pb.go, exposing the same identifiers.
//go:generate sh -c "rm -f messages.go descriptor.go chat_grpc.go monitoring_grpc.go && protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative chat.proto"
