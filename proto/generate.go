// Package proto holds the protobuf sources for the techpack v1 API.
// Generated code lands under gen/proto and is not committed.
package proto

//go:generate protoc --proto_path=. --go_out=paths=source_relative:../gen/proto --go-grpc_out=paths=source_relative:../gen/proto techpack/v1/techpack.proto
