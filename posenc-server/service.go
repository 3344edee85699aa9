// The gRPC service definition. Every message is a google.protobuf.Struct.

package main

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "posenc.PositionalEncoder"

type PositionalEncoderServer interface {
	Compute(context.Context, *ComputeRequest) (*ComputeReply, error)
	GetMatrix(context.Context, *GetMatrixRequest) (*GetMatrixReply, error)
	HasInMemory(context.Context, *HasInMemoryRequest) (*HasInMemoryReply, error)
	HasOnDisk(context.Context, *HasOnDiskRequest) (*HasOnDiskReply, error)
	Clear(context.Context, *ClearRequest) (*ClearReply, error)
}

func RegisterPositionalEncoderServer(s *grpc.Server, srv PositionalEncoderServer) {
	s.RegisterService(&positionalEncoderServiceDesc, srv)
}

type request[T any] interface {
	*T
	fromStruct(*structpb.Struct) error
}

type reply interface {
	toStruct() (*structpb.Struct, error)
}

func unary[Req any, PReq request[Req], Reply reply](
	name string, call func(PositionalEncoderServer, context.Context, PReq) (Reply, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error,
			interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			handle := func(ctx context.Context, msg interface{}) (interface{}, error) {
				req := PReq(new(Req))
				if err := req.fromStruct(msg.(*structpb.Struct)); err != nil {
					return nil, err
				}
				out, err := call(srv.(PositionalEncoderServer), ctx, req)
				if err != nil {
					return nil, err
				}
				return out.toStruct()
			}
			if interceptor == nil {
				return handle(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + name}
			return interceptor(ctx, in, info, handle)
		},
	}
}

var positionalEncoderServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PositionalEncoderServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Compute", PositionalEncoderServer.Compute),
		unary("GetMatrix", PositionalEncoderServer.GetMatrix),
		unary("HasInMemory", PositionalEncoderServer.HasInMemory),
		unary("HasOnDisk", PositionalEncoderServer.HasOnDisk),
		unary("Clear", PositionalEncoderServer.Clear),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "posenc",
}
