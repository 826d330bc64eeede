package instances

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "benchseed.instances.v1.InstanceService"

// Full method names of the instance service.
const (
	GenerateUniformFullMethodName        = "/" + ServiceName + "/GenerateUniform"
	GenerateGaussianFullMethodName       = "/" + ServiceName + "/GenerateGaussian"
	ComputeOptimumLocationFullMethodName = "/" + ServiceName + "/ComputeOptimumLocation"
	ComputeObjectiveOffsetFullMethodName = "/" + ServiceName + "/ComputeObjectiveOffset"
	GetInstanceFullMethodName            = "/" + ServiceName + "/GetInstance"
	ListInstancesFullMethodName          = "/" + ServiceName + "/ListInstances"
)

// InstanceServiceServer is the server API for the instance service. Every
// method exchanges structpb.Struct messages.
type InstanceServiceServer interface {
	GenerateUniform(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GenerateGaussian(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeOptimumLocation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeObjectiveOffset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetInstance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListInstances(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(InstanceServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InstanceServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InstanceServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// InstanceService_ServiceDesc is the grpc.ServiceDesc for the instance service.
var InstanceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InstanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GenerateUniform",
			Handler:    unaryHandler(GenerateUniformFullMethodName, InstanceServiceServer.GenerateUniform),
		},
		{
			MethodName: "GenerateGaussian",
			Handler:    unaryHandler(GenerateGaussianFullMethodName, InstanceServiceServer.GenerateGaussian),
		},
		{
			MethodName: "ComputeOptimumLocation",
			Handler:    unaryHandler(ComputeOptimumLocationFullMethodName, InstanceServiceServer.ComputeOptimumLocation),
		},
		{
			MethodName: "ComputeObjectiveOffset",
			Handler:    unaryHandler(ComputeObjectiveOffsetFullMethodName, InstanceServiceServer.ComputeObjectiveOffset),
		},
		{
			MethodName: "GetInstance",
			Handler:    unaryHandler(GetInstanceFullMethodName, InstanceServiceServer.GetInstance),
		},
		{
			MethodName: "ListInstances",
			Handler:    unaryHandler(ListInstancesFullMethodName, InstanceServiceServer.ListInstances),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "benchseed/instances/v1/instances.proto",
}

// RegisterInstanceServiceServer registers srv on s.
func RegisterInstanceServiceServer(s grpc.ServiceRegistrar, srv InstanceServiceServer) {
	s.RegisterService(&InstanceService_ServiceDesc, srv)
}
