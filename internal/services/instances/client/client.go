// Package client is a typed client for the benchseed instance service.
package client

import (
	"context"
	"errors"
	"time"

	platformgrpc "github.com/louisbranch/benchseed/internal/platform/grpc"
	"github.com/louisbranch/benchseed/internal/services/instances/api/grpc/instances"
	"github.com/louisbranch/benchseed/internal/suite"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the instance service over a gRPC connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// New wraps an existing connection.
func New(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Dial connects to addr and waits for the instance service to report
// SERVING. The returned close function releases the connection.
func Dial(ctx context.Context, addr string, timeout time.Duration, logf func(string, ...any)) (*Client, func() error, error) {
	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, instances.ServiceName, timeout, logf)
	if err != nil {
		return nil, nil, err
	}
	return New(conn), conn.Close, nil
}

// Uniform requests count uniform values for seed.
func (c *Client) Uniform(ctx context.Context, seed int64, count int) ([]float64, error) {
	out, err := c.invoke(ctx, instances.GenerateUniformFullMethodName, instances.SequenceRequest{Seed: seed, Count: count}.ToStruct())
	if err != nil {
		return nil, err
	}
	return instances.NumbersFromStruct(out, instances.FieldValues)
}

// Gaussian requests count Gaussian values for seed.
func (c *Client) Gaussian(ctx context.Context, seed int64, count int) ([]float64, error) {
	out, err := c.invoke(ctx, instances.GenerateGaussianFullMethodName, instances.SequenceRequest{Seed: seed, Count: count}.ToStruct())
	if err != nil {
		return nil, err
	}
	return instances.NumbersFromStruct(out, instances.FieldValues)
}

// OptimumLocation requests the optimum vector drawn from seed.
func (c *Client) OptimumLocation(ctx context.Context, seed int64, dimension int) ([]float64, error) {
	out, err := c.invoke(ctx, instances.ComputeOptimumLocationFullMethodName, instances.OptimumRequest{Seed: seed, Dimension: dimension}.ToStruct())
	if err != nil {
		return nil, err
	}
	return instances.NumbersFromStruct(out, instances.FieldXOpt)
}

// ObjectiveOffset requests the objective offset of a function instance.
func (c *Client) ObjectiveOffset(ctx context.Context, function, instance int) (float64, error) {
	out, err := c.invoke(ctx, instances.ComputeObjectiveOffsetFullMethodName, instances.OffsetRequest{Function: function, Instance: instance}.ToStruct())
	if err != nil {
		return 0, err
	}
	return instances.NumberFromStruct(out, instances.FieldFOpt)
}

// Instance requests the parameters of spec.
func (c *Client) Instance(ctx context.Context, spec suite.Spec) (suite.Instance, error) {
	out, err := c.invoke(ctx, instances.GetInstanceFullMethodName, instances.SpecToStruct(spec))
	if err != nil {
		return suite.Instance{}, err
	}
	return instances.InstanceFromStruct(out)
}

// ListInstances requests one page of stored instances.
func (c *Client) ListInstances(ctx context.Context, req instances.ListRequest) (instances.ListResponse, error) {
	out, err := c.invoke(ctx, instances.ListInstancesFullMethodName, req.ToStruct())
	if err != nil {
		return instances.ListResponse{}, err
	}
	return instances.ListResponseFromStruct(out)
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct) (*structpb.Struct, error) {
	if c == nil || c.conn == nil {
		return nil, errors.New("instance client is not configured")
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
