// Package instances exposes the benchseed instance service over gRPC.
package instances

import (
	"context"

	"github.com/louisbranch/benchseed/internal/platform/grpc/pagination"
	"github.com/louisbranch/benchseed/internal/services/instances/engine"
	"github.com/louisbranch/benchseed/internal/services/instances/storage"
	"github.com/louisbranch/benchseed/internal/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	defaultListInstancesPageSize = 20
	maxListInstancesPageSize     = 200
)

// Service implements InstanceServiceServer on top of the engine.
type Service struct {
	engine *engine.Engine
}

// NewService creates an instance service backed by e.
func NewService(e *engine.Engine) *Service {
	return &Service{engine: e}
}

// GenerateUniform returns legacy uniform values.
func (s *Service) GenerateUniform(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in, "generate uniform"); err != nil {
		return nil, err
	}
	req, err := SequenceRequestFromStruct(in)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	values, err := s.engine.Uniform(ctx, req.Seed, req.Count)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	return NumbersToStruct(FieldValues, values), nil
}

// GenerateGaussian returns legacy Gaussian values.
func (s *Service) GenerateGaussian(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in, "generate gaussian"); err != nil {
		return nil, err
	}
	req, err := SequenceRequestFromStruct(in)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	values, err := s.engine.Gaussian(ctx, req.Seed, req.Count)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	return NumbersToStruct(FieldValues, values), nil
}

// ComputeOptimumLocation returns the optimum vector drawn from a seed.
func (s *Service) ComputeOptimumLocation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in, "compute optimum location"); err != nil {
		return nil, err
	}
	req, err := OptimumRequestFromStruct(in)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	xopt, err := s.engine.OptimumLocation(ctx, req.Seed, req.Dimension)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	return NumbersToStruct(FieldXOpt, xopt), nil
}

// ComputeObjectiveOffset returns the objective offset of a function instance.
func (s *Service) ComputeObjectiveOffset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in, "compute objective offset"); err != nil {
		return nil, err
	}
	req, err := OffsetRequestFromStruct(in)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	fopt, err := s.engine.ObjectiveOffset(ctx, req.Function, req.Instance)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	return NumberToStruct(FieldFOpt, fopt), nil
}

// GetInstance returns the parameters of one suite instance.
func (s *Service) GetInstance(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in, "get instance"); err != nil {
		return nil, err
	}
	spec, err := SpecFromStruct(in)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	instance, err := s.engine.Instance(ctx, spec)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	return InstanceToStruct(instance), nil
}

// ListInstances returns a page of stored instances.
func (s *Service) ListInstances(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if err := s.ready(in, "list instances"); err != nil {
		return nil, err
	}
	req, err := ListRequestFromStruct(in)
	if err != nil {
		return nil, statusError(ctx, err)
	}
	pageSize := pagination.ClampPageSize(req.PageSize, pagination.PageSizeConfig{
		Default: defaultListInstancesPageSize,
		Max:     maxListInstancesPageSize,
	})
	page, err := s.engine.ListInstances(ctx, storage.ListRequest{
		Filter:    req.Filter,
		PageSize:  pageSize,
		PageToken: req.PageToken,
	})
	if err != nil {
		return nil, statusError(ctx, err)
	}
	resp := ListResponse{
		Instances:     make([]suite.Instance, 0, len(page.Instances)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Instances {
		resp.Instances = append(resp.Instances, record.Instance())
	}
	return resp.ToStruct(), nil
}

func (s *Service) ready(in *structpb.Struct, op string) error {
	if in == nil {
		return status.Errorf(codes.InvalidArgument, "%s request is required", op)
	}
	if s == nil || s.engine == nil {
		return status.Error(codes.Internal, "instance engine is not configured")
	}
	return nil
}

var _ InstanceServiceServer = (*Service)(nil)
