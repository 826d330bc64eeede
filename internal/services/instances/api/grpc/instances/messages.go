package instances

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/louisbranch/benchseed/internal/suite"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformedMessage indicates a struct payload with a field of the wrong
// shape.
var ErrMalformedMessage = errors.New("malformed message")

// Field names shared by requests and responses.
const (
	FieldSeed          = "seed"
	FieldCount         = "count"
	FieldDimension     = "dimension"
	FieldFunction      = "function"
	FieldInstance      = "instance"
	FieldSuite         = "suite"
	FieldValues        = "values"
	FieldXOpt          = "xopt"
	FieldFOpt          = "fopt"
	FieldOptimumSeed   = "optimum_seed"
	FieldFilter        = "filter"
	FieldPageSize      = "page_size"
	FieldPageToken     = "page_token"
	FieldInstances     = "instances"
	FieldNextPageToken = "next_page_token"
)

// SequenceRequest asks for count values drawn from seed.
type SequenceRequest struct {
	Seed  int64
	Count int
}

// OptimumRequest asks for the optimum location drawn from seed.
type OptimumRequest struct {
	Seed      int64
	Dimension int
}

// OffsetRequest asks for the objective offset of a function instance.
type OffsetRequest struct {
	Function int
	Instance int
}

// ListRequest selects a page of stored instances.
type ListRequest struct {
	Filter    string
	PageSize  int32
	PageToken string
}

// ListResponse carries one page of instances.
type ListResponse struct {
	Instances     []suite.Instance
	NextPageToken string
}

// ToStruct encodes the request. Seeds travel as decimal strings so that
// values above 2^53 survive the double representation of struct numbers.
func (r SequenceRequest) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSeed:  structpb.NewStringValue(strconv.FormatInt(r.Seed, 10)),
		FieldCount: structpb.NewNumberValue(float64(r.Count)),
	}}
}

// SequenceRequestFromStruct decodes a sequence request.
func SequenceRequestFromStruct(in *structpb.Struct) (SequenceRequest, error) {
	seed, err := intField(in, FieldSeed)
	if err != nil {
		return SequenceRequest{}, err
	}
	count, err := int32Field(in, FieldCount)
	if err != nil {
		return SequenceRequest{}, err
	}
	return SequenceRequest{Seed: seed, Count: count}, nil
}

// ToStruct encodes the request.
func (r OptimumRequest) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSeed:      structpb.NewStringValue(strconv.FormatInt(r.Seed, 10)),
		FieldDimension: structpb.NewNumberValue(float64(r.Dimension)),
	}}
}

// OptimumRequestFromStruct decodes an optimum location request.
func OptimumRequestFromStruct(in *structpb.Struct) (OptimumRequest, error) {
	seed, err := intField(in, FieldSeed)
	if err != nil {
		return OptimumRequest{}, err
	}
	dimension, err := int32Field(in, FieldDimension)
	if err != nil {
		return OptimumRequest{}, err
	}
	return OptimumRequest{Seed: seed, Dimension: dimension}, nil
}

// ToStruct encodes the request.
func (r OffsetRequest) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldFunction: structpb.NewNumberValue(float64(r.Function)),
		FieldInstance: structpb.NewNumberValue(float64(r.Instance)),
	}}
}

// OffsetRequestFromStruct decodes an objective offset request.
func OffsetRequestFromStruct(in *structpb.Struct) (OffsetRequest, error) {
	function, err := int32Field(in, FieldFunction)
	if err != nil {
		return OffsetRequest{}, err
	}
	instance, err := int32Field(in, FieldInstance)
	if err != nil {
		return OffsetRequest{}, err
	}
	return OffsetRequest{Function: function, Instance: instance}, nil
}

// SpecToStruct encodes an instance spec.
func SpecToStruct(spec suite.Spec) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldSuite:     structpb.NewStringValue(string(spec.Suite)),
		FieldFunction:  structpb.NewNumberValue(float64(spec.Function)),
		FieldInstance:  structpb.NewNumberValue(float64(spec.Instance)),
		FieldDimension: structpb.NewNumberValue(float64(spec.Dimension)),
	}}
}

// SpecFromStruct decodes an instance spec. A missing suite means bbob.
func SpecFromStruct(in *structpb.Struct) (suite.Spec, error) {
	name, err := stringField(in, FieldSuite)
	if err != nil {
		return suite.Spec{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = string(suite.BBOB)
	}
	var ids [3]int
	for i, key := range []string{FieldFunction, FieldInstance, FieldDimension} {
		if ids[i], err = int32Field(in, key); err != nil {
			return suite.Spec{}, err
		}
	}
	return suite.Spec{
		Suite:     suite.Name(name),
		Function:  ids[0],
		Instance:  ids[1],
		Dimension: ids[2],
	}, nil
}

// InstanceToStruct encodes a built instance.
func InstanceToStruct(instance suite.Instance) *structpb.Struct {
	out := SpecToStruct(instance.Spec)
	out.Fields[FieldOptimumSeed] = structpb.NewStringValue(strconv.FormatInt(instance.OptimumSeed, 10))
	out.Fields[FieldXOpt] = numberList(instance.XOpt)
	out.Fields[FieldFOpt] = structpb.NewNumberValue(instance.FOpt)
	return out
}

// InstanceFromStruct decodes a built instance.
func InstanceFromStruct(in *structpb.Struct) (suite.Instance, error) {
	spec, err := SpecFromStruct(in)
	if err != nil {
		return suite.Instance{}, err
	}
	seed, err := intField(in, FieldOptimumSeed)
	if err != nil {
		return suite.Instance{}, err
	}
	xopt, err := NumbersFromStruct(in, FieldXOpt)
	if err != nil {
		return suite.Instance{}, err
	}
	fopt, err := NumberFromStruct(in, FieldFOpt)
	if err != nil {
		return suite.Instance{}, err
	}
	return suite.Instance{Spec: spec, OptimumSeed: seed, XOpt: xopt, FOpt: fopt}, nil
}

// ToStruct encodes the request.
func (r ListRequest) ToStruct() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldFilter:    structpb.NewStringValue(r.Filter),
		FieldPageSize:  structpb.NewNumberValue(float64(r.PageSize)),
		FieldPageToken: structpb.NewStringValue(r.PageToken),
	}}
}

// ListRequestFromStruct decodes a list request.
func ListRequestFromStruct(in *structpb.Struct) (ListRequest, error) {
	filter, err := stringField(in, FieldFilter)
	if err != nil {
		return ListRequest{}, err
	}
	pageSize, err := intField(in, FieldPageSize)
	if err != nil {
		return ListRequest{}, err
	}
	token, err := stringField(in, FieldPageToken)
	if err != nil {
		return ListRequest{}, err
	}
	return ListRequest{
		Filter:    filter,
		PageSize:  int32(max(math.MinInt32, min(pageSize, math.MaxInt32))),
		PageToken: token,
	}, nil
}

// ToStruct encodes the response.
func (r ListResponse) ToStruct() *structpb.Struct {
	items := make([]*structpb.Value, 0, len(r.Instances))
	for _, instance := range r.Instances {
		items = append(items, structpb.NewStructValue(InstanceToStruct(instance)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldInstances:     structpb.NewListValue(&structpb.ListValue{Values: items}),
		FieldNextPageToken: structpb.NewStringValue(r.NextPageToken),
	}}
}

// ListResponseFromStruct decodes a list response.
func ListResponseFromStruct(in *structpb.Struct) (ListResponse, error) {
	token, err := stringField(in, FieldNextPageToken)
	if err != nil {
		return ListResponse{}, err
	}
	resp := ListResponse{NextPageToken: token}
	value, ok := in.GetFields()[FieldInstances]
	if !ok {
		return resp, nil
	}
	list, ok := value.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return ListResponse{}, fmt.Errorf("%w: %s must be a list", ErrMalformedMessage, FieldInstances)
	}
	for _, item := range list.ListValue.GetValues() {
		itemStruct := item.GetStructValue()
		if itemStruct == nil {
			return ListResponse{}, fmt.Errorf("%w: %s entries must be objects", ErrMalformedMessage, FieldInstances)
		}
		instance, err := InstanceFromStruct(itemStruct)
		if err != nil {
			return ListResponse{}, err
		}
		resp.Instances = append(resp.Instances, instance)
	}
	return resp, nil
}

// NumbersToStruct wraps a float slice under key.
func NumbersToStruct(key string, values []float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{key: numberList(values)}}
}

// NumbersFromStruct reads the float slice stored under key.
func NumbersFromStruct(in *structpb.Struct, key string) ([]float64, error) {
	value, ok := in.GetFields()[key]
	if !ok {
		return []float64{}, nil
	}
	list, ok := value.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a list", ErrMalformedMessage, key)
	}
	values := make([]float64, 0, len(list.ListValue.GetValues()))
	for i, item := range list.ListValue.GetValues() {
		number, ok := item.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] must be a number", ErrMalformedMessage, key, i)
		}
		values = append(values, number.NumberValue)
	}
	return values, nil
}

// NumberToStruct wraps a single float under key.
func NumberToStruct(key string, value float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{key: structpb.NewNumberValue(value)}}
}

// NumberFromStruct reads the float stored under key.
func NumberFromStruct(in *structpb.Struct, key string) (float64, error) {
	value, ok := in.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrMalformedMessage, key)
	}
	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrMalformedMessage, key)
	}
	return number.NumberValue, nil
}

func numberList(values []float64) *structpb.Value {
	items := make([]*structpb.Value, len(values))
	for i, v := range values {
		items[i] = structpb.NewNumberValue(v)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: items})
}

// intField reads an integer given either as an integral number or as a
// decimal string. A missing field reads as zero.
func intField(in *structpb.Struct, key string) (int64, error) {
	value, ok := in.GetFields()[key]
	if !ok {
		return 0, nil
	}
	switch kind := value.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrMalformedMessage, key)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(strings.TrimSpace(kind.StringValue), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", ErrMalformedMessage, key)
		}
		return n, nil
	case *structpb.Value_NullValue:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", ErrMalformedMessage, key)
	}
}

func stringField(in *structpb.Struct, key string) (string, error) {
	value, ok := in.GetFields()[key]
	if !ok {
		return "", nil
	}
	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformedMessage, key)
	}
}

// int32Field reads an integer that must fit in 32 bits.
func int32Field(in *structpb.Struct, key string) (int, error) {
	n, err := intField(in, key)
	if err != nil {
		return 0, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s is out of range", ErrMalformedMessage, key)
	}
	return int(n), nil
}
