// Package errors provides coded domain errors with localized gRPC details.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Generator errors
	CodeInvalidCount       Code = "INVALID_COUNT"
	CodeCountTooLarge      Code = "COUNT_TOO_LARGE"
	CodeGaussianCapacity   Code = "GAUSSIAN_CAPACITY"
	CodeInvalidDimension   Code = "INVALID_DIMENSION"
	CodeInvalidIdentifier  Code = "INVALID_IDENTIFIER"
	CodeMalformedRequest   Code = "MALFORMED_REQUEST"
	CodeInvalidFilter      Code = "INVALID_FILTER"
	CodeUnknownSuite       Code = "UNKNOWN_SUITE"
	CodeUnknownFunction    Code = "UNKNOWN_FUNCTION"
	CodeUnknownInstance    Code = "UNKNOWN_INSTANCE"
	CodeStoreUnavailable   Code = "STORE_UNAVAILABLE"
	CodeInstanceNotFound   Code = "INSTANCE_NOT_FOUND"
	CodeInstanceDuplicated Code = "INSTANCE_DUPLICATED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeInvalidCount,
		CodeCountTooLarge,
		CodeGaussianCapacity,
		CodeInvalidDimension,
		CodeInvalidIdentifier,
		CodeMalformedRequest,
		CodeInvalidFilter,
		CodeUnknownSuite,
		CodeUnknownFunction,
		CodeUnknownInstance:
		return codes.InvalidArgument

	case CodeStoreUnavailable:
		return codes.FailedPrecondition

	case CodeInstanceNotFound:
		return codes.NotFound

	case CodeInstanceDuplicated:
		return codes.AlreadyExists

	default:
		return codes.Internal
	}
}
