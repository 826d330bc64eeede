package instances

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/louisbranch/benchseed/internal/legacyrand"
	apperrors "github.com/louisbranch/benchseed/internal/platform/errors"
	errori18n "github.com/louisbranch/benchseed/internal/platform/errors/i18n"
	"github.com/louisbranch/benchseed/internal/services/instances/engine"
	"github.com/louisbranch/benchseed/internal/services/instances/filter"
	"github.com/louisbranch/benchseed/internal/services/instances/storage"
	"github.com/louisbranch/benchseed/internal/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// LocaleMetadataKey selects the locale of LocalizedMessage error details.
const LocaleMetadataKey = "x-benchseed-locale"

var errorCodes = []struct {
	target   error
	code     apperrors.Code
	metadata map[string]string
}{
	{target: legacyrand.ErrInvalidCount, code: apperrors.CodeInvalidCount},
	{target: legacyrand.ErrGaussianCapacity, code: apperrors.CodeGaussianCapacity,
		metadata: map[string]string{"Max": strconv.Itoa(legacyrand.MaxGaussianCount)}},
	{target: legacyrand.ErrInvalidDimension, code: apperrors.CodeInvalidDimension,
		metadata: map[string]string{"Max": strconv.Itoa(legacyrand.MaxDimension)}},
	{target: legacyrand.ErrInvalidIdentifier, code: apperrors.CodeInvalidIdentifier},
	{target: engine.ErrCountTooLarge, code: apperrors.CodeCountTooLarge,
		metadata: map[string]string{"Max": strconv.Itoa(engine.MaxUniformCount)}},
	{target: suite.ErrUnknownSuite, code: apperrors.CodeUnknownSuite},
	{target: suite.ErrUnknownFunction, code: apperrors.CodeUnknownFunction},
	{target: suite.ErrUnknownInstance, code: apperrors.CodeUnknownInstance},
	{target: filter.ErrInvalidFilter, code: apperrors.CodeInvalidFilter},
	{target: ErrMalformedMessage, code: apperrors.CodeMalformedRequest},
	{target: storage.ErrNotFound, code: apperrors.CodeInstanceNotFound},
	{target: storage.ErrAlreadyExists, code: apperrors.CodeInstanceDuplicated},
	{target: engine.ErrStoreUnavailable, code: apperrors.CodeStoreUnavailable},
}

// statusError maps domain errors onto gRPC statuses with ErrorInfo and
// LocalizedMessage details.
func statusError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	domainErr := apperrors.Wrap(apperrors.CodeUnknown, err.Error(), err)
	for _, entry := range errorCodes {
		if errors.Is(err, entry.target) {
			domainErr.Code = entry.code
			domainErr.Metadata = entry.metadata
			break
		}
	}
	catalog := errori18n.GetCatalog(requestLocale(ctx))
	return domainErr.ToGRPCStatus(catalog.Locale(), catalog.Format(string(domainErr.Code), domainErr.Metadata))
}

func requestLocale(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(LocaleMetadataKey); len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}
