// Package storage defines persistence contracts for built benchmark instances.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/benchseed/internal/suite"
)

var (
	// ErrNotFound indicates a requested instance record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates an instance with the same spec is stored.
	ErrAlreadyExists = errors.New("record already exists")
)

// InstanceRecord stores the randomized parameters of one problem instance.
type InstanceRecord struct {
	Spec        suite.Spec
	OptimumSeed int64
	XOpt        []float64
	FOpt        float64
	CreatedAt   time.Time
}

// RecordFromInstance converts a built instance into a storable record.
func RecordFromInstance(instance suite.Instance, createdAt time.Time) InstanceRecord {
	return InstanceRecord{
		Spec:        instance.Spec,
		OptimumSeed: instance.OptimumSeed,
		XOpt:        instance.XOpt,
		FOpt:        instance.FOpt,
		CreatedAt:   createdAt,
	}
}

// Instance converts the record back into a suite instance.
func (r InstanceRecord) Instance() suite.Instance {
	return suite.Instance{
		Spec:        r.Spec,
		OptimumSeed: r.OptimumSeed,
		XOpt:        r.XOpt,
		FOpt:        r.FOpt,
	}
}

// ListRequest selects one page of instance records.
type ListRequest struct {
	// Filter is an AIP-160 expression over suite, function, instance, and
	// dimension. Empty matches every record.
	Filter    string
	PageSize  int
	PageToken string
}

// InstancePage stores one page of instance records.
type InstancePage struct {
	Instances     []InstanceRecord
	NextPageToken string
}

// InstanceStore persists built instance records.
type InstanceStore interface {
	PutInstance(ctx context.Context, record InstanceRecord) error
	GetInstance(ctx context.Context, spec suite.Spec) (InstanceRecord, error)
	ListInstances(ctx context.Context, req ListRequest) (InstancePage, error)
}
