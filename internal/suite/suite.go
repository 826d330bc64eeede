// Package suite describes the BBOB benchmark suites whose instances are
// constructed from the legacy random generator.
package suite

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/benchseed/internal/legacyrand"
)

// Name identifies a benchmark suite.
type Name string

const (
	// BBOB is the 24-function noiseless suite.
	BBOB Name = "bbob"
	// Toy is the six-function suite with a single instance. Its problems
	// are untransformed: the optimum is not shifted and carries no offset.
	Toy Name = "toy"
)

var (
	// ErrUnknownSuite indicates a suite name that is not registered.
	ErrUnknownSuite = errors.New("unknown suite")
	// ErrUnknownFunction indicates a function id outside the suite.
	ErrUnknownFunction = errors.New("function is not part of the suite")
	// ErrUnknownInstance indicates an instance id outside the suite.
	ErrUnknownInstance = errors.New("instance is not part of the suite")
	// ErrUnknownYear indicates a year without a published instance set.
	ErrUnknownYear = errors.New("no instances published for year")
)

// Definition lists the functions, instances, and dimensions of a suite.
type Definition struct {
	Name       Name
	Functions  []int
	Instances  []int
	Dimensions []int
	// Transformed reports whether instances shift the optimum and the
	// objective value with seeded XOpt and FOpt.
	Transformed bool
}

// Dimensions used by every legacy suite.
var Dimensions = []int{2, 3, 5, 10, 20, 40}

var definitions = map[Name]Definition{
	BBOB: {
		Name:        BBOB,
		Functions:   sequence(1, 24),
		Instances:   sequence(1, 80),
		Dimensions:  Dimensions,
		Transformed: true,
	},
	Toy: {
		Name:       Toy,
		Functions:  sequence(1, 6),
		Instances:  []int{1},
		Dimensions: Dimensions,
	},
}

// Lookup returns the definition registered under name.
func Lookup(name Name) (Definition, error) {
	def, ok := definitions[Name(strings.ToLower(strings.TrimSpace(string(name))))]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownSuite, name)
	}
	return def, nil
}

// Names returns the registered suite names in sorted order.
func Names() []Name {
	names := make([]Name, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate reports whether function, instance, and dimension belong to def.
func (d Definition) Validate(function, instance, dimension int) error {
	if !slices.Contains(d.Functions, function) {
		return fmt.Errorf("%w: %s f%d", ErrUnknownFunction, d.Name, function)
	}
	if !slices.Contains(d.Instances, instance) {
		return fmt.Errorf("%w: %s i%d", ErrUnknownInstance, d.Name, instance)
	}
	if dimension < 1 || dimension > legacyrand.MaxDimension {
		return legacyrand.ErrInvalidDimension
	}
	return nil
}

// instanceRanges lists the instance ids of each yearly workshop setup.
var instanceRanges = map[int][][2]int{
	2009: {{1, 5}, {1, 5}, {1, 5}},
	2010: {{1, 15}},
	2012: {{1, 5}, {21, 30}},
	2013: {{1, 5}, {31, 40}},
	2015: {{1, 5}, {41, 50}},
	2016: {{1, 5}, {51, 60}},
	2017: {{1, 5}, {61, 70}},
	2018: {{1, 5}, {71, 80}},
}

// InstancesByYear returns the instance ids used by the given year's setup.
// The 2009 setup repeats instances 1 to 5 three times.
func InstancesByYear(year int) ([]int, error) {
	ranges, ok := instanceRanges[year]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownYear, year)
	}
	var instances []int
	for _, r := range ranges {
		instances = append(instances, sequence(r[0], r[1])...)
	}
	return instances, nil
}

// Years returns the years with a published instance set, ascending.
func Years() []int {
	years := make([]int, 0, len(instanceRanges))
	for year := range instanceRanges {
		years = append(years, year)
	}
	slices.Sort(years)
	return years
}

func sequence(from, to int) []int {
	values := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		values = append(values, i)
	}
	return values
}
