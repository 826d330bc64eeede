package suite

import (
	"errors"
	"slices"
	"testing"

	"github.com/louisbranch/benchseed/internal/legacyrand"
)

func TestLookup(t *testing.T) {
	def, err := Lookup(" BBOB ")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if def.Name != BBOB {
		t.Fatalf("name = %q, want %q", def.Name, BBOB)
	}
	if len(def.Functions) != 24 {
		t.Fatalf("functions = %d, want 24", len(def.Functions))
	}
	if !slices.Equal(def.Dimensions, []int{2, 3, 5, 10, 20, 40}) {
		t.Fatalf("dimensions = %v", def.Dimensions)
	}

	if _, err := Lookup("cec2005"); !errors.Is(err, ErrUnknownSuite) {
		t.Fatalf("Lookup error = %v, want %v", err, ErrUnknownSuite)
	}
}

func TestNames(t *testing.T) {
	if got, want := Names(), []Name{BBOB, Toy}; !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	toy, err := Lookup(Toy)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}

	tcs := []struct {
		name      string
		function  int
		instance  int
		dimension int
		want      error
	}{
		{name: "valid", function: 6, instance: 1, dimension: 40},
		{name: "function outside", function: 7, instance: 1, dimension: 2, want: ErrUnknownFunction},
		{name: "instance outside", function: 1, instance: 2, dimension: 2, want: ErrUnknownInstance},
		{name: "dimension too large", function: 1, instance: 1, dimension: 41, want: legacyrand.ErrInvalidDimension},
		{name: "dimension zero", function: 1, instance: 1, dimension: 0, want: legacyrand.ErrInvalidDimension},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := toy.Validate(tc.function, tc.instance, tc.dimension)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestInstancesByYear(t *testing.T) {
	tcs := []struct {
		year int
		want []int
	}{
		{year: 2009, want: []int{1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 1, 2, 3, 4, 5}},
		{year: 2010, want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{year: 2012, want: []int{1, 2, 3, 4, 5, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30}},
		{year: 2018, want: []int{1, 2, 3, 4, 5, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80}},
	}
	for _, tc := range tcs {
		got, err := InstancesByYear(tc.year)
		if err != nil {
			t.Fatalf("InstancesByYear(%d) returned error: %v", tc.year, err)
		}
		if !slices.Equal(got, tc.want) {
			t.Fatalf("InstancesByYear(%d) = %v, want %v", tc.year, got, tc.want)
		}
	}

	if _, err := InstancesByYear(2011); !errors.Is(err, ErrUnknownYear) {
		t.Fatalf("InstancesByYear(2011) error = %v, want %v", err, ErrUnknownYear)
	}
}

func TestYears(t *testing.T) {
	want := []int{2009, 2010, 2012, 2013, 2015, 2016, 2017, 2018}
	if got := Years(); !slices.Equal(got, want) {
		t.Fatalf("Years() = %v, want %v", got, want)
	}
}
