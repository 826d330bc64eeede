package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 25, Max: 100}
	tcs := []struct {
		in   int32
		cfg  PageSizeConfig
		want int
	}{
		{in: 0, cfg: cfg, want: 25},
		{in: -4, cfg: cfg, want: 25},
		{in: 40, cfg: cfg, want: 40},
		{in: 500, cfg: cfg, want: 100},
		{in: 0, cfg: PageSizeConfig{}, want: 1},
		{in: 500, cfg: PageSizeConfig{Default: 10}, want: 500},
	}
	for _, tc := range tcs {
		if got := ClampPageSize(tc.in, tc.cfg); got != tc.want {
			t.Fatalf("ClampPageSize(%d, %+v) = %d, want %d", tc.in, tc.cfg, got, tc.want)
		}
	}
}
