package terminal

import "testing"

func TestFitsGrid(t *testing.T) {
	cases := []struct {
		w, h, cols, rows, reserved int
		want                       bool
	}{
		{80, 24, 80, 18, 6, true},
		{80, 24, 81, 10, 6, false},
		{80, 24, 40, 19, 6, false},
		{80, 24, 0, 0, 24, true},
	}
	for _, tc := range cases {
		if got := FitsGrid(tc.w, tc.h, tc.cols, tc.rows, tc.reserved); got != tc.want {
			t.Errorf("FitsGrid(%d, %d, %d, %d, %d) = %v, want %v",
				tc.w, tc.h, tc.cols, tc.rows, tc.reserved, got, tc.want)
		}
	}
}
