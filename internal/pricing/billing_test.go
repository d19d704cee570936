package pricing

import "testing"

func TestBillableMinutes(t *testing.T) {
	cases := map[int]int{
		-5:  0,
		0:   0,
		1:   1,
		60:  1,
		61:  2,
		120: 2,
		150: 3,
	}
	for in, want := range cases {
		if got := BillableMinutes(in); got != want {
			t.Fatalf("BillableMinutes(%d): expected %d, got %d", in, want, got)
		}
	}
}
