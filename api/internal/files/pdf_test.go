package files

import "testing"

func TestPlanChunks(t *testing.T) {
	cases := []struct {
		pages, per int
		want       []PageRange
	}{
		{25, 10, []PageRange{{1, 10}, {11, 20}, {21, 25}}},
		{10, 10, []PageRange{{1, 10}}},
		{3, 10, []PageRange{{1, 3}}},
		{0, 10, nil},
		{5, 0, []PageRange{{1, 5}}}, // zero falls back to the default chunk size
	}
	for _, c := range cases {
		got := PlanChunks(c.pages, c.per)
		if len(got) != len(c.want) {
			t.Fatalf("PlanChunks(%d, %d) = %v, want %v", c.pages, c.per, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("PlanChunks(%d, %d)[%d] = %v, want %v", c.pages, c.per, i, got[i], c.want[i])
			}
		}
	}
}
