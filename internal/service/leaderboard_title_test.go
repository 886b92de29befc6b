package service

import "testing"

func TestRankTitle(t *testing.T) {
	cases := []struct {
		rank     int
		earnings float64
		want     string
	}{
		{1, 0, "Porcelain Emperor"},
		{2, 0, "Flush Master"},
		{3, 0, "Toilet Titan"},
		{4, 0, "Bathroom Baron"},
		{10, 0, "Bathroom Baron"},
		{11, 0, "Restroom Royalty"},
		{25, 0, "Restroom Royalty"},
		{26, 0, "Loo Legend"},
		{50, 0, "Loo Legend"},
		{51, 250, "Poop Prodigy"},
		{51, 60, "Toilet Trainee"},
		{51, 10, "Bathroom Beginner"},
	}

	for _, tc := range cases {
		title, icon := rankTitle(tc.rank, tc.earnings)
		if title != tc.want {
			t.Errorf("rank %d earnings %v: got %q, want %q", tc.rank, tc.earnings, title, tc.want)
		}
		if icon == "" {
			t.Errorf("rank %d: missing icon", tc.rank)
		}
	}
}
