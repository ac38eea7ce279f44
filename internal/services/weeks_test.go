package services

import "testing"

func TestWeeksOfYear(t *testing.T) {
	cases := []struct {
		year      int
		weeks     int
		firstFrom string
		lastTo    string
	}{
		{2025, 52, "2024-12-30", "2025-12-28"},
		{2026, 53, "2025-12-29", "2027-01-03"},
		{2020, 53, "2019-12-30", "2021-01-03"},
	}
	for _, tc := range cases {
		got := WeeksOfYear(tc.year)
		if len(got) != tc.weeks {
			t.Fatalf("%d weeks: want=%d got=%d", tc.year, tc.weeks, len(got))
		}
		if got[0].Start != tc.firstFrom {
			t.Fatalf("%d week 1 start: want=%s got=%s", tc.year, tc.firstFrom, got[0].Start)
		}
		if last := got[len(got)-1]; last.End != tc.lastTo {
			t.Fatalf("%d last week end: want=%s got=%s", tc.year, tc.lastTo, last.End)
		}
	}
}

func TestWeeksOfYearMonthFollowsThursday(t *testing.T) {
	weeks := WeeksOfYear(2025)
	// week 1 starts in December 2024 but its Thursday is January 2nd
	if weeks[0].Month != 1 || weeks[0].Quarter != 1 {
		t.Fatalf("week 1: want=1/Q1 got=%d/Q%d", weeks[0].Month, weeks[0].Quarter)
	}
	// week 14 runs Mar 31 - Apr 6, Thursday April 3rd
	if weeks[13].Month != 4 || weeks[13].Quarter != 2 {
		t.Fatalf("week 14: want=4/Q2 got=%d/Q%d", weeks[13].Month, weeks[13].Quarter)
	}
	if last := weeks[len(weeks)-1]; last.Quarter != 4 {
		t.Fatalf("last week quarter: want=4 got=%d", last.Quarter)
	}
	for i, w := range weeks {
		if w.Week != i+1 {
			t.Fatalf("week numbering: want=%d got=%d", i+1, w.Week)
		}
	}
}
