package main

import "testing"

func TestDescribe(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			in:   `{"type":"welcome","transport":"tcp","clients":2}`,
			want: "welcome over tcp (2 clients)",
		},
		{
			in:   `{"id":"e1","type":"plots.updated","revision":"abc","plot_ids":["A","B"],"at":"2026-01-02T03:04:05Z"}`,
			want: "2026-01-02T03:04:05Z plots updated: A,B (revision abc)",
		},
		{in: `not json`, want: "not json"},
		{in: `{"type":"something"}`, want: `{"type":"something"}`},
	}
	for _, tc := range cases {
		if got := describe([]byte(tc.in)); got != tc.want {
			t.Fatalf("describe(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
