package main

import "testing"

func TestProfileAddr(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"", ""},
		{"1", defaultProfileAddr},
		{"yes", defaultProfileAddr},
		{"127.0.0.1:7070", "127.0.0.1:7070"},
		{":9000", ":9000"},
	}
	for _, tt := range tests {
		if got := profileAddr(tt.env); got != tt.want {
			t.Errorf("profileAddr(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}
