package utils

import "testing"

func TestFoldIdentity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Traoré", "traore"},
		{"TRAORE", "traore"},
		{"  Aïcha   Bintou ", "aicha bintou"},
		{"KONÉ", "kone"},
		{"m-2019/114", "m-2019/114"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FoldIdentity(tt.in); got != tt.want {
			t.Fatalf("FoldIdentity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
