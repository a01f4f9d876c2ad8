package util

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"30MB", 30 << 20, false},
		{"25600KB", 25 << 20, false},
		{"2gb", 2 << 30, false},
		{" 10 MB ", 10 << 20, false},
		{"512B", 512, false},
		{"1024", 1024, false},
		{"", 0, true},
		{"MB", 0, true},
		{"-1MB", 0, true},
		{"1.5MB", 0, true},
		{"ten", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseSize(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestSizeOr(t *testing.T) {
	if got := SizeOr("", 42); got != 42 {
		t.Errorf("expected fallback for empty, got %d", got)
	}
	if got := SizeOr("0", 42); got != 42 {
		t.Errorf("expected fallback for zero, got %d", got)
	}
	if got := SizeOr("1KB", 42); got != 1024 {
		t.Errorf("expected 1024, got %d", got)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in      string
		visible int
		want    string
	}{
		{"gsk_live_0123456789", 4, "gsk_***"},
		{"abcd", 4, "***"},
		{"", 4, "***"},
		{"postgres://voicekit:pw@db/voicekit", 11, "postgres://***"},
	}
	for _, tc := range tests {
		if got := MaskSecret(tc.in, tc.visible); got != tc.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tc.in, tc.visible, got, tc.want)
		}
	}
}

func TestPointers(t *testing.T) {
	app := Ptr("slack")
	if *app != "slack" {
		t.Errorf("expected slack, got %q", *app)
	}
	*app = "mail"
	if Deref(app) != "mail" {
		t.Error("Ptr must return an addressable copy")
	}
	var none *string
	if Deref(none) != "" {
		t.Error("expected zero value for nil")
	}
	if Deref((*int)(nil)) != 0 {
		t.Error("expected zero int for nil")
	}
}
