package marionette

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-tap", "after-tap"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"special!@#", "special___"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotDisabled(t *testing.T) {
	h := newAppHarness(t, "Hiyori")
	h.app.Screenshot("ignored")
	if len(h.app.screenshotQueue) != 0 {
		t.Error("empty ScreenshotDir disables capture")
	}
}

func TestUnpremultiply(t *testing.T) {
	img := unpremultiply([]byte{
		64, 32, 0, 128,
		10, 20, 30, 255,
		0, 0, 0, 0,
	}, 3, 1)
	want := []byte{127, 63, 0, 128, 10, 20, 30, 255, 0, 0, 0, 0}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("Pix[%d] = %d, want %d", i, img.Pix[i], v)
		}
	}
}
