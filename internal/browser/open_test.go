package browser

import (
	"errors"
	"runtime"
	"testing"
)

func TestOpenRejectsUnsafeURLs(t *testing.T) {
	called := false
	launch = func(string, ...string) error { called = true; return nil }
	t.Cleanup(func() { launch = defaultLaunch })

	for _, raw := range []string{"", "leemaz.com", "file:///etc/passwd", "javascript:alert(1)", "https://"} {
		if err := Open(raw); !errors.Is(err, ErrUnsafeURL) {
			t.Errorf("Open(%q) = %v, want ErrUnsafeURL", raw, err)
		}
	}
	if called {
		t.Error("launcher should not run for rejected URLs")
	}
}

func TestOpenPassesURLLast(t *testing.T) {
	if _, _, err := opener(runtime.GOOS); err != nil {
		t.Skip("no opener on this platform")
	}
	var got []string
	launch = func(name string, args ...string) error {
		got = append([]string{name}, args...)
		return nil
	}
	t.Cleanup(func() { launch = defaultLaunch })

	if err := Open("https://leemaz.com/terms"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(got) < 2 || got[len(got)-1] != "https://leemaz.com/terms" {
		t.Errorf("launch args = %v", got)
	}
}

func TestOpenWrapsLaunchError(t *testing.T) {
	if _, _, err := opener(runtime.GOOS); err != nil {
		t.Skip("no opener on this platform")
	}
	boom := errors.New("boom")
	launch = func(string, ...string) error { return boom }
	t.Cleanup(func() { launch = defaultLaunch })

	if err := Open("https://leemaz.com"); !errors.Is(err, boom) {
		t.Errorf("Open error = %v, want wrapped boom", err)
	}
}

func TestOpener(t *testing.T) {
	tests := []struct {
		goos string
		name string
		ok   bool
	}{
		{"darwin", "open", true},
		{"linux", "xdg-open", true},
		{"windows", "rundll32", true},
		{"plan9", "", false},
	}
	for _, tc := range tests {
		name, _, err := opener(tc.goos)
		if (err == nil) != tc.ok || name != tc.name {
			t.Errorf("opener(%q) = %q, %v", tc.goos, name, err)
		}
	}
}
