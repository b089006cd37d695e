package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		latest  string
		current string
		want    bool
	}{
		{"1.0.1", "1.0.0", true},
		{"1.1.0", "1.0.9", true},
		{"2.0.0", "1.9.9", true},
		{"v0.3.0", "0.2.7", true},
		{"1.0.0", "1.0.0", false},
		{"1.0.0", "1.0.1", false},
		{"0.2.7", "v0.3.0", false},
		{"dev", "dev", false},
		{"1.0.0", "dev", false},
		{"1.2.0-rc1", "1.1.9", true},
		{"1.2", "1.1.5", true},
	}

	for _, tc := range tests {
		t.Run(tc.latest+"_vs_"+tc.current, func(t *testing.T) {
			if got := isNewerVersion(tc.latest, tc.current); got != tc.want {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tc.latest, tc.current, got, tc.want)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want [3]int
		ok   bool
	}{
		{"v1.2.3", [3]int{1, 2, 3}, true},
		{"0.9", [3]int{0, 9, 0}, true},
		{"2.0.0+build7", [3]int{2, 0, 0}, true},
		{"dev", [3]int{}, false},
		{"", [3]int{}, false},
		{"1.2.3.4", [3]int{}, false},
	}
	for _, tc := range tests {
		got, ok := parseVersion(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseVersion(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCheckVersionSkipsDevBuilds(t *testing.T) {
	if checkVersion("dev") != nil {
		t.Error("expected nil cmd for dev build")
	}
	if checkVersion("") != nil {
		t.Error("expected nil cmd for empty version")
	}
}

func releaseServer(t *testing.T, status int, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(release{TagName: tag, Prerelease: strings.Contains(tag, "-")}) //nolint:errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckVersionAt(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		tag     string
		current string
		want    versionCheckMsg
	}{
		{"newer release", http.StatusOK, "v0.5.0", "0.4.2", versionCheckMsg{latestVersion: "v0.5.0", hasUpdate: true}},
		{"same release", http.StatusOK, "v0.4.2", "0.4.2", versionCheckMsg{}},
		{"older release", http.StatusOK, "v0.4.0", "0.4.2", versionCheckMsg{}},
		{"not found", http.StatusNotFound, "", "0.4.2", versionCheckMsg{}},
		{"prerelease skipped", http.StatusOK, "v0.5.0-beta", "0.4.2", versionCheckMsg{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := releaseServer(t, tc.status, tc.tag)
			msg := checkVersionAt(srv.URL, tc.current)()
			got, ok := msg.(versionCheckMsg)
			if !ok {
				t.Fatalf("msg = %T, want versionCheckMsg", msg)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCheckVersionAtUnreachable(t *testing.T) {
	msg := checkVersionAt("http://127.0.0.1:0", "0.1.0")()
	if got := msg.(versionCheckMsg); got.hasUpdate {
		t.Error("unreachable release server should not report an update")
	}
}
