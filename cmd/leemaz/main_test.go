package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/leemaz/leemaz/internal/session"
	"github.com/leemaz/leemaz/internal/store"
	"github.com/leemaz/leemaz/pkg/client"
	"github.com/leemaz/leemaz/pkg/domain"
)

// unreachable has nothing listening, so every API call fails fast.
const unreachable = "http://127.0.0.1:1"

func setHome(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LEEMAZ_HOME", dir)
	t.Setenv("LEEMAZ_API_URL", apiURL)
	return dir
}

// execute runs the CLI with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "leemaz dev" {
		t.Errorf("version output = %q", out)
	}
}

func TestDemoSessionLifecycle(t *testing.T) {
	setHome(t, unreachable)

	out, err := execute(t, "", "whoami")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Fatalf("whoami before login = %q", out)
	}

	out, err = execute(t, "", "login", "--email", "demo@leemaz.com", "--password", "demo123")
	if err != nil {
		t.Fatalf("demo login: %v", err)
	}
	if !strings.Contains(out, "Demo User") || !strings.Contains(out, "demo account") {
		t.Errorf("login output = %q", out)
	}

	out, err = execute(t, "", "whoami")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "demo@leemaz.com") {
		t.Errorf("whoami after login = %q", out)
	}

	out, _ = execute(t, "", "logout")
	if strings.TrimSpace(out) != "Logged out." {
		t.Errorf("logout = %q", out)
	}
	out, _ = execute(t, "", "logout")
	if strings.TrimSpace(out) != "Already logged out." {
		t.Errorf("second logout = %q", out)
	}
}

func TestEphemeralLoginLeavesDataDirAlone(t *testing.T) {
	dir := setHome(t, unreachable)

	out, err := execute(t, "", "--ephemeral", "login", "--email", "demo@leemaz.com", "--password", "demo123")
	if err != nil {
		t.Fatalf("demo login: %v", err)
	}
	if !strings.Contains(out, "Demo User") {
		t.Errorf("login output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, store.KeyAuthToken)); !os.IsNotExist(err) {
		t.Errorf("token written to data dir: %v", err)
	}

	out, err = execute(t, "", "whoami")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Errorf("whoami after ephemeral login = %q", out)
	}
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	setHome(t, unreachable)
	out, err := execute(t, "demo@leemaz.com\ndemo123\n", "login")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Email: ") || !strings.Contains(out, "Password: ") {
		t.Errorf("expected prompts, got %q", out)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"}) //nolint:errcheck
	}))
	defer srv.Close()
	setHome(t, srv.URL)

	_, err := execute(t, "", "login", "--email", "rania@example.com", "--password", "wrong")
	if err == nil {
		t.Fatal("expected login error")
	}
	if !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("error = %v", err)
	}
}

func TestLoginEmptyPromptFails(t *testing.T) {
	setHome(t, unreachable)
	if _, err := execute(t, "\n", "login"); err == nil || !strings.Contains(err.Error(), "email is required") {
		t.Errorf("err = %v", err)
	}
}

func TestRegisterAndVerify(t *testing.T) {
	var (
		mu       sync.Mutex
		got      client.RegisterRequest
		verified map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/api/auth/register":
			json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
		case "/api/auth/verify-email":
			json.NewDecoder(r.Body).Decode(&verified) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"}) //nolint:errcheck
	}))
	defer srv.Close()
	setHome(t, srv.URL)

	out, err := execute(t, "Hala K\nhala@example.com\nsecret\n", "register", "--role", "seller", "--language", "ar")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out, "leemaz verify --email hala@example.com") {
		t.Errorf("register output = %q", out)
	}
	mu.Lock()
	want := client.RegisterRequest{Email: "hala@example.com", Password: "secret", FullName: "Hala K", UserType: domain.RoleSeller, Language: domain.LangArabic}
	if got != want {
		t.Errorf("register payload = %+v, want %+v", got, want)
	}
	mu.Unlock()

	out, err = execute(t, "", "verify", "--email", "hala@example.com", "--code", "123456")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "100 credits") {
		t.Errorf("verify output = %q", out)
	}
	mu.Lock()
	defer mu.Unlock()
	if verified["email"] != "hala@example.com" || verified["code"] != "123456" {
		t.Errorf("verify payload = %v", verified)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	setHome(t, unreachable)
	_, err := execute(t, "", "register", "--email", "x@y.z", "--password", "p", "--name", "X", "--role", "admin")
	if err == nil || !strings.Contains(err.Error(), "buyer or seller") {
		t.Errorf("err = %v", err)
	}
}

func TestRegisterRejectsUnknownLanguage(t *testing.T) {
	setHome(t, unreachable)
	_, err := execute(t, "", "register", "--email", "x@y.z", "--password", "p", "--name", "X", "--language", "fr")
	if err == nil || !strings.Contains(err.Error(), "en or ar") {
		t.Errorf("err = %v", err)
	}
}

func TestOpenRejectsUnknownPage(t *testing.T) {
	if _, err := execute(t, "", "open", "faq"); err == nil {
		t.Error("expected an error for an unknown page")
	}
	if _, err := execute(t, "", "open"); err == nil {
		t.Error("expected an error without a page")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	setHome(t, "ftp://nope")
	if _, err := execute(t, "", "whoami"); err == nil {
		t.Error("invalid api url should fail before running the command")
	}
}

func TestOriginNote(t *testing.T) {
	if originNote(session.OriginNone) != "" || originNote(session.OriginRemote) != "" {
		t.Error("remote sessions need no note")
	}
	for _, o := range []session.Origin{session.OriginDemo, session.OriginCache, session.OriginOffline} {
		if originNote(o) == "" {
			t.Errorf("origin %s should carry a note", o)
		}
	}
}

func TestWhoamiReportsServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	setHome(t, srv.URL)
	out, err := execute(t, "", "whoami")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Server: "+srv.URL+" (reachable)") {
		t.Errorf("whoami = %q", out)
	}

	setHome(t, unreachable)
	out, _ = execute(t, "", "whoami")
	if !strings.Contains(out, "(unreachable)") {
		t.Errorf("whoami = %q", out)
	}
}

func TestConfigSetAndShow(t *testing.T) {
	dir := setHome(t, unreachable)

	out, err := execute(t, "", "config", "set", "login_timeout", "9s")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "login_timeout = 9s" {
		t.Errorf("set = %q", out)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), unreachable) {
		t.Error("environment overrides must not be written to config.yaml")
	}

	out, err = execute(t, "", "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"data_dir", dir, "login_timeout      9s", "api_url            " + unreachable} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigSetRejectsBadValue(t *testing.T) {
	dir := setHome(t, unreachable)
	if _, err := execute(t, "", "config", "set", "log_level", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := execute(t, "", "config", "set", "colour", "pink"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); !os.IsNotExist(err) {
		t.Error("rejected values must not create config.yaml")
	}
}
