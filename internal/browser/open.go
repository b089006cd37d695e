// Package browser opens help links in the user's default browser.
package browser

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsafeURL is returned for anything other than an absolute http(s) URL.
var ErrUnsafeURL = errors.New("browser: only http and https links can be opened")

// launch starts the platform opener. Replaced in tests.
var launch = defaultLaunch

func defaultLaunch(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open validates rawURL and hands it to the platform opener.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrUnsafeURL
	}
	name, args, err := opener(runtime.GOOS)
	if err != nil {
		return err
	}
	if err := launch(name, append(args, u.String())...); err != nil {
		return fmt.Errorf("browser.Open: %w", err)
	}
	return nil
}

func opener(goos string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", nil, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	default:
		return "", nil, fmt.Errorf("browser: unsupported OS %s", goos)
	}
}
