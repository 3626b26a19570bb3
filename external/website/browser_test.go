package website

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewBrowserCheckerMissingBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "no-such-chrome")

	c, err := NewBrowserChecker(bin, time.Second)
	if err == nil {
		c.Close()
		t.Fatal("expected an error for a missing browser binary")
	}
}

func TestFindChromeBinaryPrefersEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/chrome/chrome")

	if got := findChromeBinary(); got != "/opt/chrome/chrome" {
		t.Errorf("findChromeBinary() = %q; want /opt/chrome/chrome", got)
	}
}
