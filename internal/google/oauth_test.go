package google

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetAuthURL_RequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	if _, err := GetAuthURL(); err == nil {
		t.Error("expected error when client credentials are not set")
	}
}

func TestGetAuthURL(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")

	url, err := GetAuthURL()
	if err != nil {
		t.Fatalf("GetAuthURL: %v", err)
	}
	if !strings.Contains(url, "test-client-id") {
		t.Errorf("auth URL %q does not contain the client id", url)
	}
	if !strings.Contains(url, "calendar") {
		t.Errorf("auth URL %q does not request the calendar scope", url)
	}
}

func TestGetTokenSource_NoToken(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, err := GetTokenSource(context.Background()); err == nil {
		t.Error("expected error when no token file exists")
	}
}

func TestHasToken_NoToken(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if HasToken() {
		t.Error("HasToken should be false with an empty cache dir")
	}
}

func TestTokenFilePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	want := filepath.Join(dir, "calbot", "google.token")
	if got := tokenFile(); got != want {
		t.Errorf("tokenFile() = %q, want %q", got, want)
	}
}
