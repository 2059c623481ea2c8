package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestSummary(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version = "1.2.3"
	GitCommit = ""
	BuildDate = ""
	if got := Summary(false); got != "strand 1.2.3" {
		t.Errorf("Summary = %q", got)
	}

	GitCommit = "1234567890abcdef1234567890abcdef12345678"
	BuildDate = "2024-01-15T10:30:00Z"
	want := "strand 1.2.3 (commit 1234567890ab, built 2024-01-15T10:30:00Z)"
	if got := Summary(false); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}

func TestColored(t *testing.T) {
	for _, v := range []string{"0.1.0", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "7"} {
		got := Colored(v)
		if !strings.Contains(got, "\x1b[") {
			t.Errorf("Colored(%q) has no escape codes: %q", v, got)
		}
		plain := stripANSI(got)
		if plain != v {
			t.Errorf("Colored(%q) stripped = %q", v, plain)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
