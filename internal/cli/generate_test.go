package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/tokenlogo/pkg/config"
	"github.com/matzehuels/tokenlogo/pkg/logo"
)

// newTestCLI returns a CLI with a silent logger and a file cache under a
// temporary directory.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.Config.Cache.Backend = config.CacheFile
	c.Config.Cache.Dir = t.TempDir()
	return c
}

func testContext(c *CLI) context.Context {
	return withLogger(context.Background(), c.Logger)
}

func TestDefaultOutputName(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"NOVA", "nova.png"},
		{"sFLR", "sflr.png"},
		{"A/B", "a-b.png"},
		{"$PEPE", "pepe.png"},
		{"Ω1", "ω1.png"},
		{"***", "logo.png"},
		{"", "logo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			if got := defaultOutputName(tt.symbol); got != tt.want {
				t.Errorf("defaultOutputName(%q) = %q, want %q", tt.symbol, got, tt.want)
			}
		})
	}
}

func TestRunGenerate(t *testing.T) {
	c := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "nova.png")

	err := c.runGenerate(testContext(c), "Nova", "NOVA", generateOpts{output: out, quiet: true})
	if err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want, err := logo.Generate("Nova", "NOVA")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Error("written file differs from logo.Generate output")
	}

	entries, err := os.ReadDir(c.Config.Cache.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Error("expected the logo to be cached")
	}
}

func TestRunGenerateNoCache(t *testing.T) {
	c := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "x.png")

	if err := c.runGenerate(testContext(c), "Nova", "NOVA", generateOpts{output: out, noCache: true, quiet: true}); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}
	entries, _ := os.ReadDir(c.Config.Cache.Dir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries with --no-cache, want 0", len(entries))
	}
}

func TestRunGenerateInvalid(t *testing.T) {
	c := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "x.png")

	if err := c.runGenerate(testContext(c), "", "NOVA", generateOpts{output: out, quiet: true}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written for invalid input")
	}
}

func TestRunGeneratePersistRequiresStore(t *testing.T) {
	c := newTestCLI(t)
	err := c.runGenerate(testContext(c), "Nova", "NOVA", generateOpts{persist: true, quiet: true})
	if err == nil {
		t.Fatal("expected error for --persist without a MongoDB URI")
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"generate", "inspect", "preview", "serve", "banners", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
