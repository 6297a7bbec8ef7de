package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/codeblock/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "test", Date: "test"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version", Commit: "test-commit", Date: "test-date"})
	if cmd == nil {
		t.Fatal("NewRootCommand returned nil")
	}
	if cmd.Use != "codeblock" {
		t.Errorf("expected Use to be 'codeblock', got %q", cmd.Use)
	}
	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if !strings.Contains(cmd.Long, "CODEBLOCK_LANGUAGE") {
		t.Error("expected Long description to list environment variables")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"validate", "diff", "repair", "tokenize", "example", "edit", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Errorf("expected subcommand %q to exist, got error: %v", name, err)
			continue
		}
		if subCmd.Name() != name {
			t.Errorf("expected subcommand name %q, got %q", name, subCmd.Name())
		}
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"validate": {"schema", "language", "format", "ignore", "strict", "jobs", "no-context", "compact"},
		"diff":     {"language", "context", "no-fold", "wire", "unified"},
		"repair":   {"language", "write", "clipboard", "copy", "force"},
		"tokenize": {"language", "classes"},
		"example":  {"schema", "language"},
		"edit":     {"language", "schema", "log-file"},
		"init":     {"force", "output"},
	}

	cmd := cli.NewRootCommand(testInfo())
	for name, flags := range tests {
		sub, _, err := cmd.Find([]string{name})
		if err != nil {
			t.Fatalf("%s command not found: %v", name, err)
		}
		for _, flag := range flags {
			if sub.Flags().Lookup(flag) == nil {
				t.Errorf("expected %s flag --%s to exist", name, flag)
			}
		}
	}

	for _, flag := range []string{"debug", "config", "color"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag --%s to exist", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "1.2.3") {
		t.Errorf("expected version in output, got %q", stdout.String())
	}
}

func TestHelpIsStyled(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"validate", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"Usage:", "Examples:", "Flags:", "--schema", "Global Flags:"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "plain error", err: errors.New("boom"), want: cli.ExitInternalError},
		{name: "coded", err: &cli.ExitError{Code: cli.ExitIOError, Err: os.ErrNotExist}, want: cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := cli.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.yml")

	run := func(args ...string) error {
		cmd := cli.NewRootCommand(testInfo())
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"init", "--output", path}, args...))
		return cmd.Execute()
	}

	if err := run(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(content), "spaces_per_tab: 2") {
		t.Errorf("unexpected template:\n%s", content)
	}

	if err := run(); cli.ExitCode(err) != cli.ExitInvalidUsage {
		t.Errorf("second init exit code = %d, want %d (err %v)", cli.ExitCode(err), cli.ExitInvalidUsage, err)
	}
	if err := run("--force"); err != nil {
		t.Errorf("forced init failed: %v", err)
	}
}

func TestVersionCommand_Variants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"short", []string{"version", "--short"}, "1.2.3\n"},
		{"json", []string{"version", "--json"}, "\"commit\": \"abc\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(cli.BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
			var stdout bytes.Buffer
			cmd.SetOut(&stdout)
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err != nil {
				t.Fatalf("version failed: %v", err)
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", stdout.String(), tt.want)
			}
		})
	}
}
