package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"contactbook/internal/config"
	"contactbook/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	t.Setenv("HOME", filepath.Join(testsupport.BaseDir(cfg), "home"))
	configPath := filepath.Join(testsupport.BaseDir(cfg), "contactbook.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nimport_dir = %q\nexport_dir = %q\nlog_dir = %q\n\n[store]\nbackend = %q\n\n[import]\nduplicate_policy = %q\n\n[metrics]\ntextfile_path = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.ImportDir,
		cfg.Paths.ExportDir,
		cfg.Paths.LogDir,
		cfg.Store.Backend,
		cfg.Import.DuplicatePolicy,
		cfg.Metrics.TextfilePath,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(append([]string{"--config", env.configPath}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, stderr, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("%v: %v (stderr %q)", args, err, stderr)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func listContacts(t *testing.T, env *cliTestEnv) []contactView {
	t.Helper()
	out := mustRunCLI(t, env, "list", "--format", "json")
	var views []contactView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode list output %q: %v", out, err)
	}
	return views
}

func TestAddFindAndListScenario(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			env := setupCLITestEnv(t, testsupport.WithBackend(backend))

			out := mustRunCLI(t, env, "add", "--name", "john", "--attr", "org=wikipedia")
			requireContains(t, out, "Added contact")

			out = mustRunCLI(t, env, "add", "--name", "john", "--telephone", "911")
			requireContains(t, out, "Merged into contact")

			out = mustRunCLI(t, env, "find", "--name", "john", "--format", "json")
			var found contactView
			if err := json.Unmarshal([]byte(out), &found); err != nil {
				t.Fatalf("decode find output: %v", err)
			}
			if got := found.Attributes["telephone"]; len(got) != 1 || got[0] != "911" {
				t.Fatalf("telephone = %v, want [911]", got)
			}
			if got := found.Attributes["organization"]; len(got) != 1 || got[0] != "wikipedia" {
				t.Fatalf("organization = %v, want [wikipedia]", got)
			}

			mustRunCLI(t, env, "add", "--name", "John", "--telephone", "911", "--no-merge")
			if views := listContacts(t, env); len(views) != 2 {
				t.Fatalf("expected 2 contacts, got %d", len(views))
			}
		})
	}
}

func TestFindWithoutMatch(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "find", "--name", "nobody")
	requireContains(t, out, "No matching contact")
}

func TestAddRequiresAttributes(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "add"); err == nil {
		t.Fatal("expected error without attributes")
	}
	if _, _, err := runCLI(t, env, "add", "--attr", "nonsense"); err == nil {
		t.Fatal("expected error for malformed --attr")
	}
}

func TestShowByPrefixAndFormats(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "add", "--name", "Ada Lovelace", "--email", "ada@example.com")
	views := listContacts(t, env)
	if len(views) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(views))
	}

	out := mustRunCLI(t, env, "show", views[0].ID[:8])
	requireContains(t, out, "Ada Lovelace")
	requireContains(t, out, "ada@example.com")

	out = mustRunCLI(t, env, "show", views[0].ID, "--format", "yaml")
	var view contactView
	if err := yaml.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if view.ID != views[0].ID {
		t.Fatalf("yaml id %q, want %q", view.ID, views[0].ID)
	}

	if _, _, err := runCLI(t, env, "show", "does-not-exist"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestListTable(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "list", "--format", "table")
	requireContains(t, out, "Address book is empty")

	mustRunCLI(t, env, "add", "--name", "Grace Hopper", "--telephone", "555 0100")
	out = mustRunCLI(t, env, "list", "--format", "table")
	requireContains(t, out, "Grace Hopper")
	requireContains(t, out, "1 total")
}

func TestResetRequiresConfirmation(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "add", "--name", "john")

	if _, _, err := runCLI(t, env, "reset"); err == nil {
		t.Fatal("expected reset without --yes to fail")
	}
	if views := listContacts(t, env); len(views) != 1 {
		t.Fatalf("contact removed without confirmation, got %d", len(views))
	}

	out := mustRunCLI(t, env, "reset", "--yes")
	requireContains(t, out, "Removed 1 contact(s)")
	if views := listContacts(t, env); len(views) != 0 {
		t.Fatalf("expected empty book after reset, got %d", len(views))
	}
}

func TestImportAndExport(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteVCard(t, env.cfg.Paths.ImportDir, "people.vcf",
		testsupport.VCard("FN:Alice Example", "TEL:555-0101"),
		testsupport.VCard("FN:Alice Example", "EMAIL:alice@example.com"),
	)
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.ImportDir, "broken.vcf"), "garbage\r\n")

	out, stderr, err := runCLI(t, env, "import")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "added 1, merged 1")
	requireContains(t, stderr, "broken.vcf")

	exportDir := filepath.Join(t.TempDir(), "out")
	out = mustRunCLI(t, env, "export", exportDir)
	requireContains(t, out, "Exported 1 contact(s)")
	entries, err := os.ReadDir(exportDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one exported file, entries=%v err=%v", entries, err)
	}
}

func TestMetricsTextfileWritten(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Metrics.TextfilePath = filepath.Join(testsupport.BaseDir(env.cfg), "contactbook.prom")
	writeTestConfig(t, env.configPath, env.cfg)

	mustRunCLI(t, env, "add", "--name", "john")
	data, err := os.ReadFile(env.cfg.Metrics.TextfilePath)
	if err != nil {
		t.Fatalf("read metrics textfile: %v", err)
	}
	requireContains(t, string(data), `contactbook_addressbook_adds_total{result="appended"} 1`)
}

func TestAddMergesOrganizationOnlyContacts(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "add", "--attr", "org=wikipedia")
	out := mustRunCLI(t, env, "add", "--attr", "org=wikipedia")
	requireContains(t, out, "Merged into contact")
	if views := listContacts(t, env); len(views) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(views))
	}
	out = mustRunCLI(t, env, "find", "--attr", "organization=wikipedia")
	requireContains(t, out, "wikipedia")
}

func TestFailedCommandIsLogged(t *testing.T) {
	env := setupCLITestEnv(t)
	mustRunCLI(t, env, "add", "--name", "john")

	if _, _, err := runCLI(t, env, "show", "no-such-contact"); err == nil {
		t.Fatal("expected show of a missing contact to fail")
	}
	data, err := os.ReadFile(filepath.Join(env.cfg.Paths.LogDir, "contactbook.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	requireContains(t, string(data), `"event_type":"command_failed"`)
	requireContains(t, string(data), `"command":"contactbook show"`)
	requireContains(t, string(data), "no-such-contact")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := mustRunCLI(t, env, "config", "validate")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out = mustRunCLI(t, env, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}
