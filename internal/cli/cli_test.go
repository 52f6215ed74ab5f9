package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/idreg/pkg/idreg/codec"
	"github.com/randalmurphal/idreg/pkg/idreg/name"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
)

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, fileName, content string) string {
	t.Helper()
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const assetsYAML = `
- value: {path: logo.png}
- name: ui:icon
  value: {path: icon.png}
- name: sprites:player
  value: {path: player.png}
`

func TestNameCheck(t *testing.T) {
	out, err := run(t, "name", "check", "ui:icon", "a1:b_2")
	require.NoError(t, err)
	assert.Equal(t,
		"ui:icon\tscope=ui\tunqualified=:icon\n"+
			"a1:b_2\tscope=a1\tunqualified=:b_2\n",
		out)
}

func TestNameCheckInvalid(t *testing.T) {
	out, err := run(t, "name", "check", "ui:icon", "Bad:name", "a:b:c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 names invalid")
	assert.Contains(t, out, "Bad:name\tinvalid")
	assert.Contains(t, out, "a:b:c\tinvalid")
}

func TestNameCheckIgnoresBrokenConfig(t *testing.T) {
	_, err := run(t, "--config", "/nonexistent/idreg.yaml", "name", "check", "ui:icon")
	assert.NoError(t, err)
}

func TestImportAndShow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "idreg.db")
	file := writeFile(t, dir, "assets.yaml", assetsYAML)

	out, err := run(t, "--db", db, "import", file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "saved assets/"), out)
	assert.Contains(t, out, "(3 entries)")

	out, err = run(t, "--db", db, "snapshot", "show", "assets", "latest")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"0", "unknown(0)", `{"path":"logo.png"}`}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "ui:icon", `{"path":"icon.png"}`}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "sprites:player", `{"path":"player.png"}`}, strings.Fields(lines[2]))
}

func TestImportJSONWithLabel(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "idreg.db")
	file := writeFile(t, dir, "x.json", `[{"name": "sym:main", "value": 1}, {"value": 2}]`)

	_, err := run(t, "--db", db, "import", file, "--label", "symbols")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "snapshot", "list", "--label", "symbols")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"SEQ", "ID", "SAVED", "BYTES"}, strings.Fields(lines[0]))

	fields := strings.Fields(lines[1])
	require.Len(t, fields, 4)
	assert.Equal(t, "1", fields[0])

	out, err = run(t, "--db", db, "snapshot", "show", "symbols", fields[1])
	require.NoError(t, err)
	assert.Contains(t, out, "sym:main")
	assert.Contains(t, out, "unknown(1)")
}

func TestImportRejectsBadEntries(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "idreg.db")

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"duplicate", "dup.yaml", "- name: a:b\n  value: 1\n- name: a:b\n  value: 2\n", registry.ErrDuplicateName},
		{"invalid name", "bad.json", `[{"name": "NoScope", "value": 1}]`, name.ErrInvalidName},
		{"unsupported extension", "x.txt", "a:b", nil},
		{"non-string mapping key", "keys.yaml", "- name: a:b\n  value: {1: one}\n", codec.ErrUnsupportedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "--db", db, "import", writeFile(t, dir, tt.file, tt.content))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}

	out, err := run(t, "--db", db, "snapshot", "list", "--label", "dup")
	require.NoError(t, err)
	assert.Contains(t, out, "no snapshots")
}

func TestSnapshotShowMissing(t *testing.T) {
	db := filepath.Join(t.TempDir(), "idreg.db")

	_, err := run(t, "--db", db, "snapshot", "show", "assets", "latest")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "snapshot", "show", "assets", "no-such-id")
	assert.Error(t, err)
}

func TestSnapshotDelete(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "idreg.db")
	file := writeFile(t, dir, "assets.yaml", assetsYAML)

	_, err := run(t, "--db", db, "import", file)
	require.NoError(t, err)
	_, err = run(t, "--db", db, "import", file)
	require.NoError(t, err)

	_, err = run(t, "--db", db, "snapshot", "delete", "assets")
	assert.Error(t, err)

	_, err = run(t, "--db", db, "snapshot", "delete", "assets", "--all")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "snapshot", "list", "--label", "assets")
	require.NoError(t, err)
	assert.Contains(t, out, "no snapshots")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "idreg.yaml", "snapshot:\n  driver: sqlite\n  path: "+filepath.Join(dir, "cfg.db")+"\n")
	file := writeFile(t, dir, "assets.yaml", assetsYAML)

	_, err := run(t, "--config", cfg, "import", file)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "cfg.db"))
	assert.NoError(t, err)

	bad := writeFile(t, dir, "bad.yaml", "snapshot:\n  driver: postgres\n")
	_, err = run(t, "--config", bad, "snapshot", "list", "--label", "assets")
	assert.Error(t, err)
}

func TestImportRestrictsScopes(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "idreg.db")
	cfg := writeFile(t, dir, "idreg.yaml", "registry:\n  scopes: [ui]\n")
	file := writeFile(t, dir, "assets.yaml", assetsYAML)

	_, err := run(t, "--config", cfg, "--db", db, "import", file)
	require.Error(t, err)
	assert.ErrorIs(t, err, errScopeNotAllowed)
	assert.Contains(t, err.Error(), "sprites:player")

	out, err := run(t, "--db", db, "snapshot", "list", "--label", "assets")
	require.NoError(t, err)
	assert.Contains(t, out, "no snapshots")

	wide := writeFile(t, dir, "wide.yaml", "registry:\n  scopes: [ui, sprites]\n")
	out, err = run(t, "--config", wide, "--db", db, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "(3 entries)")
}
