package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeEnvironment is a map-backed Environment for deterministic tests,
// per spec §9's "inject these behind an interface for testability".
type fakeEnvironment struct {
	vars          map[string]string
	cwd           string
	userConfigDir string
}

func (f *fakeEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := f.vars[key]
	return v, ok
}
func (f *fakeEnvironment) Getwd() (string, error)         { return f.cwd, nil }
func (f *fakeEnvironment) UserConfigDir() (string, error) { return f.userConfigDir, nil }

func newFakeEnvironment(t *testing.T) *fakeEnvironment {
	t.Helper()
	dir := t.TempDir()
	return &fakeEnvironment{
		vars:          map[string]string{},
		cwd:           dir,
		userConfigDir: filepath.Join(dir, "xdg-config"),
	}
}

// scenario 1: no edgedb.toml, no env, no explicit options → ConfigError
// mentioning "no 'edgedb.toml' found".
func TestResolveNoProjectNoOptionsFails(t *testing.T) {
	env := newFakeEnvironment(t)

	_, err := Resolve(context.Background(), Options{}, env, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no 'edgedb.toml' found")
}

// scenario 2: DSN precedence.
func TestResolveDSNPrecedence(t *testing.T) {
	env := newFakeEnvironment(t)

	rc, err := Resolve(context.Background(), Options{
		DSN: "edgedb://u:p@h:1234/db",
	}, env, nil)
	require.NoError(t, err)
	require.Equal(t, "h", rc.Host.Value())
	require.Equal(t, 1234, rc.Port.Value())
	require.Equal(t, "u", rc.User.Value())
	require.Equal(t, "p", rc.Password.Value())
	require.Equal(t, "db", rc.Database.Value())
}

// scenario 3: compound-options conflict within one level.
func TestResolveCompoundConflict(t *testing.T) {
	env := newFakeEnvironment(t)

	_, err := Resolve(context.Background(), Options{
		DSN:  "edgedb://h",
		Host: "x",
	}, env, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Cannot have more than one")
}

// scenario 6: a Docker-link-leaked EDGEDB_PORT is ignored, not parsed.
func TestResolvePortEnvDockerLinkIgnored(t *testing.T) {
	env := newFakeEnvironment(t)
	env.vars["EDGEDB_PORT"] = "tcp://x:1"
	env.vars["EDGEDB_HOST"] = "h"

	rc, err := Resolve(context.Background(), Options{}, env, nil)
	require.NoError(t, err)
	require.Equal(t, defaultPort, rc.Port.Value())
	require.Equal(t, labelDefault, rc.Port.Source())
}

// Sticky config: explicit options outrank environment variables for
// the same field, and the winning source label is recorded.
func TestResolveStickyFieldPrecedence(t *testing.T) {
	env := newFakeEnvironment(t)
	env.vars["EDGEDB_HOST"] = "from-env"

	rc, err := Resolve(context.Background(), Options{Host: "from-options", Database: "db"}, env, nil)
	require.NoError(t, err)
	require.Equal(t, "from-options", rc.Host.Value())
	require.Equal(t, labelExplicit, rc.Host.Source())
}

// A project-linked instance is used only when nothing higher-precedence
// already resolved a host, database or user.
func TestResolveProjectLinkedInstance(t *testing.T) {
	env := newFakeEnvironment(t)

	require.NoError(t, os.WriteFile(filepath.Join(env.cwd, "edgedb.toml"), []byte(""), 0o644))

	root, found, err := findProjectRoot(env.cwd)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, env.cwd, root)

	stash, err := stashDir(env.userConfigDir, root)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(stash, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(stash, "instance-name"), []byte("my_instance\n"), 0o644))

	credsDir := filepath.Join(env.userConfigDir, "credentials")
	require.NoError(t, os.MkdirAll(credsDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(credsDir, "my_instance.json"),
		[]byte(`{"host":"proj-host","port":10701,"database":"proj_db","user":"proj_user","password":"secret"}`),
		0o644,
	))

	rc, err := Resolve(context.Background(), Options{}, env, nil)
	require.NoError(t, err)
	require.Equal(t, "proj-host", rc.Host.Value())
	require.Equal(t, 10701, rc.Port.Value())
	require.Equal(t, "proj_db", rc.Database.Value())
	require.Equal(t, labelProject, rc.Host.Source())
}

func TestParseDSNConflictingVariantsRejected(t *testing.T) {
	_, err := parseDSN("edgedb://h?user=a&user_env=B")
	require.Error(t, err)
}

func TestParseDSNDuplicateKeyRejected(t *testing.T) {
	_, err := parseDSN("edgedb://h?database=a&database=b")
	require.Error(t, err)
}

func TestParseDSNUnknownParamBecomesServerSetting(t *testing.T) {
	r, err := parseDSN("edgedb://h?application_name=myapp")
	require.NoError(t, err)
	require.Equal(t, "myapp", r.ServerSettings["application_name"])
}

// tls_ca_file's own name ends in the generic "_file" variant suffix;
// it must still be matched as the plain scalar, not stripped to a
// "tls_ca" + file-variant pair.
func TestParseDSNTLSCAFileNotMistakenForVariant(t *testing.T) {
	dir := t.TempDir()
	caPath := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(caPath, []byte("test-ca-contents"), 0o644))

	r, err := parseDSN("edgedb://h?tls_ca_file=" + caPath)
	require.NoError(t, err)
	require.Equal(t, caPath, r.Fields.TLSCAFile)
	require.Empty(t, r.ServerSettings["tls_ca"])
}

// tls_ca_file_env/_file indirection still resolves against the
// tls_ca_file scalar itself.
func TestParseDSNTLSCAFileEnvVariant(t *testing.T) {
	t.Setenv("EDGEDB_TEST_TLS_CA_FILE", "/path/to/ca.pem")
	r, err := parseDSN("edgedb://h?tls_ca_file_env=EDGEDB_TEST_TLS_CA_FILE")
	require.NoError(t, err)
	require.Equal(t, "/path/to/ca.pem", r.Fields.TLSCAFile)
}

func TestValidatorsRejectEmptyHostAndOutOfRangePort(t *testing.T) {
	require.Error(t, validateHost(""))
	require.Error(t, validateHost("a/b"))
	require.NoError(t, validateHost("localhost"))

	require.Error(t, validatePort(0))
	require.Error(t, validatePort(70000))
	require.NoError(t, validatePort(5656))
}
