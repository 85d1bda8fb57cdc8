package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	out := new(bytes.Buffer)

	err := run([]string{"confidential", "--help"}, out)
	require.NoError(t, err)

	for _, cmd := range []string{"keygen", "command", "query", "list", "serve"} {
		require.Contains(t, out.String(), cmd)
	}
}

func TestRun_Scenario(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "test.db")
	key := filepath.Join(dir, "alice.key")

	out := new(bytes.Buffer)

	err := run([]string{"confidential", "keygen", "--out", key}, out)
	require.NoError(t, err)

	account := strings.TrimSpace(out.String())
	require.Len(t, account, 64)

	out.Reset()
	err = run([]string{"confidential", "--db", db, "command", "--key", key,
		"--code", "hello", "--encode", "--block", "3", "--index", "1"}, out)
	require.NoError(t, err)
	require.Equal(t, "3#1 Ok\n", out.String())

	out.Reset()
	err = run([]string{"confidential", "--db", db, "query", "--key", key}, out)
	require.NoError(t, err)
	require.Equal(t, `{"DecodeStoredCode":{"decnote":"hello"}}`+"\n", out.String())

	out.Reset()
	err = run([]string{"confidential", "--db", db, "query"}, out)
	require.NoError(t, err)
	require.Equal(t, `{"Error":"NotAuthorized"}`+"\n", out.String())

	out.Reset()
	err = run([]string{"confidential", "--db", db, "list"}, out)
	require.NoError(t, err)
	require.Equal(t, account+"\n", out.String())
}

func TestRun_MissingFlag(t *testing.T) {
	err := run([]string{"confidential", "keygen"}, new(bytes.Buffer))
	require.EqualError(t, err, `Required flag "out" not set`)
}
