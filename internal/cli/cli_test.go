package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	Method string
	Path   string
	Body   string
}

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *[]captured) {
	t.Helper()
	var reqs []captured
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs = append(reqs, captured{Method: r.Method, Path: r.URL.Path, Body: string(b)})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func run(t *testing.T, stdin string, args ...string) (map[string]any, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()
	if err != nil || stdout.Len() == 0 {
		return nil, stderr.String(), err
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out), stdout.String())
	return out, stderr.String(), nil
}

func TestRead(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"message":"ok","responseObject":{"content":"x=1"}}`)

	out, _, err := run(t, "", "read", "a.py", "--base-url", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"message": "ok", "data": map[string]any{"content": "x=1"}}, out)
	require.Len(t, *reqs, 1)
	assert.Equal(t, captured{Method: http.MethodGet, Path: "/code/a.py"}, (*reqs)[0])
}

func TestSimpleOperations(t *testing.T) {
	tests := map[string]string{
		"execute": http.MethodPost,
		"delete":  http.MethodDelete,
	}
	for op, method := range tests {
		t.Run(op, func(t *testing.T) {
			srv, reqs := newBackend(t, http.StatusOK, `{"message":"done","responseObject":null}`)

			out, _, err := run(t, "", op, "main.jac", "--base-url", srv.URL+"/")
			require.NoError(t, err)
			assert.Equal(t, "done", out["message"])
			require.Len(t, *reqs, 1)
			assert.Equal(t, method, (*reqs)[0].Method)
			assert.Equal(t, "/code/main.jac", (*reqs)[0].Path)
		})
	}
}

func TestCreate(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusCreated, `{"message":"created","responseObject":{"filename":"new.py"}}`)

	codePath := filepath.Join(t.TempDir(), "local.py")
	require.NoError(t, os.WriteFile(codePath, []byte("print('hi')"), 0o644))

	tests := []struct {
		name string
		args []string
		in   string
		want string
	}{
		{"inline", []string{"--code", "print(1)"}, "", `{"code":"print(1)"}`},
		{"file", []string{"--code-file", codePath}, "", `{"code":"print('hi')"}`},
		{"stdin", []string{"--code-file", "-"}, "x = 2", `{"code":"x = 2"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			*reqs = nil
			args := append([]string{"create", "new.py", "--base-url", srv.URL}, tc.args...)
			out, _, err := run(t, tc.in, args...)
			require.NoError(t, err)
			assert.Equal(t, "created", out["message"])
			require.Len(t, *reqs, 1)
			assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
			assert.JSONEq(t, tc.want, (*reqs)[0].Body)
		})
	}
}

func TestCreate_WithoutCodeReportsValidationResult(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{}`)

	out, _, err := run(t, "", "create", "new.py", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"message": "Code content must be provided for the 'create' operation.",
		"data":    nil,
	}, out)
	assert.Empty(t, *reqs)
}

func TestCreate_CodeFlagsAreExclusive(t *testing.T) {
	_, _, err := run(t, "", "create", "new.py", "--base-url", "http://x", "--code", "a", "--code-file", "b")
	require.Error(t, err)
}

func TestUpdate(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"message":"updated","responseObject":{"replacements":1}}`)

	out, _, err := run(t, "", "update", "a.py", "-m", "s/Hello/Hi/g", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "updated", out["message"])
	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPatch, (*reqs)[0].Method)
	assert.JSONEq(t, `{"message":"s/Hello/Hi/g"}`, (*reqs)[0].Body)
}

func TestBackendFailureIsPrintedNotReturned(t *testing.T) {
	srv, _ := newBackend(t, http.StatusInternalServerError, `{"message":"disk full"}`)

	out, stderr, err := run(t, "", "execute", "a.py", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "disk full", "data": nil}, out)
	assert.Contains(t, stderr, "code runner operation failed")
}

func TestConfigFile(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"message":"ok","responseObject":1}`)
	cfgPath := filepath.Join(t.TempDir(), "coderunner.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("base_url: "+srv.URL+"\nlog_level: error\n"), 0o644))

	out, _, err := run(t, "", "read", "a.py", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "ok", out["message"])
	assert.Len(t, *reqs, 1)
}

func TestMissingBaseURL(t *testing.T) {
	if _, set := os.LookupEnv("CODE_RUNNER_BASE_URL"); set {
		t.Skip("CODE_RUNNER_BASE_URL set in the environment")
	}
	_, _, err := run(t, "", "read", "a.py")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url is required")
}

func TestArgumentsRequired(t *testing.T) {
	_, _, err := run(t, "", "read")
	require.Error(t, err)
}
