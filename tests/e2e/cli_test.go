package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary builds the httptestd binary once for all e2e tests.
func buildBinary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		binDir := filepath.Join(os.TempDir(), "httptestd_e2e")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			buildErr = err
			return
		}
		binaryPath = filepath.Join(binDir, "httptestd")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/httptestd")
		if out, err := buildCmd.CombinedOutput(); err != nil {
			buildErr = err
			t.Logf("Failed to build CLI: %v\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatal(buildErr)
	}
	return binaryPath
}

func TestCLIScripts(t *testing.T) {
	bin := buildBinary(t)

	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			binDir := filepath.Dir(bin)
			env.Setenv("PATH", binDir+string(os.PathListSeparator)+env.Getenv("PATH"))
			env.Setenv("HTTPTESTD_BIN", bin)
			return nil
		},
	})
}
