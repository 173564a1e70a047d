package blackbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil { t.Fatalf("listen: %v", err) }
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil { t.Fatalf("split: %v", err) }
	cleanup := func(){ _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok { t.Fatal("runtime.Caller failed") }
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	root := filepath.Dir(filepath.Dir(bbDir))
	return root
}

func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("blackbox tests build the binary; skipped in -short mode")
	}
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "extranetd")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/extranetd")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

// createAddonDir writes empty files with the given names (sub-paths allowed).
func createAddonDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write temp add-on %s: %v", p, err)
		}
	}
	return dir
}

type serverProc struct {
	cmd  *exec.Cmd
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, loraDir, hnDir string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	base := "http://" + addr
	cmd := exec.Command(bin, "serve",
		"--addr", addr,
		"--lora-dir", loraDir,
		"--hypernetwork-dir", hnDir,
		"--log-level", "error",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK { break }
		}
		if time.Now().After(deadline) {
			_ = cmd.Process.Kill()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	sp := &serverProc{cmd: cmd, base: base}
	t.Cleanup(func(){ _ = cmd.Process.Kill() })
	return sp
}

func do(t *testing.T, method, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	if err != nil { t.Fatalf("new req: %v", err) }
	resp, err := http.DefaultClient.Do(req)
	if err != nil { t.Fatalf("do: %v", err) }
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func TestBlackbox_Flow(t *testing.T) {
	bin := buildBinary(t)
	loraDir := createAddonDir(t, "zeta.safetensors", "styles/alpha.pt", "styles/alpha.png")
	hnDir := createAddonDir(t, "h.pt")
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, loraDir, hnDir, port)

	// /readyz is 200 once the initial scan is done
	resp, body := do(t, http.MethodGet, sp.base+"/readyz")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/readyz %d %s", resp.StatusCode, string(body)) }

	// pages
	resp, body = do(t, http.MethodGet, sp.base+"/extra-networks")
	if resp.StatusCode != http.StatusOK { t.Fatalf("/extra-networks %d %s", resp.StatusCode, string(body)) }
	var pagesResp struct{ Pages []struct{ Name string `json:"name"`; Count int `json:"count"` } `json:"pages"` }
	if err := json.Unmarshal(body, &pagesResp); err != nil { t.Fatalf("pages json: %v body=%s", err, string(body)) }
	if len(pagesResp.Pages) != 2 || pagesResp.Pages[0].Count != 2 || pagesResp.Pages[1].Count != 1 {
		t.Fatalf("unexpected pages: %+v", pagesResp)
	}

	// lora items are ordered by key and carry a preview link for alpha
	resp, body = do(t, http.MethodGet, sp.base+"/extra-networks/lora/items")
	if resp.StatusCode != http.StatusOK { t.Fatalf("items %d %s", resp.StatusCode, string(body)) }
	var itemsResp struct{ Items []struct{ Name string `json:"name"`; Preview *string `json:"preview"`; SearchTerm string `json:"search_term"` } `json:"items"` }
	if err := json.Unmarshal(body, &itemsResp); err != nil { t.Fatalf("items json: %v body=%s", err, string(body)) }
	if len(itemsResp.Items) != 2 || itemsResp.Items[0].Name != "alpha" || itemsResp.Items[1].Name != "zeta" {
		t.Fatalf("unexpected items: %+v", itemsResp.Items)
	}
	if itemsResp.Items[0].SearchTerm != "/styles/alpha.pt" { t.Fatalf("search term = %q", itemsResp.Items[0].SearchTerm) }
	if itemsResp.Items[0].Preview == nil || itemsResp.Items[1].Preview != nil { t.Fatalf("unexpected previews: %+v", itemsResp.Items) }

	// the preview link is fetchable
	link := strings.TrimPrefix(*itemsResp.Items[0].Preview, ".")
	resp, body = do(t, http.MethodGet, sp.base+link)
	if resp.StatusCode != http.StatusOK || string(body) != "x" { t.Fatalf("thumb %d %q", resp.StatusCode, string(body)) }

	// anything outside the page directories is refused
	resp, _ = do(t, http.MethodGet, sp.base+"/extra-networks/thumb?filename="+url.QueryEscape("/etc/passwd"))
	if resp.StatusCode != http.StatusForbidden { t.Fatalf("expected 403, got %d", resp.StatusCode) }

	// new files show up after a refresh
	if err := os.WriteFile(filepath.Join(hnDir, "new.pt"), []byte("x"), 0o644); err != nil { t.Fatalf("write: %v", err) }
	resp, body = do(t, http.MethodPost, sp.base+"/extra-networks/hypernetworks/refresh")
	if resp.StatusCode != http.StatusOK { t.Fatalf("refresh %d %s", resp.StatusCode, string(body)) }
	resp, body = do(t, http.MethodGet, sp.base+"/extra-networks/hypernetworks/items")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"<hypernet:new:"`) {
		t.Fatalf("refreshed items %d %s", resp.StatusCode, string(body))
	}
}

func TestBlackbox_UnknownPage_404(t *testing.T) {
	bin := buildBinary(t)
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, createAddonDir(t), createAddonDir(t), port)

	resp, body := do(t, http.MethodGet, sp.base+"/extra-networks/embeddings/items")
	if resp.StatusCode != http.StatusNotFound { t.Fatalf("expected 404, got %d, body=%s", resp.StatusCode, string(body)) }
}
