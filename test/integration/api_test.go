package integration

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	gzqrcode "github.com/makiuchi-d/gozxing/qrcode"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/text-to-qr/internal/api"
	"github.com/eugenenazirov/text-to-qr/internal/encoder"
	"github.com/eugenenazirov/text-to-qr/web"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages, err := api.NewPages(web.FS)
	if err != nil {
		t.Fatalf("NewPages returned error: %v", err)
	}
	logger := zaptest.NewLogger(t)
	handler := api.NewHandler(encoder.New(), pages, logger)
	server := httptest.NewServer(api.NewRouter(handler, logger))
	t.Cleanup(server.Close)
	return server
}

func postData(t *testing.T, server *httptest.Server, values url.Values) *http.Response {
	t.Helper()

	resp, err := server.Client().PostForm(server.URL+"/", values)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeQR(t *testing.T, body []byte) string {
	t.Helper()

	img, err := png.Decode(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatalf("build bitmap: %v", err)
	}
	result, err := gzqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	return result.GetText()
}

func TestIntegrationFlow(t *testing.T) {
	server := newServer(t)

	for _, path := range []string{"/", "/about", "/contact"} {
		resp, err := server.Client().Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Fatalf("expected HTML from %s, got %q", path, ct)
		}
	}

	const text = "https://example.com/?q=text+to+qr"
	resp := postData(t, server, url.Values{"data": {"  " + text + "  "}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from generate, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("expected no-store, got %q", cc)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "qrcode.png") {
		t.Fatalf("expected qrcode.png attachment, got %q", cd)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if got := decodeQR(t, body); got != text {
		t.Fatalf("expected decoded %q, got %q", text, got)
	}
}

func TestIntegrationValidation(t *testing.T) {
	server := newServer(t)

	resp := postData(t, server, url.Values{"data": {"   "}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank input, got %d", resp.StatusCode)
	}
	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error key in %v", payload)
	}

	resp = postData(t, server, url.Values{"data": {strings.Repeat("q", api.MaxInputLength+1)}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized input, got %d", resp.StatusCode)
	}

	resp = postData(t, server, url.Values{"data": {strings.Repeat("q", api.MaxInputLength)}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 at the length limit, got %d", resp.StatusCode)
	}
}
