package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCaptureWriterRecordsStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK}
	cw.WriteHeader(http.StatusTeapot)
	_, _ = cw.Write([]byte("hello"))
	_, _ = cw.Write([]byte("!"))
	if cw.status != http.StatusTeapot || cw.bytes != 6 {
		t.Fatalf("status=%d bytes=%d", cw.status, cw.bytes)
	}
	if cw.Unwrap() != rec {
		t.Fatal("Unwrap should return the wrapped writer")
	}
}

func TestAccessLogPassesThrough(t *testing.T) {
	called := 0
	h := AccessLogZerolog(AccessLogOptions{Skip: []string{"/health"}})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called++
		w.WriteHeader(http.StatusAccepted)
	}))
	for _, p := range []string{"/health", "/api/identify/photo"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusAccepted {
			t.Fatalf("%s status = %d", p, rec.Code)
		}
	}
	if called != 2 {
		t.Fatalf("called = %d", called)
	}
}
