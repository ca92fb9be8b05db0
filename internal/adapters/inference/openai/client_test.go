package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"birdspot/internal/adapters/inference"
	"birdspot/internal/platform/config"
	perr "birdspot/internal/platform/errors"

	"github.com/jarcoal/httpmock"
)

const testBase = "https://llm.test/v1"

func newTestClient(t *testing.T, o Options) *Client {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	if o.APIKey == "" {
		o.APIKey = "sk-test"
	}
	o.BaseURL = testBase + "/"
	o.HTTPClient = hc
	c, err := New(o)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
	})
	return string(b)
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(Options{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestInferSendsPayloadAndDecodesReply(t *testing.T) {
	c := newTestClient(t, Options{Model: "gpt-test"})

	var seen map[string]any
	httpmock.RegisterResponder(http.MethodPost, testBase+"/chat/completions",
		func(r *http.Request) (*http.Response, error) {
			if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Errorf("authorization = %q", got)
			}
			raw, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(raw, &seen); err != nil {
				t.Errorf("request body: %v", err)
			}
			return httpmock.NewStringResponse(http.StatusOK, chatReply(`{"predictions":[],"notes":"n"}`)), nil
		})

	out, err := c.Infer(context.Background(), inference.Request{System: "sys", User: "usr", ImagePNG: []byte{0x89, 'P'}})
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if out["notes"] != "n" {
		t.Fatalf("reply = %v", out)
	}
	format, _ := seen["response_format"].(map[string]any)
	if seen["model"] != "gpt-test" || seen["temperature"] != 0.2 || format["type"] != "json_object" {
		t.Fatalf("payload = %v", seen)
	}
	msgs, _ := seen["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v", seen["messages"])
	}
	system := msgs[0].(map[string]any)
	if system["role"] != "system" || system["content"] != "sys" {
		t.Fatalf("system message = %v", system)
	}
	user := msgs[1].(map[string]any)
	parts, _ := user["content"].([]any)
	if user["role"] != "user" || len(parts) != 2 {
		t.Fatalf("user message = %v", user)
	}
	if text := parts[0].(map[string]any); text["type"] != "text" || text["text"] != "usr" {
		t.Fatalf("text part = %v", text)
	}
	img := parts[1].(map[string]any)["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(img, "data:image/png;base64,") {
		t.Fatalf("image url = %q", img)
	}
	if c.Model() != "gpt-test" {
		t.Fatalf("Model = %q", c.Model())
	}
}

func TestInferStatusMapping(t *testing.T) {
	const apiBody = `{"error":{"message":"nope","type":"invalid_request_error"}}`
	cases := []struct {
		name   string
		status int
		body   string
		want   perr.ErrorCode
	}{
		{"rate limited", http.StatusTooManyRequests, apiBody, perr.ErrorCodeUnavailable},
		{"bad gateway html", http.StatusBadGateway, `<html>bad gateway</html>`, perr.ErrorCodeUnavailable},
		{"server error", http.StatusInternalServerError, apiBody, perr.ErrorCodeUnavailable},
		{"bad request", http.StatusBadRequest, apiBody, perr.ErrorCodeUnknown},
		{"unauthorized", http.StatusUnauthorized, apiBody, perr.ErrorCodeUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, Options{})
			httpmock.RegisterResponder(http.MethodPost, testBase+"/chat/completions",
				httpmock.NewStringResponder(tc.status, tc.body))

			_, err := c.Infer(context.Background(), inference.Request{})
			if !perr.IsCode(err, tc.want) {
				t.Fatalf("err = %v, want code %v", err, tc.want)
			}
			if ProviderStatus(err) != tc.status {
				t.Fatalf("ProviderStatus = %d", ProviderStatus(err))
			}
		})
	}
}

func TestInferTransportError(t *testing.T) {
	c := newTestClient(t, Options{})
	httpmock.RegisterResponder(http.MethodPost, testBase+"/chat/completions",
		httpmock.NewErrorResponder(errors.New("connection reset")))

	_, err := c.Infer(context.Background(), inference.Request{})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) || ProviderStatus(err) != 0 {
		t.Fatalf("err = %v", err)
	}
}

func TestInferUndecodable(t *testing.T) {
	bodies := map[string]string{
		"envelope":   `not json`,
		"no choices": `{"choices":[]}`,
		"not object": chatReply(`[1,2,3]`),
		"not json":   chatReply(`the bird is a robin`),
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, Options{})
			httpmock.RegisterResponder(http.MethodPost, testBase+"/chat/completions",
				httpmock.NewStringResponder(http.StatusOK, body))
			if _, err := c.Infer(context.Background(), inference.Request{}); !perr.IsCode(err, perr.ErrorCodeUnknown) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestInferNullContentIsEmptyObject(t *testing.T) {
	c := newTestClient(t, Options{})
	httpmock.RegisterResponder(http.MethodPost, testBase+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, chatReply(`null`)))
	out, err := c.Infer(context.Background(), inference.Request{})
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("out = %v, err = %v", out, err)
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	c := newTestClient(t, Options{RPS: 0.001})
	httpmock.RegisterResponder(http.MethodPost, testBase+"/chat/completions",
		httpmock.NewStringResponder(http.StatusOK, chatReply(`{}`)))

	if _, err := c.Infer(context.Background(), inference.Request{}); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Infer(ctx, inference.Request{}); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
	if n := httpmock.GetTotalCallCount(); n != 1 {
		t.Fatalf("calls = %d", n)
	}
}

func TestTranscribe(t *testing.T) {
	c := newTestClient(t, Options{AudioModel: "whisper-test"})
	httpmock.RegisterResponder(http.MethodPost, testBase+"/audio/transcriptions",
		func(r *http.Request) (*http.Response, error) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("multipart: %v", err)
			}
			if r.FormValue("model") != "whisper-test" {
				t.Errorf("model = %q", r.FormValue("model"))
			}
			f, hdr, err := r.FormFile("file")
			if err != nil || hdr.Filename != "audio.wav" {
				t.Errorf("file part: %v", err)
			} else {
				b, _ := io.ReadAll(f)
				if string(b) != "RIFFdata" {
					t.Errorf("file body = %q", b)
				}
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"text":"tweet tweet"}`), nil
		})

	got, err := c.Transcribe(context.Background(), []byte("RIFFdata"))
	if err != nil || got != "tweet tweet" {
		t.Fatalf("Transcribe = %q, %v", got, err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_RPS", "2.5")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	o := FromConfig(config.New())
	if o.APIKey != "sk-env" || o.RPS != 2.5 || o.Timeout.Seconds() != 5 || o.Model != modelDefault {
		t.Fatalf("options = %+v", o)
	}
}
