package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// batchResponse 按 batchexecute 的格式包装一段音频。
func batchResponse(audio []byte) string {
	encoded := base64.StdEncoding.EncodeToString(audio)
	return ")]}'\n\n123\n" +
		`[["wrb.fr","jQ1olc","[\"` + encoded + `\"]",null,null,null,"generic"]]` + "\n" +
		`[["di",42],["af.httprm",41,"123",1]]` + "\n"
}

// decodeRPC 解析请求体中的 [text, lang, speed, "null"]。
func decodeRPC(t *testing.T, r *http.Request) []interface{} {
	t.Helper()
	if err := r.ParseForm(); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	var rpc [][][]interface{}
	if err := json.Unmarshal([]byte(r.PostForm.Get("f.req")), &rpc); err != nil {
		t.Fatalf("decode f.req: %v", err)
	}
	if rpc[0][0][0] != "jQ1olc" {
		t.Errorf("rpc id = %v", rpc[0][0][0])
	}
	var param []interface{}
	if err := json.Unmarshal([]byte(rpc[0][0][1].(string)), &param); err != nil {
		t.Fatalf("decode param: %v", err)
	}
	return param
}

func TestPackageRPC(t *testing.T) {
	body, err := packageRPC("Hello there", "en", false)
	if err != nil {
		t.Fatalf("packageRPC failed: %v", err)
	}
	if !strings.HasPrefix(body, "f.req=") || !strings.HasSuffix(body, "&") {
		t.Fatalf("unexpected body: %s", body)
	}
	values, err := url.ParseQuery(body)
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	want := `[[["jQ1olc","[\"Hello there\",\"en\",null,\"null\"]",null,"generic"]]]`
	if got := values.Get("f.req"); got != want {
		t.Errorf("f.req = %s\nwant %s", got, want)
	}

	slowBody, _ := packageRPC("Hi", "it", true)
	values, _ = url.ParseQuery(slowBody)
	if !strings.Contains(values.Get("f.req"), `\"it\",true`) {
		t.Errorf("slow flag not encoded: %s", values.Get("f.req"))
	}
}

func TestExtractAudio(t *testing.T) {
	data, err := extractAudio(strings.NewReader(batchResponse([]byte("ID3-fake-mp3"))))
	if err != nil {
		t.Fatalf("extractAudio failed: %v", err)
	}
	if string(data) != "ID3-fake-mp3" {
		t.Errorf("got %q", data)
	}
}

func TestExtractAudio_EscapedPadding(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("ab")) // "YWI="
	line := `[["wrb.fr","jQ1olc","[\"` + strings.ReplaceAll(encoded, "=", `\u003d`) + `\"]",null]]`
	data, err := extractAudio(strings.NewReader(line))
	if err != nil {
		t.Fatalf("extractAudio failed: %v", err)
	}
	if string(data) != "ab" {
		t.Errorf("got %q", data)
	}
}

func TestExtractAudio_NoAudio(t *testing.T) {
	_, err := extractAudio(strings.NewReader(")]}'\n\n[[\"wrb.fr\",\"jQ1olc\",null,null,null,[3],\"generic\"]]\n"))
	if err == nil {
		t.Fatal("expected error when response has no audio")
	}
}

func TestGTTSEngine_WithMockServer(t *testing.T) {
	var mu sync.Mutex
	var texts []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("unexpected content type %q", ct)
		}
		param := decodeRPC(t, r)
		if param[1] != "en" || param[2] != nil {
			t.Errorf("unexpected lang/speed: %v", param)
		}
		text := param[0].(string)

		mu.Lock()
		texts = append(texts, text)
		mu.Unlock()

		fmt.Fprint(w, batchResponse([]byte("["+text+"]")))
	}))
	defer server.Close()

	engine := NewGTTSEngine(GTTSConfig{
		Lang:              "en",
		Endpoint:          server.URL,
		RequestsPerMinute: 60000,
	})

	data, err := engine.Synthesize(context.Background(), "Base64 encoding? One click. Fast and private.")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	wantTexts := []string{"Base64 encoding?", "One click.", "Fast and private."}
	if strings.Join(texts, "|") != strings.Join(wantTexts, "|") {
		t.Errorf("requested texts = %q, want %q", texts, wantTexts)
	}
	if string(data) != "[Base64 encoding?][One click.][Fast and private.]" {
		t.Errorf("audio parts not concatenated in order: %q", data)
	}
}

func TestGTTSEngine_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	engine := NewGTTSEngine(GTTSConfig{Endpoint: server.URL, RequestsPerMinute: 60000})
	_, err := engine.Synthesize(context.Background(), "Hello.")
	if err == nil {
		t.Fatal("expected error for HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry status code: %v", err)
	}
}

func TestGTTSEngine_EmptyText(t *testing.T) {
	engine := NewGTTSEngine(GTTSConfig{Endpoint: "http://127.0.0.1:0"})
	if _, err := engine.Synthesize(context.Background(), "  ...  "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestGTTSEngine_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, batchResponse([]byte("x")))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewGTTSEngine(GTTSConfig{Endpoint: server.URL})
	if _, err := engine.Synthesize(ctx, "Hello."); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestGTTSEngine_Name(t *testing.T) {
	if NameOf(NewGTTSEngine(GTTSConfig{})) != "gtts" {
		t.Error("unexpected engine name")
	}
}
