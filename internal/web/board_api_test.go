package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rook-computer/boardview/internal/assets"
	"github.com/rook-computer/boardview/internal/board"
	"github.com/rook-computer/boardview/internal/render"
	"github.com/rook-computer/boardview/internal/state"
)

func newTestServer(t *testing.T) (*httptest.Server, *BoardAPI) {
	t.Helper()
	set := &assets.Set{Background: image.NewRGBA(image.Rect(0, 0, 10, 10))}
	for _, kind := range board.Kinds() {
		set.Pieces[kind] = image.NewRGBA(image.Rect(0, 0, 60, 60))
	}
	canvas := render.NewCanvas(render.DefaultWidth, render.DefaultHeight, nil)
	api := NewBoardAPI(state.NewStore(), canvas, set)
	mux := http.NewServeMux()
	api.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, api
}

func decodeStatus(t *testing.T, resp *http.Response) Status {
	t.Helper()
	defer resp.Body.Close()
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

func TestPostFENRendersBoard(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/sim/fen", "application/json", strings.NewReader(`{"fen":"startpos"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	st := decodeStatus(t, resp)
	if st.Version != 1 || st.Source != SourceHTTPFEN || !st.Renderable {
		t.Fatalf("status %+v", st)
	}
	if st.LastCycle.Pieces != 32 || st.LastCycle.Layout != 52 || st.Frames != 1 {
		t.Fatalf("cycle %+v frames %d", st.LastCycle, st.Frames)
	}
	if len(st.Rows) != 8 || st.Rows[0] != "tcfdrfct" {
		t.Fatalf("rows %q", st.Rows)
	}
}

func TestPostRowsAcceptsDotAlias(t *testing.T) {
	srv, _ := newTestServer(t)
	body := "R.......\n........\n........\n........\n........\n........\n........\n.......r\n"
	resp, err := http.Post(srv.URL+"/sim/board", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	st := decodeStatus(t, resp)
	if resp.StatusCode != http.StatusOK || st.LastCycle.Pieces != 2 {
		t.Fatalf("status %d %+v", resp.StatusCode, st)
	}
	if st.Rows[1] != "        " {
		t.Fatalf("row 1 is %q", st.Rows[1])
	}
}

func TestMalformedBoardClosesUntilReset(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/sim/board", "text/plain", strings.NewReader("RT\np\n"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/sim/status")
	if err != nil {
		t.Fatal(err)
	}
	if st := decodeStatus(t, resp); st.Renderable || st.LastError == "" || st.Frames != 0 {
		t.Fatalf("status after malformed board %+v", st)
	}

	resp, err = http.Post(srv.URL+"/sim/reset", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if st := decodeStatus(t, resp); !st.Renderable || st.Version != 0 || st.Frames != 1 {
		t.Fatalf("status after reset %+v", st)
	}
}

func TestBadFENIsRejected(t *testing.T) {
	srv, api := newTestServer(t)
	resp, err := http.Post(srv.URL+"/sim/fen", "application/json", strings.NewReader(`{"fen":"not a position"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if api.Store.Snapshot().Ready() {
		t.Fatalf("bad FEN reached the store")
	}
}

func TestFrameIsPNG(t *testing.T) {
	srv, api := newTestServer(t)
	if err := api.LoadFEN("startpos"); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(srv.URL + "/sim/frame.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != render.DefaultWidth || img.Bounds().Dy() != render.DefaultHeight {
		t.Fatalf("frame is %v", img.Bounds())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/sim/board")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestDevCORSAnswersPreflight(t *testing.T) {
	h := WithDevCORS(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodOptions, "/sim/status", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight %d %v", rec.Code, rec.Header())
	}
}

func TestServerConfigFromEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, "127.0.0.1:9999")
	t.Setenv(EnvDevMode, "true")
	cfg, err := DefaultServerConfigFromEnv(":8080")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != "127.0.0.1:9999" || !cfg.DevMode {
		t.Fatalf("config %+v", cfg)
	}
	t.Setenv(EnvDevMode, "maybe")
	if _, err := DefaultServerConfigFromEnv(":8080"); err == nil {
		t.Fatalf("expected error for bad bool")
	}
}

func TestStreamPushesStatusOnChange(t *testing.T) {
	srv, api := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/sim/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	var st Status
	if err := wsjson.Read(ctx, conn, &st); err != nil {
		t.Fatalf("read initial status: %v", err)
	}
	if st.Version != 0 {
		t.Fatalf("initial status %+v", st)
	}

	if err := api.LoadFEN("startpos"); err != nil {
		t.Fatal(err)
	}
	if err := wsjson.Read(ctx, conn, &st); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if st.Version != 1 || st.LastCycle.Pieces != 32 {
		t.Fatalf("update %+v", st)
	}
}

func TestConcurrentPostsReportTheirOwnBoard(t *testing.T) {
	srv, _ := newTestServer(t)
	const posts = 16
	var wg sync.WaitGroup
	errs := make(chan string, posts)
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := board.Empty()
			m[i/board.Cols][i%board.Cols] = 'R'
			resp, err := http.Post(srv.URL+"/sim/board", "text/plain", strings.NewReader(m.String()))
			if err != nil {
				errs <- err.Error()
				return
			}
			defer resp.Body.Close()
			var st Status
			if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
				errs <- err.Error()
				return
			}
			if len(st.Rows) != board.Rows || st.Rows[i/board.Cols][i%board.Cols] != 'R' || st.LastCycle.Pieces != 1 {
				errs <- fmt.Sprintf("post %d answered with rows %q", i, st.Rows)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Error(msg)
	}
}
