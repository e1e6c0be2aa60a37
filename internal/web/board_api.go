package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"sync"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/rook-computer/boardview/internal/assets"
	"github.com/rook-computer/boardview/internal/board"
	"github.com/rook-computer/boardview/internal/feed"
	"github.com/rook-computer/boardview/internal/obslog"
	"github.com/rook-computer/boardview/internal/render"
	"github.com/rook-computer/boardview/internal/state"
)

const (
	SourceHTTPRows = "http-rows"
	SourceHTTPFEN  = "http-fen"

	maxBodyBytes = 64 << 10
)

// BoardAPI drives a headless canvas over HTTP. Every accepted board is
// rendered before the response is written, so a following frame.png request
// always shows it.
type BoardAPI struct {
	Store          *state.Store
	Canvas         *render.Canvas
	Assets         *assets.Set
	Logger         obslog.Logger
	BackgroundMode render.ScaleMode

	mu       sync.Mutex
	renderer *render.BoardRenderer
	lastErr  string

	subMu sync.Mutex
	subs  map[chan Status]struct{}
}

func NewBoardAPI(store *state.Store, canvas *render.Canvas, set *assets.Set) *BoardAPI {
	return &BoardAPI{Store: store, Canvas: canvas, Assets: set}
}

// Status is the body of GET /sim/status.
type Status struct {
	Version    uint64            `json:"version"`
	Source     string            `json:"source"`
	Renderable bool              `json:"renderable"`
	Frames     int64             `json:"frames"`
	LastCycle  render.CycleStats `json:"lastCycle"`
	LastError  string            `json:"lastError,omitempty"`
	Rows       []string          `json:"rows"`
}

// Register mounts the /sim/ endpoints on mux.
func (api *BoardAPI) Register(mux *http.ServeMux) {
	mux.HandleFunc("/sim/board", api.handleBoard)
	mux.HandleFunc("/sim/fen", api.handleFEN)
	mux.HandleFunc("/sim/frame.png", api.handleFrame)
	mux.HandleFunc("/sim/status", api.handleStatus)
	mux.HandleFunc("/sim/reset", api.handleReset)
	mux.HandleFunc("/sim/ws", api.handleStream)
}

func (api *BoardAPI) handleBoard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeSimError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, _, err := feed.DecodeFrame(string(body))
	if err != nil {
		writeSimError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.apply(w, m, SourceHTTPRows)
}

func (api *BoardAPI) handleFEN(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		FEN string `json:"fen"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeSimError(w, http.StatusBadRequest, "invalid json")
		return
	}
	m, err := board.FromFEN(req.FEN)
	if err != nil {
		writeSimError(w, http.StatusBadRequest, err.Error())
		return
	}
	api.apply(w, m, SourceHTTPFEN)
}

func (api *BoardAPI) apply(w http.ResponseWriter, m board.Matrix, source string) {
	st, err := api.commit(func() { api.Store.SetBoard(m, source) })
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, board.ErrShape) || errors.Is(err, render.ErrClosed) {
			status = http.StatusUnprocessableEntity
		}
		writeSimError(w, status, err.Error())
		return
	}
	writeSimJSON(w, http.StatusOK, st)
}

// LoadFEN sets and renders a position outside of a request.
func (api *BoardAPI) LoadFEN(fen string) error {
	m, err := board.FromFEN(fen)
	if err != nil {
		return err
	}
	_, err = api.commit(func() { api.Store.SetBoard(m, SourceHTTPFEN) })
	return err
}

// commit runs change, renders the resulting board and publishes its status
// as one step, so the returned Status always describes the board change
// produced.
func (api *BoardAPI) commit(change func()) (Status, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	change()
	snap := api.Store.Snapshot()
	err := api.renderLocked(snap)
	st := api.statusLocked(snap)
	api.publish(st)
	return st, err
}

func (api *BoardAPI) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var buf bytes.Buffer
	api.mu.Lock()
	err := png.Encode(&buf, api.Canvas.Image())
	api.mu.Unlock()
	if err != nil {
		writeSimError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (api *BoardAPI) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeSimJSON(w, http.StatusOK, api.status())
}

// handleReset empties the board and replaces a renderer closed by a
// malformed board.
func (api *BoardAPI) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st, err := api.commit(func() {
		api.Store.Reset()
		api.renderer = nil
		api.lastErr = ""
	})
	if err != nil {
		writeSimError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeSimJSON(w, http.StatusOK, st)
}

func (api *BoardAPI) renderLocked(snap state.State) error {
	m := snap.Board
	if !snap.Ready() {
		m = board.Empty()
	}
	err := api.rendererLocked().Render(m, api.Assets.Background, &api.Assets.Pieces)
	if err != nil {
		api.lastErr = err.Error()
	}
	return err
}

// rendererLocked returns the current renderer, creating it on first use.
func (api *BoardAPI) rendererLocked() *render.BoardRenderer {
	if api.renderer == nil {
		api.renderer = render.NewBoardRenderer(api.Canvas)
		api.renderer.BackgroundMode = api.BackgroundMode
		if api.Logger != nil {
			api.renderer.Logger = api.Logger
		}
	}
	return api.renderer
}

func (api *BoardAPI) status() Status {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.statusLocked(api.Store.Snapshot())
}

func (api *BoardAPI) statusLocked(snap state.State) Status {
	st := Status{
		Version:    snap.Version,
		Source:     snap.Source,
		Renderable: api.rendererLocked().IsRenderable(),
		Frames:     api.Canvas.Frames(),
		LastCycle:  api.rendererLocked().LastCycle(),
		LastError:  api.lastErr,
	}
	for _, row := range snap.Board {
		st.Rows = append(st.Rows, string(row))
	}
	return st
}

// handleStream pushes a Status over a websocket after every board change,
// starting with the current one.
func (api *BoardAPI) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()
	ctx := conn.CloseRead(r.Context())

	updates := api.subscribe()
	defer api.unsubscribe(updates)
	if err := wsjson.Write(ctx, conn, api.status()); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case st := <-updates:
			if err := wsjson.Write(ctx, conn, st); err != nil {
				return
			}
		}
	}
}

func (api *BoardAPI) subscribe() chan Status {
	ch := make(chan Status, 4)
	api.subMu.Lock()
	if api.subs == nil {
		api.subs = make(map[chan Status]struct{})
	}
	api.subs[ch] = struct{}{}
	api.subMu.Unlock()
	return ch
}

func (api *BoardAPI) unsubscribe(ch chan Status) {
	api.subMu.Lock()
	delete(api.subs, ch)
	api.subMu.Unlock()
}

// publish drops the update for subscribers that are behind.
func (api *BoardAPI) publish(st Status) {
	api.subMu.Lock()
	defer api.subMu.Unlock()
	for ch := range api.subs {
		select {
		case ch <- st:
		default:
			if api.Logger != nil {
				api.Logger.Errorf("web", "stream subscriber behind, dropped status %d", st.Version)
			}
		}
	}
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
