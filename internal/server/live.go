package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/search"
	"github.com/msalah0e/schemaview/internal/session"
	"github.com/msalah0e/schemaview/internal/share"
	"github.com/msalah0e/schemaview/internal/tree"
	"github.com/msalah0e/schemaview/internal/viewport"
)

// Client message types.
const (
	MsgSelectSchema = "select-schema"
	MsgInit         = "init"
	MsgToggle       = "toggle"
	MsgSelect       = "select"
	MsgFocus        = "focus"
	MsgZoomIn       = "zoom-in"
	MsgZoomOut      = "zoom-out"
	MsgResetZoom    = "reset-zoom"
	MsgPan          = "pan"
	MsgWheel        = "wheel"
	MsgDoubleClick  = "dblclick"
	MsgResize       = "resize"
	MsgSearch       = "search"
)

// Server message types.
const (
	MsgSchemas  = "schemas"
	MsgLoading  = "loading"
	MsgLoaded   = "loaded"
	MsgFrame    = "frame"
	MsgSelected = "selected"
	MsgResults  = "results"
	MsgError    = "error"
)

const maxMessageSize = 64 << 10

// Inbound is a message from the browser.
type Inbound struct {
	Type   string  `json:"type"`
	Schema string  `json:"schema,omitempty"`
	ID     int     `json:"id,omitempty"`
	Path   []int   `json:"path,omitempty"`
	Query  string  `json:"query,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Factor float64 `json:"factor,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Outbound is a message to the browser.
type Outbound struct {
	Type    string         `json:"type"`
	Schema  string         `json:"schema,omitempty"`
	Schemas []SchemaInfo   `json:"schemas,omitempty"`
	Frame   *tree.Frame    `json:"frame,omitempty"`
	Node    *NodeInfo      `json:"node,omitempty"`
	Results []SearchResult `json:"results,omitempty"`
	Error   string         `json:"error,omitempty"`
	// Query is the page query string to show, kept in step with the
	// selected schema and node.
	Query string `json:"query,omitempty"`
}

// handleLive handles the /live WebSocket endpoint.
func (s *Server) handleLive(c echo.Context) error {
	infos, err := s.schemaInfos(c)
	if err != nil {
		return err
	}
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return nil
	}

	r := c.Request()
	id := uuid.NewString()
	width := floatParam(r, "width", s.cfg.ViewerWidth)
	height := floatParam(r, "height", s.cfg.ViewerHeight)
	query := r.URL.Query()
	query.Del("width")
	query.Del("height")
	ls := &liveSession{
		id:      id,
		server:  s,
		conn:    conn,
		request: r,
		query:   query,
		zoom:    viewport.New(s.cfg.Zoom, width, height),
		logger:  s.logger.With("session", id),
		started: time.Now(),
	}
	ls.loader = session.NewLoader(s.src, ls.onSchemaChange)

	s.sessionCount.Add(1)
	s.liveMu.Lock()
	s.live[id] = ls
	s.liveMu.Unlock()
	defer func() {
		s.liveMu.Lock()
		delete(s.live, id)
		s.liveMu.Unlock()
		s.sessionCount.Add(-1)
	}()

	ls.run(r.Context(), infos)
	return nil
}

func floatParam(r *http.Request, name string, def float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// liveSession is one browser tab. Reads happen on one goroutine; schema
// loads run in the background so a newer selection can supersede them.
type liveSession struct {
	id      string
	server  *Server
	conn    *websocket.Conn
	request *http.Request
	loader  *session.Loader
	logger  *slog.Logger
	started time.Time

	writeMu sync.Mutex

	mu      sync.Mutex
	query   url.Values
	zoom    *viewport.Zoom
	snap    *session.Snapshot
	ctrl    *tree.Controller
	options []search.Option
	loads   sync.WaitGroup
}

func (ls *liveSession) run(ctx context.Context, infos []SchemaInfo) {
	ctx, cancel := context.WithCancel(ctx)
	defer ls.cleanup(cancel)
	ls.logger.Info("live session started")

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	requested, _ := share.SchemaFrom(ls.query)
	initial, ok := registry.Initial(names, requested)
	ls.send(Outbound{Type: MsgSchemas, Schemas: infos, Schema: initial})
	if ok {
		var focus []int
		if requested == initial {
			focus = pathFromQuery(ls.query)
		}
		ls.selectSchema(ctx, initial, focus)
	}

	ls.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := ls.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ls.logger.Warn("live session read failed", "error", err)
			}
			return
		}
		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			ls.sendError(fmt.Errorf("malformed message: %w", err))
			continue
		}
		ls.handle(ctx, msg)
	}
}

func (ls *liveSession) cleanup(cancel context.CancelFunc) {
	cancel()
	ls.loads.Wait()
	ls.conn.Close()
	ls.logger.Info("live session ended", "duration_ms", time.Since(ls.started).Milliseconds())
}

func pathFromQuery(q url.Values) []int {
	if !q.Has(share.PathParam) {
		return nil
	}
	path, err := schema.DecodePath(q.Get(share.PathParam))
	if err != nil {
		return nil
	}
	return path
}

func (ls *liveSession) handle(ctx context.Context, msg Inbound) {
	if msg.Type == MsgSelectSchema {
		ls.selectSchema(ctx, msg.Schema, nil)
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	if msg.Type == MsgResize {
		ls.zoom.Resize(msg.Width, msg.Height)
		return
	}
	if ls.ctrl == nil {
		ls.sendError(errors.New("no schema loaded"))
		return
	}

	var err error
	switch msg.Type {
	case MsgInit:
		err = ls.ctrl.InitTree()
	case MsgToggle:
		err = ls.ctrl.ClickCircle(msg.ID)
	case MsgSelect:
		err = ls.ctrl.ClickLabel(msg.ID)
	case MsgFocus:
		var n *schema.Node
		if n, err = schema.NodeAt(ls.snap.Root, msg.Path); err == nil {
			ls.onSelect(n)
		}
	case MsgZoomIn:
		ls.ctrl.ZoomIn()
	case MsgZoomOut:
		ls.ctrl.ZoomOut()
	case MsgResetZoom:
		ls.ctrl.ResetZoom()
	case MsgPan:
		ls.ctrl.Pan(msg.DX, msg.DY)
	case MsgWheel:
		ls.ctrl.ZoomAt(msg.X, msg.Y, msg.Factor)
	case MsgDoubleClick:
		ls.ctrl.DoubleClick(msg.X, msg.Y)
	case MsgSearch:
		ls.send(Outbound{Type: MsgResults, Results: searchResults(ls.options, msg.Query)})
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		ls.sendError(err)
	}
}

// selectSchema starts loading name in the background. focus, if set, is
// selected once the tree is shown.
func (ls *liveSession) selectSchema(ctx context.Context, name string, focus []int) {
	ls.mu.Lock()
	ls.query = share.SyncSchema(ls.query, name)
	query := ls.query.Encode()
	ls.mu.Unlock()
	ls.send(Outbound{Type: MsgLoading, Schema: name, Query: query})

	ls.loads.Add(1)
	go func() {
		defer ls.loads.Done()
		snap, err := ls.loader.Select(ctx, name)
		if errors.Is(err, session.ErrSuperseded) {
			return
		}
		if err != nil {
			ls.logger.Warn("schema load failed", "schema", name, "error", err)
			ls.sendError(fmt.Errorf("failed to load schema %s: %w", name, err))
			return
		}
		ls.logger.Info("schema loaded", "schema", name, "nodes", snap.Nodes, "elapsed_ms", snap.Elapsed.Milliseconds())
		if focus == nil {
			return
		}
		ls.mu.Lock()
		defer ls.mu.Unlock()
		if ls.snap != snap {
			return
		}
		if n, err := schema.NodeAt(snap.Root, focus); err == nil {
			ls.onSelect(n)
		}
	}()
}

// onSchemaChange runs under the loader lock whenever the shown schema
// changes: nil clears the tree, a snapshot replaces it.
func (ls *liveSession) onSchemaChange(snap *session.Snapshot) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if snap == nil {
		if ls.ctrl != nil {
			ls.ctrl.ClearTree()
		}
		ls.snap, ls.ctrl, ls.options = nil, nil, nil
		ls.send(Outbound{Type: MsgSelected})
		return
	}

	opts := ls.server.cfg.Options(ls.zoom)
	opts.OnFrame = func(f tree.Frame) { ls.send(Outbound{Type: MsgFrame, Frame: &f}) }
	opts.OnSelect = ls.onSelect
	ls.snap = snap
	ls.options = search.Index(snap.Root)
	ls.ctrl = tree.New(snap.Root, opts)
	ls.send(Outbound{Type: MsgLoaded, Schema: snap.Name})
	if err := ls.ctrl.InitTree(); err != nil {
		ls.sendError(err)
	}
}

// onSelect reacts to a selection change the way the page does: the node is
// focused and its details are pushed. nil resets the details panel. The
// caller holds ls.mu.
func (ls *liveSession) onSelect(n *schema.Node) {
	if n == nil {
		ls.send(Outbound{Type: MsgSelected})
		return
	}
	if err := ls.ctrl.FocusOnNode(n); err != nil {
		ls.sendError(err)
		return
	}
	ls.query = share.SyncNode(ls.query, n)
	info := ls.server.nodeInfo(ls.request, ls.snap.Name, n)
	ls.send(Outbound{Type: MsgSelected, Node: &info, Query: ls.query.Encode()})
}

func (ls *liveSession) send(msg Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		ls.logger.Error("encoding message failed", "type", msg.Type, "error", err)
		return
	}
	ls.writeMu.Lock()
	defer ls.writeMu.Unlock()
	if err := ls.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		ls.logger.Debug("write failed", "type", msg.Type, "error", err)
	}
}

func (ls *liveSession) sendError(err error) {
	ls.send(Outbound{Type: MsgError, Error: err.Error()})
}
