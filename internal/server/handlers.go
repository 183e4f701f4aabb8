package server

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/msalah0e/schemaview/internal/graph"
	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/search"
	"github.com/msalah0e/schemaview/internal/share"
)

// SchemaInfo is one catalog entry in API responses.
type SchemaInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// NodeInfo describes a selected node.
type NodeInfo struct {
	schema.Details
	Path  []int  `json:"path"`
	Share string `json:"share,omitempty"`
}

// SearchResult is one search hit.
type SearchResult struct {
	Label string `json:"label"`
	Trail string `json:"trail"`
	ID    int    `json:"id"`
	Path  []int  `json:"path"`
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "running",
		"uptime":   time.Since(s.started).Round(time.Second).String(),
		"sessions": s.Sessions(),
	})
}

func (s *Server) schemaInfos(c echo.Context) ([]SchemaInfo, error) {
	entries, err := s.src.Entries(c.Request().Context())
	if err != nil {
		return nil, err
	}
	byName := make(map[string]registry.Entry, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
		names = append(names, e.Name)
	}
	var out []SchemaInfo
	for _, n := range registry.Sort(names) {
		e := byName[n]
		out = append(out, SchemaInfo{Name: e.Name, Title: e.Title, Description: e.Description})
	}
	return out, nil
}

func (s *Server) handleSchemas(c echo.Context) error {
	infos, err := s.schemaInfos(c)
	if err != nil {
		return err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	initial, _ := registry.Initial(names, c.QueryParam(share.SchemaParam))
	return c.JSON(http.StatusOK, map[string]any{
		"schemas": infos,
		"initial": initial,
	})
}

func (s *Server) handleDownload(c echo.Context) error {
	name := c.Param("name")
	snap, err := s.load(c.Request().Context(), name)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".json"))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, snap.Raw)
}

func (s *Server) handleSVG(c echo.Context) error {
	name := c.Param("name")
	snap, err := s.load(c.Request().Context(), name)
	if err != nil {
		return err
	}
	focus, _ := share.NodeFrom(c.QueryParams(), snap.Root)
	view, err := s.cfg.Still(snap.Root, focus, c.QueryParam("expand") == "all")
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, "image/svg+xml")
	c.Response().WriteHeader(http.StatusOK)
	return s.cfg.WriteSVG(c.Response(), view, name)
}

func (s *Server) handleDOT(c echo.Context) error {
	snap, err := s.load(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/vnd.graphviz", []byte(graph.ExportDOT(snap.Root, s.cfg.Palette)))
}

func (s *Server) handleSearch(c echo.Context) error {
	snap, err := s.load(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"results": searchResults(search.Index(snap.Root), c.QueryParam("q")),
	})
}

func (s *Server) handleNode(c echo.Context) error {
	name := c.Param("name")
	snap, err := s.load(c.Request().Context(), name)
	if err != nil {
		return err
	}
	n, ok := share.NodeFrom(c.QueryParams(), snap.Root)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no node at path "+c.QueryParam(share.PathParam))
	}
	return c.JSON(http.StatusOK, s.nodeInfo(c.Request(), name, n))
}

func searchResults(opts []search.Option, query string) []SearchResult {
	out := []SearchResult{}
	for _, o := range search.Find(opts, query, search.MinChars) {
		out = append(out, SearchResult{Label: o.Label, Trail: o.Trail(), ID: o.Node.ID(), Path: schema.PathTo(o.Node)})
	}
	return out
}

func (s *Server) nodeInfo(r *http.Request, schemaName string, n *schema.Node) NodeInfo {
	info := NodeInfo{Details: schema.Describe(n), Path: schema.PathTo(n)}
	if link, err := share.URLToNode(s.viewerURL(r), schemaName, n); err == nil {
		info.Share = link
	}
	return info
}

// viewerURL is the page URL share links point to.
func (s *Server) viewerURL(r *http.Request) string {
	if s.cfg.BaseURL != "" {
		return s.cfg.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/"}
	return u.String()
}
