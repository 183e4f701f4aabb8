package server

import (
	"html/template"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/msalah0e/schemaview/internal/render"
)

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	Title    string
	Settings template.JS
}

type pageSettings struct {
	Palette      render.Palette `json:"palette"`
	CircleRadius float64        `json:"circleRadius"`
	TextOffset   int            `json:"textOffset"`
	StrokeWidth  int            `json:"strokeWidth"`
}

func (s *Server) handlePage(c echo.Context) error {
	settings, err := json.Marshal(pageSettings{
		Palette:      s.cfg.Palette,
		CircleRadius: render.CircleRadius,
		TextOffset:   render.TextOffset,
		StrokeWidth:  render.LinkStrokeWidth,
	})
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return writePage(c.Response(), pageData{Title: "schemaview", Settings: template.JS(settings)})
}

func writePage(w io.Writer, data pageData) error {
	return pageTemplate.Execute(w, data)
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  html, body { margin: 0; height: 100%; font-family: sans-serif; font-size: 14px; }
  body { display: flex; flex-direction: column; }
  header { display: flex; gap: 8px; align-items: center; padding: 8px; border-bottom: 1px solid #ddd; }
  header input { flex: 1; max-width: 500px; }
  main { flex: 1; display: flex; min-height: 0; }
  #viewer { flex: 1; cursor: grab; }
  #camera { transform-origin: 0 0; }
  #details { width: 320px; padding: 8px; border-left: 1px solid #ddd; overflow: auto; }
  #results { position: absolute; top: 40px; left: 220px; background: white; border: 1px solid #ddd; list-style: none; margin: 0; padding: 0; max-height: 60vh; overflow: auto; }
  #results li { padding: 4px 8px; cursor: pointer; }
  #results li small { display: block; color: grey; }
  #error { color: #b00; }
  .node circle { cursor: pointer; }
  .node text { cursor: pointer; user-select: none; }
  .node.selected text { font-weight: bold; }
</style>
</head>
<body>
<header>
  <select id="schema"></select>
  <input id="search" type="search" placeholder="Search" autocomplete="off">
  <button id="zoom-in" title="Zoom in">+</button>
  <button id="zoom-out" title="Zoom out">&minus;</button>
  <button id="reset-zoom" title="Reset zoom">1:1</button>
  <a id="download" download>Download</a>
  <span id="error"></span>
</header>
<ul id="results" hidden></ul>
<main>
  <svg id="viewer" xmlns="http://www.w3.org/2000/svg">
    <g id="camera"><g id="links"></g><g id="nodes"></g></g>
  </svg>
  <aside id="details"></aside>
</main>
<script>
(function () {
  const settings = {{.Settings}};
  const NS = "http://www.w3.org/2000/svg";
  const $ = (id) => document.getElementById(id);
  const svg = $("viewer"), camera = $("camera"), links = $("links"), nodes = $("nodes");
  let ws;

  function send(msg) {
    if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
  }

  function connect() {
    const q = new URLSearchParams(location.search);
    q.set("width", svg.clientWidth);
    q.set("height", svg.clientHeight);
    const proto = location.protocol === "https:" ? "wss:" : "ws:";
    ws = new WebSocket(proto + "//" + location.host + "/live?" + q.toString());
    ws.onmessage = (e) => handle(JSON.parse(e.data));
  }

  function handle(msg) {
    switch (msg.type) {
    case "schemas":
      $("schema").replaceChildren(...(msg.schemas || []).map((s) => new Option(s.title || s.name, s.name)));
      $("schema").value = msg.schema || "";
      break;
    case "loading":
      $("schema").value = msg.schema;
      $("download").href = "/api/schemas/" + encodeURIComponent(msg.schema);
      $("error").textContent = "";
      setQuery(msg.query);
      break;
    case "frame":
      applyFrame(msg.frame);
      break;
    case "selected":
      showDetails(msg.node);
      if (msg.node) setQuery(msg.query);
      break;
    case "results":
      showResults(msg.results || []);
      break;
    case "error":
      $("error").textContent = msg.error;
      break;
    }
  }

  function setQuery(q) {
    history.replaceState(null, "", q ? "?" + q : location.pathname);
  }

  function applyFrame(f) {
    const s = f.scene;
    (s.links.exit || []).forEach((id) => remove("link-" + id));
    (s.nodes.exit || []).forEach((id) => remove("node-" + id));
    (s.nodes.enter || []).forEach((n) => nodes.appendChild(nodeElement(n)));
    (s.nodes.update || []).forEach((n) => updateNode(n, s.durationMs));
    (s.links.enter || []).forEach((l) => links.appendChild(linkElement(l)));
    (s.links.update || []).forEach((l) => {
      const el = $("link-" + l.id);
      if (el) el.setAttribute("points", points(l));
    });
    nodes.querySelectorAll(".selected").forEach((el) => el.classList.remove("selected"));
    if (s.selected >= 0 && $("node-" + s.selected)) $("node-" + s.selected).classList.add("selected");
    if (f.viewport) moveCamera(f.viewport);
  }

  function remove(id) {
    const el = $(id);
    if (el) el.remove();
  }

  function nodeElement(n) {
    const g = document.createElementNS(NS, "g");
    g.id = n.elementId;
    g.setAttribute("class", "node");
    const circle = document.createElementNS(NS, "circle");
    circle.setAttribute("r", settings.circleRadius);
    circle.style.stroke = settings.palette.CircleBorder;
    circle.addEventListener("click", () => send({type: "toggle", id: n.id}));
    const text = document.createElementNS(NS, "text");
    text.setAttribute("x", settings.textOffset);
    text.setAttribute("dy", ".25em");
    text.textContent = n.label;
    text.addEventListener("click", () => send({type: "select", id: n.id}));
    g.append(circle, text);
    updateNode(n, 0, g);
    return g;
  }

  function updateNode(n, duration, el) {
    el = el || $(n.elementId);
    if (!el) return;
    el.style.transition = "transform " + duration + "ms";
    el.style.transform = "translate(" + n.x + "px," + n.y + "px)";
    el.querySelector("circle").style.fill = n.fill;
    el.querySelector("text").style.fill = n.textColor || "";
  }

  function linkElement(l) {
    const line = document.createElementNS(NS, "polyline");
    line.id = "link-" + l.id;
    line.setAttribute("class", "link");
    line.setAttribute("fill", "none");
    line.setAttribute("stroke", settings.palette.Link);
    line.setAttribute("stroke-width", settings.strokeWidth);
    line.setAttribute("shape-rendering", "crispEdges");
    line.setAttribute("points", points(l));
    return line;
  }

  function points(l) {
    return l.points.map((p) => p.x + "," + p.y).join(" ");
  }

  function moveCamera(v) {
    camera.style.transition = "transform " + v.durationMs + "ms";
    camera.style.transform = "translate(" + v.to.x + "px," + v.to.y + "px) scale(" + v.to.k + ")";
  }

  function showDetails(node) {
    const d = $("details");
    d.replaceChildren();
    if (!node) return;
    const add = (tag, text) => {
      const el = document.createElement(tag);
      el.textContent = text;
      d.appendChild(el);
      return el;
    };
    add("h3", node.name);
    add("code", node.type);
    if (node.deprecated) add("p", "deprecated").style.color = settings.palette.DeprecatedText;
    if (node.description) add("p", node.description);
    if (node.share) {
      const a = add("a", "Link to this element");
      a.href = node.share;
      a.addEventListener("click", (e) => {
        if (navigator.clipboard) {
          e.preventDefault();
          navigator.clipboard.writeText(node.share);
        }
      });
    }
  }

  function showResults(results) {
    const list = $("results");
    list.replaceChildren(...results.map((r) => {
      const li = document.createElement("li");
      li.textContent = r.label;
      const trail = document.createElement("small");
      trail.textContent = r.trail;
      li.appendChild(trail);
      li.addEventListener("click", () => {
        send({type: "focus", path: r.path});
        list.hidden = true;
        $("search").value = "";
      });
      return li;
    }));
    list.hidden = results.length === 0;
  }

  $("schema").addEventListener("change", (e) => send({type: "select-schema", schema: e.target.value}));
  $("search").addEventListener("input", (e) => send({type: "search", query: e.target.value}));
  $("zoom-in").addEventListener("click", () => send({type: "zoom-in"}));
  $("zoom-out").addEventListener("click", () => send({type: "zoom-out"}));
  $("reset-zoom").addEventListener("click", () => send({type: "reset-zoom"}));
  function point(e) {
    const r = svg.getBoundingClientRect();
    return {x: e.clientX - r.left, y: e.clientY - r.top};
  }
  svg.addEventListener("wheel", (e) => {
    e.preventDefault();
    const p = point(e);
    send({type: "wheel", x: p.x, y: p.y, factor: Math.pow(2, -e.deltaY * (e.deltaMode ? 0.05 : 0.002))});
  }, {passive: false});
  svg.addEventListener("dblclick", (e) => {
    const p = point(e);
    send({type: "dblclick", x: p.x, y: p.y});
  });
  let drag = null;
  svg.addEventListener("mousedown", (e) => { drag = {x: e.clientX, y: e.clientY}; });
  window.addEventListener("mouseup", () => { drag = null; });
  window.addEventListener("mousemove", (e) => {
    if (!drag) return;
    send({type: "pan", dx: e.clientX - drag.x, dy: e.clientY - drag.y});
    drag = {x: e.clientX, y: e.clientY};
  });
  window.addEventListener("resize", () => send({type: "resize", width: svg.clientWidth, height: svg.clientHeight}));

  connect();
})();
</script>
</body>
</html>
`
