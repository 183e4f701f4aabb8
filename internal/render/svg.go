package render

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msalah0e/schemaview/internal/viewport"
)

// SVGOptions controls a static snapshot.
type SVGOptions struct {
	Width, Height float64
	Transform     viewport.Transform
	Palette       Palette
	Title         string
}

// WriteSVG draws the scene as a standalone SVG document. Links are drawn
// before nodes so lines never cross a circle.
func WriteSVG(w io.Writer, scene *Scene, opts SVGOptions) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" font-family="sans-serif" font-size="14">`+"\n",
		num(opts.Width), num(opts.Height))
	if opts.Title != "" {
		fmt.Fprintf(bw, "  <title>%s</title>\n", escape(opts.Title))
	}
	fmt.Fprintf(bw, "  <g transform=\"%s\">\n", opts.Transform)

	for _, l := range scene.Links() {
		pts := make([]string, len(l.Points))
		for i, p := range l.Points {
			pts[i] = num(p.X) + "," + num(p.Y)
		}
		fmt.Fprintf(bw, "    <polyline class=\"link\" fill=\"none\" points=\"%s\" stroke=\"%s\" stroke-width=\"%d\" shape-rendering=\"crispEdges\"/>\n",
			strings.Join(pts, " "), escape(opts.Palette.Link), LinkStrokeWidth)
	}

	selected, hasSelection := scene.Selected()
	for _, n := range scene.Nodes() {
		class := "node"
		if hasSelection && n.ID == selected {
			class += " selected"
		}
		fmt.Fprintf(bw, "    <g id=\"%s\" class=\"%s\" transform=\"translate(%s,%s)\">\n", n.ElementID, class, num(n.X), num(n.Y))
		fmt.Fprintf(bw, "      <circle r=\"%s\" style=\"stroke: %s; fill: %s\"/>\n", num(CircleRadius), escape(opts.Palette.CircleBorder), escape(n.Fill))
		style := ""
		if n.TextColor != "" {
			style = fmt.Sprintf(" style=\"fill: %s\"", escape(n.TextColor))
		}
		fmt.Fprintf(bw, "      <text x=\"%d\" dy=\".25em\"%s>%s</text>\n", TextOffset, style, escape(n.Label))
		bw.WriteString("    </g>\n")
	}

	bw.WriteString("  </g>\n</svg>\n")
	return bw.Flush()
}

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func escape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return ""
	}
	return buf.String()
}
