package viz

import (
	"fmt"
	"html/template"
	"io"

	"github.com/sparqlviz/sparqlviz/internal/layout"
)

// DefaultSVGName is the file name offered when exporting the graph image.
const DefaultSVGName = "sparql-viz-graph.svg"

var funcs = template.FuncMap{
	"num":       num,
	"transform": transformAttr,
}

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Funcs(funcs).Parse(svgTemplate))
	template.Must(compiledTemplate.New("page").Parse(htmlTemplate))
	template.Must(compiledTemplate.New("viewer").Parse(viewerTemplate))
}

// RenderSVG writes a standalone SVG image of the scene.
func RenderSVG(w io.Writer, s *Scene) error {
	if s == nil {
		return fmt.Errorf("scene cannot be nil")
	}
	if err := compiledTemplate.ExecuteTemplate(w, "svg", s); err != nil {
		return fmt.Errorf("rendering svg: %w", err)
	}
	return nil
}

func transformAttr(t layout.Transform) string {
	if t.K == 0 {
		t = layout.Identity()
	}
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.K))
}

// graphCSS styles both the exported image and the HTML pages.
const graphCSS = `
.link { fill: none; stroke: #999; stroke-width: 1.5px; }
#end polyline { fill: #999; }
circle { stroke: #fff; stroke-width: 1.5px; cursor: pointer; }
circle.node { fill: #7f8c8d; }
circle.class { fill: #e8923a; }
circle.instance { fill: #4a90d9; }
circle.blank { fill: #bdc3c7; }
.node-text { font: 10px sans-serif; fill: #333; pointer-events: none; }
.link-text { font: 9px sans-serif; fill: #777; pointer-events: none; }
`

const svgTemplate = `{{define "svg"}}<svg xmlns="http://www.w3.org/2000/svg" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">
<style>` + graphCSS + `</style>
<defs><marker id="end" viewBox="0 -5 10 10" refX="30" refY="-0.5" markerWidth="6" markerHeight="6" orient="auto"><polyline points="0,-5 10,0 0,5"></polyline></marker></defs>
<g class="viewport" transform="{{transform .Transform}}">
{{- range .Links}}
<path class="link" marker-end="url(#end)" d="{{.D}}"></path>
{{- end}}
{{- range .LinkTexts}}
<text class="link-text" x="{{num .X}}" y="{{num .Y}}">{{.Text}}</text>
{{- end}}
{{- range .NodeTexts}}
<text class="node-text" x="{{num .X}}" y="{{num .Y}}">{{.Text}}</text>
{{- end}}
{{- range .Circles}}
<circle class="{{.Class}}" data-id="{{.ID}}" r="{{num .R}}" cx="{{num .X}}" cy="{{num .Y}}"></circle>
{{- end}}
</g>
</svg>
{{end}}`
