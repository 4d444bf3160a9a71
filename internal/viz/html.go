package viz

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// HTMLOptions configures static HTML generation.
type HTMLOptions struct {
	Title   string
	ZoomPan bool // Whether to include wheel zoom and background drag panning
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Title:   "SPARQL Graph",
		ZoomPan: true,
	}
}

// templateData holds data for the HTML templates.
type templateData struct {
	Title    string
	Scene    *Scene
	ZoomPan  bool
	BasePath string
	CSS      template.CSS
}

// GenerateHTML generates a self-contained HTML page showing the scene.
func GenerateHTML(scene *Scene, opts HTMLOptions) (string, error) {
	if scene == nil {
		return "", fmt.Errorf("scene cannot be nil")
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if scene.IsEmpty() {
		return generateEmptyHTML(opts.Title), nil
	}

	data := templateData{
		Title:   opts.Title,
		Scene:   scene,
		ZoomPan: opts.ZoomPan,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.ExecuteTemplate(&buf, "page", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ViewerOptions configures the live viewer page.
type ViewerOptions struct {
	Title string
	// BasePath prefixes every API request, e.g. "" or "/viz".
	BasePath string
}

// GenerateViewerHTML generates the page served by the live viewer. It draws
// the graph from the JSON API and follows layout frames over server-sent
// events; pointer input is sent back to the server.
func GenerateViewerHTML(opts ViewerOptions) (string, error) {
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}
	if opts.BasePath != "" && !strings.HasPrefix(opts.BasePath, "/") {
		return "", fmt.Errorf("invalid base path %q: must start with /", opts.BasePath)
	}

	data := templateData{
		Title:    opts.Title,
		BasePath: strings.TrimSuffix(opts.BasePath, "/"),
		CSS:      template.CSS(graphCSS),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.ExecuteTemplate(&buf, "viewer", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>` + template.HTMLEscapeString(title) + ` - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No triples</h2>
    <p>The query returned no results to draw.</p>
    <p>Check the input with <code>sparqlviz graph</code></p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #chart {
      background: white;
      overflow: hidden;
    }
    #save {
      position: absolute;
      top: 8px;
      right: 8px;
    }
  </style>
</head>
<body>
  <div id="chart">{{template "svg" .Scene}}</div>
  <button id="save">Save SVG</button>
  <script>
    (function() {
      const svg = document.querySelector('#chart svg');
      const group = svg.querySelector('g.viewport');

      document.getElementById('save').addEventListener('click', function() {
        const blob = new Blob([svg.outerHTML], {type: 'image/svg+xml'});
        const a = document.createElement('a');
        a.href = URL.createObjectURL(blob);
        a.download = 'sparql-viz-graph.svg';
        a.click();
        URL.revokeObjectURL(a.href);
      });
{{if .ZoomPan}}
      let t = {x: {{.Scene.Transform.X}}, y: {{.Scene.Transform.Y}}, k: {{.Scene.Transform.K}} || 1};
      function apply() {
        group.setAttribute('transform', 'translate(' + t.x + ',' + t.y + ') scale(' + t.k + ')');
      }

      svg.addEventListener('wheel', function(evt) {
        evt.preventDefault();
        const r = svg.getBoundingClientRect();
        const ax = evt.clientX - r.left, ay = evt.clientY - r.top;
        const k = Math.max(0.1, Math.min(10, t.k * Math.pow(2, -evt.deltaY * 0.002)));
        const px = (ax - t.x) / t.k, py = (ay - t.y) / t.k;
        t = {x: ax - px * k, y: ay - py * k, k: k};
        apply();
      }, {passive: false});

      let last = null;
      svg.addEventListener('pointerdown', function(evt) {
        if (evt.target.tagName === 'circle') return;
        last = {x: evt.clientX, y: evt.clientY};
        svg.setPointerCapture(evt.pointerId);
      });
      svg.addEventListener('pointermove', function(evt) {
        if (!last) return;
        t.x += evt.clientX - last.x;
        t.y += evt.clientY - last.y;
        last = {x: evt.clientX, y: evt.clientY};
        apply();
      });
      svg.addEventListener('pointerup', function() { last = null; });
{{end}}
    })();
  </script>
</body>
</html>`

const viewerTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
      display: flex;
      height: 100vh;
    }
    #chart {
      flex: 1;
      background: white;
      overflow: hidden;
    }
    #panel {
      width: 320px;
      overflow: auto;
      padding: 8px 12px;
      font-size: 12px;
      border-left: 1px solid #ddd;
    }
    #panel h3 {
      font-size: 13px;
      word-break: break-all;
    }
    #panel td {
      padding: 2px 4px;
      vertical-align: top;
      word-break: break-all;
    }
    #toolbar {
      position: absolute;
      top: 8px;
      left: 8px;
    }
    {{.CSS}}
  </style>
</head>
<body>
  <div id="chart"></div>
  <div id="panel"><p>Click a node to describe it.</p></div>
  <div id="toolbar">
    <button id="fullscreen">Fullscreen</button>
    <a href="{{.BasePath}}/api/export.svg" download="sparql-viz-graph.svg"><button>Save SVG</button></a>
  </div>
  <script>
    (function() {
      const base = {{.BasePath}};
      const ns = 'http://www.w3.org/2000/svg';
      const chart = document.getElementById('chart');
      const panel = document.getElementById('panel');
      let svg = null, group = null;
      let t = {x: 0, y: 0, k: 1};
      let circles = {}, nodeTexts = {}, paths = [], linkTexts = [];
      let triples = [];
      let pos = {};

      function post(path, body) {
        return fetch(base + path, {
          method: 'POST',
          headers: {'Content-Type': 'application/json'},
          body: JSON.stringify(body)
        });
      }

      function el(name, attrs) {
        const e = document.createElementNS(ns, name);
        for (const k in attrs) e.setAttribute(k, attrs[k]);
        return e;
      }

      function toScreen(evt) {
        const r = svg.getBoundingClientRect();
        return {x: evt.clientX - r.left, y: evt.clientY - r.top};
      }

      function build(doc) {
        chart.innerHTML = '';
        circles = {}; nodeTexts = {}; paths = []; linkTexts = [];
        triples = doc.triples || [];
        svg = el('svg', {width: chart.clientWidth, height: chart.clientHeight});
        const defs = el('defs', {});
        const marker = el('marker', {id: 'end', viewBox: '0 -5 10 10', refX: 30, refY: -0.5,
          markerWidth: 6, markerHeight: 6, orient: 'auto'});
        marker.appendChild(el('polyline', {points: '0,-5 10,0 0,5'}));
        defs.appendChild(marker);
        svg.appendChild(defs);
        group = el('g', {'class': 'viewport'});
        svg.appendChild(group);

        const labels = {};
        (doc.nodes || []).forEach(function(n) { labels[n.id] = n.label; });

        triples.forEach(function(tr) {
          const p = el('path', {'class': 'link', 'marker-end': 'url(#end)'});
          group.appendChild(p);
          paths.push(p);
        });
        triples.forEach(function(tr) {
          const txt = el('text', {'class': 'link-text'});
          txt.textContent = labels[tr.predicate] || tr.predicate;
          group.appendChild(txt);
          linkTexts.push(txt);
        });
        (doc.nodes || []).forEach(function(n) {
          if (n.type !== 'node') return;
          const txt = el('text', {'class': 'node-text'});
          txt.textContent = n.label;
          group.appendChild(txt);
          nodeTexts[n.id] = txt;
        });
        (doc.nodes || []).forEach(function(n) {
          if (n.type !== 'node') return;
          const c = el('circle', {'class': n.class, r: n.r, 'data-id': n.id});
          attachPointer(c, n.id);
          group.appendChild(c);
          circles[n.id] = c;
        });
        attachBackground();
        chart.appendChild(svg);
        if (doc.frame) draw(doc.frame);
      }

      function draw(frame) {
        pos = frame.positions || pos;
        if (frame.transform) t = frame.transform;
        if (!group) return;
        group.setAttribute('transform', 'translate(' + t.x + ',' + t.y + ') scale(' + t.k + ')');
        for (const id in circles) {
          const p = pos[id];
          if (!p) continue;
          circles[id].setAttribute('cx', p.x);
          circles[id].setAttribute('cy', p.y);
          nodeTexts[id].setAttribute('x', p.x + 12);
          nodeTexts[id].setAttribute('y', p.y + 3);
        }
        triples.forEach(function(tr, i) {
          const s = pos[tr.subject], p = pos[tr.predicate], o = pos[tr.object];
          if (!s || !p || !o) return;
          paths[i].setAttribute('d', 'M ' + s.x + ',' + s.y + ' S ' + p.x + ',' + p.y + ' ' + o.x + ',' + o.y);
          linkTexts[i].setAttribute('x', (s.x + p.x + o.x) / 3 + 4);
          linkTexts[i].setAttribute('y', (s.y + p.y + o.y) / 3 + 4);
        });
      }

      function attachPointer(c, id) {
        // Drag calls for one gesture run strictly in order; a move still
        // waiting to be sent is overwritten by the next one.
        let moved = false, start = null, dragQueue = Promise.resolve(), pendingMove = null;
        function enqueue(path, body) {
          const next = dragQueue.then(function() {
            return post(path, typeof body === 'function' ? body() : body);
          });
          dragQueue = next.catch(function() { return null; });
          return next;
        }
        c.addEventListener('pointerdown', function(evt) {
          evt.stopPropagation();
          c.setPointerCapture(evt.pointerId);
          start = {x: evt.clientX, y: evt.clientY};
          moved = false;
          pendingMove = null;
          const p = toScreen(evt);
          enqueue('/api/drag/start', {id: id, x: p.x, y: p.y});
        });
        c.addEventListener('pointermove', function(evt) {
          if (!start) return;
          if (Math.hypot(evt.clientX - start.x, evt.clientY - start.y) > 3) moved = true;
          const p = toScreen(evt);
          if (pendingMove) {
            pendingMove.x = p.x;
            pendingMove.y = p.y;
            return;
          }
          pendingMove = {id: id, x: p.x, y: p.y};
          enqueue('/api/drag/move', function() {
            const body = pendingMove;
            pendingMove = null;
            return body;
          });
        });
        c.addEventListener('pointerup', function() {
          if (!start) return;
          start = null;
          const dragged = moved;
          enqueue('/api/drag/end', {id: id});
          enqueue('/api/click', {id: id, dragged: dragged}).then(function(r) {
            return r.ok ? r.json() : null;
          }).then(describe).catch(function() {});
        });
      }

      function attachBackground() {
        let last = null;
        svg.addEventListener('wheel', function(evt) {
          evt.preventDefault();
          const r = svg.getBoundingClientRect();
          post('/api/zoom', {x: evt.clientX - r.left, y: evt.clientY - r.top, deltaY: evt.deltaY});
        }, {passive: false});
        svg.addEventListener('pointerdown', function(evt) {
          last = {x: evt.clientX, y: evt.clientY};
        });
        svg.addEventListener('pointermove', function(evt) {
          if (!last) return;
          post('/api/pan', {dx: evt.clientX - last.x, dy: evt.clientY - last.y});
          last = {x: evt.clientX, y: evt.clientY};
        });
        svg.addEventListener('pointerup', function() { last = null; });
      }

      function describe(res) {
        if (!res || !res.node) return;
        let html = '<h3>' + escapeHtml(res.node) + '</h3><table>';
        (res.triples || []).forEach(function(tr) {
          html += '<tr><td>' + escapeHtml(tr.subject) + '</td><td>' + escapeHtml(tr.predicate) +
            '</td><td>' + escapeHtml(tr.object) + '</td></tr>';
        });
        panel.innerHTML = html + '</table>';
      }

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function load() {
        fetch(base + '/api/graph').then(function(r) { return r.json(); }).then(build);
      }

      function resize(fullscreen) {
        post('/api/resize', {width: chart.clientWidth, height: chart.clientHeight, fullscreen: fullscreen});
      }

      document.getElementById('fullscreen').addEventListener('click', function() {
        if (document.fullscreenElement) {
          document.exitFullscreen();
        } else {
          chart.requestFullscreen();
        }
      });
      document.addEventListener('fullscreenchange', function() {
        resize(!!document.fullscreenElement);
      });
      window.addEventListener('resize', function() { resize(!!document.fullscreenElement); });

      const events = new EventSource(base + '/api/events');
      events.addEventListener('frame', function(evt) { draw(JSON.parse(evt.data)); });
      events.addEventListener('graph', load);
      events.addEventListener('cleared', function() {
        chart.innerHTML = '<p>No triples.</p>';
        group = null;
      });

      load();
      resize(false);
    })();
  </script>
</body>
</html>`
