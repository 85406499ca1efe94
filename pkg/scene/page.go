package scene

// pageHTML is the single-file interactive viewer. The scene JSON is inlined
// into the page, so the artifact works offline with no external assets.
const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  html, body { margin: 0; height: 100%; background: #111418; color: #e6e6e6;
    font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; }
  #canvas { display: block; width: 100%; height: 100%; cursor: grab; }
  #panel { position: fixed; top: 12px; left: 12px; background: rgba(20,24,30,.92);
    border: 1px solid #2a3038; border-radius: 8px; padding: 12px 16px;
    max-width: 260px; max-height: calc(100% - 48px); overflow-y: auto; }
  #panel h1 { font-size: 15px; margin: 0 0 4px; }
  #panel .stats { font-size: 12px; color: #9aa4b0; margin-bottom: 8px; }
  #panel h2 { font-size: 11px; text-transform: uppercase; letter-spacing: .08em;
    color: #9aa4b0; margin: 10px 0 4px; }
  .entry { display: flex; align-items: center; font-size: 12px; margin: 2px 0; }
  .swatch { width: 10px; height: 10px; border-radius: 50%; margin-right: 6px;
    flex: none; }
  .count { color: #9aa4b0; margin-left: auto; padding-left: 10px; }
  #tooltip { position: fixed; display: none; background: rgba(20,24,30,.95);
    border: 1px solid #2a3038; border-radius: 6px; padding: 8px 10px;
    font-size: 12px; white-space: pre; pointer-events: none; max-width: 420px;
    overflow: hidden; z-index: 10; }
  #banner { position: fixed; bottom: 12px; left: 12px; font-size: 12px;
    color: #d9a441; background: rgba(20,24,30,.92); border: 1px solid #2a3038;
    border-radius: 6px; padding: 6px 10px; }
</style>
</head>
<body>
<canvas id="canvas"></canvas>
<div id="panel">
  <h1>{{.Title}}</h1>
  <div class="stats">{{.Stats.Nodes}} nodes &middot; {{.Stats.Edges}} edges</div>
  <h2>Categories</h2>
  {{range .Legend}}<div class="entry"><span class="swatch" style="background:{{.Color}}"></span>{{.Label}}<span class="count">{{.Count}}</span></div>
  {{end}}
  <h2>Relationships</h2>
  {{range .EdgeLegend}}<div class="entry"><span class="swatch" style="background:{{.Color}}"></span>{{.Label}}<span class="count">{{.Count}}</span></div>
  {{end}}
</div>
<div id="tooltip"></div>
{{if .Placeholder}}<div id="banner">Sample data: no graph source was available.</div>{{end}}
<script>
var SCENE = {{.SceneJSON}};

(function () {
  "use strict";
  var canvas = document.getElementById("canvas");
  var ctx = canvas.getContext("2d");
  var tooltip = document.getElementById("tooltip");
  var is3D = SCENE.dimensions === 3;

  var zoom = SCENE.camera.zoom || 1;
  var panX = 0, panY = 0;
  var angleY = 0, angleX = 0.3;
  var autoRotate = is3D;
  var rotateSpeed = SCENE.camera.rotate_speed || 0;

  // Bounds of the layout box, for the fit-to-screen transform.
  var min = [Infinity, Infinity, Infinity], max = [-Infinity, -Infinity, -Infinity];
  SCENE.nodes.forEach(function (n) {
    n.position.forEach(function (v, d) {
      if (v < min[d]) min[d] = v;
      if (v > max[d]) max[d] = v;
    });
  });
  var center = [], span = 0;
  for (var d = 0; d < (is3D ? 3 : 2); d++) {
    center[d] = isFinite(min[d]) ? (min[d] + max[d]) / 2 : 0;
    span = Math.max(span, max[d] - min[d]);
  }
  if (!isFinite(span) || span <= 0) span = 1;

  function resize() {
    canvas.width = canvas.clientWidth * devicePixelRatio;
    canvas.height = canvas.clientHeight * devicePixelRatio;
    draw();
  }

  // project maps a layout-space position to canvas pixels.
  function project(p) {
    var x = p[0] - center[0], y = p[1] - center[1], z = is3D ? p[2] - center[2] : 0;
    if (is3D) {
      var cy = Math.cos(angleY), sy = Math.sin(angleY);
      var cx = Math.cos(angleX), sx = Math.sin(angleX);
      var x1 = cy * x + sy * z, z1 = -sy * x + cy * z;
      var y1 = cx * y - sx * z1, z2 = sx * y + cx * z1;
      var f = 2.2 / (2.2 + z2 / span);
      x = x1 * f; y = y1 * f; z = z2;
    }
    var scale = Math.min(canvas.width, canvas.height) * 0.42 * zoom / span;
    return {
      x: canvas.width / 2 + panX + x * scale,
      y: canvas.height / 2 + panY + y * scale,
      depth: z,
      scale: scale
    };
  }

  var hovered = null;

  function draw() {
    ctx.clearRect(0, 0, canvas.width, canvas.height);

    ctx.globalAlpha = 0.55;
    SCENE.edges.forEach(function (e) {
      ctx.strokeStyle = e.color;
      ctx.lineWidth = devicePixelRatio;
      ctx.beginPath();
      var pts = e.points || e.segment;
      pts.forEach(function (p, i) {
        var q = project(p);
        if (i === 0) ctx.moveTo(q.x, q.y); else ctx.lineTo(q.x, q.y);
      });
      ctx.stroke();
      if (e.arrow) {
        ctx.fillStyle = e.color;
        ctx.beginPath();
        e.arrow.forEach(function (p, i) {
          var q = project(p);
          if (i === 0) ctx.moveTo(q.x, q.y); else ctx.lineTo(q.x, q.y);
        });
        ctx.closePath();
        ctx.fill();
      }
    });
    ctx.globalAlpha = 1;

    var order = SCENE.nodes.map(function (n) {
      var q = project(n.position);
      return { node: n, q: q };
    });
    if (is3D) order.sort(function (a, b) { return b.q.depth - a.q.depth; });

    order.forEach(function (item) {
      var n = item.node, q = item.q;
      var r = (n.size / 2) * devicePixelRatio * Math.sqrt(zoom);
      if (is3D) r *= 2.2 / (2.2 + q.depth / span);
      ctx.beginPath();
      ctx.arc(q.x, q.y, r, 0, 2 * Math.PI);
      ctx.fillStyle = hovered === n ? n.hover_color : n.color;
      ctx.fill();
      ctx.lineWidth = 1.5 * devicePixelRatio;
      ctx.strokeStyle = n.border_color;
      ctx.stroke();
    });
  }

  function nodeAt(px, py) {
    var best = null, bestDist = Infinity;
    SCENE.nodes.forEach(function (n) {
      var q = project(n.position);
      var r = (n.size / 2) * devicePixelRatio * Math.sqrt(zoom) + 4;
      var dx = px - q.x, dy = py - q.y;
      var dist = dx * dx + dy * dy;
      if (dist <= r * r && dist < bestDist) { best = n; bestDist = dist; }
    });
    return best;
  }

  var dragging = false, lastX = 0, lastY = 0;
  canvas.addEventListener("mousedown", function (e) {
    dragging = true; autoRotate = false;
    lastX = e.clientX; lastY = e.clientY;
    canvas.style.cursor = "grabbing";
  });
  window.addEventListener("mouseup", function () {
    dragging = false;
    canvas.style.cursor = "grab";
  });
  window.addEventListener("mousemove", function (e) {
    var px = e.clientX * devicePixelRatio, py = e.clientY * devicePixelRatio;
    if (dragging) {
      if (is3D) {
        angleY += (e.clientX - lastX) * 0.01;
        angleX += (e.clientY - lastY) * 0.01;
      } else {
        panX += (e.clientX - lastX) * devicePixelRatio;
        panY += (e.clientY - lastY) * devicePixelRatio;
      }
      lastX = e.clientX; lastY = e.clientY;
      draw();
      return;
    }
    var n = nodeAt(px, py);
    if (n !== hovered) {
      hovered = n;
      draw();
    }
    if (n) {
      tooltip.textContent = n.tooltip;
      tooltip.style.display = "block";
      tooltip.style.left = (e.clientX + 14) + "px";
      tooltip.style.top = (e.clientY + 14) + "px";
    } else {
      tooltip.style.display = "none";
    }
  });
  canvas.addEventListener("wheel", function (e) {
    e.preventDefault();
    zoom *= e.deltaY < 0 ? 1.1 : 1 / 1.1;
    zoom = Math.max(0.1, Math.min(zoom, 20));
    draw();
  }, { passive: false });

  if (autoRotate && rotateSpeed > 0) {
    (function spin() {
      if (autoRotate) {
        angleY += rotateSpeed / 60;
        draw();
      }
      requestAnimationFrame(spin);
    })();
  }

  window.addEventListener("resize", resize);
  resize();
})();
</script>
</body>
</html>
`
