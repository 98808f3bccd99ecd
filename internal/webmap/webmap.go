package webmap

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Rectangle is one colored pixel cell, in degrees.
type Rectangle struct {
	South, West, North, East float64
	Color                    string
	Popup                    string
	Tooltip                  string
}

// Outline is a field boundary ring as [lat, lon] pairs.
type Outline struct {
	Points [][2]float64
}

// Layer is one independently-toggleable overlay, one per (date, variable).
type Layer struct {
	Name       string
	Visible    bool
	Rectangles []Rectangle
	Outlines   []Outline
}

// TitlePanel is the fixed summary panel in the top-left corner.
type TitlePanel struct {
	Heading         string
	GradientFrom    string
	GradientTo      string
	FirstDate       string
	LastDate        string
	ObservationDays int
	FieldCount      int
	TotalPixels     int
	ShowPixelTotal  bool
	LatestUpdate    string
	CloudCeiling    int
}

// Document is one standalone interactive map page.
type Document struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Layers    []Layer
	Title     TitlePanel
}

// Write renders the document to a standalone HTML file.
func (d *Document) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create map output directory: %v", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create map file %s: %v", path, err)
	}
	defer file.Close()

	if err := mapTemplate.Execute(file, d); err != nil {
		return fmt.Errorf("failed to render map %s: %v", path, err)
	}
	return nil
}

var mapTemplate = template.Must(template.New("webmap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title.Heading}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>

<div style="position: fixed; top: 10px; left: 50px; width: 600px;
            background: linear-gradient(135deg, {{.Title.GradientFrom}} 0%, {{.Title.GradientTo}} 100%);
            border: 3px solid white; z-index: 9999; padding: 15px;
            border-radius: 10px; box-shadow: 0 4px 15px rgba(0,0,0,0.3); color: white;">
    <h3 style="margin: 0; font-size: 20px;">{{.Title.Heading}}</h3>
    <p style="margin: 5px 0 0 0; font-size: 13px; opacity: 0.9;">
        {{.Title.FirstDate}} - {{.Title.LastDate}} ({{.Title.ObservationDays}} observation days)<br>
        {{.Title.FieldCount}} fields{{if .Title.ShowPixelTotal}} | total pixels: {{.Title.TotalPixels}}{{end}}<br>
        latest update: {{.Title.LatestUpdate}} | cloud cover below {{.Title.CloudCeiling}}%<br>
        Pick observation dates from the layer control on the right
    </p>
</div>

<div style="position: fixed; bottom: 50px; right: 50px; width: 200px;
            background-color: white; border: 3px solid #2c3e50; z-index: 9999;
            padding: 15px; border-radius: 10px; box-shadow: 0 4px 15px rgba(0,0,0,0.3);">
<h4 style="margin:0 0 10px 0; border-bottom:2px solid #3498db; padding-bottom:5px;">LAI / NDVI</h4>
<p style="margin:5px 0;"><span style="color:#d73027; font-size:20px;">&#9632;</span> Low</p>
<p style="margin:5px 0;"><span style="color:#fc8d59; font-size:20px;">&#9632;</span> Somewhat low</p>
<p style="margin:5px 0;"><span style="color:#fee08b; font-size:20px;">&#9632;</span> Medium</p>
<p style="margin:5px 0;"><span style="color:#91cf60; font-size:20px;">&#9632;</span> High</p>
<p style="margin:5px 0;"><span style="color:#1a9850; font-size:20px;">&#9632;</span> Very high</p>
</div>

<div id="layerButtons" style="
    position: fixed;
    right: 10px;
    z-index: 1000;
    background: white;
    padding: 5px;
    border-radius: 8px;
    box-shadow: 0 2px 6px rgba(0,0,0,0.3);
    font-size: 14px;
">
  <button onclick="selectAllLayers()" style="margin:2px;">Select all</button>
  <button onclick="deselectAllLayers()" style="margin:2px;">Clear all</button>
</div>

<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var overlays = {};
{{range $i, $layer := .Layers}}
var layer{{$i}} = L.featureGroup();
{{range $layer.Rectangles}}L.rectangle([[{{.South}}, {{.West}}], [{{.North}}, {{.East}}]], {
  color: {{.Color}}, weight: 0.5, fill: true, fillColor: {{.Color}}, fillOpacity: 0.8
}).bindPopup({{.Popup}}).bindTooltip({{.Tooltip}}).addTo(layer{{$i}});
{{end}}
{{range $layer.Outlines}}L.polygon({{.Points}}, {color: '#000000', weight: 2, fill: false}).addTo(layer{{$i}});
{{end}}
overlays[{{$layer.Name}}] = layer{{$i}};
{{if $layer.Visible}}layer{{$i}}.addTo(map);
{{end}}
{{end}}
L.control.layers(null, overlays, {position: 'topright', collapsed: false}).addTo(map);

function selectAllLayers() {
  document.querySelectorAll('.leaflet-control-layers-selector').forEach(cb => {
    if (!cb.checked) cb.click();
  });
}
function deselectAllLayers() {
  document.querySelectorAll('.leaflet-control-layers-selector').forEach(cb => {
    if (cb.checked) cb.click();
  });
}

function adjustButtonPosition() {
  const ctrl = document.querySelector('.leaflet-control-layers');
  const btns = document.getElementById('layerButtons');
  if (ctrl && btns) {
    const rect = ctrl.getBoundingClientRect();
    btns.style.top = (rect.bottom + 8) + 'px';
  }
}
setInterval(adjustButtonPosition, 500);
</script>
</body>
</html>
`))
