package dashboard

const pageTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Banner}}</title>
<style>
:root { --banner: #003366; --bg: #fff; --fg: #1a1a2e; --card-bg: #f8f9fa; --border: #dee2e6; --muted: #6c757d; --accent: #0d6efd; }
* { box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--fg); margin: 0; line-height: 1.5; }
.banner { display: flex; align-items: center; justify-content: space-between; background: var(--banner); padding: 10px 30px; }
.banner h1 { color: #fff; text-align: center; flex: 1; margin: 0; font-size: 1.6rem; }
.banner img { height: 60px; }
nav.tabs { display: flex; border-bottom: 1px solid var(--border); padding: 0 1rem; }
nav.tabs a { padding: .75rem 1.25rem; text-decoration: none; color: var(--muted); border-bottom: 3px solid transparent; }
nav.tabs a.active { color: var(--fg); border-bottom-color: var(--banner); font-weight: 600; }
main { padding: 1rem 1.5rem; max-width: 1400px; margin: 0 auto; }
.cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: .75rem; margin: 1rem 0; }
.card { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: .75rem; text-align: center; }
.card h4 { margin: 0; font-size: .8rem; color: var(--muted); text-transform: uppercase; }
.card h3 { margin: .25rem 0 0; font-size: 1.5rem; }
.charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; margin-bottom: 1.5rem; }
@media (max-width: 900px) { .charts { grid-template-columns: 1fr; } }
.chart-box { background: var(--card-bg); border: 1px solid var(--border); border-radius: 8px; padding: 1rem; }
.chart-box h5 { margin: 0 0 .5rem; font-size: .9rem; }
.chart-box img { width: 100%; height: auto; }
.placeholder { color: var(--muted); font-style: italic; padding: 2rem; text-align: center; }
.table-wrap { overflow-x: auto; margin-bottom: 1rem; }
table { width: 100%; border-collapse: collapse; font-size: .8125rem; }
th { background: var(--banner); color: #fff; text-transform: uppercase; font-weight: bold; }
th, td { padding: .4rem .6rem; text-align: left; border-bottom: 1px solid var(--border); white-space: nowrap; }
.pager { font-size: .8rem; color: var(--muted); margin-bottom: 1.5rem; }
.pager a { margin: 0 .5rem; }
form.filters { display: flex; flex-wrap: wrap; gap: .75rem; align-items: center; margin-bottom: 1rem; }
form.filters select[multiple] { min-width: 260px; min-height: 8rem; }
pre { background: var(--card-bg); padding: .75rem; overflow-x: auto; }
</style>
</head>
<body>
<header class="banner">
  <img src="/assets/TALENTO-TECH-EDUCACIO-TECNOLOGIA.png" alt="Talento Tech">
  <h1>{{.Banner}}</h1>
  <img src="/assets/Logo.png" alt="Logo">
</header>
<nav class="tabs">
{{- range .Tabs}}
  <a href="{{.URL}}"{{if .Active}} class="active"{{end}}>{{.Label}}</a>
{{- end}}
</nav>
<main>
<h3>{{.Title}}</h3>
{{with .Exploration}}{{template "exploration" .}}{{end}}
{{with .Mix}}{{template "mix" .}}{{end}}
{{with .Simulation}}{{template "simulation" .}}{{end}}
{{with .Projection}}{{template "projection" .}}{{end}}
{{with .Notebook}}{{template "notebook" .}}{{end}}
</main>
</body>
</html>

{{define "table"}}
<div class="table-wrap"><table>
<thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table></div>
{{if gt .Pages 1}}<div class="pager">
{{if .Prev}}<a href="{{.Prev}}">&laquo; Anterior</a>{{end}}
Página {{.Page}} de {{.Pages}} ({{.Total}} filas)
{{if .Next}}<a href="{{.Next}}">Siguiente &raquo;</a>{{end}}
</div>{{end}}
{{end}}

{{define "chart"}}
<div class="chart-box" id="fig-{{.ID}}">
{{if .Empty}}
  <h5>{{.Title}}</h5>
  <div class="placeholder">{{.Message}}</div>
{{else}}
  <img src="{{.Src}}" alt="{{.Title}}" data-figure="{{.Name}}">
{{end}}
</div>
{{end}}

{{define "exploration"}}
<h4>Dataset completo</h4>
{{template "table" .Full}}
<h4>Dataset - Solo {{.FocusCountry}}</h4>
{{template "table" .Focus}}
<h4>Estadísticas de {{.FocusCountry}}</h4>
{{template "table" .Describe}}
<h4>Países disponibles en el Dataset</h4>
<ul>
{{- range .Countries}}
  <li>{{.}}</li>
{{- end}}
</ul>
{{end}}

{{define "mix"}}
<section class="cards">
{{- range .Cards}}
  <div class="card"><h4>{{.Title}}</h4><h3>{{.Value}}</h3></div>
{{- end}}
</section>
<section class="charts">
{{range .Charts}}{{template "chart" .}}{{end}}
{{template "chart" .SolarWind}}
<div>
  <h5>Análisis de la matriz energética</h5>
  <p>1. Matriz energética</p>
  <p>Esta gráfica apilada nos muestra que cada capa de energía contribuye al total de electricidad generada.</p>
  <p>2. Heatmap sobre aporte</p>
  <p>Se observa una dependencia casi completa de la energía hidroeléctrica. La implementación de otras energías renovables es ínfima, lo que indica que esta matriz energética es vulnerable; cualquier sequía fuerte (fenómeno del Niño) o inconvenientes técnicos puede comprometer la estabilidad energética porque no hay respaldo suficiente en materia de energías solar/eólica.</p>
</div>
</section>
<h4>Análisis de CO₂ por país</h4>
<form class="filters" method="get">
  <select name="country" multiple>
  {{- range .Countries}}
    <option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
  {{- end}}
  </select>
  <button type="submit">Actualizar</button>
</form>
<section class="charts">
{{range .CO2}}{{template "chart" .}}{{end}}
</section>
{{end}}

{{define "simulation"}}
<form class="filters" method="get">
  <label>Fracción reasignada <input type="number" name="fraction" min="0" max="1" step="0.05" value="{{.Fraction}}"></label>
  <button type="submit">Simular</button>
</form>
<section class="charts">
{{template "chart" .Chart}}
<div>{{template "table" .Years}}</div>
</section>
{{end}}

{{define "projection"}}
<form class="filters" method="get">
  <label>Fracción reasignada <input type="number" name="fraction" min="0" max="1" step="0.05" value="{{.Fraction}}"></label>
  <label>Hasta <input type="number" name="through" min="2000" max="2100" value="{{.Through}}"></label>
  <label>Fuente <select name="product">
  {{- range .Products}}
    <option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
  {{- end}}
  </select></label>
  <button type="submit">Proyectar</button>
</form>
<section class="charts">
{{range .Charts}}{{template "chart" .}}{{end}}
</section>
<p class="placeholder">Proyección por tasa de crecimiento compuesta constante entre el primer y el último año observado; no es un modelo climático.</p>
{{end}}

{{define "notebook"}}
{{if .Message}}<p class="placeholder">{{.Message}}</p>{{end}}
{{range .Fragments}}
{{- if eq .Kind "h2"}}<h2>{{.Text}}</h2>
{{- else if eq .Kind "h3"}}<h3>{{.Text}}</h3>
{{- else if eq .Kind "img"}}<img src="{{.Src}}" alt="">
{{- else if eq .Kind "pre"}}<pre>{{.Text}}</pre>
{{- else if eq .Kind "html"}}<div class="nb-output">{{.Text}}</div>
{{- else}}<p>{{.Text}}</p>
{{- end}}
{{end}}
{{end}}
`
