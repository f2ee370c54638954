package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/touch-sensor/internal/capsense"
	"github.com/sweeney/touch-sensor/internal/logic"
	"github.com/sweeney/touch-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"state": func(s logic.State) string { return status.StateOrUnknown(string(s)) },
	// bar scales a reading to a percentage of the sampling window.
	"bar": func(r uint8) int { return int(r) * 100 / capsense.MaxCycles },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Touch Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.TOUCHED { color: green; font-weight: bold; }
.RELEASED { color: #888; }
.UNKNOWN { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.bar { background: #4a4; height: 8px; }
</style>
</head>
<body>
<h1>Touch Sensor</h1>

<h2>Pads</h2>
<table>
<tr><th>Pad</th><th>State</th><th>Reading</th><th></th><th>Touches</th><th>Releases</th></tr>
{{range .Sensors}}<tr><td>{{.Name}}</td><td class="{{state .State}}">{{state .State}}</td><td>{{.Reading}}</td><td><div class="bar" style="width: {{bar .Reading}}%"></div></td><td>{{.Touch}}</td><td>{{.Release}}</td></tr>
{{end}}</table>
<p>Ready: {{if .Baselined}}yes{{else}}no{{end}}, threshold {{.Config.Threshold}}</p>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Chip</th><td>{{.Config.Chip}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) error {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	return indexTmpl.Execute(w, data)
}
