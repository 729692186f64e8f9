package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/mode-display/internal/logic"
	"github.com/sweeney/mode-display/internal/status"
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
	"level": func(l logic.Levels, ch logic.Channel) uint8 {
		return l[ch]
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Mode Display</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
img.oled { image-rendering: pixelated; width: 256px; height: 128px; background: #000; border: 1px solid #444; }
.led { display: inline-block; width: 14px; height: 14px; border-radius: 50%; margin-right: 6px; vertical-align: middle; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Mode Display</h1>

<p><img id="oled" class="oled" src="/frame.png" alt="{{.Frame.Label}} {{.Frame.Icon}}"></p>

<h2>State</h2>
<table>
<tr><th>Mode</th><td id="mode">{{.Mode}} ({{printf "%d" .Mode}})</td></tr>
<tr><th>In mode</th><td>{{uptime .InMode}}</td></tr>
<tr><th>Indicators</th><td id="levels">
<span class="led" style="background: rgb({{level .Levels 0}},0,0)"></span>{{level .Levels 0}}
<span class="led" style="background: rgb({{level .Levels 1}},{{level .Levels 1}},0)"></span>{{level .Levels 1}}
<span class="led" style="background: rgb(0,{{level .Levels 2}},0)"></span>{{level .Levels 2}}
</td></tr>
</table>
{{if .Remote}}
<p>
<button onclick="press('cycle')">Cycle</button>
<button onclick="press('reset')">Reset</button>
</p>
{{end}}

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Cycles</th><td>{{.Counts.Cycles}}</td></tr>
<tr><th>Resets</th><td>{{.Counts.Resets}}</td></tr>
<tr><th>Cycle presses (accepted / debounced)</th><td>{{.Buttons.CycleAccepted}} / {{.Buttons.CycleRejected}}</td></tr>
<tr><th>Reset presses (accepted / debounced)</th><td>{{.Buttons.ResetAccepted}} / {{.Buttons.ResetRejected}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Refresh</th><td>{{.Config.RefreshMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Indicator</th><td>{{.Config.Indicator}}</td></tr>
<tr><th>Display</th><td>{{.Config.Display}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
<script>
(function() {
  var modeEl = document.getElementById("mode");
  var oled = document.getElementById("oled");
  var last = "";

  window.press = function(b) {
    fetch("/mode/" + b, { method: "POST" });
  };

  function connect() {
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = function(ev) {
      try {
        var s = JSON.parse(ev.data).status;
        modeEl.textContent = s.mode + " (" + s.mode_index + ")";
        var key = s.frame.label + s.frame.icon;
        if (key !== last) {
          last = key;
          oled.src = "/frame.png?" + Date.now();
        }
      } catch (e) {}
    };
    ws.onclose = function() { setTimeout(connect, 5000); };
  }
  connect();
})();
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, remote bool) {
	// Snapshot has Uptime()/InMode() methods but the template needs fields.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		InMode time.Duration
		Remote bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		InMode:   snap.InMode(),
		Remote:   remote,
	}
	indexTmpl.Execute(w, data)
}
