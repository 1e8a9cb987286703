package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/obstetriccare/internal/services/dashboard/routepath"
)

// LiveScript renders the status badge and the script that applies pushed
// stat updates to [data-key] elements with a short fade.
func LiveScript(page PageContext) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		script := strings.NewReplacer(
			"{{WS_PATH}}", routepath.StatsWS,
			"{{CONNECTED}}", jsString(T(page.Loc, "dashboard.live_connected")),
			"{{DISCONNECTED}}", jsString(T(page.Loc, "dashboard.live_disconnected")),
		).Replace(liveScript)
		m := &markup{w: w}
		m.raw(`<span id="live-status" class="live-status badge text-bg-secondary">`)
		m.text(T(page.Loc, "dashboard.live_disconnected"))
		m.raw(`</span><script>` + script + `</script>`)
		return m.err
	})
}

const liveScript = `(function () {
  var status = document.getElementById("live-status");
  function setStatus(connected) {
    if (!status) { return; }
    status.textContent = connected ? {{CONNECTED}} : {{DISCONNECTED}};
    status.className = "live-status badge " + (connected ? "text-bg-success" : "text-bg-secondary");
  }
  function applyStat(key, value) {
    var el = document.querySelector('[data-key="' + CSS.escape(key) + '"]');
    if (!el) { return; }
    el.textContent = value;
    el.style.opacity = "0.5";
    setTimeout(function () { el.style.opacity = "1"; }, 200);
  }
  function connect() {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(scheme + location.host + "{{WS_PATH}}");
    ws.onopen = function () { setStatus(true); };
    ws.onmessage = function (event) {
      var msg;
      try { msg = JSON.parse(event.data); } catch (e) { return; }
      if (msg.type === "snapshot" && msg.values) {
        Object.keys(msg.values).forEach(function (key) { applyStat(key, msg.values[key]); });
      } else if (msg.type === "stat_update") {
        applyStat(msg.key, msg.value);
      }
    };
    ws.onclose = function () {
      setStatus(false);
      setTimeout(connect, 2000);
    };
  }
  connect();
})();`
