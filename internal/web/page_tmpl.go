package web

import "html/template"

// pageData feeds the dashboard page template.
type pageData struct {
	Title string
	Lang  string
}

var page = template.Must(template.New("page").Parse(pageTmpl))

// pageTmpl is the whole browser dashboard. The script only renders server
// snapshots; every decision about values, tiers and notifications is made
// on the Go side.
const pageTmpl = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
body{margin:0;background:#0d1117;color:#c9d1d9;font-family:system-ui,sans-serif}
header{display:flex;align-items:center;gap:12px;padding:14px 20px;background:#161b22;border-bottom:1px solid #30363d}
header h1{font-size:18px;margin:0;flex:1}
header button,header a{background:#21262d;border:1px solid #30363d;color:#c9d1d9;padding:6px 14px;border-radius:6px;cursor:pointer;font-size:13px;text-decoration:none}
#clock{font-family:monospace;font-size:13px;color:#8b949e}
#cards{display:grid;grid-template-columns:repeat(auto-fill,minmax(220px,1fr));gap:14px;padding:20px}
.card{background:#161b22;border:1px solid #30363d;border-radius:8px;padding:14px 16px}
.card .name{font-size:12px;color:#8b949e;text-transform:uppercase;letter-spacing:.6px}
.card .val{font-size:26px;font-weight:700;font-family:monospace;margin:6px 0}
.card .range{font-size:11px;color:#8b949e}
.card .tier{display:inline-block;margin-top:8px;padding:2px 10px;border-radius:10px;font-size:11px;font-weight:600}
.tier.Normal{background:#1a7f37;color:#fff}
.tier.Alert{background:#9e6a03;color:#fff}
.tier.Warning{background:#bc4c00;color:#fff}
.tier.Low,.tier.High{background:#cf222e;color:#fff}
#toast{position:fixed;right:20px;bottom:20px;max-width:380px;padding:12px 36px 12px 16px;border-radius:8px;font-size:13px;display:none;color:#fff}
#toast.success{background:#1a7f37}#toast.info{background:#0969da}
#toast.warning{background:#bc4c00}#toast.danger{background:#cf222e}
#toast b{position:absolute;top:6px;right:10px;cursor:pointer}
table{border-collapse:collapse;margin:0 20px 20px;font-size:12px;font-family:monospace}
th,td{border:1px solid #30363d;padding:6px 10px;text-align:right}
th{background:#161b22}
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <span id="clock"></span>
  <button id="langBtn"></button>
  <a href="/api/export">CSV</a>
</header>
<div id="cards"></div>
<table id="table"><thead></thead><tbody></tbody></table>
<div id="toast"><span id="toastMsg"></span><b onclick="dismiss()">×</b></div>
<script>
let lang = "{{.Lang}}";
const cards = document.getElementById("cards");
const toast = document.getElementById("toast");

function render(snap) {
  if (snap.at) document.getElementById("clock").textContent = new Date(snap.at).toLocaleTimeString();
  if (snap.language) lang = snap.language;
  document.getElementById("langBtn").textContent = lang === "en" ? "Afaan Oromoo" : "English";
  if (snap.kind !== "tick") return;
  cards.innerHTML = "";
  for (const s of snap.sensors || []) {
    const d = document.createElement("div");
    d.className = "card";
    d.innerHTML = '<div class="name">' + s.name + '</div><div class="val">' + s.display +
      '</div><div class="range">' + s.range + '</div><span class="tier ' + s.tier + '">' + s.tierLabel + '</span>';
    cards.appendChild(d);
  }
  showToast(snap.notification);
}

let toastTimer = null;
function showToast(n) {
  clearTimeout(toastTimer);
  if (!n) { toast.style.display = "none"; return; }
  document.getElementById("toastMsg").textContent = n.message;
  toast.className = n.severity;
  toast.style.display = "block";
  toastTimer = setTimeout(() => toast.style.display = "none",
    Math.max(0, new Date(n.expires) - Date.now()));
}

function dismiss() { fetch("/api/dismiss", {method: "POST"}); toast.style.display = "none"; }

document.getElementById("langBtn").onclick = () =>
  fetch("/api/language", {method: "POST", headers: {"Content-Type": "application/json"},
    body: JSON.stringify({language: lang === "en" ? "om" : "en"})}).then(loadTable);

function loadTable() {
  fetch("/api/table").then(r => r.json()).then(t => {
    document.querySelector("#table thead").innerHTML =
      "<tr>" + t.headers.map(h => "<th>" + h + "</th>").join("") + "</tr>";
    document.querySelector("#table tbody").innerHTML = t.rows.map(r =>
      "<tr><td>" + new Date(r.time).toLocaleString() + "</td>" +
      r.values.map(v => "<td>" + v.toFixed(2) + "</td>").join("") +
      "<td>" + r.status + "</td></tr>").join("");
  });
}

function connect() {
  const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = e => render(JSON.parse(e.data));
  ws.onclose = () => setTimeout(connect, 2000);
}

fetch("/api/readings").then(r => r.json()).then(render);
loadTable();
connect();
</script>
</body>
</html>
`
