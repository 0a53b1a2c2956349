package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// indexPage is a single-file frontend: kick off scans, poll job status and
// browse past runs without any build tooling.
const indexPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>revizor</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 64rem; color: #1f2430; }
input { width: 28rem; padding: 0.4rem; }
button { padding: 0.4rem 1rem; cursor: pointer; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; font-size: 0.9rem; }
th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #eceef2; }
#status { margin: 0.6rem 0; color: #667085; }
pre { background: #f4f5f7; padding: 1rem; overflow: auto; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>revizor</h1>
<p><input id="path" placeholder="/path/to/project"> <button onclick="scan()">Review</button></p>
<p id="status"></p>
<h2>Recent runs</h2>
<table id="runs"><tr><th>ID</th><th>When</th><th>Path</th><th>Files</th><th>Issues</th><th>Security</th></tr></table>
<pre id="report" hidden></pre>
<script>
async function scan() {
  const path = document.getElementById('path').value;
  const res = await fetch('/api/scan', {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify({path})});
  const job = await res.json();
  if (!res.ok) { setStatus(job.error); return; }
  setStatus('scanning (job ' + job.id + ')...');
  poll(job.id);
}
async function poll(id) {
  const res = await fetch('/api/scan/' + id);
  const job = await res.json();
  if (job.status === 'running') { setTimeout(() => poll(id), 1000); return; }
  setStatus(job.status === 'done' ? 'done (run ' + job.run_id + ')' : 'failed: ' + job.error);
  loadRuns();
}
async function loadRuns() {
  const res = await fetch('/api/results');
  const data = await res.json();
  const table = document.getElementById('runs');
  table.querySelectorAll('tr:not(:first-child)').forEach(tr => tr.remove());
  for (const run of data.runs) {
    const tr = document.createElement('tr');
    tr.innerHTML = '<td><a href="#" onclick="show(' + run.id + ');return false">' + run.id + '</a></td>' +
      '<td>' + run.created_at + '</td><td>' + run.path + '</td>' +
      '<td>' + run.files_reviewed + '</td><td>' + run.issues_found + '</td><td>' + run.security_issues + '</td>';
    table.appendChild(tr);
  }
}
async function show(id) {
  const res = await fetch('/api/results/' + id);
  const el = document.getElementById('report');
  el.textContent = JSON.stringify(await res.json(), null, 2);
  el.hidden = false;
}
function setStatus(msg) { document.getElementById('status').textContent = msg; }
loadRuns();
</script>
</body>
</html>
`

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
