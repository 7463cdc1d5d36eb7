package metrics_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/plume/internal/adapters/metrics"
)

func scrape(t *testing.T, p *metrics.Prometheus) string {
	t.Helper()
	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestPrometheus_Observations(t *testing.T) {
	p := metrics.NewPrometheus()

	p.ObserveTask("css", 20*time.Millisecond, false)
	p.ObserveTask("css", 10*time.Millisecond, true)
	p.ObserveStage("css", "compile", 5*time.Millisecond, true)
	p.ObserveReload("js", "reload")
	p.SetClients(2)

	body := scrape(t, p)
	assert.Contains(t, body, `plume_task_results_total{kind="css",result="success"} 1`)
	assert.Contains(t, body, `plume_task_results_total{kind="css",result="failed"} 1`)
	assert.Contains(t, body, `plume_task_duration_seconds_count{kind="css"} 2`)
	assert.Contains(t, body, `plume_stage_results_total{kind="css",result="failed",stage="compile"} 1`)
	assert.Contains(t, body, `plume_reload_broadcasts_total{kind="js",mode="reload"} 1`)
	assert.Contains(t, body, "plume_livereload_clients 2")
}

func TestPrometheus_PrivateRegistry(t *testing.T) {
	a, b := metrics.NewPrometheus(), metrics.NewPrometheus()
	a.SetClients(5)

	assert.Contains(t, scrape(t, b), "plume_livereload_clients 0")
}

func TestNoop(t *testing.T) {
	var n metrics.Noop
	n.ObserveTask("js", time.Second, false)
	n.ObserveStage("js", "minify", time.Second, true)
	n.ObserveReload("js", "reload")
	n.SetClients(1)
}
