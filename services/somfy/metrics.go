package somfy

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	decodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "somfy_decodes_total",
		Help: "Pulse captures by decode result",
	}, []string{"result"})
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "somfy_commands_total",
		Help: "Decoded commands by control code",
	}, []string{"control"})
)

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Println("Serving metrics on", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Println("Metrics server stopped:", err)
	}
}
