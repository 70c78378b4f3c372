package logs

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hamyarhq/hamyar_backend/config"
)

// lokiWriter pushes one JSON log line per Write to Loki's push API. Doing it
// by hand keeps the logging path free of an extra client dependency; a lost
// line is acceptable, so there is no retry.
type lokiWriter struct {
	endpoint string
	username string
	password string
	client   *http.Client
	labels   string // promql label set, e.g. {service="hamyar_backend",env="production"}
}

func newLokiHandler(cfg *config.Config, level slog.Level) slog.Handler {
	lw := &lokiWriter{
		endpoint: cfg.Logging.Output.Loki.Endpoint + "/loki/api/v1/push",
		username: cfg.Logging.Output.Loki.Username,
		password: cfg.Logging.Output.Loki.Password,
		client:   &http.Client{Timeout: 3 * time.Second},
		labels:   fmt.Sprintf(`{service="%s",env="%s"}`, cfg.Observability.ServiceName, cfg.Server.Environment),
	}
	return slog.NewJSONHandler(lw, &slog.HandlerOptions{Level: level})
}

func (lw *lokiWriter) Write(p []byte) (int, error) {
	ts := fmt.Sprintf("%d", time.Now().UnixNano())
	line := strings.TrimRight(string(p), "\n")

	payload := fmt.Sprintf(`{"streams":[{"stream":%s,"values":[["%s",%q]]}]}`,
		labelsAsJSON(lw.labels), ts, line)

	req, err := http.NewRequest(http.MethodPost, lw.endpoint, strings.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if lw.username != "" {
		req.SetBasicAuth(lw.username, lw.password)
	}

	resp, err := lw.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return len(p), nil
}

// labelsAsJSON turns {k="v",k2="v2"} into {"k":"v","k2":"v2"} for the
// stream field.
func labelsAsJSON(labels string) string {
	s := strings.TrimSuffix(strings.TrimPrefix(labels, "{"), "}")
	var sb strings.Builder
	sb.WriteString("{")
	for i, part := range strings.Split(s, ",") {
		kv := strings.SplitN(part, "=", 2)
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"` + strings.TrimSpace(kv[0]) + `":` + kv[1])
	}
	sb.WriteString("}")
	return sb.String()
}
