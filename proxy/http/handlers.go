package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.dedis.ch/confidential"
	"go.dedis.ch/confidential/core/origin"
	"golang.org/x/xerrors"
)

const maxBodySize = 1 << 20

// Querier is the service that answers the queries of the clients.
type Querier interface {
	QuerySigned(env origin.Envelope) ([]byte, error)
}

// NewQueryHandler returns a handler that expects a JSON envelope in the body of
// a POST request and replies with the encoded response of the contract.
func NewQueryHandler(q Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "only POST requests are supported", http.StatusMethodNotAllowed)
			return
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			http.Error(w, xerrors.Errorf("failed to read body: %v", err).Error(),
				http.StatusBadRequest)
			return
		}

		var env origin.Envelope

		err = json.Unmarshal(data, &env)
		if err != nil {
			http.Error(w, xerrors.Errorf("failed to decode envelope: %v", err).Error(),
				http.StatusBadRequest)
			return
		}

		resp, err := q.QuerySigned(env)
		if err != nil {
			http.Error(w, xerrors.Errorf("query failed: %v", err).Error(),
				http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(resp)
	}
}

// NewMetricsHandler returns a prometheus handler serving the collectors
// registered by the packages.
func NewMetricsHandler() (http.Handler, error) {
	reg := prometheus.NewRegistry()

	for _, c := range confidential.PromCollectors {
		err := reg.Register(c)
		if err != nil {
			return nil, xerrors.Errorf("failed to register collector: %v", err)
		}
	}

	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}
