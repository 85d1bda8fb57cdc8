// Package tracing provides the jaeger tracers used by the services. Tracers
// are created lazily from the environment (JAEGER_* variables) and cached by
// service name.
package tracing

import (
	"io"
	"sort"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"golang.org/x/xerrors"
)

// DefaultService is the service name used when none is configured.
const DefaultService = "confidential"

type tracerCatalog struct {
	sync.Mutex
	tracers map[string]closableTracer
}

type closableTracer struct {
	tracer opentracing.Tracer
	closer io.Closer
}

var catalog = tracerCatalog{
	tracers: make(map[string]closableTracer),
}

// GetTracer returns an opentracing tracer for the given service name. Tracers
// are cached so that the same instance is returned for a given name.
func GetTracer(service string) (opentracing.Tracer, error) {
	if service == "" {
		service = DefaultService
	}

	catalog.Lock()
	defer catalog.Unlock()

	tc, ok := catalog.tracers[service]
	if ok {
		return tc.tracer, nil
	}

	cfg, err := jaegercfg.FromEnv()
	if err != nil {
		return nil, xerrors.Errorf("failed to parse jaeger environment: %v", err)
	}

	cfg.ServiceName = service

	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, xerrors.Errorf("failed to create tracer: %v", err)
	}

	catalog.tracers[service] = closableTracer{
		tracer: tracer,
		closer: closer,
	}

	return tracer, nil
}

// Services returns the sorted names of the cached tracers.
func Services() []string {
	catalog.Lock()
	defer catalog.Unlock()

	names := make([]string, 0, len(catalog.tracers))
	for name := range catalog.tracers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// CloseAll flushes and closes every cached tracer, then empties the cache.
func CloseAll() error {
	catalog.Lock()
	defer catalog.Unlock()

	for name, tc := range catalog.tracers {
		err := tc.closer.Close()
		if err != nil {
			return xerrors.Errorf("failed to close tracer '%s': %v", name, err)
		}

		delete(catalog.tracers, name)
	}

	return nil
}
