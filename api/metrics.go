package api

import (
	"regexp"
	"sort"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single request
type RequestTrace struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// MetricsCollector aggregates request metrics off the hot path. Traces are
// queued on a buffered channel and dropped when it is full; metrics are
// best-effort and must never slow a request down.
type MetricsCollector struct {
	mu           sync.RWMutex
	routeMetrics map[string]*RouteMetrics
	totalCount   int64
	totalErrors  int64
	traceChan    chan RequestTrace
	stopChan     chan struct{}
}

var globalMetrics *MetricsCollector
var metricsOnce sync.Once

// GetMetrics returns the global metrics collector, initializing it on first use
func GetMetrics() *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = &MetricsCollector{
			routeMetrics: make(map[string]*RouteMetrics),
			traceChan:    make(chan RequestTrace, 1000),
			stopChan:     make(chan struct{}),
		}
		go globalMetrics.processTraces()
	})
	return globalMetrics
}

// RecordTrace queues a trace without blocking; full channel means the trace
// is dropped
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
}

func (mc *MetricsCollector) processTraces() {
	for {
		select {
		case trace := <-mc.traceChan:
			mc.processTrace(trace)
		case <-mc.stopChan:
			return
		}
	}
}

var accessCodeSegment = regexp.MustCompile(`/[A-Za-z0-9]{12}$`)
var uuidSegment = regexp.MustCompile(`/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// normalizePath folds access codes and record IDs into one bucket per route
func normalizePath(path string) string {
	path = accessCodeSegment.ReplaceAllString(path, "/:code")
	path = uuidSegment.ReplaceAllString(path, "/:id")
	return path
}

func (mc *MetricsCollector) processTrace(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.totalCount++
	if trace.Status >= 400 {
		mc.totalErrors++
	}

	key := trace.Method + " " + normalizePath(trace.Path)
	rm, ok := mc.routeMetrics[key]
	if !ok {
		rm = &RouteMetrics{Method: trace.Method, Path: normalizePath(trace.Path), MinTime: trace.Duration}
		mc.routeMetrics[key] = rm
	}
	rm.Count++
	if trace.Status >= 400 {
		rm.ErrorCount++
	}
	rm.TotalTime += trace.Duration
	rm.AvgTime = rm.TotalTime / time.Duration(rm.Count)
	if trace.Duration < rm.MinTime {
		rm.MinTime = trace.Duration
	}
	if trace.Duration > rm.MaxTime {
		rm.MaxTime = trace.Duration
	}
	rm.LastRequest = trace.StartTime
}

// MetricsSummary is the snapshot served by the metrics endpoint
type MetricsSummary struct {
	TotalRequests int64          `json:"totalRequests"`
	TotalErrors   int64          `json:"totalErrors"`
	Routes        []RouteMetrics `json:"routes"`
}

// Summary returns a copy of the aggregated route metrics, busiest first
func (mc *MetricsCollector) Summary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	routes := make([]RouteMetrics, 0, len(mc.routeMetrics))
	for _, rm := range mc.routeMetrics {
		routes = append(routes, *rm)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Count > routes[j].Count })

	return MetricsSummary{
		TotalRequests: mc.totalCount,
		TotalErrors:   mc.totalErrors,
		Routes:        routes,
	}
}
