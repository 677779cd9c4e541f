package usage

import (
	"context"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntimeWithCustomAdapters(t *testing.T) {
	src := &stubSource{}
	snk := &stubSink{}
	obs := &stubObservability{}

	rt, err := NewRuntime(DefaultConfig(), WithSource(src), WithSink(snk), WithObservability(obs))
	require.NoError(t, err)

	assert.Same(t, src, rt.source)
	assert.Same(t, snk, rt.sink)
	assert.Same(t, obs, rt.obs)
}

func TestNewRuntimeDefaults(t *testing.T) {
	rt, err := NewRuntime(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "procfs", rt.source.Name())
	assert.Equal(t, "stdout", rt.sink.Name())

	_, err = NewRuntime(nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Policy.OnMissingField = "retry"
	_, err = NewRuntime(cfg)
	assert.Error(t, err)
}

func TestRuntimeSampleOnce(t *testing.T) {
	src := &stubSource{records: []StatusRecord{{"VmRSS": "1530084", "VmSize": "3201152"}}}
	rt, err := NewRuntime(DefaultConfig(), WithSource(src), WithObservability(&stubObservability{}))
	require.NoError(t, err)

	s, err := rt.SampleOnce("4242")
	require.NoError(t, err)
	assert.Equal(t, "1530084", s.Resident)
	assert.Equal(t, "3201152", s.Virtual)

	_, err = rt.SampleOnce("4242")
	assert.ErrorIs(t, err, ErrProcessAbsent)
}

func TestRuntimeServesMetricsWhileRunning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Addr = "127.0.0.1:0"

	src := &stubSource{records: []StatusRecord{{"VmRSS": "1530084", "VmSize": "3201152"}}, repeatLast: true}
	snk := &stubSink{}
	logger, _ := test.NewNullLogger()
	reg := prometheus.NewRegistry()

	rt, err := NewRuntime(cfg, WithSource(src), WithSink(snk), WithRegistry(reg), WithLogger(logger))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Reason, 1)
	go func() {
		reason, _ := rt.Run(ctx, "4242")
		done <- reason
	}()

	require.Eventually(t, func() bool { return rt.MetricsAddr() != "" && snk.count() > 0 },
		2*time.Second, 5*time.Millisecond)

	var body string
	require.Eventually(t, func() bool {
		body = scrape("http://" + rt.MetricsAddr() + "/metrics")
		return strings.Contains(body, "usage_resident_kb 1.530084e+06")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Contains(t, body, "usage_virtual_kb 3.201152e+06")
	assert.Contains(t, body, "usage_samples_total")

	resp, err := http.Get("http://" + rt.MetricsAddr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case reason := <-done:
		assert.Equal(t, ReasonCancelled, reason)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Empty(t, rt.MetricsAddr())
}

func TestRuntimePSUtilSourceStopsOnZombie(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("zombie state is read from procfs")
	}
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Wait() })

	cfg := DefaultConfig()
	cfg.Source.Kind = "psutil"
	snk := &stubSink{}
	rt, err := NewRuntime(cfg, WithSink(snk), WithObservability(&stubObservability{}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reason, err := rt.Run(ctx, strconv.Itoa(cmd.Process.Pid))
	require.NoError(t, err)
	assert.Equal(t, ReasonProcessAbsent, reason)

	snk.mu.Lock()
	defer snk.mu.Unlock()
	for _, s := range snk.samples {
		assert.NotEqual(t, "0", s.Resident)
		assert.NotEqual(t, "0", s.Virtual)
	}
}

func TestSampleLine(t *testing.T) {
	s := Sample{Timestamp: time.Unix(1697472000, 0), Resident: "1530084", Virtual: "3201152"}
	assert.Equal(t, []string{"1697472000", "1530084", "3201152"}, strings.Fields(s.Line()))
}

func scrape(url string) string {
	resp, err := http.Get(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(body)
}

// stubSource hands out records in order, then reports the process gone.
type stubSource struct {
	mu         sync.Mutex
	records    []StatusRecord
	repeatLast bool
	calls      int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) ReadStatus(string) (StatusRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.calls++ }()
	if s.calls < len(s.records) {
		return s.records[s.calls], nil
	}
	if s.repeatLast && len(s.records) > 0 {
		return s.records[len(s.records)-1], nil
	}
	return nil, ErrStatusNotFound
}

type stubSink struct {
	mu      sync.Mutex
	samples []*PipelineSample
}

func (s *stubSink) Write(sample *PipelineSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	return nil
}

func (s *stubSink) Name() string { return "stub" }

func (s *stubSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

type stubObservability struct{}

func (s *stubObservability) LogDebug(string, ...Field)           {}
func (s *stubObservability) LogInfo(string, ...Field)            {}
func (s *stubObservability) LogError(string, error, ...Field)    {}
func (s *stubObservability) LogCritical(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)          {}
func (s *stubObservability) ObserveLatency(string, float64)      {}
func (s *stubObservability) SetGauge(string, float64)            {}
func (s *stubObservability) RecordSample(*PipelineSample)        {}
