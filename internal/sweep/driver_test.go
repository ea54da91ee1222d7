package sweep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/tracking"
	"github.com/driftml/sweep-runner/internal/training"
	"go.uber.org/zap"
)

// fakeServices stands in for both the tracking and the training service.
type fakeServices struct {
	mu          sync.Mutex
	experiments map[string]bool
	trials      []string
	jobs        []string
	failFromJob int // fail submissions once this many jobs were accepted; 0 disables
}

func newFakeServices() *fakeServices {
	return &fakeServices{experiments: map[string]bool{}}
}

func (f *fakeServices) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/experiments/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		name := r.PathValue("name")
		if !f.experiments[name] {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "experiment not found"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"name": name})
	})

	mux.HandleFunc("POST /api/v1/experiments", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var req struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.experiments[req.Name] = true

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"name": req.Name})
	})

	mux.HandleFunc("POST /api/v1/trials", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var req struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.trials = append(f.trials, req.Name)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"name": req.Name})
	})

	mux.HandleFunc("POST /api/v1/training-jobs", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.failFromJob > 0 && len(f.jobs) >= f.failFromJob {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "resource limit exceeded"})
			return
		}

		var req struct {
			JobName string `json:"job_name"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		f.jobs = append(f.jobs, req.JobName)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"job_name":     req.JobName,
			"status":       "IN_PROGRESS",
			"submitted_at": time.Now().UTC(),
		})
	})

	return mux
}

func testSweepConfig(baseUrl string, params []config.ParameterConfig) *config.Config {
	return &config.Config{
		Environment: "test",
		Tracking:    &config.TrackingConfig{BaseUrl: baseUrl, TimeoutSeconds: 5},
		Training: &config.TrainingConfig{
			BaseUrl:          baseUrl,
			EntryPoint:       "train.py",
			FrameworkVersion: "1.9",
			InstanceType:     "ml.m5.xlarge",
			InstanceCount:    1,
			MetricDefinitions: []config.MetricDefinition{
				{Name: "test:mse", Regex: `test mse: ([0-9\.]+)`},
			},
		},
		Sweep: &config.SweepConfig{
			Experiment:  "driver-test",
			BaseJobName: "reg-sweep",
			Parameters:  params,
		},
	}
}

func newTestDriver(t *testing.T, cfg *config.Config) *Driver {
	t.Helper()

	logger := zap.NewNop()
	trk, err := tracking.NewClient(cfg.Tracking, logger)
	if err != nil {
		t.Fatal(err)
	}
	trainer, err := training.NewClient(cfg.Training, logger)
	if err != nil {
		t.Fatal(err)
	}

	driver := NewDriver(cfg, trk, trainer, nil, logger)
	driver.Sleep = func(time.Duration) {}
	return driver
}

func TestDriverRunEndToEnd(t *testing.T) {
	fake := newFakeServices()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cfg := testSweepConfig(srv.URL, []config.ParameterConfig{
		{Name: "learning_rate", Values: []float64{0.1, 0.9}},
		{Name: "epochs", Values: []float64{100}},
	})

	driver := newTestDriver(t, cfg)

	result, err := driver.Run(context.Background(), "s3://bucket/train", "s3://bucket/test")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.TrialNames) != 2 {
		t.Fatalf("got %d trials, want 2", len(result.TrialNames))
	}
	if result.TrialNames[0] == result.TrialNames[1] {
		t.Fatalf("trial names must be distinct, both %q", result.TrialNames[0])
	}

	for _, name := range result.TrialNames {
		if !strings.Contains(name, "100") {
			t.Errorf("trial name %q does not contain %q", name, "100")
		}
		if !strings.Contains(name, "0-1") && !strings.Contains(name, "0-9") {
			t.Errorf("trial name %q contains neither %q nor %q", name, "0-1", "0-9")
		}
	}

	if len(fake.jobs) != 2 {
		t.Errorf("training service accepted %d jobs, want 2", len(fake.jobs))
	}
	if len(fake.trials) != 2 {
		t.Errorf("tracking service has %d trials, want 2", len(fake.trials))
	}
}

func TestDriverRunAbortsOnSubmissionFailure(t *testing.T) {
	fake := newFakeServices()
	fake.failFromJob = 1
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cfg := testSweepConfig(srv.URL, []config.ParameterConfig{
		{Name: "learning_rate", Values: []float64{0.1, 0.5, 0.9}},
	})

	driver := newTestDriver(t, cfg)

	result, err := driver.Run(context.Background(), "s3://bucket/train", "s3://bucket/test")
	if err == nil {
		t.Fatal("expected error from failed submission")
	}

	// The first combination succeeded; nothing after the failure ran.
	if len(result.JobNames) != 1 {
		t.Errorf("got %d submitted jobs, want 1", len(result.JobNames))
	}
	if len(fake.jobs) != 1 {
		t.Errorf("training service accepted %d jobs, want 1", len(fake.jobs))
	}
}

func TestDriverRunEmptySweep(t *testing.T) {
	fake := newFakeServices()
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cfg := testSweepConfig(srv.URL, nil)
	driver := newTestDriver(t, cfg)

	if _, err := driver.Run(context.Background(), "train", "test"); err == nil {
		t.Fatal("expected error for sweep without combinations")
	}
}
