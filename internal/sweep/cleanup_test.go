package sweep

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/driftml/sweep-runner/internal/config"
	"github.com/driftml/sweep-runner/internal/tracking"
	"go.uber.org/zap"
)

type fakeTeardownService struct {
	mu                sync.Mutex
	trials            map[string][]string // trial name -> component names
	trialOrder        []string
	failDelete        map[string]bool // component deletions answered with 409
	disassociated     []string
	deletedComponents []string
	deletedTrials     []string
	experimentDeleted bool
}

func (f *fakeTeardownService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/experiments/{name}/trials", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		trials := make([]map[string]string, 0, len(f.trialOrder))
		for _, name := range f.trialOrder {
			trials = append(trials, map[string]string{"name": name})
		}
		json.NewEncoder(w).Encode(map[string]any{"trials": trials})
	})

	mux.HandleFunc("GET /api/v1/trials/{name}/components", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		components := make([]map[string]string, 0)
		for _, name := range f.trials[r.PathValue("name")] {
			components = append(components, map[string]string{"name": name})
		}
		json.NewEncoder(w).Encode(map[string]any{"components": components})
	})

	mux.HandleFunc("POST /api/v1/trials/{name}/components/{component}/disassociate", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.disassociated = append(f.disassociated, r.PathValue("component"))
		json.NewEncoder(w).Encode(map[string]string{"status": "disassociated"})
	})

	mux.HandleFunc("DELETE /api/v1/components/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		name := r.PathValue("name")
		if f.failDelete[name] {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "component still associated"})
			return
		}

		f.deletedComponents = append(f.deletedComponents, name)
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	})

	mux.HandleFunc("DELETE /api/v1/trials/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.deletedTrials = append(f.deletedTrials, r.PathValue("name"))
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	})

	mux.HandleFunc("DELETE /api/v1/experiments/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		f.experimentDeleted = true
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	})

	return mux
}

func newTestCleaner(t *testing.T, baseUrl string) *Cleaner {
	t.Helper()

	trk, err := tracking.NewClient(&config.TrackingConfig{BaseUrl: baseUrl, TimeoutSeconds: 5}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	cleaner := NewCleaner(trk, zap.NewNop(), time.Millisecond)
	cleaner.Sleep = func(time.Duration) {}
	return cleaner
}

func TestCleanerContinuesPastFailedComponentDelete(t *testing.T) {
	fake := &fakeTeardownService{
		trials: map[string][]string{
			"trial-a": {"comp-a1", "comp-a2"},
			"trial-b": {"comp-b1"},
		},
		trialOrder: []string{"trial-a", "trial-b"},
		failDelete: map[string]bool{"comp-a1": true},
	}

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cleaner := newTestCleaner(t, srv.URL)
	if err := cleaner.Run(context.Background(), "exp"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// comp-a1's deletion failed but everything was still detached and the
	// remaining records were removed.
	if len(fake.disassociated) != 3 {
		t.Errorf("disassociated %d components, want 3", len(fake.disassociated))
	}
	if len(fake.deletedComponents) != 2 {
		t.Errorf("deleted %d components, want 2", len(fake.deletedComponents))
	}
	if len(fake.deletedTrials) != 2 {
		t.Errorf("deleted %d trials, want 2", len(fake.deletedTrials))
	}
	if !fake.experimentDeleted {
		t.Error("experiment was not deleted")
	}
}

func TestCleanerEmptyExperiment(t *testing.T) {
	fake := &fakeTeardownService{trials: map[string][]string{}}

	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	cleaner := newTestCleaner(t, srv.URL)
	if err := cleaner.Run(context.Background(), "empty-exp"); err != nil {
		t.Fatalf("Run on empty experiment: %v", err)
	}

	if !fake.experimentDeleted {
		t.Error("experiment was not deleted")
	}
}
