package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/oxhq/bslanalyzer/cache"
	"github.com/oxhq/bslanalyzer/catalog"
	"github.com/oxhq/bslanalyzer/dataflow"
	"github.com/oxhq/bslanalyzer/diagnostics"
	"github.com/oxhq/bslanalyzer/semantic"
)

// Coordinator runs the per-module pipeline across every module in a
// configuration in parallel (spec §5). It owns the shared read-only
// catalog and the cache; workers reach the cache only through analyzeOne,
// which holds cacheMu around every lookup and write.
type Coordinator struct {
	Catalog *catalog.Catalog
	Cache   *cache.Cache
	Config  semantic.Config
	// Workers caps the number of modules analyzed concurrently; zero
	// means runtime.NumCPU().
	Workers int

	cacheMu sync.Mutex
}

// NewCoordinator creates a Coordinator bound to cat, with a worker count
// defaulting to the number of logical CPUs.
func NewCoordinator(cat *catalog.Catalog, c *cache.Cache, cfg semantic.Config) *Coordinator {
	return &Coordinator{Catalog: cat, Cache: c, Config: cfg, Workers: runtime.NumCPU()}
}

// AnalyzeFiles reads and analyzes every path in files, dispatching across
// a worker pool sized by co.Workers. Per-module pipelines run with no
// shared mutable state beyond the read-only catalog and the cache; each
// worker's cache lookup and update run inside analyzeOne under the
// coordinator's cache mutex, so only one worker touches the cache at a
// time.
//
// Diagnostics from different modules may complete in any order; the
// combined result is sorted by (file, line, column) before it is
// returned, matching the determinism the spec requires of callers.
func (co *Coordinator) AnalyzeFiles(ctx context.Context, files []string) ([]diagnostics.Diagnostic, error) {
	results := make([]ModuleResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	workers := co.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = co.analyzeOne(file)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []diagnostics.Diagnostic
	for _, r := range results {
		all = append(all, r.Diagnostics...)
	}
	sortDiagnostics(all)
	return all, nil
}

// analyzeOne reads file, consults the cache, and falls back to running
// the pipeline on a miss. It is the only place that touches co.Cache and
// it holds co.cacheMu around each cache access, since cache.Cache does no
// locking of its own; the pipeline itself runs outside the lock.
func (co *Coordinator) analyzeOne(file string) ModuleResult {
	content, err := os.ReadFile(file)
	if err != nil {
		return ModuleResult{
			File: file,
			Diagnostics: []diagnostics.Diagnostic{{
				Level:   diagnostics.LevelError,
				Code:    "input-validation",
				Message: "could not read source file: " + err.Error(),
				Source:  file,
			}},
		}
	}

	src := string(content)
	key := cache.Key{CacheType: cache.TypeSemantic, FilePath: file, ContentHash: cache.ContentHash(content)}

	if co.Cache != nil {
		co.cacheMu.Lock()
		v, ok := co.Cache.Get(key)
		co.cacheMu.Unlock()
		if ok {
			if cached, ok := decodeModuleResult(v.Data); ok {
				return ModuleResult{File: file, Diagnostics: cached.Diagnostics, Variables: cached.Variables}
			}
		}
	}

	result := AnalyzeModule(file, src, co.Catalog, co.Config)

	if co.Cache != nil {
		if data, ok := encodeModuleResult(result); ok {
			co.cacheMu.Lock()
			co.Cache.Set(key, cache.Value{DataType: "module-result", Data: data})
			co.cacheMu.Unlock()
		}
	}

	return result
}

// cachedModuleResult is the on-disk shape of a cached module result: the
// diagnostics and the data-flow pass's per-symbol usage history, so a
// cache hit restores exactly what a fresh run would have produced.
type cachedModuleResult struct {
	Diagnostics []diagnostics.Diagnostic           `json:"diagnostics"`
	Variables   map[string]*dataflow.VariableState `json:"variables,omitempty"`
}

func encodeModuleResult(result ModuleResult) ([]byte, bool) {
	data, err := json.Marshal(cachedModuleResult{Diagnostics: result.Diagnostics, Variables: result.Variables})
	if err != nil {
		return nil, false
	}
	return data, true
}

func decodeModuleResult(data []byte) (cachedModuleResult, bool) {
	var cached cachedModuleResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return cachedModuleResult{}, false
	}
	return cached, true
}

func sortDiagnostics(diags []diagnostics.Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}
