// Package syncer drives a full synchronization run: it expands the roster and
// content lists into build requests, fetches them concurrently through the
// archon client, and merges the successful results into the saved-variables
// file.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"talentsync/internal/archon"
	"talentsync/internal/chrono"
	"talentsync/internal/config"
	"talentsync/internal/loadouts"
	"talentsync/internal/telemetry"
	"talentsync/internal/wow"
)

const (
	report_sync_fetch = "sync.fetch-build"
	report_sync_store = "sync.store"
	report_sync_count = "sync.talents-updated"
)

// Summary describes what one run actually wrote.
type Summary struct {
	TotalTalentsUpdated int `json:"totalTalentsUpdated"`
	RaidTalents         int `json:"raidTalents"`
	MythicPlusTalents   int `json:"mythicPlusTalents"`
	CharactersProcessed int `json:"charactersProcessed"`
}

// Syncer runs talent synchronization against one archon client. It holds no
// per-run state, a single Syncer may serve many runs.
type Syncer struct {
	client *archon.Client
	clock  chrono.API
	tel    telemetry.API
}

func New(client *archon.Client, clock chrono.API, tel telemetry.API) *Syncer {
	return &Syncer{
		client: client,
		clock:  clock,
		tel:    telemetry.NewScopedAPI("syncer", tel),
	}
}

// task is one build request for one class/spec pairing.
type task struct {
	class     wow.Class
	spec      string
	specIndex int
	build     archon.BuildID
}

type resultKey struct {
	classKey   string
	specIndex  int
	identifier string
}

func (t task) key() resultKey {
	return resultKey{
		classKey:   t.class.SavedVarsKey(),
		specIndex:  t.specIndex,
		identifier: t.build.Identifier(),
	}
}

// pathLocks enforces the single-writer discipline per output path: a run must
// not start while another run is still finalizing its write on the same file.
var pathLocks sync.Map

func lockPath(path string) func() {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	v, _ := pathLocks.LoadOrStore(abs, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Run executes one synchronization run. Individual fetch failures are
// reported and skipped; configuration and persistence failures are fatal.
// When the context is canceled no write happens at all.
func (s *Syncer) Run(ctx context.Context, cfg config.Config) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	tasks, err := expand(cfg)
	if err != nil {
		return Summary{}, err
	}

	unlock := lockPath(cfg.OutputPath)
	defer unlock()

	results, failed := s.fetchAll(ctx, tasks)
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	store, err := loadStore(cfg.OutputPath)
	if err != nil {
		s.tel.ReportBroken(report_sync_store, err, cfg.OutputPath)
		return Summary{}, err
	}

	if cfg.ClearPreviousBuilds {
		store.RemoveAllGenerated()
	} else {
		// a build whose fetch failed keeps its previously stored entry, the
		// rest of each touched slot is cleared before insertion
		keep := map[resultKey]map[string]bool{}
		for _, t := range tasks {
			if !failed[t.key()] {
				continue
			}
			k := resultKey{classKey: t.class.SavedVarsKey(), specIndex: t.specIndex}
			if keep[k] == nil {
				keep[k] = map[string]bool{}
			}
			keep[k][t.build.EntryName()] = true
		}

		cleared := map[resultKey]bool{}
		for _, t := range tasks {
			k := resultKey{classKey: t.class.SavedVarsKey(), specIndex: t.specIndex}
			if cleared[k] {
				continue
			}
			cleared[k] = true
			store.RemoveGeneratedExcept(k.classKey, k.specIndex, keep[k])
		}
	}

	summary := Summary{CharactersProcessed: len(cfg.Characters)}
	for _, t := range tasks {
		code, ok := results[t.key()]
		if !ok {
			continue
		}
		store.Add(
			t.class.SavedVarsKey(),
			t.specIndex,
			loadouts.NewEntry(t.build.EntryName(), code),
		)
		if t.build.IsMythicPlus() {
			summary.MythicPlusTalents++
		} else {
			summary.RaidTalents++
		}
	}
	summary.TotalTalentsUpdated = summary.RaidTalents + summary.MythicPlusTalents

	if err := store.WriteFile(cfg.OutputPath); err != nil {
		s.tel.ReportBroken(report_sync_store, err, cfg.OutputPath)
		return Summary{}, err
	}

	s.tel.ReportCount(report_sync_count, int64(summary.TotalTalentsUpdated))
	return summary, nil
}

// fetchAll dispatches every task at once; the client's semaphore bounds how
// many requests are actually in flight. Successes land in the result map,
// transport failures in the failed set, data absence in neither.
func (s *Syncer) fetchAll(ctx context.Context, tasks []task) (map[resultKey]string, map[resultKey]bool) {
	now := s.clock.Now()

	results := map[resultKey]string{}
	failed := map[resultKey]bool{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()

			var code string
			var err error
			if t.build.IsMythicPlus() {
				code, err = s.client.FetchDungeonBuild(ctx, t.class, t.spec, t.build.Dungeon, now)
			} else {
				code, err = s.client.FetchRaidBuild(ctx, t.class, t.spec, t.build.Difficulty, t.build.Boss)
			}
			if err != nil {
				// one failed build never aborts the run
				s.tel.ReportWarning(
					report_sync_fetch,
					fmt.Errorf("fetch %s: %w", t.build.Identifier(), err),
					t.class.String(),
					t.spec,
				)
				mu.Lock()
				failed[t.key()] = true
				mu.Unlock()
				return
			}
			if code == "" {
				s.tel.ReportDebug(report_sync_fetch, "no build published", t.build.Identifier(), t.class.String(), t.spec)
				return
			}

			mu.Lock()
			results[t.key()] = code
			mu.Unlock()
		}(t)
	}

	wg.Wait()
	return results, failed
}

// expand turns the roster and content lists into the full, de-duplicated
// request set. Content lists are shared across the roster; specialization
// selection is per character.
func expand(cfg config.Config) ([]task, error) {
	var tasks []task
	seen := map[resultKey]bool{}

	add := func(t task) {
		if seen[t.key()] {
			return
		}
		seen[t.key()] = true
		tasks = append(tasks, t)
	}

	for _, char := range cfg.Characters {
		class, err := wow.ParseClass(char.Class)
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", char.Name, err)
		}
		for _, spec := range char.Specializations {
			specIndex, err := class.SpecIndex(spec)
			if err != nil {
				return nil, fmt.Errorf("character %q: %w", char.Name, err)
			}

			for _, boss := range cfg.RaidBosses {
				for _, diff := range cfg.RaidDifficulties {
					difficulty, err := archon.ParseDifficulty(diff)
					if err != nil {
						return nil, err
					}
					add(task{
						class:     class,
						spec:      spec,
						specIndex: specIndex,
						build:     archon.RaidBuild(difficulty, boss),
					})
				}
			}
			for _, dungeon := range cfg.Dungeons {
				add(task{
					class:     class,
					spec:      spec,
					specIndex: specIndex,
					build:     archon.MythicPlusBuild(dungeon),
				})
			}
		}
	}

	return tasks, nil
}

// loadStore reads the existing saved-variables file; a missing file simply
// means a fresh store.
func loadStore(path string) (*loadouts.Store, error) {
	store, err := loadouts.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return loadouts.NewStore(), nil
	}
	return store, err
}
