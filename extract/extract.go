// Package extract finds resource documents in a source tree and gathers
// them into one UberClique. Documents are parsed in parallel; they share
// the registry, so a string that occurs in several documents becomes one
// clique with one translation.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/minios-linux/grist/clique"
	"github.com/minios-linux/grist/config"
	"github.com/minios-linux/grist/gather"
	"github.com/minios-linux/grist/message"
)

// ---------------------------------------------------------------------------
// Gatherer selection
// ---------------------------------------------------------------------------

// NewGatherer returns the gatherer for a source of the given type. The
// document is named after its path in errors and logs.
func NewGatherer(src config.Source, text string, u *clique.UberClique, descriptions map[string]string) (gather.Gatherer, error) {
	switch src.Type {
	case config.SourceTypeRC:
		return gather.NewRCFile(src.Path, text, u, descriptions), nil
	case config.SourceTypeTxt:
		if src.ID != "" {
			return gather.NewSingleMessage(src.Path, src.ID, text, u, gather.Options{
				Description: src.Description,
				Scanner:     message.PrintfScanner,
			}), nil
		}
		return gather.NewTxtFile(src.Path, text, u, src.Description), nil
	case config.SourceTypeMessagesJSON:
		return gather.NewMessagesJSON(src.Path, text, u), nil
	}
	return nil, fmt.Errorf("source %q: unknown type %q", src.Name, src.Type)
}

// ---------------------------------------------------------------------------
// Parallel gathering
// ---------------------------------------------------------------------------

// Result is the outcome of gathering one source.
type Result struct {
	Source   config.Source
	Gatherer gather.Gatherer
	// Err is set when the document could not be read or parsed. Other
	// documents are not affected.
	Err error
}

// GatherAll reads and parses every configured source with at most workers
// documents in flight. It returns after every document finished, with the
// results in configuration order. A cancelled ctx marks the documents that
// had not started yet.
func GatherAll(ctx context.Context, u *clique.UberClique, cfg *config.Config, workers int) []Result {
	results := make([]Result, len(cfg.Sources))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, src := range cfg.Sources {
		results[i].Source = src
		g.Go(func() error {
			res := &results[i]
			if err := ctx.Err(); err != nil {
				res.Err = err
				return nil
			}
			res.Gatherer, res.Err = gatherOne(u, cfg, src)
			if res.Err != nil {
				log.Warn().Err(res.Err).Str("source", src.Name).Msg("Gathering failed")
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func gatherOne(u *clique.UberClique, cfg *config.Config, src config.Source) (gather.Gatherer, error) {
	path := cfg.SourcePath(src)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	g, err := NewGatherer(src, string(data), u, cfg.DescriptionMap)
	if err != nil {
		return nil, err
	}
	if err := g.Parse(); err != nil {
		return g, err
	}
	cliques, _ := g.Cliques()
	log.Debug().Str("source", src.Name).Int("cliques", len(cliques)).Msg("Gathered")
	return g, nil
}

// ---------------------------------------------------------------------------
// Discovery
// ---------------------------------------------------------------------------

// skipDirs contains directory names to skip during scanning.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"out":          true,
	"build":        true,
	"dist":         true,
}

// TypeForPath returns the source type for a resource file name, or "" if
// grist does not gather it. Message bundles are recognized by their
// conventional messages.json name.
func TypeForPath(path string) string {
	switch {
	case strings.EqualFold(filepath.Ext(path), ".rc"):
		return config.SourceTypeRC
	case filepath.Base(path) == "messages.json":
		return config.SourceTypeMessagesJSON
	case strings.HasSuffix(path, ".txt"):
		return config.SourceTypeTxt
	}
	return ""
}

// FindSources walks dirs and returns a source for every gatherable file,
// with paths relative to root and unique names. The result is sorted by
// path.
func FindSources(root string, dirs []string) ([]config.Source, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		err := filepath.WalkDir(filepath.Join(root, dir), func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil // skip unreadable entries
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if TypeForPath(path) != "" && !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", dir, err)
		}
	}
	sort.Strings(paths)

	names := make(map[string]int)
	sources := make([]config.Source, 0, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		name := sourceName(rel)
		if n := names[name]; n > 0 {
			names[name]++
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			names[name] = 1
		}
		sources = append(sources, config.Source{Name: name, Type: TypeForPath(path), Path: rel})
	}
	return sources, nil
}

func sourceName(rel string) string {
	base := filepath.Base(rel)
	if base == "messages.json" {
		if dir := filepath.Base(filepath.Dir(rel)); dir != "." {
			return dir
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DescribeSources returns a human-readable summary like "2 rc, 1 txt".
func DescribeSources(sources []config.Source) string {
	counts := make(map[string]int)
	for _, s := range sources {
		counts[s.Type]++
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
	}
	return strings.Join(parts, ", ")
}
