// Package loader turns the YAML data files into validated, immutable domain
// values: the entity catalog (with each id's lineage parsed once), the
// benchmark tables, price observations and baselines, and the sale calendar.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/rigscore/internal/domain/benchmark"
	"github.com/okian/rigscore/internal/domain/dedupe"
	"github.com/okian/rigscore/internal/domain/model"
	"github.com/okian/rigscore/pkg/logger"
	"github.com/okian/rigscore/pkg/metrics"
)

// Paths names the data files of one load. Prices and Calendar are optional.
type Paths struct {
	Catalog    string
	Benchmarks string
	Prices     string
	Calendar   string
}

// Dataset is everything one load produced.
type Dataset struct {
	Catalog      *model.Catalog
	Benchmarks   benchmark.Set
	Observations []model.PriceObservation
	Baselines    map[string]model.PriceBaseline
	Events       []model.SaleEvent
}

// Loader reads and validates data files.
type Loader struct {
	logger   logger.Logger
	readFile func(string) ([]byte, error)
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger:   logger.Get().Named("loader"),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every configured file. Price ids are rewritten to the catalog's
// spelling. Observations and baselines that reference an entity outside the
// catalog are kept but logged.
func (l *Loader) Load(ctx context.Context, p Paths) (*Dataset, error) {
	catalog, err := l.Catalog(ctx, p.Catalog)
	if err != nil {
		return nil, err
	}
	set, err := l.Benchmarks(ctx, p.Benchmarks)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Catalog:    catalog,
		Benchmarks: set,
		Baselines:  map[string]model.PriceBaseline{},
	}

	if p.Prices != "" {
		if ds.Observations, ds.Baselines, err = l.Prices(ctx, p.Prices); err != nil {
			return nil, err
		}
		l.canonicalize(ctx, ds)
	}

	if p.Calendar != "" {
		if ds.Events, err = l.Calendar(ctx, p.Calendar); err != nil {
			return nil, err
		}
	}

	return ds, nil
}

// canonicalize rewrites price observation and baseline ids to the catalog id
// they match ignoring case and surrounding whitespace.
func (l *Loader) canonicalize(ctx context.Context, ds *Dataset) {
	ids := make(map[string]string, ds.Catalog.Len())
	for i := range ds.Catalog.Len() {
		id := ds.Catalog.Entities[i].ID
		ids[normalizeID(id)] = id
	}

	orphans := 0
	for i := range ds.Observations {
		if id, ok := ids[normalizeID(ds.Observations[i].EntityID)]; ok {
			ds.Observations[i].EntityID = id
			continue
		}
		orphans++
	}
	if orphans > 0 {
		l.logger.Warn(ctx, "price observations reference unknown entities", logger.Int("count", orphans))
	}

	orphans = 0
	baselines := make(map[string]model.PriceBaseline, len(ds.Baselines))
	for key, b := range ds.Baselines {
		if id, ok := ids[normalizeID(key)]; ok {
			b.EntityID = id
			baselines[id] = b
			continue
		}
		orphans++
		baselines[key] = b
	}
	ds.Baselines = baselines
	if orphans > 0 {
		l.logger.Warn(ctx, "price baselines reference unknown entities", logger.Int("count", orphans))
	}
}

// Catalog reads and validates the catalog file. Entity ids must be unique
// ignoring case and surrounding whitespace.
func (l *Loader) Catalog(ctx context.Context, path string) (*model.Catalog, error) {
	var file catalogFile
	if err := l.decode(path, &file); err != nil {
		return nil, err
	}
	if err := validateRecord("catalog", &file); err != nil {
		return nil, err
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithNormalizer(normalizeID))
	entities := make([]model.Entity, 0, len(file.Entities))
	for i := range file.Entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := &file.Entities[i]
		rec.ID = strings.TrimSpace(rec.ID)
		if seen.SeenAndRecord(ctx, rec.ID) {
			first, _ := seen.Position(rec.ID)
			metrics.RecordErrorByComponent("loader", "duplicate_entity")
			return nil, fmt.Errorf("%w: %q at records %d and %d", ErrDuplicateEntity, rec.ID, first, i)
		}
		entities = append(entities, rec.entity())
	}

	catalog := model.NewCatalog(file.Version, entities)
	metrics.UpdateCatalogEntities(catalog.Len())
	l.logger.Info(ctx, "catalog loaded",
		logger.String("path", path),
		logger.String("version", file.Version),
		logger.Int("entities", catalog.Len()),
	)
	return catalog, nil
}

// Benchmarks reads the CPU and GPU tables.
func (l *Loader) Benchmarks(ctx context.Context, path string) (benchmark.Set, error) {
	var file benchmarkFile
	if err := l.decode(path, &file); err != nil {
		return benchmark.Set{}, err
	}
	if err := validateRecord("benchmarks", &file); err != nil {
		return benchmark.Set{}, err
	}
	if err := checkFigures("cpu", file.CPU); err != nil {
		return benchmark.Set{}, err
	}
	if err := checkFigures("gpu", file.GPU); err != nil {
		return benchmark.Set{}, err
	}

	set := benchmark.NewSet(file.Version, file.CPU, file.GPU)
	l.logger.Info(ctx, "benchmarks loaded",
		logger.String("path", path),
		logger.String("version", set.Version),
		logger.Int("cpu", len(set.CPU)),
		logger.Int("gpu", len(set.GPU)),
	)
	return set, nil
}

func checkFigures(table string, t benchmark.Table) error {
	if a, b, ok := t.Collision(); ok {
		return fmt.Errorf("%w: %s keys %q and %q name the same component", ErrInvalidRecord, table, a, b)
	}
	for key, f := range t {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: %s table has an empty key", ErrInvalidRecord, table)
		}
		if f.SingleThread < 0 || f.MultiThread < 0 || f.Composite < 0 || f.Graphics < 0 {
			return fmt.Errorf("%w: %s %q has negative figures", ErrInvalidRecord, table, key)
		}
	}
	return nil
}

// Prices reads observations and baselines. Baselines are unique per entity.
func (l *Loader) Prices(ctx context.Context, path string) ([]model.PriceObservation, map[string]model.PriceBaseline, error) {
	var file pricesFile
	if err := l.decode(path, &file); err != nil {
		return nil, nil, err
	}
	if err := validateRecord("prices", &file); err != nil {
		return nil, nil, err
	}

	obs := make([]model.PriceObservation, 0, len(file.Observations))
	for i := range file.Observations {
		obs = append(obs, file.Observations[i].observation())
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithNormalizer(normalizeID))
	baselines := make(map[string]model.PriceBaseline, len(file.Baselines))
	for i := range file.Baselines {
		b := file.Baselines[i].baseline()
		if seen.SeenAndRecord(ctx, b.EntityID) {
			return nil, nil, fmt.Errorf("%w: baseline for %q listed twice", ErrDuplicateEntity, b.EntityID)
		}
		baselines[b.EntityID] = b
	}

	l.logger.Info(ctx, "prices loaded",
		logger.String("path", path),
		logger.Int("observations", len(obs)),
		logger.Int("baselines", len(baselines)),
	)
	return obs, baselines, nil
}

// Calendar reads the recurring sale events. Event names are unique.
func (l *Loader) Calendar(ctx context.Context, path string) ([]model.SaleEvent, error) {
	var file calendarFile
	if err := l.decode(path, &file); err != nil {
		return nil, err
	}
	if err := validateRecord("calendar", &file); err != nil {
		return nil, err
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithNormalizer(normalizeID))
	events := make([]model.SaleEvent, 0, len(file.Events))
	for i := range file.Events {
		if seen.SeenAndRecord(ctx, file.Events[i].Name) {
			return nil, fmt.Errorf("%w: sale event %q listed twice", ErrInvalidRecord, file.Events[i].Name)
		}
		events = append(events, file.Events[i].event())
	}

	l.logger.Info(ctx, "calendar loaded", logger.String("path", path), logger.Int("events", len(events)))
	return events, nil
}

// decode reads path and decodes strict YAML into out. Unknown keys fail.
func (l *Loader) decode(path string, out any) error {
	if path == "" {
		return fmt.Errorf("%w: no path configured", ErrReadFile)
	}
	data, err := l.readFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, path, err)
	}
	return nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
