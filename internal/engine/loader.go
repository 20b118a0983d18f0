package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"backend/internal/logger"
	"backend/internal/models"
)

// Source is one JSON file of survey answers and the continent it covers.
type Source struct {
	Location  string
	Continent string
}

// LoadSources fetches every source concurrently and concatenates the records
// in source-list order. A source that fails is logged and left out.
func LoadSources(ctx context.Context, fetcher Fetcher, sources []Source) *RecordSet {
	log := logger.FromContext(ctx)
	start := time.Now()
	log.Info("Loading survey sources", "count", len(sources))

	batches := make([][]models.SurveyRecord, len(sources))
	reports := make([]models.SourceReport, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			reports[i] = models.SourceReport{Location: src.Location, Continent: src.Continent}

			records, err := loadSource(ctx, fetcher, src)
			if err != nil {
				log.Error("Source unavailable, skipping", "location", src.Location, "err", err)
				reports[i].Error = err.Error()
				return nil
			}
			batches[i] = records
			reports[i].Records = len(records)
			log.Debug("Source loaded", "location", src.Location, "records", len(records))
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, b := range batches {
		total += len(b)
	}
	rs := &RecordSet{
		Records: make([]models.SurveyRecord, 0, total),
		Sources: reports,
	}
	for _, b := range batches {
		rs.Records = append(rs.Records, b...)
	}

	log.Info("Load complete", "records", total, "elapsed", time.Since(start))
	return rs
}

func loadSource(ctx context.Context, fetcher Fetcher, src Source) ([]models.SurveyRecord, error) {
	data, err := fetcher.Fetch(ctx, src.Location)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(data, src.Continent)
}

// DecodeRecords parses a JSON array of survey answers and tags each record
// with the lower-cased continent.
func DecodeRecords(data []byte, continent string) ([]models.SurveyRecord, error) {
	var records []models.SurveyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	tag := cases.Lower(language.Und).String(continent)
	for i := range records {
		records[i].Continent = tag
	}
	return records, nil
}
