// Package importer loads reference data (ingredients and tags) from CSV or
// JSON files on disk or in S3
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
)

const defaultBatchSize = 500

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ObjectOpener fetches objects from a bucket; *config.S3Config implements it
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Result summarises one import run
type Result struct {
	Read     int
	Inserted int64
	Skipped  int
}

type ingredientRecord struct {
	Name            string `json:"name" validate:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" validate:"required,max=128"`
}

type tagRecord struct {
	Name string `json:"name" validate:"required,max=128"`
	Slug string `json:"slug" validate:"required,max=32,slug"`
}

// Importer inserts rows with ON CONFLICT DO NOTHING, so re-running an
// import is harmless
type Importer struct {
	db        *gorm.DB
	objects   ObjectOpener
	log       *zap.Logger
	validate  *validator.Validate
	batchSize int
}

// New creates an importer. objects may be nil when no s3:// sources are used.
func New(db *gorm.DB, objects ObjectOpener, log *zap.Logger) *Importer {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &Importer{
		db:        db,
		objects:   objects,
		log:       log,
		validate:  v,
		batchSize: defaultBatchSize,
	}
}

// ImportIngredients loads name,measurement_unit rows from src
func (im *Importer) ImportIngredients(ctx context.Context, src string) (Result, error) {
	var records []ingredientRecord
	err := im.read(ctx, src, &records, func(row []string) {
		records = append(records, ingredientRecord{Name: row[0], MeasurementUnit: row[1]})
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{Read: len(records)}
	rows := make([]models.Ingredient, 0, len(records))
	for i, r := range records {
		r.Name, r.MeasurementUnit = strings.TrimSpace(r.Name), strings.TrimSpace(r.MeasurementUnit)
		if err := im.validate.Struct(r); err != nil {
			im.log.Warn("Skipping invalid ingredient", zap.Int("row", i+1), zap.Error(err))
			res.Skipped++
			continue
		}
		rows = append(rows, models.Ingredient{Name: r.Name, MeasurementUnit: r.MeasurementUnit})
	}

	res.Inserted, err = im.insert(ctx, "ingredients", &rows, len(rows))
	return res, err
}

// ImportTags loads name,slug rows from src
func (im *Importer) ImportTags(ctx context.Context, src string) (Result, error) {
	var records []tagRecord
	err := im.read(ctx, src, &records, func(row []string) {
		records = append(records, tagRecord{Name: row[0], Slug: row[1]})
	})
	if err != nil {
		return Result{}, err
	}

	res := Result{Read: len(records)}
	rows := make([]models.Tag, 0, len(records))
	for i, r := range records {
		r.Name, r.Slug = strings.TrimSpace(r.Name), strings.TrimSpace(r.Slug)
		if err := im.validate.Struct(r); err != nil {
			im.log.Warn("Skipping invalid tag", zap.Int("row", i+1), zap.Error(err))
			res.Skipped++
			continue
		}
		rows = append(rows, models.Tag{Name: r.Name, Slug: r.Slug})
	}

	res.Inserted, err = im.insert(ctx, "tags", &rows, len(rows))
	return res, err
}

func (im *Importer) insert(ctx context.Context, kind string, rows interface{}, n int) (int64, error) {
	if n == 0 {
		return 0, nil
	}
	result := im.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, im.batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert %s: %w", kind, result.Error)
	}

	metrics.ImportedRows.WithLabelValues(kind).Add(float64(result.RowsAffected))
	im.log.Info("Imported rows",
		zap.String("kind", kind),
		zap.Int("read", n),
		zap.Int64("inserted", result.RowsAffected),
	)
	return result.RowsAffected, nil
}

// read decodes src by extension: .json into dst, .csv (headerless,
// two columns) row by row through onRow
func (im *Importer) read(ctx context.Context, src string, dst interface{}, onRow func([]string)) error {
	format := strings.ToLower(path.Ext(src))
	if format != ".csv" && format != ".json" {
		return fmt.Errorf("unsupported source format %q: want .csv or .json", format)
	}

	rc, err := im.open(ctx, src)
	if err != nil {
		return err
	}
	defer rc.Close()

	if format == ".json" {
		if err := json.NewDecoder(rc).Decode(dst); err != nil {
			return fmt.Errorf("failed to decode %s: %w", src, err)
		}
		return nil
	}

	r := csv.NewReader(rc)
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
		onRow(row)
	}
}

func (im *Importer) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if !strings.HasPrefix(src, "s3://") {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", src, err)
		}
		return f, nil
	}

	if im.objects == nil {
		return nil, fmt.Errorf("cannot read %s: S3 is not configured", src)
	}
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", src, err)
	}
	return im.objects.Open(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
}
