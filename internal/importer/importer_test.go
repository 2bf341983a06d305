package importer_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/importer"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

type mockObjectOpener struct {
	mock.Mock
}

func (m *mockObjectOpener) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestImportIngredientsCSV(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	im := importer.New(db, nil, zap.NewNop())
	src := writeFile(t, "ingredients.csv", "flour,g\nmilk,ml\n\"salt, coarse\",g\nmilk,ml\n")

	res, err := im.ImportIngredients(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, int64(3), res.Inserted)

	var names []string
	require.NoError(t, db.Model(&models.Ingredient{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"flour", "milk", "salt, coarse"}, names)

	// a second run inserts nothing
	res, err = im.ImportIngredients(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Inserted)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestImportIngredientsJSON(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	im := importer.New(db, nil, zap.NewNop())
	src := writeFile(t, "ingredients.json", `[
		{"name": "water", "measurement_unit": "ml"},
		{"name": "", "measurement_unit": "g"},
		{"name": "water", "measurement_unit": "l"}
	]`)

	res, err := im.ImportIngredients(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Read)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, int64(2), res.Inserted)
}

func TestImportTags(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	im := importer.New(db, nil, zap.NewNop())
	src := writeFile(t, "tags.csv", "Breakfast,breakfast\nLunch,lunch\nBad,not a slug\n")

	res, err := im.ImportTags(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, int64(2), res.Inserted)

	res, err = im.ImportTags(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Inserted)
}

func TestImportFromS3(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	objects := new(mockObjectOpener)
	objects.On("Open", mock.Anything, "foodgram-data", "seed/tags.json").
		Return(io.NopCloser(strings.NewReader(`[{"name":"Dinner","slug":"dinner"}]`)), nil)

	im := importer.New(db, objects, zap.NewNop())
	res, err := im.ImportTags(context.Background(), "s3://foodgram-data/seed/tags.json")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Inserted)
	objects.AssertExpectations(t)
}

func TestImportErrors(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	im := importer.New(db, nil, zap.NewNop())
	ctx := context.Background()

	_, err := im.ImportTags(ctx, writeFile(t, "tags.xml", "<tags/>"))
	assert.ErrorContains(t, err, "unsupported source format")

	_, err = im.ImportTags(ctx, "s3://bucket/tags.csv")
	assert.ErrorContains(t, err, "S3 is not configured")

	_, err = im.ImportIngredients(ctx, writeFile(t, "bad.csv", "flour,g,extra\n"))
	assert.Error(t, err)

	_, err = im.ImportIngredients(ctx, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
