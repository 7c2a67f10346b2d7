package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/gradplanner/internal/app/models"
	"github.com/yigit/gradplanner/internal/app/transcript"
	"github.com/yigit/gradplanner/internal/pkg/apperrors"
	"github.com/yigit/gradplanner/internal/pkg/notify"
)

func newTransferService(store *memoryStore, bus notify.Bus) TransferService {
	return NewTransferService(store, testCatalog(), bus, nopLogger())
}

func TestImportTranscript(t *testing.T) {
	store := newMemoryStore()
	bus := notify.NewMemoryBus()
	svc := newTransferService(store, bus)
	ctx := context.Background()

	published := 0
	_, err := bus.Subscribe(ctx, "alice", func() { published++ })
	require.NoError(t, err)

	data := []byte(`[
	  {"code":"CALC1","name":"","credits":0,"period":"2023.1","category":"OBR","status":"MATR"},
	  {"code":"CALC1","name":"Calculus I","credits":4,"period":"2023.2","category":"OBR","status":"APR","grade":"A"},
	  {"code":"NET","name":"Networks","credits":4,"period":"2023.3","category":"OL","status":"REP"},
	  {"code":"ART","name":"","credits":0,"period":"2024.1","category":"LIV","status":"MATR"}
	]`)

	result, err := svc.Import(ctx, "alice", data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, transcript.FormatTranscript, result.Format)
	assert.Equal(t, 1, published)

	records, _ := store.ListAll(ctx, "alice")
	require.Len(t, records, 2)
	assert.Equal(t, models.StatusCompleted, records[0].Status)
	assert.Equal(t, "Art History", records[1].Name)
	assert.Equal(t, 2, records[1].Credits)
}

func TestImportMalformedStoresNothing(t *testing.T) {
	store := newMemoryStore()
	svc := newTransferService(store, notify.NewMemoryBus())
	ctx := context.Background()

	_, err := svc.Import(ctx, "alice", []byte(`[{"code":"A","period":"2023","category":"OBR","status":"APR"}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedImport))

	count, _ := store.CountByUser(ctx, "alice")
	assert.Zero(t, count)
}

func TestImportStorageFailure(t *testing.T) {
	store := newMemoryStore()
	store.failOn = "import"
	svc := newTransferService(store, notify.NewMemoryBus())

	_, err := svc.Import(context.Background(), "alice", []byte(`[]`))
	assert.Error(t, err)
}

func TestExportThenImportRoundTrip(t *testing.T) {
	store := newMemoryStore()
	seed(store, "alice",
		rec("CALC1", 4, models.CategoryRequired, models.StatusCompleted, strPtr("B")),
		rec("ART", 2, models.CategoryFree, models.StatusPlanned, nil),
	)
	svc := newTransferService(store, notify.NewMemoryBus())
	ctx := context.Background()

	data, err := svc.Export(ctx, "alice")
	require.NoError(t, err)

	result, err := svc.Import(ctx, "bob", data)
	require.NoError(t, err)
	assert.Equal(t, transcript.FormatBackup, result.Format)
	assert.Equal(t, 2, result.Imported)

	alice, _ := store.ListAll(ctx, "alice")
	bob, _ := store.ListAll(ctx, "bob")
	require.Len(t, bob, 2)
	for i := range alice {
		assert.Equal(t, alice[i].Draft(), bob[i].Draft())
	}
}

func TestExportWorkbook(t *testing.T) {
	store := newMemoryStore()
	seed(store, "alice", rec("CALC1", 4, models.CategoryRequired, models.StatusCompleted, strPtr("B")))
	svc := newTransferService(store, notify.NewMemoryBus())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportWorkbook(context.Background(), "alice", &buf))
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}
