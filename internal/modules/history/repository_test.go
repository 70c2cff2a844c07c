package history

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiaworld/buyback-go/internal/database"
	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

// setupTestDB creates an in-memory database with the full schema
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func buybackRecord(id string, value float64, createdAt time.Time) *Record {
	metal := rates.MetalGold22
	weight := 5.0

	return &Record{
		ID:               id,
		Type:             TypeBuyback,
		Metal:            &metal,
		WeightGrams:      &weight,
		Value:            &value,
		Date:             createdAt.Format("2006-01-02"),
		DisbursementMode: ModeWallet,
		CreatedAt:        createdAt,
	}
}

func TestRepository_InsertAndList(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())

	base := time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Insert(buybackRecord("a", 29026, base)))
	require.NoError(t, repo.Insert(buybackRecord("b", 15000, base.Add(time.Minute))))
	require.NoError(t, repo.Insert(buybackRecord("c", 8000, base.Add(2*time.Minute))))

	records, err := repo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// Most recent first
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "a", records[2].ID)

	first := records[0]
	require.NotNil(t, first.Metal)
	assert.Equal(t, rates.MetalGold22, *first.Metal)
	require.NotNil(t, first.Value)
	assert.Equal(t, 8000.0, *first.Value)
	assert.Equal(t, ModeWallet, first.DisbursementMode)
}

func TestRepository_ListRespectsLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())
	base := time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(buybackRecord(
			string(rune('a'+i)), float64(i*1000), base.Add(time.Duration(i)*time.Minute),
		)))
	}

	records, err := repo.ListRecent(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "e", records[0].ID)
}

func TestRepository_BookingWithoutValueFields(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db, zerolog.Nop())
	branch := "Thiaworld - MG Road"

	require.NoError(t, repo.Insert(&Record{
		ID:               "visit-1",
		Type:             TypeStoreVisit,
		Date:             "2025-08-23",
		DisbursementMode: ModeVisit,
		Branch:           &branch,
		CreatedAt:        time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC),
	}))

	records, err := repo.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Nil(t, rec.Metal)
	assert.Nil(t, rec.WeightGrams)
	assert.Nil(t, rec.Value)
	require.NotNil(t, rec.Branch)
	assert.Equal(t, branch, *rec.Branch)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
