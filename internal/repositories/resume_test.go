package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Resume{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestResumeRepositoryCreateAssignsIDAndTimestamp(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))

	first := &models.Resume{
		FileName:       "jane.pdf",
		JobDescription: "Go developer",
		ResumeText:     "Jane Doe, Go",
		AIResult:       "Match score: 80",
		Score:          80,
	}
	require.NoError(t, repo.Create(first))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, first.CreatedAt.Location())

	second := &models.Resume{FileName: "john.pdf", JobDescription: "Go developer"}
	require.NoError(t, repo.Create(second))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestResumeRepositoryFindByID(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))

	created := &models.Resume{
		FileName:       "jane.pdf",
		JobDescription: "Go developer",
		ResumeText:     "Jane Doe, Go",
		AIResult:       "Match score: 80",
		Score:          80,
	}
	require.NoError(t, repo.Create(created))

	found, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.FileName, found.FileName)
	assert.Equal(t, created.JobDescription, found.JobDescription)
	assert.Equal(t, created.ResumeText, found.ResumeText)
	assert.Equal(t, created.AIResult, found.AIResult)
	assert.Equal(t, 80, found.Score)
	assert.WithinDuration(t, created.CreatedAt, found.CreatedAt, time.Second)
}

func TestResumeRepositoryFindByIDNotFound(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))

	_, err := repo.FindByID(42)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResumeNotFound)
}

func TestResumeRepositoryListNewestFirst(t *testing.T) {
	repo := NewResumeRepository(newTestDB(t))

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.Resume{
			FileName:  fmt.Sprintf("r%d.pdf", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	items, total, err := repo.List(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "r4.pdf", items[0].FileName)
	assert.Equal(t, "r3.pdf", items[1].FileName)

	items, _, err = repo.List(2, 4)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "r0.pdf", items[0].FileName)
}
