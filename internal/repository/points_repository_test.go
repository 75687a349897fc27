package repository

import (
	"context"
	"sync"
	"testing"

	"chihuyufan-go/internal/errs"
	"chihuyufan-go/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) PointsRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.BoketsuPoint{}))
	return NewPointsRepository(db)
}

func TestFindOrCreateStartsAtZero(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record, err := repo.FindOrCreate(ctx, "actor")
	require.NoError(t, err)
	assert.Equal(t, "actor", record.ActorID)
	assert.Equal(t, int64(0), record.Point)

	// 再次调用返回同一行，而不是新建
	again, err := repo.FindOrCreate(ctx, "actor")
	require.NoError(t, err)
	assert.Equal(t, record.ID, again.ID)
}

func TestFindOrCreateConvergesUnderConcurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.FindOrCreate(ctx, "actor")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ranked, err := repo.TopRanked(ctx, 100, false)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, int64(0), ranked[0].Point)
}

func TestApplyDeltaAccumulates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	record, err := repo.ApplyDelta(ctx, "actor", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), record.Point)

	record, err = repo.ApplyDelta(ctx, "actor", -2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), record.Point)
}

func TestApplyDeltaConcurrentNoLostUpdates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ApplyDelta(ctx, "actor", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	record, err := repo.FindOrCreate(ctx, "actor")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), record.Point)
}

func TestTopRankedOrderAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// 插入顺序: a(3), b(0), c(7), d(3), e(0)
	for _, seed := range []struct {
		actor string
		point int64
	}{
		{"a", 3}, {"b", 0}, {"c", 7}, {"d", 3}, {"e", 0},
	} {
		_, err := repo.ApplyDelta(ctx, seed.actor, seed.point)
		require.NoError(t, err)
	}

	ranked, err := repo.TopRanked(ctx, 20, true)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	// 降序，3 分平分时 a 先插入排在 d 前
	assert.Equal(t, "c", ranked[0].ActorID)
	assert.Equal(t, "a", ranked[1].ActorID)
	assert.Equal(t, "d", ranked[2].ActorID)
	for _, r := range ranked {
		assert.NotZero(t, r.Point)
	}

	// limit 生效
	top2, err := repo.TopRanked(ctx, 2, true)
	require.NoError(t, err)
	require.Len(t, top2, 2)
	assert.Equal(t, "c", top2[0].ActorID)

	// excludeZero=false 时包含 0 分记录
	everyone, err := repo.TopRanked(ctx, 20, false)
	require.NoError(t, err)
	assert.Len(t, everyone, 5)
}

func TestLedgerErrorClassification(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	// 故意不建表，触发持久层错误
	repo := NewPointsRepository(db)

	_, err = repo.FindOrCreate(context.Background(), "actor")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrLedger)
}
