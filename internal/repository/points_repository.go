// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"

	"chihuyufan-go/internal/errs"
	"chihuyufan-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointsRepository 接口定义了积分账本的持久化操作。
// 账本的所有变更都必须经过 ApplyDelta，外界观察不到部分更新。
type PointsRepository interface {
	// FindOrCreate 读取 actor 的记录；不存在时先持久化一条 0 分记录再返回。
	// 并发调用同一 actor 收敛为一行（actor 唯一约束 + upsert）。
	FindOrCreate(ctx context.Context, actorID string) (*model.BoketsuPoint, error)
	// ApplyDelta 在一个事务内 find-or-create 并累加 delta，返回更新后的记录。
	// 同一 actor 的并发 delta 串行化，最终值等于全部 delta 之和。
	ApplyDelta(ctx context.Context, actorID string, delta int64) (*model.BoketsuPoint, error)
	// TopRanked 返回至多 limit 条记录，按积分降序，平分按插入顺序；
	// excludeZero 为 true 时过滤 0 分记录。
	TopRanked(ctx context.Context, limit int, excludeZero bool) ([]model.BoketsuPoint, error)
}

// pointsRepository 是 PointsRepository 接口的 GORM 实现。
type pointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository 创建一个新的 PointsRepository 实例。
func NewPointsRepository(db *gorm.DB) PointsRepository {
	return &pointsRepository{db: db}
}

// FindOrCreate 使用 ON CONFLICT DO NOTHING 的插入吸收并发创建竞争，
// 随后在同一事务里读回唯一的那行。
func (r *pointsRepository) FindOrCreate(ctx context.Context, actorID string) (*model.BoketsuPoint, error) {
	var record model.BoketsuPoint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}},
			DoNothing: true,
		}).Create(&model.BoketsuPoint{ActorID: actorID}).Error; err != nil {
			return err
		}
		return tx.Where("actor_id = ?", actorID).First(&record).Error
	})
	if err != nil {
		return nil, errs.Ledger(err)
	}
	return &record, nil
}

// ApplyDelta 通过 upsert 把累加下推给数据库执行，避免读-改-写竞争。
func (r *pointsRepository) ApplyDelta(ctx context.Context, actorID string, delta int64) (*model.BoketsuPoint, error) {
	var record model.BoketsuPoint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "actor_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"point": gorm.Expr("point + ?", delta),
			}),
		}).Create(&model.BoketsuPoint{ActorID: actorID, Point: delta}).Error; err != nil {
			return err
		}
		return tx.Where("actor_id = ?", actorID).First(&record).Error
	})
	if err != nil {
		return nil, errs.Ledger(err)
	}
	return &record, nil
}

// TopRanked 的平分项按 id 升序排，自增 id 即插入顺序。
func (r *pointsRepository) TopRanked(ctx context.Context, limit int, excludeZero bool) ([]model.BoketsuPoint, error) {
	var records []model.BoketsuPoint
	query := r.db.WithContext(ctx).Model(&model.BoketsuPoint{})
	if excludeZero {
		query = query.Where("point <> 0")
	}
	err := query.Order("point DESC, id ASC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, errs.Ledger(err)
	}
	return records, nil
}
