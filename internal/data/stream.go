package data

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fastrand/internal/biz"
	"fastrand/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Redis 中流检查点的 key 前缀，完整 key 为 random:stream:{name}
const keyStreamPrefix = "random:stream:"

// streamPO 流持久化对象
// postgres 没有无符号 64 位整数，种子与状态按位存为 bigint
type streamPO struct {
	Name      string    `gorm:"primaryKey;column:name;size:64"`
	Seed      int64     `gorm:"column:seed;not null"`
	State     int64     `gorm:"column:state;not null"`
	Draws     int64     `gorm:"column:draws;not null;default:0"`
	Revision  int64     `gorm:"column:revision;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (streamPO) TableName() string {
	return "random_streams"
}

func toStreamPO(s *biz.Stream) *streamPO {
	return &streamPO{
		Name:      s.Name,
		Seed:      int64(s.Seed),
		State:     int64(s.State),
		Draws:     int64(s.Draws),
		Revision:  int64(s.Revision),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (po *streamPO) toBiz() *biz.Stream {
	return &biz.Stream{
		Name:      po.Name,
		Seed:      uint64(po.Seed),
		State:     uint64(po.State),
		Draws:     uint64(po.Draws),
		Revision:  uint64(po.Revision),
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}

// streamHash 检查点在 Redis hash 中的字段，数值用 16 进制保存
func streamHash(s *biz.Stream) map[string]any {
	return map[string]any{
		"seed":       strconv.FormatUint(s.Seed, 16),
		"state":      strconv.FormatUint(s.State, 16),
		"draws":      strconv.FormatUint(s.Draws, 10),
		"revision":   strconv.FormatUint(s.Revision, 10),
		"created_at": s.CreatedAt.UnixNano(),
		"updated_at": s.UpdatedAt.UnixNano(),
	}
}

func parseStreamHash(name string, h map[string]string) (*biz.Stream, error) {
	s := &biz.Stream{Name: name}
	var err error
	if s.Seed, err = strconv.ParseUint(h["seed"], 16, 64); err != nil {
		return nil, fmt.Errorf("invalid seed in checkpoint %s: %w", name, err)
	}
	if s.State, err = strconv.ParseUint(h["state"], 16, 64); err != nil {
		return nil, fmt.Errorf("invalid state in checkpoint %s: %w", name, err)
	}
	if s.Draws, err = strconv.ParseUint(h["draws"], 10, 64); err != nil {
		return nil, fmt.Errorf("invalid draws in checkpoint %s: %w", name, err)
	}
	if s.Revision, err = strconv.ParseUint(h["revision"], 10, 64); err != nil {
		return nil, fmt.Errorf("invalid revision in checkpoint %s: %w", name, err)
	}
	created, _ := strconv.ParseInt(h["created_at"], 10, 64)
	updated, _ := strconv.ParseInt(h["updated_at"], 10, 64)
	s.CreatedAt = time.Unix(0, created)
	s.UpdatedAt = time.Unix(0, updated)
	return s, nil
}

type streamRepo struct {
	data *Data
	ttl  time.Duration
	log  *log.Helper
}

// NewStreamRepo 创建流仓储：postgres 保存检查点，Redis 作为热缓存
func NewStreamRepo(data *Data, c *conf.Random, logger log.Logger) biz.StreamRepo {
	ttl := c.GetCheckpointTtl().AsDuration()
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &streamRepo{
		data: data,
		ttl:  ttl,
		log:  log.NewHelper(log.With(logger, "module", "data/stream")),
	}
}

// Get 先查 Redis，未命中再查数据库并回填缓存
func (r *streamRepo) Get(ctx context.Context, name string) (*biz.Stream, error) {
	if r.data.redis != nil {
		h, err := r.data.redis.HGetAll(ctx, keyStreamPrefix+name).Result()
		switch {
		case err != nil:
			r.log.Warnf("read checkpoint from redis failed: name=%s err=%v", name, err)
		case len(h) > 0:
			s, err := parseStreamHash(name, h)
			if err == nil {
				return s, nil
			}
			r.log.Warnf("discarding checkpoint: %v", err)
		}
	}

	var po streamPO
	if err := r.data.db.WithContext(ctx).Where("name = ?", name).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, biz.ErrStreamNotFound.WithMetadata(map[string]string{"name": name})
		}
		r.log.Errorf("get stream failed: name=%s err=%v", name, err)
		return nil, err
	}
	s := po.toBiz()
	r.cache(ctx, s)
	return s, nil
}

// Create 插入新流，主键冲突返回 ErrStreamExists
func (r *streamRepo) Create(ctx context.Context, s *biz.Stream) error {
	po := toStreamPO(s)
	if err := r.data.db.WithContext(ctx).Create(po).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return biz.ErrStreamExists.WithMetadata(map[string]string{"name": s.Name})
		}
		r.log.Errorf("create stream failed: name=%s err=%v", s.Name, err)
		return err
	}
	s.CreatedAt, s.UpdatedAt = po.CreatedAt, po.UpdatedAt
	r.cache(ctx, s)
	return nil
}

// Save 按 revision 条件写回检查点。
// 写库前先删除缓存，写库成功但回填失败时读请求会回到数据库。
func (r *streamRepo) Save(ctx context.Context, s *biz.Stream) error {
	r.evict(ctx, s.Name)
	if err := r.update(r.data.db.WithContext(ctx), s); err != nil {
		if errors.Is(err, biz.ErrStreamConflict) {
			r.evict(ctx, s.Name)
		}
		return err
	}
	s.Revision++
	r.cache(ctx, s)
	return nil
}

// Fork 在一个事务里创建子流并写回父流
func (r *streamRepo) Fork(ctx context.Context, parent, child *biz.Stream) error {
	r.evict(ctx, parent.Name)
	po := toStreamPO(child)
	err := r.data.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 创建子流，主键冲突时整个事务回滚
		if err := tx.Create(po).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return biz.ErrStreamExists.WithMetadata(map[string]string{"name": child.Name})
			}
			r.log.Errorf("create forked stream failed: name=%s err=%v", child.Name, err)
			return err
		}

		// 2. 父流前进一步
		return r.update(tx, parent)
	})
	if err != nil {
		if errors.Is(err, biz.ErrStreamConflict) {
			r.evict(ctx, parent.Name)
		}
		return err
	}

	parent.Revision++
	child.CreatedAt, child.UpdatedAt = po.CreatedAt, po.UpdatedAt
	r.cache(ctx, parent)
	r.cache(ctx, child)
	return nil
}

// update 只在 revision 未变时写入，并把 revision 加一
func (r *streamRepo) update(tx *gorm.DB, s *biz.Stream) error {
	res := tx.Model(&streamPO{}).
		Where("name = ? AND revision = ?", s.Name, int64(s.Revision)).
		Updates(map[string]any{
			"seed":       int64(s.Seed),
			"state":      int64(s.State),
			"draws":      int64(s.Draws),
			"revision":   int64(s.Revision + 1),
			"updated_at": s.UpdatedAt,
		})
	if res.Error != nil {
		r.log.Errorf("save stream failed: name=%s err=%v", s.Name, res.Error)
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := tx.Model(&streamPO{}).Where("name = ?", s.Name).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return biz.ErrStreamNotFound.WithMetadata(map[string]string{"name": s.Name})
	}
	r.log.Warnf("stream advanced by another writer: name=%s revision=%d", s.Name, s.Revision)
	return biz.ErrStreamConflict.WithMetadata(map[string]string{"name": s.Name})
}

// Delete 删除流及其缓存
func (r *streamRepo) Delete(ctx context.Context, name string) error {
	res := r.data.db.WithContext(ctx).Where("name = ?", name).Delete(&streamPO{})
	r.evict(ctx, name)
	if res.Error != nil {
		r.log.Errorf("delete stream failed: name=%s err=%v", name, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return biz.ErrStreamNotFound.WithMetadata(map[string]string{"name": name})
	}
	return nil
}

// cache 缓存写失败只影响读性能，不返回错误；失败时尽量删除旧检查点
func (r *streamRepo) cache(ctx context.Context, s *biz.Stream) {
	if r.data.redis == nil {
		return
	}
	key := keyStreamPrefix + s.Name
	pipe := r.data.redis.TxPipeline()
	pipe.HSet(ctx, key, streamHash(s))
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warnf("write checkpoint to redis failed: name=%s err=%v", s.Name, err)
		r.evict(ctx, s.Name)
	}
}

func (r *streamRepo) evict(ctx context.Context, name string) {
	if r.data.redis == nil {
		return
	}
	if err := r.data.redis.Del(ctx, keyStreamPrefix+name).Err(); err != nil && !errors.Is(err, redis.Nil) {
		r.log.Warnf("evict checkpoint failed: name=%s err=%v", name, err)
	}
}
