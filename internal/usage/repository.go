package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/park285/dermacare-server-go/internal/config"
)

// ErrDisabled 는 사용량 DB 가 꺼져 있을 때 반환된다.
var ErrDisabled = errors.New("usage accounting disabled")

// Repository 는 usage DB 접근을 담당한다. 연결은 첫 사용 때 연다.
type Repository struct {
	cfg    config.DatabaseConfig
	logger *slog.Logger
	open   func(dsn string) gorm.Dialector

	mu    sync.Mutex
	db    *gorm.DB
	sqlDB *sql.DB
}

// NewRepository 는 usage 저장소를 생성한다.
func NewRepository(cfg *config.Config, logger *slog.Logger) *Repository {
	repo := &Repository{logger: logger, open: postgres.Open}
	if cfg != nil {
		repo.cfg = cfg.Database
	}
	return repo
}

// Enabled 는 사용량 기록이 설정되어 있는지 반환한다.
func (r *Repository) Enabled() bool {
	return r != nil && r.cfg.UsageEnabled
}

// Add 는 delta.UsageDate 행에 사용량을 원자적으로 누적한다.
func (r *Repository) Add(ctx context.Context, delta DailyUsage) error {
	if delta.ReplyCount <= 0 && delta.InputTokens <= 0 && delta.OutputTokens <= 0 {
		return nil
	}
	db, err := r.getDB(ctx)
	if err != nil {
		return err
	}

	row := TokenUsage{
		UsageDate:       truncateDay(delta.UsageDate),
		InputTokens:     delta.InputTokens,
		OutputTokens:    delta.OutputTokens,
		ReasoningTokens: delta.ReasoningTokens,
		CachedTokens:    delta.CachedTokens,
		ReplyCount:      delta.ReplyCount,
	}

	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "usage_date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"input_tokens":     gorm.Expr("token_usage.input_tokens + EXCLUDED.input_tokens"),
			"output_tokens":    gorm.Expr("token_usage.output_tokens + EXCLUDED.output_tokens"),
			"reasoning_tokens": gorm.Expr("token_usage.reasoning_tokens + EXCLUDED.reasoning_tokens"),
			"cached_tokens":    gorm.Expr("token_usage.cached_tokens + EXCLUDED.cached_tokens"),
			"reply_count":      gorm.Expr("token_usage.reply_count + EXCLUDED.reply_count"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert token usage: %w", err)
	}
	return nil
}

// Recent 는 now 기준 최근 days 일의 사용량을 최신순으로 반환한다.
func (r *Repository) Recent(ctx context.Context, days int, now time.Time) ([]DailyUsage, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}
	since := truncateDay(now).AddDate(0, 0, -(days - 1))

	var rows []TokenUsage
	err = db.WithContext(ctx).
		Where("usage_date >= ?", since).
		Order("usage_date desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query token usage: %w", err)
	}

	usages := make([]DailyUsage, 0, len(rows))
	for _, row := range rows {
		usages = append(usages, fromRow(row))
	}
	return usages, nil
}

// Ping 은 DB 연결을 확인한다.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.getDB(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	sqlDB := r.sqlDB
	r.mu.Unlock()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping usage db: %w", err)
	}
	return nil
}

// Close 는 DB 연결을 닫는다.
func (r *Repository) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sqlDB == nil {
		return
	}
	_ = r.sqlDB.Close()
	r.sqlDB = nil
	r.db = nil
}

func (r *Repository) getDB(ctx context.Context) (*gorm.DB, error) {
	if !r.Enabled() {
		return nil, ErrDisabled
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	db, err := gorm.Open(r.open(r.cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&TokenUsage{}); err != nil {
		return nil, fmt.Errorf("migrate usage db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get usage db handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(r.cfg.MinPool)
	sqlDB.SetMaxOpenConns(r.cfg.MaxPool)

	if r.logger != nil {
		r.logger.Info("usage_db_connected", "host", r.cfg.Host, "name", r.cfg.Name)
	}

	r.db = db
	r.sqlDB = sqlDB
	return db, nil
}
