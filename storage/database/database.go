package database

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"MindTrack/config"
	"MindTrack/pkg/logger"
)

var (
	db     *gorm.DB
	dbOnce sync.Once
	dbErr  error
)

func Init() error {
	dbOnce.Do(func() {
		cfg := config.Cfg

		var gormDB *gorm.DB
		gormDB, dbErr = gorm.Open(postgres.Open(cfg.GetDSN()), gormConfig())
		if dbErr != nil {
			logger.Logger.Error("Failed to open database", zap.String("dsn", "please check database connection"), zap.Error(dbErr))
			return
		}

		if err := useReplicas(gormDB, cfg.PostgreSQLReplicaDSNs); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to register read replicas", zap.Error(err))
			return
		}

		if err := gormDB.Use(NewTracingPlugin(cfg.ServiceName)); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to register tracing plugin", zap.Error(err))
			return
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			dbErr = err
			logger.Logger.Error("Failed to get sql.DB from gorm", zap.Error(err))
			return
		}

		configureConnectionPool(sqlDB)

		if err := sqlDB.Ping(); err != nil {
			dbErr = err
			logger.Logger.Error("Failed to ping database", zap.Error(err))
			return
		}

		if err := Migrate(gormDB); err != nil {
			dbErr = err
			return
		}

		db = gormDB
		logger.Logger.Info("Database initialized successfully",
			zap.Int("replicas", len(cfg.PostgreSQLReplicaDSNs)),
		)
	})

	return dbErr
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                 newLogger(),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// useReplicas 统计类查询走只读副本，写入和事务仍然走主库
func useReplicas(gormDB *gorm.DB, dsns []string) error {
	if len(dsns) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		replicas = append(replicas, postgres.Open(dsn))
	}

	return gormDB.Use(dbresolver.Register(dbresolver.Config{
		Replicas:          replicas,
		Policy:            dbresolver.RandomPolicy{},
		TraceResolverMode: true,
	}).
		SetConnMaxIdleTime(10 * time.Minute).
		SetConnMaxLifetime(2 * time.Hour).
		SetMaxIdleConns(config.Cfg.PostgreSQLMaxIdle).
		SetMaxOpenConns(config.Cfg.PostgreSQLMaxOpen))
}

func DB() *gorm.DB {
	return db
}

// Ready 判断数据库是否已初始化
func Ready() bool {
	return db != nil
}

// Ping 健康检查使用
func Ping(ctx context.Context) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(ctx context.Context) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func configureConnectionPool(sqlDB *sql.DB) {
	cfg := config.Cfg

	sqlDB.SetMaxIdleConns(cfg.PostgreSQLMaxIdle)
	sqlDB.SetMaxOpenConns(cfg.PostgreSQLMaxOpen)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	sqlDB.SetConnMaxLifetime(2 * time.Hour)
}

func newLogger() gormlogger.Interface {
	var level gormlogger.LogLevel
	switch config.Cfg.LoggerLevel {
	case "DEBUG":
		level = gormlogger.Info
	case "WARN":
		level = gormlogger.Warn
	case "ERROR":
		level = gormlogger.Error
	default:
		level = gormlogger.Warn
	}

	return gormlogger.New(zapWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type zapWriter struct{}

func (zapWriter) Printf(format string, args ...interface{}) {
	logger.Logger.Sugar().Infof(format, args...)
}
