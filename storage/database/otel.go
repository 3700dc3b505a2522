package database

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	spanKey  = "otel:span"
	startKey = "otel:start_time"

	maxStatementLength = 500
)

// TracingPlugin GORM OpenTelemetry 插件，为每次数据库操作创建 span 并记录耗时
type TracingPlugin struct {
	tracer   trace.Tracer
	duration metric.Float64Histogram
	service  string
}

func NewTracingPlugin(serviceName string) *TracingPlugin {
	if serviceName == "" {
		serviceName = "mindtrack"
	}

	p := &TracingPlugin{
		tracer:  otel.Tracer(serviceName + ".gorm"),
		service: serviceName,
	}

	// 指标创建失败时只保留 tracing
	if h, err := otel.Meter(serviceName).Float64Histogram(
		"db_query_duration_seconds",
		metric.WithDescription("Database query duration"),
		metric.WithUnit("s"),
	); err == nil {
		p.duration = h
	}
	return p
}

// Name 实现 gorm.Plugin 接口
func (p *TracingPlugin) Name() string {
	return "otel_plugin"
}

// Initialize 注册回调
func (p *TracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		op       string
		register func(op string) error
	}{
		{"select", func(op string) error {
			if err := cb.Query().Before("gorm:query").Register("otel:before_query", p.before(op)); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("otel:after_query", p.after(op))
		}},
		{"insert", func(op string) error {
			if err := cb.Create().Before("gorm:create").Register("otel:before_create", p.before(op)); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("otel:after_create", p.after(op))
		}},
		{"update", func(op string) error {
			if err := cb.Update().Before("gorm:update").Register("otel:before_update", p.before(op)); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("otel:after_update", p.after(op))
		}},
		{"delete", func(op string) error {
			if err := cb.Delete().Before("gorm:delete").Register("otel:before_delete", p.before(op)); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("otel:after_delete", p.after(op))
		}},
		{"row", func(op string) error {
			if err := cb.Row().Before("gorm:row").Register("otel:before_row", p.before(op)); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register("otel:after_row", p.after(op))
		}},
		{"raw", func(op string) error {
			if err := cb.Raw().Before("gorm:raw").Register("otel:before_raw", p.before(op)); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("otel:after_raw", p.after(op))
		}},
	}

	for _, h := range hooks {
		if err := h.register(h.op); err != nil {
			return err
		}
	}
	return nil
}

func (p *TracingPlugin) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx, span := p.tracer.Start(db.Statement.Context, "db."+op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemPostgreSQL,
				attribute.String("db.operation", op),
				attribute.String("service.name", p.service),
			),
		)
		db.InstanceSet(startKey, time.Now())
		db.InstanceSet(spanKey, span)
		db.Statement.Context = ctx
	}
}

func (p *TracingPlugin) after(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(spanKey)
		if !ok {
			return
		}
		span, ok := v.(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		if table := db.Statement.Table; table != "" {
			span.SetAttributes(attribute.String("db.sql.table", table))
		}
		span.SetAttributes(
			semconv.DBStatement(truncate(db.Statement.SQL.String())),
			attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
		)

		status := "success"
		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			status = "error"
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}

		if p.duration == nil {
			return
		}
		if s, ok := db.InstanceGet(startKey); ok {
			if start, ok := s.(time.Time); ok {
				p.duration.Record(db.Statement.Context, time.Since(start).Seconds(), metric.WithAttributes(
					attribute.String("db.operation", op),
					attribute.String("db.status", status),
				))
			}
		}
	}
}

// truncate 语句只包含占位符，参数不会进入 span
func truncate(sql string) string {
	if len(sql) > maxStatementLength {
		return sql[:maxStatementLength] + "..."
	}
	return sql
}
