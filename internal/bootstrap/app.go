package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"artflight/internal/config"
	"artflight/internal/logger"
	"artflight/internal/mail"
	"artflight/internal/platform/database"
	rabbitmqClient "artflight/internal/platform/rabbitmq"
	redisClient "artflight/internal/platform/redis"
	"artflight/internal/storage"
	"artflight/internal/worker"
)

type App struct {
	Config     *config.Config
	Log        *slog.Logger
	DB         *gorm.DB
	Redis      *redis.Client
	MQConn     *amqp.Connection
	Media      storage.Storage
	Static     storage.Storage
	MailWorker *worker.MailWorker

	StartedAt time.Time
}

// New wires every dependency the HTTP server needs and starts the mail worker.
func New(ctx context.Context) (*App, error) {
	a, err := NewCore(ctx)
	if err != nil {
		return nil, err
	}
	cfg := a.Config

	a.Redis, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.MQConn, err = rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.MailWorker = worker.NewMailWorker(a.MQConn, newMailSender(cfg, a.Log), cfg.RabbitMQ.MailQueue, a.Log)
	if err := a.MailWorker.Start(ctx); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("start mail worker failed: %w", err)
	}

	return a, nil
}

// NewCore loads configuration and opens the database and media storage only.
// The operator CLI runs on it.
func NewCore(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	db, err := database.New(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Log:       log,
		DB:        db,
		StartedAt: time.Now(),
	}

	a.Media, a.Static, err = newStorages(ctx, cfg.Storage, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// MaxUploadBytes is the configured upload limit in bytes.
func (a *App) MaxUploadBytes() int64 {
	return int64(a.Config.Storage.MaxUploadMB) << 20
}

// LocalMediaRoot is the directory served under media_url, empty for S3 profiles.
func (a *App) LocalMediaRoot() string {
	if local, ok := a.Media.(*storage.Local); ok {
		return local.Root()
	}
	return ""
}

func (a *App) Close() error {
	var closeErr error
	if a.MailWorker != nil {
		a.MailWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}

func newStorages(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (storage.Storage, storage.Storage, error) {
	if cfg.Profile == "local" {
		media, err := storage.NewLocal(cfg.LocalRoot, cfg.MediaURL, storage.MediaLocation(false))
		if err != nil {
			return nil, nil, err
		}
		static, err := storage.NewLocal(storage.PrefixStatic, "/"+storage.PrefixStatic+"/", storage.StaticLocation())
		if err != nil {
			return nil, nil, err
		}
		return media, static, nil
	}

	s3cfg := storage.S3Config{
		Endpoint:        cfg.Endpoint,
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          cfg.UseSSL,
		CustomDomain:    cfg.CustomDomain,
		PresignTTL:      time.Duration(cfg.PresignTTLMinutes) * time.Minute,
	}
	client, err := storage.NewS3Client(ctx, s3cfg, log)
	if err != nil {
		return nil, nil, err
	}
	public := cfg.Profile == "s3-public"
	return storage.NewS3(client, s3cfg, storage.MediaLocation(public)), storage.NewS3(client, s3cfg, storage.StaticLocation()), nil
}

func newMailSender(cfg *config.Config, log *slog.Logger) mail.Sender {
	if cfg.Mail.Backend == "smtp" {
		return mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			UseTLS:   cfg.Mail.UseTLS,
		})
	}
	return mail.NewConsoleSender(cfg.Mail.From, log)
}
