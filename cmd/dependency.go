package cmd

import (
	"context"
	"eventdesk/common/otel"
	"eventdesk/outbound/backend"
	"eventdesk/outbound/query"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

func newCfg(name string) *viper.Viper {
	config := viper.New()

	config.SetConfigName(name)
	config.SetConfigType("yaml")
	config.AddConfigPath(".")

	config.SetDefault("server.port", 8080)
	config.SetDefault("server.timezone", "Africa/Addis_Ababa")
	config.SetDefault("server.handler_timeout", "20s")
	config.SetDefault("backend.timeout", "15s")
	config.SetDefault("cache.ttl", "5m")
	config.SetDefault("locale", "en-ET")
	config.SetDefault("jwt.ttl", "12h")
	config.SetDefault("cron.referral_stats.interval", "1m")
	config.SetDefault("cron.referral_stats.timeout", "30s")
	config.SetDefault("export.timeout", "2m")
	config.SetDefault("queue.audit.timeout", "10s")
	config.SetDefault("queue.audit.flush_interval", "2s")
	config.SetDefault("queue.audit.batch_size", 100)
	config.SetDefault("queue.email.timeout", "15s")
	config.SetDefault("queue.email.retry_delay", "1s")

	err := config.ReadInConfig()
	if err != nil {
		log.Fatalln(err)
	}

	err = os.Setenv("TZ", config.GetString("server.timezone"))
	if err != nil {
		log.Fatalln(err)
	}

	return config
}

func newDb(cfg *viper.Viper) *pgxpool.Pool {
	username := cfg.GetString("db.user")
	password := cfg.GetString("db.password")
	host := cfg.GetString("db.host")
	port := cfg.GetInt("db.port")
	database := cfg.GetString("db.name")
	maxConn := cfg.GetInt("db.pool.max")
	minConn := cfg.GetInt("db.pool.min")
	timezone := cfg.GetString("server.timezone")

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?timezone=%s",
		username, password, host, port, database, timezone)

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Fatalln(err)
	}

	config.MaxConns = int32(maxConn)
	config.MinConns = int32(minConn)
	config.ConnConfig.Tracer = &otel.PgxCustomTracer{}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatalln(err)
	}

	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatalln(err)
	}

	return pool
}

func newRedis(cfg *viper.Viper) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.GetString("redis.addr"),
		Password: cfg.GetString("redis.password"),
		DB:       cfg.GetInt("redis.db"),
	})

	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		log.Fatalln(err)
	}

	return rdb
}

func newNats(viper *viper.Viper) *nats.Conn {
	conn, err := nats.Connect(viper.GetString("nats.addr"))
	if err != nil {
		log.Fatalln(err)
	}

	return conn
}

func newJs(conn *nats.Conn) jetstream.JetStream {
	js, err := jetstream.New(conn)
	if err != nil {
		log.Fatalln(err)
	}

	return js
}

func newBackend(cfg *viper.Viper) *backend.Client {
	if cfg.GetString("backend.base_url") == "" {
		log.Fatalln("backend.base_url is required")
	}

	return backend.NewClient(cfg)
}

// newQueryStore caches upstream reads in redis. cache.enabled false keeps
// only the in-flight dedup.
func newQueryStore(cfg *viper.Viper, rdb *redis.Client) *query.Store {
	var cache *redis.Client
	if cfg.GetBool("cache.enabled") {
		cache = rdb
	}

	store := query.NewStore(cache, cfg.GetDuration("cache.ttl"))
	store.FlightTimeout = cfg.GetDuration("cache.flight_timeout")
	return store
}

func newTracer(ctx context.Context, cfg *viper.Viper) func() {
	shutdown, err := otel.InitTracer(ctx, cfg.GetString("otel.endpoint"), cfg.GetFloat64("otel.sample_ratio"))
	if err != nil {
		log.Fatalln("unable to init tracer", err)
	}

	return func() {
		if err := shutdown(context.Background()); err != nil {
			log.Println("unable to shutdown tracer", err)
		}
	}
}
