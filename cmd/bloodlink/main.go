package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bloodlink/bloodlink/core"
	"github.com/bloodlink/bloodlink/handler"
	"github.com/bloodlink/bloodlink/migrations"
	"github.com/bloodlink/bloodlink/modules/account"
	"github.com/bloodlink/bloodlink/modules/bloodrequest"
	"github.com/bloodlink/bloodlink/modules/donor"
	"github.com/bloodlink/bloodlink/modules/healthcenter"
	"github.com/bloodlink/bloodlink/modules/notify"
	"github.com/bloodlink/bloodlink/modules/telegram"
	"github.com/bloodlink/bloodlink/pkg/clientip"
	"github.com/bloodlink/bloodlink/pkg/config"
	"github.com/bloodlink/bloodlink/pkg/email"
	"github.com/bloodlink/bloodlink/pkg/httpserver"
	"github.com/bloodlink/bloodlink/pkg/logger"
	"github.com/bloodlink/bloodlink/pkg/pg"
	"github.com/bloodlink/bloodlink/pkg/queue"
	"github.com/bloodlink/bloodlink/pkg/ratelimiter"
	"github.com/bloodlink/bloodlink/pkg/redis"
	"github.com/bloodlink/bloodlink/pkg/requestid"
	"github.com/bloodlink/bloodlink/pkg/webhook"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type configs struct {
	app      appConfig
	http     httpserver.Config
	pg       pg.Config
	redis    redis.Config
	email    email.Config
	account  account.Config
	notify   notify.Config
	telegram telegram.Config
}

func loadConfigs() (configs, error) {
	var c configs
	err := errors.Join(
		config.Load(&c.app),
		config.Load(&c.http),
		config.Load(&c.pg),
		config.Load(&c.redis),
		config.Load(&c.email),
		config.Load(&c.account),
		config.Load(&c.notify),
		config.Load(&c.telegram),
	)
	return c, err
}

func run() error {
	cfg, err := loadConfigs()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.app.Env, cfg.app.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.pg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.pg, log); err != nil {
		return err
	}

	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	var store ratelimiter.Store
	if cfg.redis.ConnectionURL != "" {
		rdb, err := redis.Connect(ctx, cfg.redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		store = ratelimiter.NewRedisStore(rdb, cfg.app.ServiceName)
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)})
	} else {
		mem := ratelimiter.NewMemoryStore(cfg.app.RateLimitWindow)
		defer mem.Close()
		store = mem
	}

	responder := handler.NewErrorResponder(log, cfg.app.production())
	apiLimit, authLimit, err := rateLimits(cfg.app, store, responder)
	if err != nil {
		return err
	}

	sender, err := email.NewSender(cfg.email)
	if err != nil {
		return err
	}

	tasks := queue.New(queue.WithCapacity(cfg.app.QueueCapacity))
	defer tasks.Close()
	worker := queue.NewWorker(tasks,
		queue.WithConcurrency(cfg.app.QueueConcurrency),
		queue.WithTaskTimeout(cfg.app.TaskTimeout),
		queue.WithLogger(log),
	)
	scheduler := queue.NewScheduler(log)

	dispatcher := notify.NewDispatcher(cfg.notify, webhook.NewSender(), log)

	accounts, err := account.NewService(cfg.account, account.NewRepository(pool), tasks, account.WithLogger(log))
	if err != nil {
		return err
	}
	donors := donor.NewService(donor.NewRepository(pool), donor.WithLogger(log))
	centers := healthcenter.NewService(healthcenter.NewRepository(pool), donors, healthcenter.WithLogger(log))
	requests := bloodrequest.NewService(bloodrequest.NewRepository(pool), tasks, dispatcher, bloodrequest.WithLogger(log))
	links := telegram.NewService(cfg.telegram, telegram.NewRepository(pool), dispatcher, requests, telegram.WithLogger(log))

	worker.RegisterHandlers(
		bloodrequest.NewFanOutHandler(requests),
		account.NewResetEmailHandler(cfg.account, sender, log),
	)
	if err := scheduler.AddTask(account.NewCleanupTask(accounts), cfg.account.CleanupInterval); err != nil {
		return err
	}

	auth := account.NewMiddleware(accounts, responder.Write)
	router := routes{
		responder:   responder,
		frontendURL: cfg.app.FrontendURL,
		health:      httpserver.HealthHandler(cfg.app.Env, cfg.app.HealthCheckTimeout, log, checks...),
		apiLimit:    apiLimit,
		account:     account.NewHandlers(accounts, auth, authLimit, responder.Handle),
		donors:      donor.NewHandlers(donors, auth, responder.Handle),
		centers:     healthcenter.NewHandlers(centers, auth, responder.Handle),
		requests:    bloodrequest.NewHandlers(requests, auth, responder.Handle),
		telegram:    telegram.NewHandlers(links, auth, responder.Handle),
	}

	log.InfoContext(ctx, "starting bloodlink", slog.String("addr", cfg.http.Addr), slog.String("env", cfg.app.Env))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(ctx) })
	g.Go(func() error { return scheduler.Run(ctx) })
	g.Go(func() error { return httpserver.New(cfg.http, log).Run(ctx, router.handler()) })
	return g.Wait()
}

// rateLimits builds the per-IP limiters for the whole API and the stricter
// one for credential endpoints.
func rateLimits(cfg appConfig, store ratelimiter.Store, responder *handler.ErrorResponder) (api, auth func(http.Handler) http.Handler, err error) {
	apiMax, authMax := cfg.limits()
	apiLimiter, err := ratelimiter.New(store, "api", ratelimiter.Config{Limit: apiMax, Window: cfg.RateLimitWindow})
	if err != nil {
		return nil, nil, err
	}
	authLimiter, err := ratelimiter.New(store, "auth", ratelimiter.Config{Limit: authMax, Window: cfg.RateLimitWindow})
	if err != nil {
		return nil, nil, err
	}

	key := func(r *http.Request) string { return clientip.GetIP(r) }
	tooMany := func(e core.HTTPError) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			responder.Write(w, r, e)
		})
	}
	api = ratelimiter.Middleware(apiLimiter, key, tooMany(core.ErrTooManyRequests))
	auth = ratelimiter.Middleware(authLimiter, key, tooMany(
		core.ErrTooManyRequests.WithMessage("Too many authentication attempts, please try again later.")))
	return api, auth, nil
}
