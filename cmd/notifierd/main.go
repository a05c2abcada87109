package main

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/sitepass/notifier/pkg/api"
	"github.com/sitepass/notifier/pkg/config"
	"github.com/sitepass/notifier/pkg/dispatch"
	"github.com/sitepass/notifier/pkg/email"
	"github.com/sitepass/notifier/pkg/httpserver"
	"github.com/sitepass/notifier/pkg/logger"
	"github.com/sitepass/notifier/pkg/messaging"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	EmailDevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, "notifierd"))
	logger.SetAsDefault(log)

	transports := map[dispatch.Channel]dispatch.Transport{}

	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	if emailCfg.PostmarkServerToken != "" {
		transports[dispatch.ChannelEmail] = email.NewTransport(email.MustNewPostmarkClient(emailCfg))
	} else {
		log.Warn("postmark not configured, writing emails to disk",
			logger.Component("email"))
		transports[dispatch.ChannelEmail] = email.NewTransport(email.NewDevSender(appCfg.EmailDevDir))
	}

	var msgCfg messaging.Config
	if err := config.Load(&msgCfg); err != nil {
		log.Warn("messaging gateway not configured, channel disabled",
			logger.Component("messaging"), logger.Error(err))
	} else {
		transports[dispatch.ChannelMessaging] = messaging.NewTransport(messaging.MustNewClient(msgCfg))
	}

	var dispatchCfg dispatch.Config
	config.MustLoad(&dispatchCfg)

	svc, err := dispatch.NewServiceFromConfig(dispatchCfg, transports,
		dispatch.WithLogger(log))
	if err != nil {
		log.Error("failed to build dispatch service", logger.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()

	router := chi.NewRouter()
	router.Get("/health", httpserver.HealthCheckHandler(ctx, log))
	router.Mount("/", api.NewHandler(svc, log).Router())

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		log.Error("http server exited", logger.Error(err))
	}

	if err := svc.Close(); err != nil {
		log.Error("dispatch service shutdown failed", logger.Error(err))
	}
}
