package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"nspire/app/client/whatsapp"
	"nspire/app/config"
	"nspire/app/server"
	"nspire/app/service/dispatch"
	"nspire/app/service/generate"
	"nspire/app/service/queue"
	"nspire/app/service/session"
	"nspire/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, whatsapp.NewClient)
	do.Provide(di, session.New)
	do.Provide(di, generate.New)
	do.Provide(di, dispatch.New)
	do.Provide(di, queue.New)
	do.Provide(di, server.New)

	queueSvc := do.MustInvoke[*queue.Service](di)
	queueSvc.SetHandler(do.MustInvoke[*dispatch.Service](di).HandleMessage)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*session.Service](di).RunJanitor(appCtx)

	go func() {
		if err := do.MustInvoke[*server.Service](di).Run(appCtx); err != nil {
			slog.Error("Server stopped", "error", err)
			cancel()
		}
	}()

	<-appCtx.Done()
}
