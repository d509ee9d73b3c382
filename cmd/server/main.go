package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AndrewKaranu/ScamShield/internal/archive"
	"github.com/AndrewKaranu/ScamShield/internal/call"
	"github.com/AndrewKaranu/ScamShield/internal/config"
	"github.com/AndrewKaranu/ScamShield/internal/httpserver"
	"github.com/AndrewKaranu/ScamShield/internal/llm"
	"github.com/AndrewKaranu/ScamShield/internal/scenario"
	"github.com/AndrewKaranu/ScamShield/internal/store"
	"github.com/AndrewKaranu/ScamShield/internal/stt"
	"github.com/AndrewKaranu/ScamShield/internal/tts"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	log := logrus.NewEntry(logrus.StandardLogger())

	cfg := config.Load()
	registry := scenario.Default()

	var synthesizer call.Synthesizer
	switch cfg.TTSProvider {
	case "deepgram":
		synthesizer = tts.NewDeepgramClient(cfg.DeepgramKey, "", log)
	default:
		synthesizer = tts.NewElevenLabsClient(cfg.ElevenLabsKey)
	}

	manager := call.NewManager(registry, call.Deps{
		Generator:     llm.NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel),
		Synthesizer:   synthesizer,
		Transcriber:   stt.NewElevenLabsClient(cfg.ElevenLabsKey),
		TransferDelay: cfg.TransferDelay,
		Log:           log,
	})

	reports, err := store.Open(cfg.SQLitePath)
	if err != nil {
		log.WithError(err).Fatal("could not open report store")
	}
	defer reports.Close()
	manager.AddReportSink(func(r call.Report) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := reports.Save(ctx, r); err != nil {
			log.WithError(err).WithField("session", r.SessionID).Error("could not persist report")
		}
	})

	if cfg.SupabaseURL != "" && cfg.SupabaseServiceKey != "" {
		arc, err := archive.New(archive.Config{
			URL:            cfg.SupabaseURL,
			ServiceRoleKey: cfg.SupabaseServiceKey,
			Bucket:         cfg.SupabaseBucket,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("could not create report archive")
		}
		sink := arc.Sink()
		manager.AddReportSink(func(r call.Report) { go sink(r) })
	}

	e := httpserver.New()
	httpserver.NewHandlers(manager, registry, reports, cfg.AuthPassword, log).Register(e)

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.HTTPAddress).Info("server listening")
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
		server.Close()
	}
}
