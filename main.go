package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"MagicPlanner/Chat"
	"MagicPlanner/Config"
	"MagicPlanner/Controllers"
	"MagicPlanner/CronJobs"
	"MagicPlanner/FiberConfig"
	"MagicPlanner/FirebaseConfig"
	"MagicPlanner/Gateway"
	"MagicPlanner/Materials"
	"MagicPlanner/Models"
	"MagicPlanner/Photos"
	"MagicPlanner/Planner"
	"MagicPlanner/Session"
	"MagicPlanner/Tokens"
	"MagicPlanner/Tracker"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := Config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	Config.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	classifier := Planner.NewClassifier(cfg.Location)
	gateway := Gateway.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, classifier)

	db, err := Models.Connect(cfg.SessionDB)
	if err != nil {
		log.WithError(err).Fatal("Failed to open session store")
	}
	sessions := Session.NewManager(db, gateway, cfg.SessionKey)
	restored, err := sessions.Restore()
	if err != nil && !errors.Is(err, Session.ErrNotLoggedIn) {
		log.WithError(err).Warn("Session not restored")
	}

	tracker := Tracker.New(gateway, classifier)

	var clients *FirebaseConfig.Clients
	if cfg.FirebaseEnabled() {
		clients, err = FirebaseConfig.Init(ctx, cfg)
		if err != nil {
			log.WithError(err).Warn("Firebase unavailable, photos, chat and materials are disabled")
			clients = nil
		} else {
			defer clients.Close()
		}
	}

	var channel Tokens.Channel
	if clients != nil {
		channel = Tokens.NewFCMChannel(clients.Messaging)
	}
	handler := Controllers.NewHandler(Controllers.Options{
		JWTSecret:   cfg.JWTSecret,
		DeviceModel: cfg.DeviceModel,
	}, gateway, sessions, tracker, Tokens.NewReconciler(gateway, channel))

	if clients != nil {
		pipeline := Photos.NewPipeline(
			Photos.NewStorageUploader(clients.Bucket, clients.BucketName),
			Photos.NewFirestoreRecorder(clients.Firestore),
			gateway,
		)
		pipeline.MaxDimension = cfg.PhotoMaxDimension
		pipeline.Quality = cfg.PhotoQuality

		chatStore := Chat.NewFirestoreStore(clients.Firestore)
		announcer := Tokens.NewAnnouncer(clients.Messaging)
		watcher := Chat.NewWatcher(chatStore)
		watcher.OnMessage = func(account Models.Account, msg Models.ChatMessage) {
			if err := announcer.ChatMessage(context.Background(), account.ID, msg); err != nil {
				log.WithError(err).WithField("message_id", msg.ID).Warn("Chat message not announced")
			}
		}
		defer watcher.Stop()

		handler.WithPhotos(pipeline).
			WithChat(Chat.NewService(chatStore)).
			WithChatWatcher(watcher).
			WithMaterials(Materials.NewFirestoreCatalogue(clients.Firestore))

		tracker.OnComplete = func(task Models.Task) {
			s, err := sessions.Current()
			if err != nil {
				return
			}
			if err := announcer.TaskCompleted(context.Background(), s.AccountID, task); err != nil {
				log.WithError(err).WithField("task_id", task.ID).Warn("Completion not announced")
			}
		}

		if restored.Email != "" {
			if err := watcher.Start(Models.Account{ID: restored.AccountID, Email: restored.Email}); err != nil {
				log.WithError(err).Warn("Chat listener not started")
			}
		}
	}

	if restored.AccountID != 0 {
		if err := handler.Refresh(ctx); err != nil {
			log.WithError(err).Warn("Initial refresh incomplete")
		}
	}

	refresher := CronJobs.NewRefresher(cfg.RefreshSchedule, 4*cfg.HTTPTimeout, handler.Refresh)
	if err := refresher.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start refresh scheduler")
	}
	defer refresher.Stop()
	handler.WithRefresher(refresher)

	app := FiberConfig.New(handler, cfg.JWTSecret, sessions)
	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Shutdown failed")
		}
	}()

	log.WithField("addr", cfg.ListenAddr).Info("Server Up")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.WithError(err).Error("Server stopped")
	}
}
