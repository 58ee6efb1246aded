package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"edudesk-backend/config"
	"edudesk-backend/controller"
	"edudesk-backend/school"
	mongodb "edudesk-backend/store/mongo"
	"edudesk-backend/token"
	"edudesk-backend/upload"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalln("main: connecting to mongo:", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Println("main: disconnecting mongo:", err)
		}
	}()

	st, err := mongodb.Connect(ctx, client, cfg.DBName)
	if err != nil {
		log.Fatalln("main: pinging mongo:", err)
	}

	var files upload.Storage = upload.Disabled{}
	if cfg.OSSEndpoint != "" {
		oss, err := upload.NewOSSStorage(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, cfg.OSSBucket, cfg.OSSPublicURL)
		if err != nil {
			log.Fatalln("main: configuring file storage:", err)
		}
		files = oss
	} else {
		log.Println("main: OSS not configured, homework uploads disabled")
	}

	svc := school.NewService(st, files)
	ts := token.NewStorage()

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: controller.NewRouter(svc, ts),
	}

	go func() {
		log.Println("main: listening on", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("main:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("main: shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("main: shutdown:", err)
	}
}
