package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"findmyanime/internal/auth"
	"findmyanime/internal/config"
	"findmyanime/pkg/database"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := os.MkdirAll("./data", 0755); err != nil {
		logrus.Fatal(err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logrus.Fatal(err)
	}
	defer db.Close()

	// Schema is created idempotently on every start; users first.
	if err := database.Migrate(db); err != nil {
		logrus.Fatal(err)
	}

	sessions := auth.NewStore(auth.SessionTTL)
	stop := make(chan struct{})
	defer close(stop)
	go sessions.StartSweeper(sweepInterval, stop)

	r := newRouter(cfg, db, sessions)

	logrus.WithField("addr", cfg.Addr).Info("findmyanime backend listening")
	if err := r.Run(cfg.Addr); err != nil {
		logrus.Fatal(err)
	}
}
