package main

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"discord-clone/internal/api"
	"discord-clone/internal/hub"
	"discord-clone/internal/message"
	"discord-clone/internal/storage"
)

func main() {
	db, err := storage.Connect(storage.DefaultDBPath)
	if err != nil {
		log.WithFields(log.Fields{"error": err.Error()}).Fatal("failed to open database")
	}

	h := hub.New(message.NewMessageService(db))

	engine := gin.Default()
	api.NewRouter(db, h).RegisterRoutes(engine)

	log.WithFields(log.Fields{"addr": ":8000"}).Info("starting server")
	if err := engine.Run(":8000"); err != nil {
		log.WithFields(log.Fields{"error": err.Error()}).Fatal("server stopped")
	}
}
