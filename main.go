package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"payhelper/pkg/ocr"
	"payhelper/pkg/payslip"
)

func main() {
	// load ./.env if present without overwriting variables already set
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal("config: ", err)
	}

	store, err := payslip.NewStore(cfg.TemplateDir)
	if err != nil {
		log.Fatal("template store: ", err)
	}
	defer store.Close()

	srv := newServer(cfg, store, &ocr.TesseractRecognizer{
		Languages:       cfg.OCRLanguages,
		CropRightColumn: cfg.OCRCropRight,
	})

	r := gin.Default()
	srv.setupRoutes(r)

	log.Printf("payslip helper listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
