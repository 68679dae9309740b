package main

import (
	env "github.com/caarlos0/env/v10"
)

// Config is read from the environment after the optional .env file has been
// loaded.
type Config struct {
	Addr         string `env:"ADDR" envDefault:":8081"`
	JWTSecret    string `env:"JWT_SECRET" envDefault:"dev-insecure-secret-change"`
	TemplateDir  string `env:"TEMPLATE_DIR" envDefault:"templates"`
	UploadDir    string `env:"UPLOAD_DIR" envDefault:"uploads"`
	OCRLanguages string `env:"OCR_LANGS" envDefault:"chi_tra+eng"`
	OCRCropRight bool   `env:"OCR_CROP_RIGHT" envDefault:"false"`
}

func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
