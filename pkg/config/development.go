package config

import (
	"os"
	"strconv"
)

func loadDevelopmentConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DataDir = "./tmp/folio"
	cfg.ImportWorkers = 1
	cfg.ServerHost = "127.0.0.1"
}
