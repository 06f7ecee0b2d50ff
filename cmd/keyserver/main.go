// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"

	"github.com/jimzord12/hybrid-kem-go/internal/config"
	"github.com/jimzord12/hybrid-kem-go/internal/keymanager"
	"github.com/jimzord12/hybrid-kem-go/internal/logger"
	"github.com/jimzord12/hybrid-kem-go/internal/preset"
	"github.com/jimzord12/hybrid-kem-go/internal/rotationrunner"
	"github.com/jimzord12/hybrid-kem-go/internal/server"
	transporthttp "github.com/jimzord12/hybrid-kem-go/internal/transport/http"
	"github.com/jimzord12/hybrid-kem-go/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("keyserver")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Info().Msg("starting key server")
	log.Debug().Any("config", cfg).Msg("received configs")

	manager := keymanager.New(keymanager.Config{
		Preset:                     preset.Preset(cfg.KeyManager.Preset),
		CertPath:                   cfg.KeyManager.CertPath,
		KeyExpiryMonths:            cfg.KeyManager.KeyExpiryMonths,
		AutoGenerate:               cfg.KeyManager.AutoGenerate,
		EnableFileBackup:           cfg.KeyManager.EnableFileBackup,
		RotationGracePeriodMinutes: cfg.KeyManager.RotationGracePeriodMinutes,
		RotationIntervalWeeks:      cfg.KeyManager.RotationIntervalWeeks,
	}, log)

	if err := manager.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("error initializing key manager")
	}

	runner := rotationrunner.New(manager, cfg.KeyManager.RotationIntervalWeeks, log)
	background := workers.NewWorkers(runner)
	go background.Run()
	defer runner.Stop()

	handler := transporthttp.NewHandler(manager, log)
	router := handler.Init()

	srv, err := server.NewServer(router, cfg.Server.HTTPAddress, cfg.Server.RequestTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
