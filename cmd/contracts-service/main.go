package main

import (
	"fmt"
	"os"

	"github.com/contratos/contracts-service/internal/auth"
	"github.com/contratos/contracts-service/internal/catalog"
	"github.com/contratos/contracts-service/internal/config"
	"github.com/contratos/contracts-service/internal/db"
	"github.com/contratos/contracts-service/internal/excel"
	"github.com/contratos/contracts-service/internal/generate"
	httphandler "github.com/contratos/contracts-service/internal/http"
	"github.com/contratos/contracts-service/internal/http/middleware"
	"github.com/contratos/contracts-service/internal/logger"
	"github.com/contratos/contracts-service/internal/pdf"
	"github.com/contratos/contracts-service/internal/repository"
	"github.com/contratos/contracts-service/internal/service"
	"github.com/contratos/contracts-service/internal/session"
	"github.com/contratos/contracts-service/internal/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	templateRepo := repository.NewTemplateRepository(database)
	contractRepo := repository.NewContractRepository(database)
	partyRepo := repository.NewPartyRepository(database)

	cat := catalog.New(templates.System(), templateRepo, log)
	gen := generate.New(cfg.Contracts.LocaleTag(), cfg.Contracts.DefaultCity)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	sessions := session.NewManager(cfg.Contracts.SessionTTL)

	templateService := service.NewTemplateService(cat, templateRepo)
	contractService := service.NewContractService(
		sessions, cat, partyRepo, contractRepo, gen, pdfGenerator, excelGenerator, log,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(templateService, contractService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
