package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/rescuelink/emergency-data-api/internal/config"
	"github.com/rescuelink/emergency-data-api/internal/database"
	"github.com/rescuelink/emergency-data-api/internal/handler"
	"github.com/rescuelink/emergency-data-api/internal/identity"
	"github.com/rescuelink/emergency-data-api/internal/integration"
	"github.com/rescuelink/emergency-data-api/internal/middleware"
	"github.com/rescuelink/emergency-data-api/internal/queue"
	"github.com/rescuelink/emergency-data-api/internal/repository"
	"github.com/rescuelink/emergency-data-api/internal/router"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// The in-process consumer mirrors broker traffic into the event log.
	// It reconnects on its own; a missing broker never blocks startup.
	go queue.StartEventConsumer()

	users := repository.NewUserRepo(db)
	medical := repository.NewMedicalInfoRepo(db)
	contacts := repository.NewEmergencyContactRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	addresses := repository.NewAddressRepo(db)
	banks := repository.NewBankAccountRepo(db)
	insurances := repository.NewHealthInsuranceRepo(db)
	events := repository.NewEmergencyEventRepo(db)
	questions := repository.NewValidationQuestionRepo(db)

	idc := identity.NewClient(cfg.IdentityURL, cfg.IdentityAPIKey)
	messaging := integration.NewMessagingClient(cfg.MessagingURL, cfg.MessagingAPIKey)
	agent := integration.NewAgentClient(cfg.AgentURL, cfg.AgentAPIKey)

	h := router.Handlers{
		Auth:        handler.NewAuthHandler(users, idc),
		Resources:   handler.NewResourceHandler(medical, contacts, vehicles, addresses, banks, insurances),
		Events:      handler.NewEventHandler(events),
		Questions:   handler.NewQuestionHandler(questions, cfg.BcryptCost),
		Integration: handler.NewIntegrationHandler(messaging, agent, users, contacts, medical, insurances, banks, addresses),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient()
	rateLimit := middleware.NewTokenBucket(rlCfg, rdb)

	router.Register(e, h, cfg.AuthSecret, cfg.ServiceKey, rateLimit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
