// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rescuelink/emergency-data-api/internal/handler"
	"github.com/rescuelink/emergency-data-api/internal/middleware"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Auth        *handler.AuthHandler
	Resources   *handler.ResourceHandler
	Events      *handler.EventHandler
	Questions   *handler.QuestionHandler
	Integration *handler.IntegrationHandler
}

// Register mounts every route. Public endpoints go on the root; everything
// else lives in a /v1 group behind the auth middleware and the rate
// limiter. rateLimit may be a pass-through when Redis is unavailable.
func Register(e *echo.Echo, h Handlers, authSecret, serviceKey string, rateLimit echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Registration and pre-registration email lookup happen before the
	// caller has a token.
	e.POST("/v1/auth/register", h.Auth.Register)
	e.GET("/v1/auth/check-email", h.Auth.CheckEmail)

	// Answer verification is open: emergency responders hold a question id
	// and a candidate answer, nothing else.
	e.POST("/v1/validation-questions/:id/verify", h.Questions.VerifyAnswer)

	v1 := e.Group("/v1")
	v1.Use(middleware.Auth(authSecret, serviceKey))
	if rateLimit != nil {
		v1.Use(rateLimit)
	}

	// Own profile.
	v1.GET("/users/me", h.Auth.Me)
	v1.PATCH("/users/me", h.Auth.UpdateMe)
	v1.DELETE("/users/me", h.Auth.DeleteMe)
	v1.GET("/users/me/full", h.Integration.FullProfile)

	// Medical info is a singleton per user, addressed without an id.
	v1.GET("/medical-info", h.Resources.GetMedicalInfo)
	v1.POST("/medical-info", h.Resources.CreateMedicalInfo)
	v1.PUT("/medical-info", h.Resources.UpsertMedicalInfo)
	v1.PATCH("/medical-info", h.Resources.UpdateMedicalInfo)
	v1.DELETE("/medical-info", h.Resources.DeleteMedicalInfo)

	v1.GET("/emergency-contacts", h.Resources.ListContacts)
	v1.POST("/emergency-contacts", h.Resources.CreateContact)
	v1.GET("/emergency-contacts/:id", h.Resources.GetContact)
	v1.PATCH("/emergency-contacts/:id", h.Resources.UpdateContact)
	v1.DELETE("/emergency-contacts/:id", h.Resources.DeleteContact)

	v1.GET("/vehicles", h.Resources.ListVehicles)
	v1.POST("/vehicles", h.Resources.CreateVehicle)
	v1.GET("/vehicles/:id", h.Resources.GetVehicle)
	v1.PATCH("/vehicles/:id", h.Resources.UpdateVehicle)
	v1.DELETE("/vehicles/:id", h.Resources.DeleteVehicle)

	// Insurance records hang off a vehicle for listing and creation but are
	// addressed directly for updates and deletes.
	v1.GET("/vehicles/:id/insurance", h.Resources.ListVehicleInsurance)
	v1.POST("/vehicles/:id/insurance", h.Resources.CreateVehicleInsurance)
	v1.PATCH("/vehicle-insurance/:id", h.Resources.UpdateVehicleInsurance)
	v1.DELETE("/vehicle-insurance/:id", h.Resources.DeleteVehicleInsurance)

	v1.GET("/addresses", h.Resources.ListAddresses)
	v1.POST("/addresses", h.Resources.CreateAddress)
	v1.GET("/addresses/:id", h.Resources.GetAddress)
	v1.PATCH("/addresses/:id", h.Resources.UpdateAddress)
	v1.PUT("/addresses/:id/primary", h.Resources.SetPrimaryAddress)
	v1.DELETE("/addresses/:id", h.Resources.DeleteAddress)

	v1.GET("/bank-accounts", h.Resources.ListBankAccounts)
	v1.POST("/bank-accounts", h.Resources.CreateBankAccount)
	v1.GET("/bank-accounts/:id", h.Resources.GetBankAccount)
	v1.PATCH("/bank-accounts/:id", h.Resources.UpdateBankAccount)
	v1.DELETE("/bank-accounts/:id", h.Resources.DeleteBankAccount)

	v1.GET("/health-insurances", h.Resources.ListHealthInsurances)
	v1.POST("/health-insurances", h.Resources.CreateHealthInsurance)
	v1.GET("/health-insurances/:id", h.Resources.GetHealthInsurance)
	v1.PATCH("/health-insurances/:id", h.Resources.UpdateHealthInsurance)
	v1.DELETE("/health-insurances/:id", h.Resources.DeleteHealthInsurance)

	v1.GET("/emergency-events", h.Events.ListEvents)
	v1.POST("/emergency-events", h.Events.CreateEvent)
	v1.GET("/emergency-events/:id", h.Events.GetEvent)
	v1.PATCH("/emergency-events/:id", h.Events.UpdateEvent)
	v1.DELETE("/emergency-events/:id", h.Events.DeleteEvent)

	v1.GET("/validation-questions", h.Questions.ListQuestions)
	v1.POST("/validation-questions", h.Questions.CreateQuestion)
	v1.GET("/validation-questions/:id", h.Questions.GetQuestion)
	v1.PATCH("/validation-questions/:id", h.Questions.UpdateQuestion)
	v1.DELETE("/validation-questions/:id", h.Questions.DeleteQuestion)

	v1.POST("/messaging/send", h.Integration.SendMessage)
	v1.POST("/agent/compute", h.Integration.ComputeAgent)
}
