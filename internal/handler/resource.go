package handler

import (
	"github.com/rescuelink/emergency-data-api/internal/repository"
)

// ResourceHandler bundles the repositories for the owned-resource CRUD
// endpoints. Each resource group lives in its own file but shares this
// receiver, mirroring how the routes share one authenticated group.
type ResourceHandler struct {
	Medical    *repository.MedicalInfoRepo
	Contacts   *repository.EmergencyContactRepo
	Vehicles   *repository.VehicleRepo
	Addresses  *repository.AddressRepo
	Banks      *repository.BankAccountRepo
	Insurances *repository.HealthInsuranceRepo
}

func NewResourceHandler(
	medical *repository.MedicalInfoRepo,
	contacts *repository.EmergencyContactRepo,
	vehicles *repository.VehicleRepo,
	addresses *repository.AddressRepo,
	banks *repository.BankAccountRepo,
	insurances *repository.HealthInsuranceRepo,
) *ResourceHandler {
	if medical == nil || contacts == nil || vehicles == nil || addresses == nil || banks == nil || insurances == nil {
		panic("nil repository passed to NewResourceHandler")
	}
	return &ResourceHandler{
		Medical:    medical,
		Contacts:   contacts,
		Vehicles:   vehicles,
		Addresses:  addresses,
		Banks:      banks,
		Insurances: insurances,
	}
}
