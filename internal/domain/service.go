package domain

import "time"

type ServiceType string

const (
	ServiceTypeIndividual ServiceType = "individual"
	ServiceTypePackage    ServiceType = "package"
	ServiceTypeAddon      ServiceType = "addon"
)

func (t ServiceType) IsValid() bool {
	return t == ServiceTypeIndividual || t == ServiceTypePackage || t == ServiceTypeAddon
}

// Service is a purchasable offering from the catalog.
type Service struct {
	ID          uint
	Slug        string
	Name        string
	Description string
	Price       float64
	Type        ServiceType
	Tier        string
	Category    string
	Features    []string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
