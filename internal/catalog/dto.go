package catalog

import "inkwell/internal/domain"

type ServiceDTO struct {
	ID          uint     `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Type        string   `json:"type"`
	Tier        string   `json:"tier"`
	Category    string   `json:"category"`
	Features    []string `json:"features"`
}

type ServicesResponse struct {
	Services []ServiceDTO `json:"services"`
}

// ToServiceDTO renders prices as decimal strings.
func ToServiceDTO(s domain.Service) ServiceDTO {
	features := s.Features
	if features == nil {
		features = []string{}
	}
	return ServiceDTO{
		ID:          s.ID,
		Slug:        s.Slug,
		Name:        s.Name,
		Description: s.Description,
		Price:       domain.FormatAmount(s.Price),
		Type:        string(s.Type),
		Tier:        s.Tier,
		Category:    s.Category,
		Features:    features,
	}
}
