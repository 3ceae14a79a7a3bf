package catalog

import (
	"net/http"

	"inkwell/internal/catalog/repository"
	"inkwell/internal/commons"
	"inkwell/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Controller struct {
	service *Service
	logger  *zap.Logger
}

func NewController(service *Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) HandleGetAllServices(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	filter := repository.Filter{
		Type:     domain.ServiceType(r.URL.Query().Get("type")),
		Category: r.URL.Query().Get("category"),
	}

	services, err := c.service.GetAllServices(r.Context(), filter)
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	resp := ServicesResponse{Services: make([]ServiceDTO, 0, len(services))}
	for _, s := range services {
		resp.Services = append(resp.Services, ToServiceDTO(s))
	}

	commons.WriteJSON(w, http.StatusOK, resp, logger)
}

func (c *Controller) HandleGetServiceBySlug(w http.ResponseWriter, r *http.Request) {
	traceID, logger := commons.NewTrace(c.logger)

	svc, err := c.service.GetServiceBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		commons.HandleError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, ToServiceDTO(*svc), logger)
}
