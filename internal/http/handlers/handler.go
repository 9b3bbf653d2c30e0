package handlers

import (
	"database/sql"

	"cabline/internal/http/middleware"
	"cabline/internal/repositories"
	"cabline/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler carries the shared collaborators; services are assembled per
// request so log lines pick up the request id.
type Handler struct {
	Store  services.BookingStore
	Audit  services.AuditRecorder
	Events services.EventNotifier
	Staff  repositories.StaffRepo

	SQL   *sql.DB
	Mongo *mongo.Client

	JWTSecret       []byte
	BootstrapSecret string
}

func (h *Handler) admin(c *gin.Context) services.AdminService {
	return services.AdminService{
		Store:     h.Store,
		Audit:     h.Audit,
		Events:    h.Events,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) tracking(c *gin.Context) services.TrackingService {
	return services.TrackingService{
		Store:     h.Store,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) docs(c *gin.Context) services.DocsService {
	return services.DocsService{
		Store:     h.Store,
		RequestID: middleware.GetRequestID(c),
	}
}
