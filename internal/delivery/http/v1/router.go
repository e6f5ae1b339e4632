package v1

import (
	"net/http"

	"go-hiring-ingest/internal/delivery/http/middleware"
	"go-hiring-ingest/internal/delivery/http/response"
	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	UploadUC      domain.UploadUsecase
	IngestUC      domain.IngestUsecase
	JobUC         domain.JobUsecase
	UploadLimiter *security.UploadLimiter
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitMiddleware())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Tenant-scoped routes. Identity is resolved upstream; every route below
	// requires an org scope.
	scoped := v1.Group("")
	scoped.Use(middleware.TenantMiddleware())
	{
		NewUploadHandler(scoped, deps.UploadUC, deps.UploadLimiter)
		NewIngestHandler(scoped, deps.IngestUC, middleware.RateLimitMiddleware(middleware.IngestRateLimitConfig()))
		NewJobHandler(scoped, deps.JobUC)
	}

	return r
}
