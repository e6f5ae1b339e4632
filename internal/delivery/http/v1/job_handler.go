package v1

import (
	"net/http"

	"go-hiring-ingest/internal/delivery/http/response"
	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(rg *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := rg.Group("/jobs")
	{
		jobs.GET("/:id", handler.GetDetails)
	}
}

// GetDetails godoc
// @Summary      Get job details
// @Description  Get a requisition with its requirements bag and attachment lists
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
func (h *JobHandler) GetDetails(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(apperror.BadRequest("Job id is required"))
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), c.GetString(string(domain.KeyOrgID)), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job details", job)
}
