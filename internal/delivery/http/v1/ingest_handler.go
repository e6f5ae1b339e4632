package v1

import (
	"io"
	"net/http"
	"strings"

	"go-hiring-ingest/internal/delivery/http/response"
	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/apperror"
	"go-hiring-ingest/pkg/validation"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	ingestUC domain.IngestUsecase
}

func NewIngestHandler(rg *gin.RouterGroup, ingestUC domain.IngestUsecase, extra ...gin.HandlerFunc) {
	handler := &IngestHandler{ingestUC: ingestUC}

	route := rg.Group("/ingest")
	route.Use(extra...)
	{
		route.POST("", handler.Ingest)
	}
}

type IngestRequest struct {
	JobID       string `json:"job_id"`
	Source      string `json:"source" binding:"required,oneof=paste upload"`
	Text        string `json:"text"`
	Key         string `json:"key"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// Ingest godoc
// @Summary      Process a job description document
// @Description  Extract text from a pasted, uploaded or inline document, run structured field extraction and merge the result into the job
// @Tags         ingest
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        ingest  body      IngestRequest  false  "Ingestion request (JSON sources)"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Failure      413     {object}  response.Response
// @Failure      415     {object}  response.Response
// @Failure      422     {object}  response.Response
// @Failure      502     {object}  response.Response
// @Router       /ingest [post]
func (h *IngestHandler) Ingest(c *gin.Context) {
	var in domain.IngestInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var err error
		in, err = inlineInput(c)
		if err != nil {
			c.Error(err)
			return
		}
	} else {
		var req IngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
			return
		}
		in = domain.IngestInput{
			JobID:        req.JobID,
			Source:       domain.IngestSource(req.Source),
			Text:         req.Text,
			Key:          req.Key,
			FileName:     req.FileName,
			DeclaredType: req.ContentType,
		}
	}

	in.OrgID = c.GetString(string(domain.KeyOrgID))
	in.ActorID = c.GetString(string(domain.KeyActorID))

	result, err := h.ingestUC.Ingest(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document processed", result)
}

// inlineInput reads the multipart form of an inline ingestion. The read is
// capped one byte past the description limit so an oversized body is detected
// without buffering it whole.
func inlineInput(c *gin.Context) (domain.IngestInput, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.IngestInput{}, apperror.BadRequest("file field is required for inline ingestion")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return domain.IngestInput{}, apperror.BadRequest("uploaded file could not be read")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxJobDescriptionUploadBytes+1))
	if err != nil {
		return domain.IngestInput{}, apperror.BadRequest("uploaded file could not be read")
	}
	if int64(len(data)) > domain.MaxJobDescriptionUploadBytes {
		return domain.IngestInput{}, apperror.PayloadTooLarge("file exceeds the upload size limit")
	}

	return domain.IngestInput{
		JobID:        c.PostForm("job_id"),
		Source:       domain.IngestSourceInline,
		FileName:     fileHeader.Filename,
		DeclaredType: fileHeader.Header.Get("Content-Type"),
		Data:         data,
	}, nil
}
