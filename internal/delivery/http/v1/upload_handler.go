package v1

import (
	"net/http"
	"strconv"
	"strings"

	"go-hiring-ingest/internal/delivery/http/response"
	"go-hiring-ingest/internal/domain"
	"go-hiring-ingest/pkg/apperror"
	"go-hiring-ingest/pkg/security"
	"go-hiring-ingest/pkg/validation"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadUC domain.UploadUsecase
	limiter  *security.UploadLimiter
}

func NewUploadHandler(rg *gin.RouterGroup, uploadUC domain.UploadUsecase, limiter *security.UploadLimiter) {
	handler := &UploadHandler{uploadUC: uploadUC, limiter: limiter}

	uploads := rg.Group("/uploads")
	{
		uploads.POST("/sign", handler.Sign)
		uploads.POST("/confirm", handler.Confirm)
	}
}

type SignUploadRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	Purpose     string `json:"purpose" binding:"required,oneof=job_description resume"`
	JobID       string `json:"job_id"`
	// Head carries the first bytes of the file, base64 encoded, so the
	// server can sniff the real format before signing.
	Head []byte `json:"head"`
}

type ConfirmUploadRequest struct {
	JobID       string `json:"job_id" binding:"required"`
	Key         string `json:"key" binding:"required"`
	FileName    string `json:"file_name" binding:"required"`
	Size        int64  `json:"size"`
	Checksum    string `json:"checksum"`
	ContentType string `json:"content_type"`
}

// Sign godoc
// @Summary      Issue a presigned upload URL
// @Description  Validate the declared file and return a short-lived presigned PUT URL for direct-to-storage upload
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        upload  body      SignUploadRequest  true  "Upload declaration"
// @Success      200     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      413     {object}  response.Response
// @Failure      415     {object}  response.Response
// @Failure      429     {object}  response.Response
// @Router       /uploads/sign [post]
func (h *UploadHandler) Sign(c *gin.Context) {
	var req SignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
		return
	}

	actorID := c.GetString(string(domain.KeyActorID))
	if h.limiter != nil {
		allowed, retryAfter, err := h.limiter.AllowUpload(c.Request.Context(), c.ClientIP(), actorID)
		// Limiter errors fail open: infrastructure trouble must not block uploads.
		if err == nil && !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "Too many upload requests. Please try again later.", nil)
			c.Abort()
			return
		}
	}

	signed, err := h.uploadUC.SignUpload(c.Request.Context(), domain.SignUploadInput{
		OrgID:        c.GetString(string(domain.KeyOrgID)),
		ActorID:      actorID,
		FileName:     req.FileName,
		DeclaredType: req.ContentType,
		Size:         req.Size,
		Purpose:      domain.UploadPurpose(req.Purpose),
		JobID:        req.JobID,
		Head:         req.Head,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Upload URL issued", signed)
}

// Confirm godoc
// @Summary      Confirm a completed resume upload
// @Description  Verify the object landed in storage and persist file, candidate and resume records in one transaction
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Param        upload  body      ConfirmUploadRequest  true  "Completed upload"
// @Success      201     {object}  response.Response
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Failure      409     {object}  response.Response
// @Failure      502     {object}  response.Response
// @Router       /uploads/confirm [post]
func (h *UploadHandler) Confirm(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
		return
	}

	result, err := h.uploadUC.ConfirmUpload(c.Request.Context(), domain.ConfirmUploadInput{
		OrgID:       c.GetString(string(domain.KeyOrgID)),
		ActorID:     c.GetString(string(domain.KeyActorID)),
		JobID:       req.JobID,
		Key:         req.Key,
		FileName:    req.FileName,
		Size:        req.Size,
		Checksum:    req.Checksum,
		ContentType: req.ContentType,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Upload confirmed", result)
}
