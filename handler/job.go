package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/deividastamosaitis/objektai/middleware"
	"github.com/deividastamosaitis/objektai/model"
	"github.com/deividastamosaitis/objektai/service"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type jobStore interface {
	Create(ctx context.Context, job *model.Job) (*model.Job, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Job, error)
	List(ctx context.Context, status string) ([]model.Job, error)
	Update(ctx context.Context, id primitive.ObjectID, upd *service.JobUpdate) (*model.Job, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Job, error)
	UpsertInstallation(ctx context.Context, jobID primitive.ObjectID, inst *model.Installation, performedBy primitive.ObjectID) (*model.Job, error)
}

type jobMedia interface {
	UploadJobMedia(ctx context.Context, jobID string, header *multipart.FileHeader) (string, error)
	DeleteObject(ctx context.Context, objectName string) error
	ObjectNameFromURL(url string) string
}

type JobHandler struct {
	jobs  jobStore
	media jobMedia
}

func NewJobHandler(jobs jobStore, media jobMedia) *JobHandler {
	return &JobHandler{jobs: jobs, media: media}
}

// List returns jobs, newest first, optionally filtered by ?status=.
func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.jobs.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

// Get returns a single job with its embedded installation record.
func (h *JobHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Create inserts a new job. Browser clients submit multipart form data with
// optional media files under "images"; plain JSON is accepted too.
func (h *JobHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	job := &model.Job{}
	var files []*multipart.FileHeader

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			respondFormError(c, err)
			return
		}
		job.Name = c.PostForm("vardas")
		job.Phone = c.PostForm("telefonas")
		job.Address = c.PostForm("adresas")
		job.Email = c.PostForm("email")
		job.Lat = c.PostForm("lat")
		job.Lng = c.PostForm("lng")
		job.Status = c.PostForm("jobStatus")
		job.WeekDay = c.PostForm("weekDay")
		job.Info = c.PostForm("info")
		if v := c.PostForm("prislopintas"); v != "" {
			job.Muted, _ = strconv.ParseBool(v)
		}
		files = form.File["images"]
	} else if err := c.ShouldBindJSON(job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if userID, err := primitive.ObjectIDFromHex(middleware.GetUserID(c)); err == nil {
		job.CreatedBy = userID
	}

	// The id is reserved up front so media objects land under the job's
	// own prefix before the document exists.
	job.ID = primitive.NewObjectID()
	urls, err := h.uploadMedia(ctx, job.ID.Hex(), files)
	if err != nil {
		respondError(c, err)
		return
	}
	job.Images = urls

	created, err := h.jobs.Create(ctx, job)
	if err != nil {
		h.dropMedia(ctx, urls)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": created})
}

type jobPatch struct {
	Name    *string   `json:"vardas"`
	Phone   *string   `json:"telefonas"`
	Address *string   `json:"adresas"`
	Email   *string   `json:"email"`
	Lat     *string   `json:"lat"`
	Lng     *string   `json:"lng"`
	Status  *string   `json:"jobStatus"`
	WeekDay *string   `json:"weekDay"`
	Muted   *bool     `json:"prislopintas"`
	Info    *string   `json:"info"`
	Images  *[]string `json:"images"`
}

func (p *jobPatch) update() *service.JobUpdate {
	return &service.JobUpdate{
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Email:   p.Email,
		Lat:     p.Lat,
		Lng:     p.Lng,
		Status:  p.Status,
		WeekDay: p.WeekDay,
		Muted:   p.Muted,
		Info:    p.Info,
		Images:  p.Images,
	}
}

// Update applies a partial edit. Multipart submissions carry the keep-list
// of media URLs under "existingImages" plus any new files; media absent from
// the keep-list is removed from storage.
func (h *JobHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	var upd *service.JobUpdate
	var removed []string

	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			respondFormError(c, err)
			return
		}
		upd = &service.JobUpdate{}
		setFormField(c, "vardas", &upd.Name)
		setFormField(c, "telefonas", &upd.Phone)
		setFormField(c, "adresas", &upd.Address)
		setFormField(c, "email", &upd.Email)
		setFormField(c, "lat", &upd.Lat)
		setFormField(c, "lng", &upd.Lng)
		setFormField(c, "jobStatus", &upd.Status)
		setFormField(c, "weekDay", &upd.WeekDay)
		setFormField(c, "info", &upd.Info)
		if v, ok := c.GetPostForm("prislopintas"); ok {
			muted, _ := strconv.ParseBool(v)
			upd.Muted = &muted
		}

		files := form.File["images"]
		keep, hasKeep := form.Value["existingImages"]
		if hasKeep || len(files) > 0 {
			current, err := h.jobs.Get(ctx, id)
			if err != nil {
				respondError(c, err)
				return
			}
			removed = missingFrom(current.Images, keep)

			uploaded, err := h.uploadMedia(ctx, id.Hex(), files)
			if err != nil {
				respondError(c, err)
				return
			}
			images := append(keep, uploaded...)
			upd.Images = &images
		}
	} else {
		var patch jobPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		upd = patch.update()
	}

	job, err := h.jobs.Update(ctx, id, upd)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dropMedia(ctx, removed)
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Delete removes a job and its media objects.
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	job, err := h.jobs.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dropMedia(c.Request.Context(), job.Images)
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted", "job": job})
}

// SaveInstallation replaces the job's as-built installation record.
func (h *JobHandler) SaveInstallation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	var inst model.Installation
	if err := c.ShouldBindJSON(&inst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	performedBy, _ := primitive.ObjectIDFromHex(middleware.GetUserID(c))
	job, err := h.jobs.UpsertInstallation(c.Request.Context(), id, &inst, performedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// ExportInstallation streams the installation record as an xlsx attachment.
func (h *JobHandler) ExportInstallation(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := service.BuildInstallationWorkbook(job)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("montavimas-%s.xlsx", job.ID.Hex())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := f.Write(c.Writer); err != nil {
		// Headers are already sent; nothing to do but log.
		slog.Error("xlsx export failed", "error", err, "jobId", job.ID.Hex())
	}
}

func (h *JobHandler) uploadMedia(ctx context.Context, jobID string, files []*multipart.FileHeader) ([]string, error) {
	var urls []string
	for _, file := range files {
		url, err := h.media.UploadJobMedia(ctx, jobID, file)
		if err != nil {
			h.dropMedia(ctx, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// dropMedia is best effort; a leaked object is preferable to failing the
// request after the document write succeeded.
func (h *JobHandler) dropMedia(ctx context.Context, urls []string) {
	for _, url := range urls {
		name := h.media.ObjectNameFromURL(url)
		if name == "" {
			continue
		}
		if err := h.media.DeleteObject(ctx, name); err != nil {
			slog.Warn("failed to delete media object", "object", name, "error", err)
		}
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// respondFormError tells an oversized upload apart from a malformed one.
func respondFormError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
}

func setFormField(c *gin.Context, key string, dst **string) {
	if v, ok := c.GetPostForm(key); ok {
		*dst = &v
	}
}

func missingFrom(current, keep []string) []string {
	kept := make(map[string]bool, len(keep))
	for _, url := range keep {
		kept[url] = true
	}
	var gone []string
	for _, url := range current {
		if !kept[url] {
			gone = append(gone, url)
		}
	}
	return gone
}
