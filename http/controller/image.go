package controller

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-gallery-service/http/controller/dto"
	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/service"
	"github.com/tnqbao/gau-gallery-service/utils"
)

// multipartOverhead is the slack allowed on top of the file payload for
// boundaries and part headers.
const multipartOverhead = 1 << 20

func (ctrl *Controller) Index(c *gin.Context) {
	c.File(filepath.Join(ctrl.Config.EnvConfig.App.PublicDir, "index.html"))
}

func (ctrl *Controller) Healthz(c *gin.Context) {
	utils.JSON200(c, dto.HealthResponseDTO{Status: "ok"})
}

func (ctrl *Controller) UploadImages(c *gin.Context) {
	ctx := c.Request.Context()
	uploadCfg := ctrl.Config.EnvConfig.Upload

	if uploadCfg.MaxFileSize > 0 {
		limit := int64(uploadCfg.MaxFiles)*uploadCfg.MaxFileSize + multipartOverhead
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Request is not multipart: %v", err)
			utils.JSON400(c, "No files were uploaded")
		case errors.As(err, &maxBytesErr):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Request body exceeds %d bytes", maxBytesErr.Limit)
			utils.JSON400(c, "Upload is too large")
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Failed to parse multipart form")
			utils.JSON400(c, "Invalid multipart form")
		}
		return
	}

	headers := form.File[uploadCfg.FieldName]
	inputs := make([]service.UploadInput, 0, len(headers))
	for _, fh := range headers {
		inputs = append(inputs, service.UploadInput{
			OriginalName: fh.Filename,
			Size:         fh.Size,
			ContentType:  fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Received %d file(s)", len(inputs))

	result, err := ctrl.Service.Upload(ctx, inputs)
	if err != nil {
		ctrl.handleUploadError(c, err)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Upload] Stored %d file(s), %d image(s) in gallery", len(result.Files), len(result.AllImages))
	utils.JSON200(c, dto.UploadResponseDTO{
		Message:   "Files uploaded successfully",
		Files:     result.Files,
		AllImages: result.AllImages,
	})
}

func (ctrl *Controller) handleUploadError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	var partial *service.PartialInsertError

	switch {
	case errors.Is(err, service.ErrNoFilesProvided):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] No files provided")
		utils.JSON400(c, "No files were uploaded")
	case errors.Is(err, service.ErrTooManyFiles),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrFileTooLarge):
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Upload] Rejected upload: %v", err)
		utils.JSON400(c, err.Error())
	case errors.As(err, &partial):
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Metadata batch partially stored")
		utils.JSON500(c, fmt.Sprintf("Only %d of %d files were recorded", partial.Inserted, partial.Submitted))
	default:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload] Upload failed")
		utils.JSON500(c, "Failed to upload files")
	}
}

func (ctrl *Controller) ListImages(c *gin.Context) {
	ctx := c.Request.Context()

	paths, err := ctrl.Service.Reconcile(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Images] Failed to reconcile image list")
		utils.JSON500(c, "Failed to load images")
		return
	}

	utils.JSON200(c, paths)
}

func (ctrl *Controller) DeleteImage(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	file, err := ctrl.Service.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Delete] Image %s not found", id)
			utils.JSON404(c, "Image not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Delete] Failed to delete image %s", id)
		utils.JSON500(c, "Failed to delete image")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Delete] Deleted image %s (%s)", id, file.FilePath)
	utils.JSON200(c, dto.MessageResponseDTO{Message: "Image deleted successfully"})
}

func (ctrl *Controller) DownloadAll(c *gin.Context) {
	ctx := c.Request.Context()

	paths, err := ctrl.Service.ArchivePaths(ctx)
	if err != nil {
		if errors.Is(err, service.ErrNothingToDownload) {
			ctrl.Infra.Logger.InfoWithContextf(ctx, "[Download] No images to download")
			utils.JSON404(c, "No images to download")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Download] Failed to list images")
		utils.JSON500(c, "Failed to build archive")
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="images.zip"`)
	c.Status(http.StatusOK)

	if err := ctrl.Service.WriteArchive(ctx, c.Writer, paths); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Download] Archive stream aborted after %d bytes", max(c.Writer.Size(), 0))
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			utils.JSON500(c, "Failed to build archive")
			return
		}
		// The status line is already out; dropping the connection is the only way
		// to tell the client the archive is incomplete.
		panic(http.ErrAbortHandler)
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Download] Streamed %d image(s)", len(paths))
}

// ServeUpload streams a blob when uploads are not served from a local directory.
func (ctrl *Controller) ServeUpload(c *gin.Context) {
	ctx := c.Request.Context()
	name := strings.TrimPrefix(c.Param("filepath"), "/")

	src, err := ctrl.Infra.Blobs.Open(ctx, name)
	if err != nil {
		if errors.Is(err, infra.ErrBlobNotFound) || errors.Is(err, infra.ErrInvalidBlobName) {
			utils.JSON404(c, "File not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Uploads] Failed to open %s", name)
		utils.JSON500(c, "Failed to read file")
		return
	}
	defer src.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, src, nil)
}
