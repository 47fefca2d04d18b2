package http

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/httpx"
	"github.com/ploghq/plog/pkg/slogx"
)

// maxUploadBytes bounds a single image upload.
const maxUploadBytes = 10 << 20

type ImageHandler struct {
	ImageService *service.ImageService
}

type imageResponse struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	OriginalName string    `json:"originalName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// HandleUpload accepts a multipart upload under the "image" field.
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "malformed multipart request")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "image field required")
		return
	}
	defer file.Close()

	img, err := h.ImageService.Upload(r.Context(), principal.ID, header.Filename, file, header.Size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusCreated, imageResponse{
		ID:           img.ID,
		URL:          "/api/images/" + strconv.FormatInt(img.ID, 10),
		OriginalName: img.OriginalName,
		CreatedAt:    img.CreatedAt,
	}, "image uploaded")
}

// HandleGet streams the image bytes.
func (h *ImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid image id")
		return
	}

	img, rc, err := h.ImageService.Open(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", service.ContentTypeFor(img.StoredName))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		slogx.FromContext(r.Context()).Warn("image stream interrupted", "image_id", id, "error", err)
	}
}

// HandleDelete removes an image the caller uploaded.
func (h *ImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteFail(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.WriteFail(w, http.StatusBadRequest, "invalid image id")
		return
	}

	if err := h.ImageService.Delete(r.Context(), principal.ID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, nil, "image deleted")
}
