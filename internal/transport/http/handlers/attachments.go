package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/groupware-kr/calendar-service/internal/application/event"
	"github.com/groupware-kr/calendar-service/internal/domain"
	"github.com/groupware-kr/calendar-service/internal/transport/http/dto"
	"github.com/groupware-kr/calendar-service/internal/transport/http/middleware"
	"github.com/groupware-kr/calendar-service/internal/transport/http/response"
	"github.com/groupware-kr/calendar-service/internal/transport/http/validate"
)

// UploadPresigner hands out short-lived upload URLs for event attachments.
type UploadPresigner interface {
	PresignUpload(ctx context.Context, eventID, filename, contentType string, expiry time.Duration) (url, key string, err error)
}

type AttachmentsHandler struct {
	store   *event.Store
	storage UploadPresigner
	urlTTL  time.Duration
}

func NewAttachmentsHandler(store *event.Store, storage UploadPresigner, urlTTL time.Duration) *AttachmentsHandler {
	return &AttachmentsHandler{store: store, storage: storage, urlTTL: urlTTL}
}

// Presign issues an upload URL scoped to one event. Only someone who can
// manage the event may attach files to it.
func (h *AttachmentsHandler) Presign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "event_id")
	if !validate.IsUUID(id) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"event_id": "must be uuid",
		}))
		return
	}

	var req dto.PresignAttachmentReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, r, domain.ErrValidation("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Err(w, r, err)
		return
	}

	ev, err := h.store.GetDetail(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	if !ev.CanManage(middleware.UserID(r)) {
		response.Err(w, r, domain.ErrForbidden("only the owner can attach files"))
		return
	}

	url, key, err := h.storage.PresignUpload(r.Context(), id, req.FileName, req.ContentType, h.urlTTL)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, dto.PresignAttachmentResp{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(h.urlTTL.Seconds()),
	})
}
