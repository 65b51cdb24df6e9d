package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gdg-garage/memorial-api/internal/attendance"
	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MemorialHandler covers the parts of memorial administration the
// attendance list depends on: creating a memorial and setting its capacity.
type MemorialHandler struct {
	db  *gorm.DB
	svc *attendance.Service
}

func NewMemorialHandler(db *gorm.DB, svc *attendance.Service) *MemorialHandler {
	return &MemorialHandler{db: db, svc: svc}
}

type MemorialView struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity" doc:"Effective capacity"`
	Custom   bool   `json:"customCapacity" doc:"Whether the capacity is set on the memorial rather than defaulted"`
}

func (h *MemorialHandler) view(m models.Memorial) MemorialView {
	return MemorialView{
		Slug:     m.Slug,
		Name:     m.Name,
		Capacity: h.svc.Capacity(m),
		Custom:   m.Capacity != nil,
	}
}

type MemorialResponse struct {
	Body struct {
		OK   bool         `json:"ok"`
		Item MemorialView `json:"item"`
	}
}

type CreateMemorialRequest struct {
	Body struct {
		Slug     string `json:"slug" pattern:"^[a-z0-9]+(-[a-z0-9]+)*$" maxLength:"120" doc:"URL slug"`
		Name     string `json:"name" minLength:"1" doc:"Name of the deceased"`
		Capacity *int   `json:"capacity,omitempty" required:"false" minimum:"0" doc:"Seats available; defaults to the server setting"`
	}
}

func (h *MemorialHandler) HandleCreate(ctx context.Context, input *CreateMemorialRequest) (*MemorialResponse, error) {
	memorial := models.Memorial{
		Slug:     input.Body.Slug,
		Name:     strings.TrimSpace(input.Body.Name),
		Capacity: input.Body.Capacity,
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Memorial
		if err := tx.Where("slug = ?", memorial.Slug).First(&existing).Error; err == nil {
			return errSlugTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&memorial).Error
	})
	if errors.Is(err, errSlugTaken) {
		return nil, &APIError{status: http.StatusConflict, Message: "Slug already in use"}
	}
	if err != nil {
		log.Error().Err(err).Str("slug", memorial.Slug).Msg("Failed to create memorial")
		return nil, &APIError{status: http.StatusInternalServerError, Message: "server error"}
	}

	res := &MemorialResponse{}
	res.Body.OK = true
	res.Body.Item = h.view(memorial)
	return res, nil
}

var errSlugTaken = errors.New("slug taken")

func (h *MemorialHandler) HandleGet(ctx context.Context, input *SlugInput) (*MemorialResponse, error) {
	var memorial models.Memorial
	if err := h.db.WithContext(ctx).Where("slug = ?", input.Slug).First(&memorial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &APIError{status: http.StatusNotFound, Message: "Memorial not found"}
		}
		return nil, serviceError(err, "get memorial")
	}

	res := &MemorialResponse{}
	res.Body.OK = true
	res.Body.Item = h.view(memorial)
	return res, nil
}

type CapacityRequest struct {
	SlugInput
	Body struct {
		Capacity *int `json:"capacity,omitempty" required:"false" doc:"New capacity; omit or null to fall back to the default"`
	}
}

func (h *MemorialHandler) HandleSetCapacity(ctx context.Context, input *CapacityRequest) (*MemorialResponse, error) {
	memorial, err := h.svc.SetCapacity(ctx, input.Slug, input.Body.Capacity)
	if err != nil {
		return nil, serviceError(err, "set capacity")
	}

	res := &MemorialResponse{}
	res.Body.OK = true
	res.Body.Item = h.view(*memorial)
	return res, nil
}
