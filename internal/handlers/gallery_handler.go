package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
)

type GalleryHandler struct {
	gallery *services.GalleryService
}

func NewGalleryHandler(gallery *services.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

func (h *GalleryHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "gallery.create", rpc.Protected, h.create)
	rpc.Query(r, "gallery.list", rpc.Public, h.list)
	rpc.Mutation(r, "gallery.delete", rpc.Protected, h.delete)
}

type createGalleryInput struct {
	Title    *string `json:"title" validate:"omitempty,max=500"`
	ImageURL string  `json:"imageUrl" validate:"required,url"`
	ImageKey string  `json:"imageKey" validate:"omitempty,max=1024"`
	Category *string `json:"category" validate:"omitempty,gallery_category"`
}

func (h *GalleryHandler) create(call *rpc.Call, in createGalleryInput) (dto.SuccessResponse, error) {
	item, err := h.gallery.Create(call.Ctx, services.CreateGalleryInput{
		Title:          in.Title,
		ImageURL:       in.ImageURL,
		ImageKey:       in.ImageKey,
		Category:       optionalCategory(in.Category),
		UploadedByID:   call.Principal.ID,
		UploadedByKind: string(call.Principal.Kind),
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(item.ID), nil
}

type listGalleryInput struct {
	Category *string `json:"category" validate:"omitempty,gallery_category"`
}

func (h *GalleryHandler) list(call *rpc.Call, in listGalleryInput) ([]models.Gallery, error) {
	return h.gallery.List(call.Ctx, optionalCategory(in.Category))
}

func (h *GalleryHandler) delete(call *rpc.Call, in idInput) (dto.SuccessResponse, error) {
	if err := h.gallery.Delete(call.Ctx, in.ID); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}
