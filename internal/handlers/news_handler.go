package handlers

import (
	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/models"
	"github.com/cfkpezinok/club-backend/internal/rpc"
	"github.com/cfkpezinok/club-backend/internal/services"
)

type NewsHandler struct {
	news *services.NewsService
}

func NewNewsHandler(news *services.NewsService) *NewsHandler {
	return &NewsHandler{news: news}
}

func (h *NewsHandler) Register(r *rpc.Router) {
	rpc.Mutation(r, "news.create", rpc.Protected, h.create)
	rpc.Query(r, "news.list", rpc.Public, h.list)
	rpc.Query(r, "news.listAll", rpc.Protected, h.listAll)
	rpc.Query(r, "news.getById", rpc.Public, h.getByID)
	rpc.Mutation(r, "news.update", rpc.Protected, h.update)
	rpc.Mutation(r, "news.delete", rpc.Protected, h.delete)
}

type createNewsInput struct {
	Title     string  `json:"title" validate:"required,notblank,max=500"`
	Content   string  `json:"content" validate:"required,notblank"`
	ImageURL  *string `json:"imageUrl" validate:"omitempty,url"`
	Published bool    `json:"published"`
}

func (h *NewsHandler) create(call *rpc.Call, in createNewsInput) (dto.SuccessResponse, error) {
	item, err := h.news.Create(call.Ctx, services.CreateNewsInput{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		AuthorID:   call.Principal.ID,
		AuthorKind: string(call.Principal.Kind),
		Published:  in.Published,
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(item.ID), nil
}

type listNewsInput struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

func (h *NewsHandler) list(call *rpc.Call, in listNewsInput) ([]models.News, error) {
	return h.news.ListPublished(call.Ctx, in.Limit)
}

func (h *NewsHandler) listAll(call *rpc.Call, _ noInput) ([]models.News, error) {
	return h.news.ListAll(call.Ctx)
}

// getByID hides drafts from anonymous callers.
func (h *NewsHandler) getByID(call *rpc.Call, in idInput) (*models.News, error) {
	item, err := h.news.Get(call.Ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if !item.Published && call.Principal == nil {
		return nil, services.ErrNewsNotFound
	}
	return item, nil
}

type updateNewsInput struct {
	ID        uint    `json:"id" validate:"required"`
	Title     *string `json:"title" validate:"omitempty,notblank,max=500"`
	Content   *string `json:"content" validate:"omitempty,notblank"`
	ImageURL  *string `json:"imageUrl" validate:"omitempty,url"`
	Published *bool   `json:"published"`
}

func (h *NewsHandler) update(call *rpc.Call, in updateNewsInput) (dto.SuccessResponse, error) {
	err := h.news.Update(call.Ctx, in.ID, services.UpdateNewsInput{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Published: in.Published,
	})
	if err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}

func (h *NewsHandler) delete(call *rpc.Call, in idInput) (dto.SuccessResponse, error) {
	if err := h.news.Delete(call.Ctx, in.ID); err != nil {
		return dto.SuccessResponse{}, err
	}
	return success(in.ID), nil
}
