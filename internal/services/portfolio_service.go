package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"suvix_backend/internal/logger"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/internal/storage"
	"suvix_backend/pkg/apperrors"
)

type PortfolioService interface {
	CreateItem(ctx context.Context, editorID, title, fileName, contentType string, file io.Reader) (*dto.PortfolioItemResponse, error)
	GetEditorItems(ctx context.Context, editorID, viewerID string) ([]*dto.PortfolioItemResponse, error)
	GetFeed(ctx context.Context, viewerID string, page, pageSize int) (*dto.PortfolioFeedResponse, error)
	ToggleLike(itemID, userID string) (*dto.ToggleLikeResponse, error)
	DeleteItem(ctx context.Context, editorID, itemID string) error
}

type portfolioService struct {
	portfolioRepo repositories.PortfolioRepository
	store         storage.Storage
}

func NewPortfolioService(
	portfolioRepo repositories.PortfolioRepository,
	store storage.Storage,
) PortfolioService {
	return &portfolioService{portfolioRepo: portfolioRepo, store: store}
}

func (s *portfolioService) CreateItem(ctx context.Context, editorID, title, fileName, contentType string, file io.Reader) (*dto.PortfolioItemResponse, error) {
	key := fmt.Sprintf("portfolio/%s/%s", editorID, uuid.NewString())
	if err := s.store.Save(ctx, key, file, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	item := &models.PortfolioItem{
		EditorID:  editorID,
		Title:     title,
		MediaKey:  key,
		MediaName: fileName,
	}
	if err := s.portfolioRepo.Create(item); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.toResponse(ctx, item, false), nil
}

func (s *portfolioService) GetEditorItems(ctx context.Context, editorID, viewerID string) ([]*dto.PortfolioItemResponse, error) {
	items, err := s.portfolioRepo.FindByEditor(editorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.PortfolioItemResponse, 0, len(items))
	for i := range items {
		out = append(out, s.toResponse(ctx, &items[i], s.likedBy(&items[i], viewerID)))
	}
	return out, nil
}

func (s *portfolioService) GetFeed(ctx context.Context, viewerID string, page, pageSize int) (*dto.PortfolioFeedResponse, error) {
	items, total, err := s.portfolioRepo.FindFeed(page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.PortfolioFeedResponse{
		Items:      make([]*dto.PortfolioItemResponse, 0, len(items)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range items {
		resp.Items = append(resp.Items, s.toResponse(ctx, &items[i], s.likedBy(&items[i], viewerID)))
	}
	return resp, nil
}

func (s *portfolioService) ToggleLike(itemID, userID string) (*dto.ToggleLikeResponse, error) {
	liked, likeCount, err := s.portfolioRepo.ToggleLike(itemID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrPortfolioItemNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return &dto.ToggleLikeResponse{Liked: liked, LikeCount: likeCount}, nil
}

func (s *portfolioService) DeleteItem(ctx context.Context, editorID, itemID string) error {
	item, err := s.portfolioRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrPortfolioItemNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if item.EditorID != editorID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.portfolioRepo.Delete(itemID, editorID); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.store.Delete(ctx, item.MediaKey); err != nil {
		logger.WithError(err).Warn("portfolio media cleanup failed", "item_id", itemID)
	}
	return nil
}

func (s *portfolioService) likedBy(item *models.PortfolioItem, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	liked, err := s.portfolioRepo.IsLikedBy(item.ID, viewerID)
	if err != nil {
		logger.WithError(err).Warn("like lookup failed", "item_id", item.ID)
		return false
	}
	return liked
}

func (s *portfolioService) toResponse(ctx context.Context, item *models.PortfolioItem, liked bool) *dto.PortfolioItemResponse {
	url, err := s.store.GetURL(ctx, item.MediaKey)
	if err != nil {
		logger.WithError(err).Warn("media url resolution failed", "item_id", item.ID)
	}
	return dto.PortfolioItemToResponse(item, url, liked)
}
