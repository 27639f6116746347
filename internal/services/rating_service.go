package services

import (
	"context"
	"errors"
	"time"

	"suvix_backend/internal/logger"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

type RatingService interface {
	// CreateRating records the client's one rating for a delivered order.
	CreateRating(reviewerID, orderID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error)

	// CheckRated answers whether the reviewer has already rated the
	// order. The download gate calls it before unlocking.
	CheckRated(reviewerID, orderID string) (*dto.RatingCheckResponse, error)

	// IsRated is CheckRated shaped for the download gate's checker
	// contract.
	IsRated(ctx context.Context, orderID, userID string) (bool, error)

	GetOrderRating(userID, orderID string) (*dto.RatingResponse, error)
	GetEditorRatings(editorID string, page, pageSize int) (*dto.RatingListResponse, error)
	GetEditorStats(editorID string) (*dto.EditorStatsResponse, error)

	// EditorRespond attaches the editor's single response to a rating.
	EditorRespond(editorID, ratingID string, req *dto.EditorResponseRequest) (*dto.RatingResponse, error)
}

type ratingService struct {
	ratingRepo repositories.RatingRepository
	orderRepo  repositories.OrderRepository
	userRepo   repositories.UserRepository
	notifier   NotificationService
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

func (s *ratingService) CreateRating(reviewerID, orderID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	// Scores are range-checked here as well as at binding time, so a
	// caller bypassing the HTTP layer still cannot store a bad score.
	for _, score := range []int{req.Overall, req.Quality, req.Communication, req.DeliverySpeed} {
		if score < 1 || score > 5 {
			return nil, apperrors.ValidationError(map[string]string{
				"score": "Every score must be between 1 and 5",
			})
		}
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if order.ClientID != reviewerID {
		return nil, apperrors.NewForbiddenError("Only the order's client can rate it")
	}
	if order.Status != models.OrderStatusSubmitted && order.Status != models.OrderStatusCompleted {
		return nil, apperrors.ErrInvalidStatus("rating", "Order has not been delivered yet")
	}

	rating := &models.Rating{
		OrderID:       orderID,
		ReviewerID:    reviewerID,
		EditorID:      order.EditorID,
		Overall:       req.Overall,
		Quality:       req.Quality,
		Communication: req.Communication,
		DeliverySpeed: req.DeliverySpeed,
		Review:        req.Review,
	}
	if err := s.ratingRepo.Create(rating); err != nil {
		if errors.Is(err, repositories.ErrRatingAlreadyExists) {
			return nil, apperrors.ErrAlreadyRated
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.RefreshRatingAggregates(order.EditorID); err != nil {
		logger.WithError(err).Warn("rating aggregate refresh failed", "editor_id", order.EditorID)
	}
	s.notifier.NotifyNewRating(order.EditorID, orderID, req.Overall)

	return dto.RatingToResponse(rating), nil
}

func (s *ratingService) CheckRated(reviewerID, orderID string) (*dto.RatingCheckResponse, error) {
	exists, err := s.ratingRepo.ExistsForOrderAndReviewer(orderID, reviewerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.RatingCheckResponse{IsRated: exists}, nil
}

func (s *ratingService) IsRated(ctx context.Context, orderID, userID string) (bool, error) {
	return s.ratingRepo.ExistsForOrderAndReviewer(orderID, userID)
}

func (s *ratingService) GetOrderRating(userID, orderID string) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.FindByOrderAndReviewer(orderID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRatingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.RatingToResponse(rating), nil
}

func (s *ratingService) GetEditorRatings(editorID string, page, pageSize int) (*dto.RatingListResponse, error) {
	ratings, total, err := s.ratingRepo.FindByEditor(editorID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.RatingListResponse{
		Ratings:    make([]*dto.RatingResponse, 0, len(ratings)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range ratings {
		resp.Ratings = append(resp.Ratings, dto.RatingToResponse(&ratings[i]))
	}
	return resp, nil
}

func (s *ratingService) GetEditorStats(editorID string) (*dto.EditorStatsResponse, error) {
	stats, err := s.ratingRepo.GetEditorStats(editorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.EditorStatsResponse{
		AverageOverall:       stats.AverageOverall,
		AverageQuality:       stats.AverageQuality,
		AverageCommunication: stats.AverageCommunication,
		AverageDeliverySpeed: stats.AverageDeliverySpeed,
		TotalRatings:         stats.TotalRatings,
		RatingCounts:         stats.RatingCounts,
		RecentRatings:        stats.RecentRatings,
	}, nil
}

func (s *ratingService) EditorRespond(editorID, ratingID string, req *dto.EditorResponseRequest) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.FindByID(ratingID)
	if err != nil {
		if errors.Is(err, repositories.ErrRatingNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if rating.EditorID != editorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if rating.EditorResponse != nil {
		return nil, apperrors.ErrConflict(nil, "rating", "Rating already has a response")
	}

	now := time.Now()
	rating.EditorResponse = &req.Response
	rating.EditorRespondedAt = &now
	if err := s.ratingRepo.Update(rating); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.RatingToResponse(rating), nil
}
