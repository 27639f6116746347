package services

import (
	"errors"
	"time"

	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

type GigService interface {
	CreateGig(editorID string, req *dto.CreateGigRequest) (*dto.GigResponse, error)
	GetGig(gigID string) (*dto.GigResponse, error)
	SearchGigs(criteria repositories.GigCriteria) (*dto.GigListResponse, error)
	GetEditorGigs(editorID string, includeInactive bool) ([]*dto.GigResponse, error)
	UpdateGig(editorID, gigID string, req *dto.UpdateGigRequest) (*dto.GigResponse, error)
	DeleteGig(editorID, gigID string) error
	// PurchaseGig creates an order priced and scheduled from the gig.
	PurchaseGig(clientID, gigID string, req *dto.PurchaseGigRequest) (*dto.OrderResponse, error)
}

type gigService struct {
	gigRepo   repositories.GigRepository
	orderRepo repositories.OrderRepository
	notifier  NotificationService
}

func NewGigService(
	gigRepo repositories.GigRepository,
	orderRepo repositories.OrderRepository,
	notifier NotificationService,
) GigService {
	return &gigService{gigRepo: gigRepo, orderRepo: orderRepo, notifier: notifier}
}

func (s *gigService) CreateGig(editorID string, req *dto.CreateGigRequest) (*dto.GigResponse, error) {
	gig := &models.Gig{
		EditorID:     editorID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		IsActive:     true,
	}
	if err := s.gigRepo.Create(gig); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.GigToResponse(gig), nil
}

func (s *gigService) GetGig(gigID string) (*dto.GigResponse, error) {
	gig, err := s.gigRepo.FindByID(gigID)
	if err != nil {
		if errors.Is(err, repositories.ErrGigNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.GigToResponse(gig), nil
}

func (s *gigService) SearchGigs(criteria repositories.GigCriteria) (*dto.GigListResponse, error) {
	gigs, total, err := s.gigRepo.FindByCriteria(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	resp := &dto.GigListResponse{
		Gigs:       make([]*dto.GigResponse, 0, len(gigs)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range gigs {
		resp.Gigs = append(resp.Gigs, dto.GigToResponse(&gigs[i]))
	}
	return resp, nil
}

func (s *gigService) GetEditorGigs(editorID string, includeInactive bool) ([]*dto.GigResponse, error) {
	gigs, err := s.gigRepo.FindByEditor(editorID, includeInactive)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, dto.GigToResponse(&gigs[i]))
	}
	return out, nil
}

func (s *gigService) UpdateGig(editorID, gigID string, req *dto.UpdateGigRequest) (*dto.GigResponse, error) {
	gig, err := s.ownedGig(editorID, gigID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		gig.Title = *req.Title
	}
	if req.Description != nil {
		gig.Description = *req.Description
	}
	if req.Price != nil {
		gig.Price = *req.Price
	}
	if req.DeliveryDays != nil {
		gig.DeliveryDays = *req.DeliveryDays
	}
	if req.IsActive != nil {
		gig.IsActive = *req.IsActive
	}

	if err := s.gigRepo.Update(gig); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.GigToResponse(gig), nil
}

func (s *gigService) DeleteGig(editorID, gigID string) error {
	if _, err := s.ownedGig(editorID, gigID); err != nil {
		return err
	}
	if err := s.gigRepo.Delete(gigID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *gigService) PurchaseGig(clientID, gigID string, req *dto.PurchaseGigRequest) (*dto.OrderResponse, error) {
	gig, err := s.gigRepo.FindByID(gigID)
	if err != nil {
		if errors.Is(err, repositories.ErrGigNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !gig.IsActive {
		return nil, apperrors.ErrInvalidStatus("gig", "Gig is no longer available")
	}
	if gig.EditorID == clientID {
		return nil, apperrors.ErrInvalidOperation("gig", "Cannot purchase your own gig")
	}

	deadline := time.Now().AddDate(0, 0, gig.DeliveryDays)
	order := &models.Order{
		Title:        gig.Title,
		Requirements: req.Requirements,
		Amount:       gig.Price,
		Deadline:     &deadline,
		ClientID:     clientID,
		EditorID:     gig.EditorID,
		GigID:        &gig.ID,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyOrderPlaced(gig.EditorID, order.ID, order.Title)

	return dto.OrderToResponse(order), nil
}

func (s *gigService) ownedGig(editorID, gigID string) (*models.Gig, error) {
	gig, err := s.gigRepo.FindByID(gigID)
	if err != nil {
		if errors.Is(err, repositories.ErrGigNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if gig.EditorID != editorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return gig, nil
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
