package services

import (
	"context"
	"errors"
	"time"

	"suvix_backend/internal/config"
	"suvix_backend/internal/downloadgate"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/internal/storage"
	"suvix_backend/pkg/apperrors"
)

// DownloadService fronts the download gate: opening a session runs the
// rating check, updates collect the confirmation inputs, and Confirm
// hands out a short-lived signed URL for the delivery file once every
// guard holds.
type DownloadService interface {
	OpenGate(ctx context.Context, userID, orderID string) (*dto.GateStateResponse, error)
	UpdateGate(userID, orderID string, req *dto.UpdateGateRequest) (*dto.GateStateResponse, error)
	GateState(userID, orderID string) (*dto.GateStateResponse, error)
	ConfirmDownload(ctx context.Context, userID, orderID string, req *dto.ConfirmDownloadRequest) (*dto.DownloadResponse, error)
	CloseGate(userID, orderID string)

	// MarkRated tells any open gate session that the order has just been
	// rated, skipping a round trip through the checker.
	MarkRated(userID, orderID string)
}

type downloadService struct {
	gate      *downloadgate.Store
	orderRepo repositories.OrderRepository
	store     storage.Storage
}

func NewDownloadService(
	gate *downloadgate.Store,
	orderRepo repositories.OrderRepository,
	store storage.Storage,
) DownloadService {
	return &downloadService{gate: gate, orderRepo: orderRepo, store: store}
}

func (s *downloadService) OpenGate(ctx context.Context, userID, orderID string) (*dto.GateStateResponse, error) {
	order, err := s.downloadableOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	snap := s.gate.Open(ctx, order.ID, userID, userID != "")
	return gateToResponse(snap), nil
}

func (s *downloadService) UpdateGate(userID, orderID string, req *dto.UpdateGateRequest) (*dto.GateStateResponse, error) {
	if _, err := s.downloadableOrder(userID, orderID); err != nil {
		return nil, err
	}

	if req.ConfirmText != nil {
		s.gate.SetConfirmText(orderID, userID, *req.ConfirmText)
	}
	if req.Agreed != nil {
		s.gate.SetAgreed(orderID, userID, *req.Agreed)
	}
	snap := s.gate.Snapshot(orderID, userID)
	return gateToResponse(snap), nil
}

func (s *downloadService) GateState(userID, orderID string) (*dto.GateStateResponse, error) {
	snap := s.gate.Snapshot(orderID, userID)
	return gateToResponse(snap), nil
}

func (s *downloadService) ConfirmDownload(ctx context.Context, userID, orderID string, req *dto.ConfirmDownloadRequest) (*dto.DownloadResponse, error) {
	order, err := s.downloadableOrder(userID, orderID)
	if err != nil {
		return nil, err
	}

	// The submitted inputs are folded into the session before the guard
	// runs, so a direct confirm call carries its own evidence.
	s.gate.SetConfirmText(orderID, userID, req.ConfirmText)
	s.gate.SetAgreed(orderID, userID, req.Agreed)

	ttl := time.Duration(config.GetConfig().Platform.DownloadTokenTTL) * time.Minute
	var resp *dto.DownloadResponse
	err = s.gate.Confirm(orderID, userID, func(string) error {
		url, err := s.store.GetSignedURL(ctx, order.DeliveryKey, ttl)
		if err != nil {
			return err
		}
		resp = &dto.DownloadResponse{
			Success:   true,
			URL:       url,
			FileName:  order.DeliveryName,
			ExpiresIn: int64(ttl.Seconds()),
		}
		return nil
	})
	if err != nil {
		return nil, gateError(err)
	}
	return resp, nil
}

func (s *downloadService) CloseGate(userID, orderID string) {
	s.gate.Close(orderID, userID)
}

func (s *downloadService) MarkRated(userID, orderID string) {
	s.gate.MarkRated(orderID, userID)
}

// downloadableOrder checks the caller is the order's client and the
// delivery exists with money at least in escrow.
func (s *downloadService) downloadableOrder(userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if order.ClientID != userID {
		return nil, apperrors.ErrNotFound(repositories.ErrOrderNotFound)
	}
	if order.DeliveryKey == "" {
		return nil, apperrors.ErrInvalidStatus("download", "Order has no delivery yet")
	}
	if order.PaymentStatus == models.PaymentStatusUnpaid ||
		order.PaymentStatus == models.PaymentStatusRefunded {
		return nil, apperrors.ErrInvalidStatus("download", "Order must be paid before download")
	}
	return order, nil
}

func gateToResponse(snap downloadgate.Snapshot) *dto.GateStateResponse {
	rated := snap.IsRated != nil && *snap.IsRated
	return &dto.GateStateResponse{
		State:        string(snap.State),
		ConfirmValid: snap.ConfirmValid,
		Agreed:       snap.Agreed,
		IsRated:      rated,
		CheckFailed:  snap.CheckFailed,
		CanProceed:   snap.CanProceed,
	}
}

func gateError(err error) error {
	switch {
	case errors.Is(err, downloadgate.ErrNotOpen):
		return apperrors.ErrInvalidOperation("download", "Download gate is not open")
	case errors.Is(err, downloadgate.ErrChecking):
		return apperrors.ErrInvalidStatus("download", "Rating check still in progress")
	case errors.Is(err, downloadgate.ErrRatingRequired):
		return apperrors.ErrRatingRequired
	case errors.Is(err, downloadgate.ErrConfirmationInvalid):
		return apperrors.NewBadRequestError("Type the confirmation phrase and accept the acknowledgement")
	default:
		return apperrors.InternalError(err)
	}
}
