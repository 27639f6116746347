package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"suvix_backend/internal/email"
	"suvix_backend/internal/logger"
	"suvix_backend/internal/models"
	"suvix_backend/internal/repositories"
	"suvix_backend/internal/services/dto"
	"suvix_backend/pkg/apperrors"
)

type KYCService interface {
	// Submit files the editor's verification details. A rejected record
	// can be re-submitted; a pending or verified one cannot.
	Submit(userID string, req *dto.SubmitKYCRequest) (*dto.KYCResponse, error)
	GetOwn(userID string) (*dto.KYCResponse, error)
	IsVerified(userID string) (bool, error)

	// Admin review.
	ListPending(page, pageSize int) (*dto.KYCListResponse, error)
	Review(recordUserID string, req *dto.ReviewKYCRequest) (*dto.KYCResponse, error)
}

type kycService struct {
	kycRepo  repositories.KYCRepository
	userRepo repositories.UserRepository
	notifier NotificationService
	mailer   email.Provider
}

func NewKYCService(
	kycRepo repositories.KYCRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	mailer email.Provider,
) KYCService {
	return &kycService{kycRepo: kycRepo, userRepo: userRepo, notifier: notifier, mailer: mailer}
}

func (s *kycService) Submit(userID string, req *dto.SubmitKYCRequest) (*dto.KYCResponse, error) {
	record := &models.KYCRecord{
		UserID:      userID,
		LegalName:   req.LegalName,
		PANNumber:   req.PANNumber,
		BankAccount: req.BankAccount,
		IFSC:        req.IFSC,
		Status:      models.KYCStatusPending,
	}
	if err := s.kycRepo.Upsert(record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrConflict(err, "kyc", "A verification is already on file")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.KYCToResponse(record), nil
}

func (s *kycService) GetOwn(userID string) (*dto.KYCResponse, error) {
	record, err := s.kycRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.KYCToResponse(record), nil
}

func (s *kycService) IsVerified(userID string) (bool, error) {
	record, err := s.kycRepo.FindByUser(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.Status == models.KYCStatusVerified, nil
}

func (s *kycService) ListPending(page, pageSize int) (*dto.KYCListResponse, error) {
	records, total, err := s.kycRepo.FindPending(page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.KYCListResponse{
		Records:    make([]*dto.KYCResponse, 0, len(records)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}
	for i := range records {
		resp.Records = append(resp.Records, dto.KYCToResponse(&records[i]))
	}
	return resp, nil
}

func (s *kycService) Review(recordUserID string, req *dto.ReviewKYCRequest) (*dto.KYCResponse, error) {
	record, err := s.kycRepo.FindByUser(recordUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrKYCNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if record.Status != models.KYCStatusPending {
		return nil, apperrors.ErrInvalidStatus("kyc", "Record has already been reviewed")
	}
	if !req.Approve && req.RejectionReason == "" {
		return nil, apperrors.NewBadRequestError("A rejection needs a reason")
	}

	now := time.Now()
	record.ReviewedAt = &now
	if req.Approve {
		record.Status = models.KYCStatusVerified
		record.RejectionReason = ""
	} else {
		record.Status = models.KYCStatusRejected
		record.RejectionReason = req.RejectionReason
	}
	if err := s.kycRepo.Update(record); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.NotifyKYCDecision(recordUserID, req.Approve, req.RejectionReason)
	s.sendDecisionEmail(recordUserID, req.Approve, req.RejectionReason)

	return dto.KYCToResponse(record), nil
}

func (s *kycService) sendDecisionEmail(userID string, verified bool, reason string) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.WithError(err).Warn("kyc decision email skipped", "user_id", userID)
		return
	}
	subject, body := email.KYCDecision(verified, reason)
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		logger.WithError(err).Warn("kyc decision email failed", "user_id", userID)
	}
}
