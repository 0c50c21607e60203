package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medirural/internal/domain"
	"medirural/internal/repository"
)

func (s *AccountService) AddPrescription(ctx context.Context, actor domain.Actor, imageURL string) (*domain.Prescription, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return nil, fieldError("imageUrl", "is required")
	}
	p := domain.Prescription{
		ID:         uuid.NewString(),
		ImageURL:   imageURL,
		Status:     domain.PrescriptionPending,
		UploadDate: s.now(),
	}
	if err := s.users.AddPrescription(ctx, actor.UserID, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "user"}
		}
		return nil, err
	}
	return &p, nil
}

// ListPrescriptions рецепты вызывающего; status пустой означает все
func (s *AccountService) ListPrescriptions(ctx context.Context, actor domain.Actor, status domain.PrescriptionStatus) ([]domain.Prescription, error) {
	switch status {
	case "", domain.PrescriptionPending, domain.PrescriptionApproved, domain.PrescriptionRejected:
	default:
		return nil, fieldError("status", "must be pending, approved or rejected")
	}
	u, err := s.Profile(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Prescription, 0, len(u.Prescriptions))
	for _, p := range u.Prescriptions {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// ReviewPrescription решение администратора; отказ требует причины
func (s *AccountService) ReviewPrescription(ctx context.Context, actor domain.Actor, userID, prescriptionID string, status domain.PrescriptionStatus, reason string) (*domain.Prescription, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	if status != domain.PrescriptionApproved && status != domain.PrescriptionRejected {
		verr.add("status", "must be approved or rejected")
	}
	reason = strings.TrimSpace(reason)
	if status == domain.PrescriptionRejected && reason == "" {
		verr.add("rejectionReason", "is required when rejecting")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "user", ID: userID}
		}
		return nil, err
	}
	var p *domain.Prescription
	for i := range u.Prescriptions {
		if u.Prescriptions[i].ID == prescriptionID {
			p = &u.Prescriptions[i]
			break
		}
	}
	if p == nil {
		return nil, &NotFoundError{Entity: "prescription", ID: prescriptionID}
	}

	now := s.now()
	p.Status = status
	p.VerifiedBy = actor.UserID
	p.VerificationDate = &now
	p.RejectionReason = ""
	if status == domain.PrescriptionRejected {
		p.RejectionReason = reason
	}
	if err := s.users.UpdatePrescription(ctx, userID, *p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Entity: "prescription", ID: prescriptionID}
		}
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"prescription_id": prescriptionID,
		"status":          status,
		"reviewer":        actor.UserID,
	}).Info("Prescription reviewed")
	return p, nil
}

type PendingPrescriptions struct {
	UserID        string                `json:"userId"`
	Name          string                `json:"name"`
	Email         string                `json:"email"`
	Prescriptions []domain.Prescription `json:"prescriptions"`
}

func (s *AccountService) PendingPrescriptions(ctx context.Context, actor domain.Actor) ([]PendingPrescriptions, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.users.WithPendingPrescriptions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PendingPrescriptions, 0, len(users))
	for _, u := range users {
		entry := PendingPrescriptions{UserID: u.ID, Name: u.Name, Email: u.Email, Prescriptions: []domain.Prescription{}}
		for _, p := range u.Prescriptions {
			if p.Status == domain.PrescriptionPending {
				entry.Prescriptions = append(entry.Prescriptions, p)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}
