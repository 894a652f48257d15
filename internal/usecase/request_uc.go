package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/pcbuilder/internal/domain"
)

type RequestUC struct {
	Requests  domain.BuildRequestRepo
	Customers domain.CustomerRepo
	Submitter domain.Submitter
	Schedule  domain.ServiceSchedule
}

func (uc *RequestUC) schedule() domain.ServiceSchedule {
	if uc.Schedule == (domain.ServiceSchedule{}) {
		return domain.DefaultServiceSchedule
	}
	return uc.Schedule
}

// Quote composes the request without recording it.
func (uc *RequestUC) Quote(s *domain.Session, customer domain.CustomerInfo) (*domain.BuildRequest, error) {
	var sel *domain.Selection
	if s != nil {
		sel = s.Selection
	}
	return domain.ComposeRequest(sel, uc.schedule(), customer)
}

// Submit composes, records and forwards a build request on behalf of
// userID, who may be anonymous. A forwarding failure is logged and leaves
// the record unforwarded for a later retry.
func (uc *RequestUC) Submit(ctx context.Context, userID string, s *domain.Session, customer domain.CustomerInfo) (*domain.BuildRequestRecord, *domain.BuildRequest, error) {
	req, err := uc.Quote(s, customer)
	if err != nil {
		return nil, nil, err
	}
	rec := domain.NewRequestRecord(req)
	rec.UserID = strings.TrimSpace(userID)
	if uc.Customers != nil {
		cust, err := uc.upsertCustomer(ctx, customer)
		if err != nil {
			return nil, nil, fmt.Errorf("customer: %w", err)
		}
		rec.CustomerID = &cust.ID
	}
	if err := uc.Requests.Save(ctx, rec); err != nil {
		return nil, nil, fmt.Errorf("save build request: %w", err)
	}
	if uc.Submitter == nil {
		return rec, req, nil
	}
	if err := uc.Submitter.Submit(ctx, rec.ID, req); err != nil {
		if !errors.Is(err, domain.ErrNotForwarded) {
			log.Error().Err(err).Str("request_id", rec.ID.String()).Msg("forward build request")
		}
		return rec, req, nil
	}
	rec.Forwarded = true
	if err := uc.Requests.Save(ctx, rec); err != nil {
		log.Warn().Err(err).Str("request_id", rec.ID.String()).Msg("mark build request forwarded")
	}
	return rec, req, nil
}

// Get returns a request to the user who submitted it. Anonymous requests
// are visible to operators only, through Find.
func (uc *RequestUC) Get(ctx context.Context, id uuid.UUID, userID string) (*domain.BuildRequestRecord, error) {
	rec, err := uc.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if userID == "" || rec.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (uc *RequestUC) Find(ctx context.Context, id uuid.UUID) (*domain.BuildRequestRecord, error) {
	if id == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	return uc.Requests.FindByID(ctx, id)
}

func (uc *RequestUC) ListByEmail(ctx context.Context, email string) ([]domain.BuildRequestRecord, error) {
	if domain.NormalizeEmail(email) == "" {
		return nil, &domain.ValidationError{Fields: []string{"email"}, Reason: "email required"}
	}
	return uc.Requests.ListByEmail(ctx, email)
}

// SetStatus moves a request to status if its lifecycle allows it.
func (uc *RequestUC) SetStatus(ctx context.Context, id uuid.UUID, status domain.BuildRequestStatus) (*domain.BuildRequestRecord, error) {
	rec, err := uc.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.Status.CanMoveTo(status) {
		return nil, fmt.Errorf("%s to %s: %w", rec.Status, status, domain.ErrInvalidTransition)
	}
	if err := uc.Requests.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update build request: %w", err)
	}
	rec.Status = status
	log.Info().Str("request_id", id.String()).Str("status", string(status)).Msg("build request status changed")
	return rec, nil
}

func (uc *RequestUC) upsertCustomer(ctx context.Context, info domain.CustomerInfo) (*domain.Customer, error) {
	email := domain.NormalizeEmail(info.Email)
	c, err := uc.Customers.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if c == nil {
		c = &domain.Customer{ID: uuid.New(), Email: email, CreatedAt: time.Now().UTC()}
	}
	c.Name = strings.TrimSpace(info.Name)
	c.Address = info.Address
	if info.Phone != "" {
		c.Phone = info.Phone
	}
	if info.City != "" {
		c.City = info.City
	}
	if info.ZipCode != "" {
		c.ZipCode = info.ZipCode
	}
	if err := uc.Customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
