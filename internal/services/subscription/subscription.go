// Package services contains the business logic for subscription records:
// validation, renewal date derivation, filtering, search, bulk updates and
// export.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hirwa-dev/subscription-manager/internal/geography"
	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

var (
	ErrInvalidDate          = errors.New("date_of_subscription must be in YYYY-MM-DD format")
	ErrInvalidAgreement     = errors.New("agreed_refused must be Agreed or Refused")
	ErrInvalidPaymentStatus = errors.New("payment_status must be Pending, Paid or Failed")
	// ErrUnknownPackage is returned only on paths where the package name
	// must resolve against the catalog.
	ErrUnknownPackage = errors.New("unknown package")
	// ErrEmptyPatch rejects updates that carry no fields at all.
	ErrEmptyPatch = errors.New("no fields to update")
)

// SubscriptionRepository is the storage contract for subscription records.
type SubscriptionRepository interface {
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	GetSubscription(ctx context.Context, uid string) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context, filter models.SubscriptionFilter, limit, offset int) ([]*models.Subscription, int, error)
	UpdateSubscription(ctx context.Context, uid string, upd models.SubscriptionUpdate) (int, error)
	SoftDeleteSubscription(ctx context.Context, uid string) (int, error)
	SearchSubscriptions(ctx context.Context, q string, limit, offset int) ([]*models.Subscription, int, error)
	ExportSubscriptions(ctx context.Context, filter models.SubscriptionFilter, limit int) ([]*models.Subscription, error)
}

// CatalogProvider resolves package names for renewal date derivation.
type CatalogProvider interface {
	GetByName(ctx context.Context, name string) (*models.Package, error)
}

// ExportLimit caps the number of records a single export may return.
const ExportLimit = 10000

// SubscriptionService manages the lifecycle of subscription records.
type SubscriptionService struct {
	subscriptions SubscriptionRepository
	catalog       CatalogProvider
	log           *slog.Logger
}

// NewSubscriptionService creates a new SubscriptionService.
func NewSubscriptionService(subscriptions SubscriptionRepository, catalog CatalogProvider, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		catalog:       catalog,
		log:           log,
	}
}

// Create validates a new record and stores it with a derived renewal date.
// Validation order is fixed: date format, agreement value, payment status,
// geography, then the optional catalog check, so clients always see the
// first failing step. requireKnownPackage is set on the public funnel, where
// free-text package names are not accepted.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription, requireKnownPackage bool) (string, error) {
	date, err := time.Parse(models.DateLayout, req.DateOfSubscription)
	if err != nil {
		return "", ErrInvalidDate
	}
	if req.AgreedRefused != models.AgreementAgreed && req.AgreedRefused != models.AgreementRefused {
		return "", ErrInvalidAgreement
	}
	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = models.PaymentPending
	}
	if !validPaymentStatus(paymentStatus) {
		return "", ErrInvalidPaymentStatus
	}
	if err := geography.Validate(req.Area, req.Location, req.Cell); err != nil {
		return "", err
	}
	if requireKnownPackage {
		if _, err := s.catalog.GetByName(ctx, req.Package); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", ErrUnknownPackage
			}
			return "", err
		}
	}

	renewBy := s.renewalDate(ctx, req.Package, date)
	sub := models.Subscription{
		PhoneNumber:         req.PhoneNumber,
		Email:               req.Email,
		ChildName:           req.ChildName,
		ParentName:          req.ParentName,
		AgreedRefused:       req.AgreedRefused,
		Package:             req.Package,
		DateOfSubscription:  date,
		RenewSubscriptionBy: renewBy,
		PaymentStatus:       paymentStatus,
		Area:                req.Area,
		Location:            req.Location,
		Cell:                req.Cell,
	}
	uid, err := s.subscriptions.CreateSubscription(ctx, sub)
	if err != nil {
		return "", err
	}
	s.log.Info("created subscription",
		slog.String("uid", uid),
		slog.String("area", req.Area),
		slog.String("package", req.Package))
	return uid, nil
}

// Get returns a record by UID, soft-deleted ones included.
func (s *SubscriptionService) Get(ctx context.Context, uid string) (*models.Subscription, error) {
	return s.subscriptions.GetSubscription(ctx, uid)
}

// List returns a filtered page of records, newest first.
func (s *SubscriptionService) List(ctx context.Context, filter models.SubscriptionFilter, page, perPage int) (*models.SubscriptionPage, error) {
	page, perPage = models.ClampPage(page, perPage)
	items, total, err := s.subscriptions.ListSubscriptions(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &models.SubscriptionPage{
		Subscriptions: items,
		Total:         total,
		Page:          page,
		PerPage:       perPage,
		TotalPages:    models.TotalPages(total, perPage),
	}, nil
}

// Update applies a partial update. Geography fields are merged with the
// stored record before validation, so changing only the cell still checks
// it against the stored district and sector. A date or package change
// re-derives the renewal date from the merged values.
func (s *SubscriptionService) Update(ctx context.Context, uid string, patch models.DummySubscriptionPatch) (int, error) {
	if patch.IsEmpty() {
		return 0, ErrEmptyPatch
	}
	stored, err := s.subscriptions.GetSubscription(ctx, uid)
	if err != nil {
		return 0, err
	}
	upd, err := s.buildUpdate(ctx, stored, patch)
	if err != nil {
		return 0, err
	}
	return s.subscriptions.UpdateSubscription(ctx, uid, upd)
}

func (s *SubscriptionService) buildUpdate(ctx context.Context, stored *models.Subscription, patch models.DummySubscriptionPatch) (models.SubscriptionUpdate, error) {
	var upd models.SubscriptionUpdate

	var date *time.Time
	if patch.DateOfSubscription != nil {
		parsed, err := time.Parse(models.DateLayout, *patch.DateOfSubscription)
		if err != nil {
			return upd, ErrInvalidDate
		}
		date = &parsed
	}
	if patch.AgreedRefused != nil &&
		*patch.AgreedRefused != models.AgreementAgreed && *patch.AgreedRefused != models.AgreementRefused {
		return upd, ErrInvalidAgreement
	}
	if patch.PaymentStatus != nil && !validPaymentStatus(*patch.PaymentStatus) {
		return upd, ErrInvalidPaymentStatus
	}

	if patch.Area != nil || patch.Location != nil || patch.Cell != nil {
		area, location, cell := stored.Area, stored.Location, stored.Cell
		if patch.Area != nil {
			area = *patch.Area
		}
		if patch.Location != nil {
			location = *patch.Location
		}
		if patch.Cell != nil {
			cell = *patch.Cell
		}
		if err := geography.Validate(area, location, cell); err != nil {
			return upd, err
		}
	}

	upd = models.SubscriptionUpdate{
		PhoneNumber:        patch.PhoneNumber,
		Email:              patch.Email,
		ChildName:          patch.ChildName,
		ParentName:         patch.ParentName,
		AgreedRefused:      patch.AgreedRefused,
		Package:            patch.Package,
		DateOfSubscription: date,
		PaymentStatus:      patch.PaymentStatus,
		Area:               patch.Area,
		Location:           patch.Location,
		Cell:               patch.Cell,
	}

	if date != nil || patch.Package != nil {
		pkgName := stored.Package
		if patch.Package != nil {
			pkgName = *patch.Package
		}
		baseDate := stored.DateOfSubscription
		if date != nil {
			baseDate = *date
		}
		renewBy := s.renewalDate(ctx, pkgName, baseDate)
		upd.RenewSubscriptionBy = &renewBy
	}
	return upd, nil
}

// Remove soft-deletes a record, keeping it for reports that opt in to
// inactive data.
func (s *SubscriptionService) Remove(ctx context.Context, uid string) (int, error) {
	return s.subscriptions.SoftDeleteSubscription(ctx, uid)
}

// Search runs a case-insensitive substring match over the contact and
// geography text fields of active records.
func (s *SubscriptionService) Search(ctx context.Context, q string, page, perPage int) (*models.SubscriptionPage, error) {
	page, perPage = models.ClampPage(page, perPage)
	items, total, err := s.subscriptions.SearchSubscriptions(ctx, q, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	return &models.SubscriptionPage{
		Subscriptions: items,
		Total:         total,
		Page:          page,
		PerPage:       perPage,
		TotalPages:    models.TotalPages(total, perPage),
	}, nil
}

// BulkUpdate applies one patch to many records. Each record is processed
// independently; a failure is recorded in its result and the batch goes on.
func (s *SubscriptionService) BulkUpdate(ctx context.Context, uids []string, patch models.DummySubscriptionPatch) []models.BulkUpdateResult {
	results := make([]models.BulkUpdateResult, 0, len(uids))
	for _, uid := range uids {
		count, err := s.Update(ctx, uid, patch)
		res := models.BulkUpdateResult{UID: uid, Updated: count}
		if err != nil {
			res.Error = err.Error()
			s.log.Warn("bulk update failed for record",
				slog.String("uid", uid),
				slog.String("error", err.Error()))
		}
		results = append(results, res)
	}
	return results
}

// Export returns up to ExportLimit filtered records for download.
func (s *SubscriptionService) Export(ctx context.Context, filter models.SubscriptionFilter) ([]*models.Subscription, error) {
	return s.subscriptions.ExportSubscriptions(ctx, filter, ExportLimit)
}

// renewalDate derives the renewal deadline from the subscription date. The
// package duration is used when the name resolves against the active
// catalog; any miss falls back to the default duration rather than failing
// the write, since historical records may name retired packages.
func (s *SubscriptionService) renewalDate(ctx context.Context, pkgName string, date time.Time) time.Time {
	days := models.DefaultPackageDuration
	pkg, err := s.catalog.GetByName(ctx, pkgName)
	if err == nil && pkg.DurationDays > 0 {
		days = pkg.DurationDays
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("package lookup failed, using default duration",
			slog.String("package", pkgName),
			slog.String("error", err.Error()))
	}
	return date.AddDate(0, 0, days)
}

func validPaymentStatus(status string) bool {
	switch status {
	case models.PaymentPending, models.PaymentPaid, models.PaymentFailed:
		return true
	}
	return false
}

// ParseFilter builds a storage filter from raw query values, treating empty
// strings as absent.
func ParseFilter(agreedRefused, paymentStatus, area, pkg string, includeInactive bool) (models.SubscriptionFilter, error) {
	var f models.SubscriptionFilter
	if agreedRefused != "" {
		if agreedRefused != models.AgreementAgreed && agreedRefused != models.AgreementRefused {
			return f, ErrInvalidAgreement
		}
		f.AgreedRefused = &agreedRefused
	}
	if paymentStatus != "" {
		if !validPaymentStatus(paymentStatus) {
			return f, ErrInvalidPaymentStatus
		}
		f.PaymentStatus = &paymentStatus
	}
	if area != "" {
		f.Area = &area
	}
	if pkg != "" {
		f.Package = &pkg
	}
	f.IncludeInactive = includeInactive
	return f, nil
}
