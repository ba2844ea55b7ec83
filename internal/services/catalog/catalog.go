// Package services contains the business logic for the package catalog.
package services

import (
	"context"
	"log/slog"

	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

// PackageRepository is the storage contract for catalog entries.
type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg models.Package) (string, error)
	ListPackages(ctx context.Context, includeInactive bool) ([]*models.Package, error)
	GetPackage(ctx context.Context, packageUID string) (*models.Package, error)
	GetPackageByName(ctx context.Context, name string) (*models.Package, error)
	PackageNameTaken(ctx context.Context, name, excludeUID string) (bool, error)
	UpdatePackage(ctx context.Context, packageUID string, patch models.PackagePatch) (int, error)
	SoftDeletePackage(ctx context.Context, packageUID string) (int, error)
}

// CatalogService manages the subscription package catalog.
type CatalogService struct {
	packages PackageRepository
	log      *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(packages PackageRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{packages: packages, log: log}
}

// Create adds a new active package. The name must be unique among active
// packages; a soft-deleted package frees its name for reuse.
func (s *CatalogService) Create(ctx context.Context, req models.DummyPackage) (string, error) {
	taken, err := s.packages.PackageNameTaken(ctx, req.Name, "")
	if err != nil {
		return "", err
	}
	if taken {
		return "", repository.ErrDuplicateName
	}

	duration := req.DurationDays
	if duration == 0 {
		duration = models.DefaultPackageDuration
	}
	features := req.Features
	if features == nil {
		features = []string{}
	}
	pkg := models.Package{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: duration,
		Features:     features,
	}
	uid, err := s.packages.CreatePackage(ctx, pkg)
	if err != nil {
		return "", err
	}
	s.log.Info("created package", slog.String("uid", uid), slog.String("name", req.Name))
	return uid, nil
}

// List returns packages sorted by name. Inactive ones are included only
// when requested, which the transport layer restricts to admins.
func (s *CatalogService) List(ctx context.Context, includeInactive bool) ([]*models.Package, error) {
	return s.packages.ListPackages(ctx, includeInactive)
}

// Get returns a package by UID regardless of its active flag, so historical
// subscription records stay explainable.
func (s *CatalogService) Get(ctx context.Context, packageUID string) (*models.Package, error) {
	return s.packages.GetPackage(ctx, packageUID)
}

// GetByName returns the active package with the given name.
func (s *CatalogService) GetByName(ctx context.Context, name string) (*models.Package, error) {
	return s.packages.GetPackageByName(ctx, name)
}

// Update applies a partial update. A name change re-checks uniqueness,
// excluding the package itself so renaming to the same name is a no-op.
func (s *CatalogService) Update(ctx context.Context, packageUID string, patch models.PackagePatch) (int, error) {
	if patch.Name != nil {
		taken, err := s.packages.PackageNameTaken(ctx, *patch.Name, packageUID)
		if err != nil {
			return 0, err
		}
		if taken {
			return 0, repository.ErrDuplicateName
		}
	}
	return s.packages.UpdatePackage(ctx, packageUID, patch)
}

// Remove soft-deletes a package. Existing subscriptions keep referencing it
// by name and are not touched.
func (s *CatalogService) Remove(ctx context.Context, packageUID string) (int, error) {
	return s.packages.SoftDeletePackage(ctx, packageUID)
}
