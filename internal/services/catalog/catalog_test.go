package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hirwa-dev/subscription-manager/internal/models"
	"github.com/hirwa-dev/subscription-manager/internal/storage/repository"
)

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) CreatePackage(ctx context.Context, pkg models.Package) (string, error) {
	args := m.Called(ctx, pkg)
	return args.String(0), args.Error(1)
}

func (m *MockPackageRepository) ListPackages(ctx context.Context, includeInactive bool) ([]*models.Package, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}

func (m *MockPackageRepository) GetPackage(ctx context.Context, packageUID string) (*models.Package, error) {
	args := m.Called(ctx, packageUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockPackageRepository) GetPackageByName(ctx context.Context, name string) (*models.Package, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}

func (m *MockPackageRepository) PackageNameTaken(ctx context.Context, name, excludeUID string) (bool, error) {
	args := m.Called(ctx, name, excludeUID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPackageRepository) UpdatePackage(ctx context.Context, packageUID string, patch models.PackagePatch) (int, error) {
	args := m.Called(ctx, packageUID, patch)
	return args.Int(0), args.Error(1)
}

func (m *MockPackageRepository) SoftDeletePackage(ctx context.Context, packageUID string) (int, error) {
	args := m.Called(ctx, packageUID)
	return args.Int(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreatePackage(t *testing.T) {
	t.Run("DefaultsApplied", func(t *testing.T) {
		repo := new(MockPackageRepository)
		svc := NewCatalogService(repo, discardLogger())

		repo.On("PackageNameTaken", mock.Anything, "Basic", "").Return(false, nil)
		repo.On("CreatePackage", mock.Anything, mock.MatchedBy(func(p models.Package) bool {
			return p.Name == "Basic" &&
				p.DurationDays == models.DefaultPackageDuration &&
				p.Features != nil && len(p.Features) == 0
		})).Return("uid-1", nil)

		uid, err := svc.Create(context.Background(), models.DummyPackage{Name: "Basic", Price: 5000})
		require.NoError(t, err)
		assert.Equal(t, "uid-1", uid)
		repo.AssertExpectations(t)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		repo := new(MockPackageRepository)
		svc := NewCatalogService(repo, discardLogger())

		repo.On("PackageNameTaken", mock.Anything, "Basic", "").Return(true, nil)

		_, err := svc.Create(context.Background(), models.DummyPackage{Name: "Basic", Price: 5000})
		assert.ErrorIs(t, err, repository.ErrDuplicateName)
	})
}

func TestUpdatePackage(t *testing.T) {
	t.Run("RenameChecksOthersOnly", func(t *testing.T) {
		repo := new(MockPackageRepository)
		svc := NewCatalogService(repo, discardLogger())

		name := "Premium"
		repo.On("PackageNameTaken", mock.Anything, "Premium", "uid-1").Return(false, nil)
		repo.On("UpdatePackage", mock.Anything, "uid-1", mock.Anything).Return(1, nil)

		count, err := svc.Update(context.Background(), "uid-1", models.PackagePatch{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("RenameToTakenName", func(t *testing.T) {
		repo := new(MockPackageRepository)
		svc := NewCatalogService(repo, discardLogger())

		name := "Premium"
		repo.On("PackageNameTaken", mock.Anything, "Premium", "uid-1").Return(true, nil)

		_, err := svc.Update(context.Background(), "uid-1", models.PackagePatch{Name: &name})
		assert.ErrorIs(t, err, repository.ErrDuplicateName)
	})

	t.Run("PriceOnlySkipsNameCheck", func(t *testing.T) {
		repo := new(MockPackageRepository)
		svc := NewCatalogService(repo, discardLogger())

		price := 9000.0
		repo.On("UpdatePackage", mock.Anything, "uid-1", mock.Anything).Return(1, nil)

		count, err := svc.Update(context.Background(), "uid-1", models.PackagePatch{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertNotCalled(t, "PackageNameTaken")
	})
}

func TestRemovePackage(t *testing.T) {
	repo := new(MockPackageRepository)
	svc := NewCatalogService(repo, discardLogger())

	repo.On("SoftDeletePackage", mock.Anything, "missing").Return(0, repository.ErrNotFound)

	_, err := svc.Remove(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
