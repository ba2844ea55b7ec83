package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirwa-dev/subscription-manager/internal/models"
)

func strptr(s string) *string { return &s }

func TestStorage_ListSubscriptions(t *testing.T) {
	baseTime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		filter     models.SubscriptionFilter
		limit      int
		offset     int
		wantCount  int
		wantTotal  int
		setup      func(t *testing.T, factory *TestDataFactory)
		checkOrder func(t *testing.T, got []*models.Subscription)
	}{
		{
			name:      "second page of twenty five records",
			filter:    models.SubscriptionFilter{},
			limit:     10,
			offset:    10,
			wantCount: 10,
			wantTotal: 25,
			setup: func(t *testing.T, factory *TestDataFactory) {
				for i := range 25 {
					sub := testSubscriptionRecord()
					sub.ChildName = fmt.Sprintf("child-%02d", i)
					sub.Email = fmt.Sprintf("parent%02d@example.com", i)
					factory.CreateSubscription(t, sub, baseTime.Add(time.Duration(i)*time.Minute))
				}
			},
			checkOrder: func(t *testing.T, got []*models.Subscription) {
				// Newest first: page two holds the 11th through 20th newest.
				assert.Equal(t, "child-14", got[0].ChildName)
				assert.Equal(t, "child-05", got[9].ChildName)
			},
		},
		{
			name: "filters combine as a conjunction",
			filter: models.SubscriptionFilter{
				AgreedRefused: strptr("Agreed"),
				Area:          strptr("Gasabo"),
			},
			limit:     10,
			offset:    0,
			wantCount: 1,
			wantTotal: 1,
			setup: func(t *testing.T, factory *TestDataFactory) {
				match := testSubscriptionRecord()
				match.ChildName = "match"
				factory.CreateSubscription(t, match, baseTime)

				refused := testSubscriptionRecord()
				refused.AgreedRefused = "Refused"
				factory.CreateSubscription(t, refused, baseTime.Add(time.Minute))

				otherArea := testSubscriptionRecord()
				otherArea.Area = "Kicukiro"
				otherArea.Location = "Kagarama"
				otherArea.Cell = ""
				factory.CreateSubscription(t, otherArea, baseTime.Add(2*time.Minute))
			},
			checkOrder: func(t *testing.T, got []*models.Subscription) {
				assert.Equal(t, "match", got[0].ChildName)
			},
		},
		{
			name:      "soft deleted records are excluded by default",
			filter:    models.SubscriptionFilter{},
			limit:     10,
			offset:    0,
			wantCount: 2,
			wantTotal: 2,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateSubscription(t, testSubscriptionRecord(), baseTime)
				factory.CreateSubscription(t, testSubscriptionRecord(), baseTime.Add(time.Minute))
				deleted := testSubscriptionRecord()
				deleted.IsActive = false
				factory.CreateSubscription(t, deleted, baseTime.Add(2*time.Minute))
			},
		},
		{
			name:      "include inactive lists everything",
			filter:    models.SubscriptionFilter{IncludeInactive: true},
			limit:     10,
			offset:    0,
			wantCount: 3,
			wantTotal: 3,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateSubscription(t, testSubscriptionRecord(), baseTime)
				factory.CreateSubscription(t, testSubscriptionRecord(), baseTime.Add(time.Minute))
				deleted := testSubscriptionRecord()
				deleted.IsActive = false
				factory.CreateSubscription(t, deleted, baseTime.Add(2*time.Minute))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			got, total, err := storage.ListSubscriptions(context.Background(), tt.filter, tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, got, tt.wantCount)
			assert.Equal(t, tt.wantTotal, total)
			if tt.checkOrder != nil {
				tt.checkOrder(t, got)
			}
		})
	}
}

func TestStorage_GetSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	deleted := testSubscriptionRecord()
	deleted.IsActive = false
	uid := factory.CreateSubscription(t, deleted, time.Now().UTC())

	t.Run("soft deleted record is still readable by uid", func(t *testing.T) {
		got, err := storage.GetSubscription(context.Background(), uid)
		require.NoError(t, err)
		assert.Equal(t, uid, got.UID)
		assert.False(t, got.IsActive)
		assert.Equal(t, "Rukiri", got.Cell)
	})

	t.Run("unknown uid returns not found", func(t *testing.T) {
		_, err := storage.GetSubscription(context.Background(), uuid.NewString())
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_SearchSubscriptions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	baseTime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	byParent := testSubscriptionRecord()
	byParent.ParentName = "Uwimana Claudine"
	factory.CreateSubscription(t, byParent, baseTime)

	byPhone := testSubscriptionRecord()
	byPhone.PhoneNumber = "+250733999888"
	byPhone.ParentName = "Habimana"
	factory.CreateSubscription(t, byPhone, baseTime.Add(time.Minute))

	deleted := testSubscriptionRecord()
	deleted.ParentName = "Uwimana Josiane"
	deleted.IsActive = false
	factory.CreateSubscription(t, deleted, baseTime.Add(2*time.Minute))

	t.Run("matches are case insensitive", func(t *testing.T) {
		got, total, err := storage.SearchSubscriptions(context.Background(), "uwimana", 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Uwimana Claudine", got[0].ParentName)
	})

	t.Run("phone number is searchable", func(t *testing.T) {
		got, total, err := storage.SearchSubscriptions(context.Background(), "733999", 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, total)
		assert.Equal(t, "Habimana", got[0].ParentName)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		got, total, err := storage.SearchSubscriptions(context.Background(), "nowhere", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Zero(t, total)
	})

	t.Run("pattern metacharacters are literal", func(t *testing.T) {
		for _, q := range []string{"%", "_", "uw_mana"} {
			got, total, err := storage.SearchSubscriptions(context.Background(), q, 10, 0)
			require.NoError(t, err)
			assert.Empty(t, got, "query %q should not act as a wildcard", q)
			assert.Zero(t, total)
		}
	})
}

func TestStorage_SoftDeleteSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateSubscription(t, testSubscriptionRecord(), time.Now().UTC())

	count, err := storage.SoftDeleteSubscription(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Deleting twice is a no-op.
	count, err = storage.SoftDeleteSubscription(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	got, err := storage.GetSubscription(context.Background(), uid)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestStorage_RegisterUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := models.User{
		Username:     "claudine",
		Email:        "claudine@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
	}
	uid, err := storage.RegisterUser(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	t.Run("duplicate username", func(t *testing.T) {
		dup := user
		dup.Email = "other@example.com"
		_, err := storage.RegisterUser(context.Background(), dup)
		require.ErrorIs(t, err, ErrDuplicateUsername)
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := user
		dup.Username = "other"
		_, err := storage.RegisterUser(context.Background(), dup)
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("soft delete does not free the username", func(t *testing.T) {
		count, err := storage.SoftDeleteUser(context.Background(), uid)
		require.NoError(t, err)
		require.Equal(t, 1, count)

		_, err = storage.RegisterUser(context.Background(), user)
		require.ErrorIs(t, err, ErrDuplicateUsername)
	})
}

func TestStorage_CreatePackage(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	pkg := models.Package{
		Name:         "Basic",
		Price:        5000,
		DurationDays: 30,
		Features:     []string{"feature-a"},
	}
	uid, err := storage.CreatePackage(context.Background(), pkg)
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	t.Run("active name is taken", func(t *testing.T) {
		_, err := storage.CreatePackage(context.Background(), pkg)
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("soft delete frees the name", func(t *testing.T) {
		count, err := storage.SoftDeletePackage(context.Background(), uid)
		require.NoError(t, err)
		require.Equal(t, 1, count)

		newUID, err := storage.CreatePackage(context.Background(), pkg)
		require.NoError(t, err)
		assert.NotEqual(t, uid, newUID)
	})
}

func TestStorage_UpcomingRenewals(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	baseTime := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	renewal := func(day int) time.Time {
		return time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
	}

	later := testSubscriptionRecord()
	later.ChildName = "later"
	later.RenewSubscriptionBy = renewal(10)
	factory.CreateSubscription(t, later, baseTime)

	soon := testSubscriptionRecord()
	soon.ChildName = "soon"
	soon.RenewSubscriptionBy = renewal(5)
	factory.CreateSubscription(t, soon, baseTime.Add(time.Minute))

	beyondCutoff := testSubscriptionRecord()
	beyondCutoff.RenewSubscriptionBy = renewal(20)
	factory.CreateSubscription(t, beyondCutoff, baseTime.Add(2*time.Minute))

	refused := testSubscriptionRecord()
	refused.AgreedRefused = "Refused"
	refused.RenewSubscriptionBy = renewal(1)
	factory.CreateSubscription(t, refused, baseTime.Add(3*time.Minute))

	deleted := testSubscriptionRecord()
	deleted.IsActive = false
	deleted.RenewSubscriptionBy = renewal(2)
	factory.CreateSubscription(t, deleted, baseTime.Add(4*time.Minute))

	got, total, err := storage.UpcomingRenewals(context.Background(), renewal(15), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, total)
	// Soonest renewal first; refused and deleted records never surface.
	assert.Equal(t, "soon", got[0].ChildName)
	assert.Equal(t, "later", got[1].ChildName)
}
