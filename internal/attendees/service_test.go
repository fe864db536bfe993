package attendees

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/backend/internal/models"
	"github.com/eventflow/backend/pkg/qr"
)

type memStore struct {
	byID   map[uuid.UUID]*models.Attendee
	byCode map[string]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{byID: map[uuid.UUID]*models.Attendee{}, byCode: map[string]uuid.UUID{}}
}

func (m *memStore) Insert(_ context.Context, a *models.Attendee) error {
	a.ID = uuid.New()
	a.RegisteredAt = time.Now()
	cp := *a
	m.byID[a.ID] = &cp
	m.byCode[a.QRCode] = a.ID
	return nil
}

func (m *memStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.Attendee, error) {
	a, ok := m.byID[id]
	if !ok || a.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) GetByQRCode(_ context.Context, orgID uuid.UUID, code string) (*models.Attendee, error) {
	id, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return m.GetByID(context.Background(), orgID, id)
}

func (m *memStore) CheckIn(_ context.Context, orgID, id uuid.UUID, at time.Time) (*models.Attendee, error) {
	a, ok := m.byID[id]
	if !ok || a.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	a.Status = models.AttendeeStatusCheckedIn
	a.CheckedInAt = &at
	cp := *a
	return &cp, nil
}

func TestCreateIssuesQRCode(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	orgID := uuid.New()

	a, image, err := svc.Create(context.Background(), orgID, CreateParams{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.Equal(t, models.AttendeeStatusRegistered, a.Status)
	require.True(t, strings.HasPrefix(a.QRCode, qr.TokenPrefix+":"))
	require.True(t, strings.HasPrefix(image, "data:image/png;base64,"))
	require.Nil(t, a.CheckedInAt)
}

func TestCreateRejectsInvalidEmail(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)

	_, _, err := svc.Create(context.Background(), uuid.New(), CreateParams{Name: "Bad", Email: "not-an-email"})
	require.Error(t, err)
	require.Empty(t, store.byID)
}

func TestCheckInByQRCodeUnknownCode(t *testing.T) {
	svc := NewService(newMemStore(), nil)

	_, err := svc.CheckInByQRCode(context.Background(), uuid.New(), "ATTENDEE:0:nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInByQRCodeWrongOrganization(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	orgID := uuid.New()

	a, _, err := svc.Create(context.Background(), orgID, CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.CheckInByQRCode(context.Background(), uuid.New(), a.QRCode)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCheckInByQRCodeSetsStatusAndTimestamp(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	orgID := uuid.New()

	a, _, err := svc.Create(context.Background(), orgID, CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	before := time.Now().UTC()
	checked, err := svc.CheckInByQRCode(context.Background(), orgID, a.QRCode)
	require.NoError(t, err)
	require.Equal(t, models.AttendeeStatusCheckedIn, checked.Status)
	require.NotNil(t, checked.CheckedInAt)
	require.False(t, checked.CheckedInAt.Before(before))
}

func TestCheckInByQRCodeRescanSucceeds(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	orgID := uuid.New()

	a, _, err := svc.Create(context.Background(), orgID, CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	first, err := svc.CheckInByQRCode(context.Background(), orgID, a.QRCode)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := svc.CheckInByQRCode(context.Background(), orgID, a.QRCode)
	require.NoError(t, err)
	require.Equal(t, models.AttendeeStatusCheckedIn, second.Status)
	require.True(t, second.CheckedInAt.After(*first.CheckedInAt))
}

func TestQRCodeImageRerendersStoredToken(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	orgID := uuid.New()

	a, image, err := svc.Create(context.Background(), orgID, CreateParams{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	again, err := svc.QRCodeImage(context.Background(), orgID, a.ID)
	require.NoError(t, err)
	require.Equal(t, image, again)
}

func TestBulkImportBestEffort(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	orgID := uuid.New()

	rows := []CreateParams{
		{Name: "First", Email: "first@example.com"},
		{Name: "Broken", Email: "broken"},
		{Name: "Third", Email: "third@example.com"},
	}

	var progress []int
	results := svc.BulkImport(context.Background(), orgID, rows, func(current, total int) {
		require.Equal(t, 3, total)
		progress = append(progress, current)
	})

	require.Len(t, results, 3)
	require.True(t, results[0].Success)
	require.False(t, results[1].Success)
	require.NotEmpty(t, results[1].Error)
	require.True(t, results[2].Success)

	require.Len(t, store.byID, 2)
	require.Equal(t, []int{1, 3}, progress)

	codes := map[string]struct{}{}
	for _, a := range store.byID {
		codes[a.QRCode] = struct{}{}
	}
	require.Len(t, codes, 2)
}
