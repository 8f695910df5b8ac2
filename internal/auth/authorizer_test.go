package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANANDU-2000/PeerLearningPlatform/internal/session"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/interfaces"
	"github.com/ANANDU-2000/PeerLearningPlatform/pkg/types"
)

type mockStore struct {
	sessions map[string]*types.Session
	bookings map[string]*types.Booking // "sessionID/userID"
}

func newMockStore() *mockStore {
	return &mockStore{
		sessions: make(map[string]*types.Session),
		bookings: make(map[string]*types.Booking),
	}
}

func (s *mockStore) GetSession(_ context.Context, sessionID string) (*types.Session, error) {
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, interfaces.ErrSessionNotFound
	}
	return session, nil
}

func (s *mockStore) GetBooking(_ context.Context, sessionID, userID string) (*types.Booking, error) {
	booking, ok := s.bookings[sessionID+"/"+userID]
	if !ok {
		return nil, interfaces.ErrBookingNotFound
	}
	return booking, nil
}

func (s *mockStore) addSession(id, mentorID, status string) {
	s.sessions[id] = &types.Session{
		ID:        id,
		MentorID:  mentorID,
		Title:     "Go Fundamentals",
		StartTime: time.Now(),
		Status:    status,
	}
}

func (s *mockStore) addBooking(sessionID, learnerID, status string, paid bool) {
	s.bookings[sessionID+"/"+learnerID] = &types.Booking{
		SessionID:       sessionID,
		LearnerID:       learnerID,
		Status:          status,
		PaymentComplete: paid,
	}
}

func newAuthorizer(store *mockStore, mode string) *Authorizer {
	return New(session.NewManager(store, time.Minute), store, mode)
}

func TestAuthorize_Strict(t *testing.T) {
	store := newMockStore()
	store.addSession("sess-1", "mentor-1", types.SessionScheduled)
	store.addBooking("sess-1", "learner-paid", types.BookingConfirmed, true)
	store.addBooking("sess-1", "learner-unpaid", types.BookingConfirmed, false)
	store.addBooking("sess-1", "learner-pending", types.BookingPending, true)

	authorizer := newAuthorizer(store, ModeStrict)
	ctx := context.Background()

	testCases := []struct {
		name     string
		userID   string
		wantRole string
		wantErr  error
	}{
		{"assigned mentor joins as mentor", "mentor-1", types.RoleMentor, nil},
		{"confirmed paid learner joins", "learner-paid", types.RoleLearner, nil},
		{"unpaid booking refused", "learner-unpaid", "", interfaces.ErrUnauthorized},
		{"pending booking refused", "learner-pending", "", interfaces.ErrUnauthorized},
		{"no booking refused", "stranger", "", interfaces.ErrUnauthorized},
		{"empty user refused", "", "", ErrUnauthenticated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			role, err := authorizer.Authorize(ctx, tc.userID, "sess-1")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantRole, role)
		})
	}
}

func TestAuthorize_Permissive(t *testing.T) {
	store := newMockStore()
	store.addSession("sess-1", "mentor-1", types.SessionScheduled)
	store.addBooking("sess-1", "learner-unpaid", types.BookingConfirmed, false)

	authorizer := newAuthorizer(store, ModePermissive)
	ctx := context.Background()

	role, err := authorizer.Authorize(ctx, "stranger", "sess-1")
	require.NoError(t, err, "permissive mode admits authenticated users without a booking")
	assert.Equal(t, types.RoleLearner, role)

	role, err = authorizer.Authorize(ctx, "learner-unpaid", "sess-1")
	require.NoError(t, err, "permissive mode ignores booking state")
	assert.Equal(t, types.RoleLearner, role)

	role, err = authorizer.Authorize(ctx, "mentor-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, types.RoleMentor, role, "mentor role is still role-based in permissive mode")

	_, err = authorizer.Authorize(ctx, "", "sess-1")
	require.ErrorIs(t, err, ErrUnauthenticated, "permissive mode still refuses unauthenticated users")
}

func TestAuthorize_SessionState(t *testing.T) {
	store := newMockStore()
	store.addSession("sess-done", "mentor-1", types.SessionCompleted)
	store.addSession("sess-cancelled", "mentor-1", types.SessionCancelled)

	authorizer := newAuthorizer(store, ModeStrict)
	ctx := context.Background()

	_, err := authorizer.Authorize(ctx, "mentor-1", "sess-done")
	require.ErrorIs(t, err, interfaces.ErrSessionEnded, "even the mentor cannot join a completed session")

	_, err = authorizer.Authorize(ctx, "mentor-1", "sess-cancelled")
	require.ErrorIs(t, err, interfaces.ErrSessionEnded)

	_, err = authorizer.Authorize(ctx, "mentor-1", "missing")
	require.ErrorIs(t, err, interfaces.ErrSessionNotFound)
}

func TestStrict(t *testing.T) {
	store := newMockStore()
	assert.True(t, newAuthorizer(store, ModeStrict).Strict())
	assert.False(t, newAuthorizer(store, ModePermissive).Strict())
	assert.True(t, newAuthorizer(store, "").Strict(), "unknown modes fall back to strict")
}
