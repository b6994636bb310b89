package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
	"github.com/iliyamo/hotel-room-booking/internal/queue"
)

// ----- fakes -----

type fakeGateway struct {
	initiateResp *InitiateResponse
	initiateErr  error
	lookup       LookupResult
	lookupErr    error
	lookups      int
}

func (g *fakeGateway) Initiate(_ context.Context, _ InitiateRequest) (*InitiateResponse, error) {
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	return g.initiateResp, nil
}

func (g *fakeGateway) Lookup(_ context.Context, _ string) (*LookupResult, error) {
	g.lookups++
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	return &g.lookup, nil
}

type fakeCommitter struct {
	nextID  uint64
	err     error
	creates int
}

func (f *fakeCommitter) Create(_ context.Context, b *model.Booking) (uint64, error) {
	f.creates++
	if f.err != nil {
		return 0, f.err
	}
	b.ID = f.nextID
	return f.nextID, nil
}

type fakeAvailStore struct {
	rows []model.Booking
	err  error
}

func (f *fakeAvailStore) ListActiveByRoom(_ context.Context, _ uint64) ([]model.Booking, error) {
	return f.rows, f.err
}

type capturedEvents struct {
	confirmed    []queue.BookingConfirmedEvent
	reconciled   []queue.PaymentReconciliationEvent
	confirmErr   error
	reconcileErr error
}

func (p *capturedEvents) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.confirmed = append(p.confirmed, ev)
	return p.confirmErr
}

func (p *capturedEvents) PublishReconciliation(_ context.Context, ev queue.PaymentReconciliationEvent) error {
	p.reconciled = append(p.reconciled, ev)
	return p.reconcileErr
}

// The fakes must track the coordinator's dependency interfaces exactly;
// drift fails the build here rather than inside a test body.
var (
	_ Gateway        = (*fakeGateway)(nil)
	_ Committer      = (*fakeCommitter)(nil)
	_ booking.Store  = (*fakeAvailStore)(nil)
	_ EventPublisher = (*capturedEvents)(nil)
)

// ----- fixtures -----

const (
	custID = uint64(42)
	pidx   = "tx-abc123"
)

func testPayload() model.Booking {
	return model.Booking{
		CustomerID:      custID,
		RoomID:          7,
		MealPlanID:      1,
		MarketSegmentID: 1,
		Adults:          2,
		WeekendNights:   1,
		WeekNights:      2,
		ArrivalYear:     2025,
		ArrivalMonth:    3,
		ArrivalDay:      10,
		AvgPricePerRoom: 120.50, // 3 nights -> 36150 minor units
	}
}

type fixture struct {
	co       *Coordinator
	sessions *MemorySessionStore
	gw       *fakeGateway
	store    *fakeAvailStore
	commit   *fakeCommitter
	events   *capturedEvents
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions: NewMemorySessionStore(time.Hour),
		gw: &fakeGateway{
			initiateResp: &InitiateResponse{TransactionID: pidx, PaymentURL: "https://pay.example/redirect"},
		},
		store:  &fakeAvailStore{},
		commit: &fakeCommitter{nextID: 99},
		events: &capturedEvents{},
	}
	f.co = NewCoordinator(f.sessions, f.gw, booking.NewChecker(f.store), f.commit, f.events, "http://localhost/callback")
	return f
}

func (f *fixture) initiate(t *testing.T) {
	t.Helper()
	resp, err := f.co.Initiate(context.Background(), testPayload(), "Deluxe 101", "Ada", "ada@example.com")
	require.NoError(t, err)
	require.Equal(t, pidx, resp.TransactionID)
}

func (f *fixture) completedLookup(amount int64) {
	f.gw.lookup = LookupResult{Status: "Completed", AmountMinor: amount}
}

// ----- initiation -----

func TestInitiateQuotesAndStashesSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)

	sess, err := f.sessions.Get(context.Background(), custID)
	require.NoError(t, err)
	assert.Equal(t, int64(36150), sess.AmountMinor)
	assert.Equal(t, pidx, sess.TransactionID)
	assert.Contains(t, sess.PurchaseOrderID, "PO-42-")
	assert.Zero(t, f.commit.creates, "initiation must not write a booking")
}

func TestInitiateRejectsInvalidStay(t *testing.T) {
	f := newFixture(t)
	p := testPayload()
	p.ArrivalMonth = 2
	p.ArrivalDay = 31
	_, err := f.co.Initiate(context.Background(), p, "", "", "")
	assert.ErrorIs(t, err, booking.ErrInvalidDate)

	p = testPayload()
	p.WeekendNights, p.WeekNights = 0, 0
	_, err = f.co.Initiate(context.Background(), p, "", "", "")
	assert.ErrorIs(t, err, booking.ErrInvalidStay)
}

func TestInitiateRejectsOccupiedRoom(t *testing.T) {
	f := newFixture(t)
	f.store.rows = []model.Booking{{
		RoomID: 7, Status: model.StatusNotCanceled,
		ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 11, WeekNights: 2,
	}}
	_, err := f.co.Initiate(context.Background(), testPayload(), "", "", "")
	assert.ErrorIs(t, err, booking.ErrRoomUnavailable)
}

func TestInitiateGatewayFailureLeavesNoSession(t *testing.T) {
	f := newFixture(t)
	f.gw.initiateErr = ErrGatewayUnreachable
	_, err := f.co.Initiate(context.Background(), testPayload(), "", "", "")
	assert.ErrorIs(t, err, ErrGatewayUnreachable)

	_, err = f.sessions.Get(context.Background(), custID)
	assert.ErrorIs(t, err, ErrNoSession)
}

// ----- verification -----

func TestVerifyCompletedCommitsOnce(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.completedLookup(36150)

	id, err := f.co.Verify(context.Background(), custID, pidx)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), id)
	assert.Equal(t, 1, f.commit.creates)
	require.Len(t, f.events.confirmed, 1)
	assert.Equal(t, uint64(99), f.events.confirmed[0].BookingID)
	assert.Equal(t, pidx, f.events.confirmed[0].PaymentRef)

	// A redelivered callback finds no session and cannot commit twice.
	_, err = f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, 1, f.commit.creates)
}

func TestVerifyEmptyTransactionID(t *testing.T) {
	f := newFixture(t)
	_, err := f.co.Verify(context.Background(), custID, "")
	assert.ErrorIs(t, err, ErrInvalidCallback)
}

func TestVerifyWithoutSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestVerifyMismatchedTransactionKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)

	_, err := f.co.Verify(context.Background(), custID, "tx-other")
	assert.ErrorIs(t, err, ErrSessionMismatch)

	// The legitimate callback still succeeds afterwards.
	f.completedLookup(36150)
	id, err := f.co.Verify(context.Background(), custID, pidx)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), id)
}

func TestVerifyStillProcessingKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)

	for _, status := range []string{"Pending", "Initiated", "User Initiated"} {
		f.gw.lookup = LookupResult{Status: status}
		_, err := f.co.Verify(context.Background(), custID, pidx)
		assert.ErrorIs(t, err, ErrStillProcessing, "status %q", status)
	}

	f.completedLookup(36150)
	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.NoError(t, err)
}

func TestVerifyTerminalNonCompletedConsumesSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.gw.lookup = LookupResult{Status: "Expired"}

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrPaymentNotCompleted)

	_, err = f.sessions.Get(context.Background(), custID)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, f.events.reconciled, "no funds moved, nothing to reconcile")
}

func TestVerifyLookupFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.gw.lookupErr = ErrVerificationUnavailable

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrVerificationUnavailable)

	f.gw.lookupErr = nil
	f.completedLookup(36150)
	_, err = f.co.Verify(context.Background(), custID, pidx)
	assert.NoError(t, err)
}

func TestVerifyAmountTolerance(t *testing.T) {
	cases := []struct {
		name     string
		reported int64
		wantErr  bool
	}{
		{"exact", 36150, false},
		{"one under", 36149, false},
		{"one over", 36151, false},
		{"two under", 36148, true},
		{"way off", 3615, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.initiate(t)
			f.completedLookup(tc.reported)

			_, err := f.co.Verify(context.Background(), custID, pidx)
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrAmountMismatch)
			require.Len(t, f.events.reconciled, 1)
			ev := f.events.reconciled[0]
			assert.Equal(t, "amount_mismatch", ev.Reason)
			assert.Equal(t, int64(36150), ev.QuotedMinor)
			assert.Equal(t, tc.reported, ev.ReportedMinor)

			// Post-funds mismatch consumes the session.
			_, err = f.sessions.Get(context.Background(), custID)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestVerifyReferenceMismatchFlags(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.gw.lookup = LookupResult{Status: "Completed", AmountMinor: 36150, ReportedOrderID: "PO-unrelated"}

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrReferenceMismatch)
	require.Len(t, f.events.reconciled, 1)
	assert.Equal(t, "reference_mismatch", f.events.reconciled[0].Reason)
}

func TestVerifyMatchingReferencePasses(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	sess, err := f.sessions.Get(context.Background(), custID)
	require.NoError(t, err)
	f.gw.lookup = LookupResult{Status: "Completed", AmountMinor: 36150, ReportedOrderID: sess.PurchaseOrderID}

	_, err = f.co.Verify(context.Background(), custID, pidx)
	assert.NoError(t, err)
}

func TestVerifyRoomConsumedMidFlight(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	// Another booking lands between initiation and callback.
	f.store.rows = []model.Booking{{
		RoomID: 7, Status: model.StatusNotCanceled,
		ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 9, WeekNights: 4,
	}}
	f.completedLookup(36150)

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrRoomNoLongerAvailable)
	require.Len(t, f.events.reconciled, 1)
	assert.Equal(t, "room_unavailable", f.events.reconciled[0].Reason)
	assert.Zero(t, f.commit.creates)
}

func TestVerifyCommitRaceFlagsForRefund(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.completedLookup(36150)
	f.commit.err = booking.ErrRoomUnavailable

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrRoomNoLongerAvailable)
	require.Len(t, f.events.reconciled, 1)
	assert.Equal(t, "room_unavailable", f.events.reconciled[0].Reason)
}

func TestVerifyPersistenceFailureKeepsSessionForRetry(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.completedLookup(36150)
	boom := errors.New("connection reset")
	f.commit.err = boom

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.events.reconciled)

	f.commit.err = nil
	id, err := f.co.Verify(context.Background(), custID, pidx)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), id)
}

func TestVerifyAvailabilityStoreFailureKeepsSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)
	f.completedLookup(36150)
	f.store.err = errors.New("db down")

	_, err := f.co.Verify(context.Background(), custID, pidx)
	assert.ErrorIs(t, err, ErrVerificationUnavailable)

	f.store.err = nil
	_, err = f.co.Verify(context.Background(), custID, pidx)
	assert.NoError(t, err)
}

// ----- cancel -----

func TestCancelDiscardsPendingSession(t *testing.T) {
	f := newFixture(t)
	f.initiate(t)

	require.NoError(t, f.co.Cancel(context.Background(), custID))
	_, err := f.sessions.Get(context.Background(), custID)
	assert.ErrorIs(t, err, ErrNoSession)

	// Cancel with nothing pending is a no-op.
	assert.NoError(t, f.co.Cancel(context.Background(), custID))
}

// ----- unit helpers -----

func TestMinorUnitsTruncates(t *testing.T) {
	assert.Equal(t, int64(12345), MinorUnits(123.45))
	assert.Equal(t, int64(12345), MinorUnits(123.459))
	assert.Equal(t, int64(0), MinorUnits(0))
	assert.Equal(t, int64(100), MinorUnits(1.0))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusCompleted, NormalizeStatus("Completed"))
	assert.Equal(t, StatusUserInitiated, NormalizeStatus("User Initiated"))
	assert.True(t, IsProcessing(NormalizeStatus("PENDING")))
	assert.False(t, IsProcessing(NormalizeStatus("Refunded")))
}
