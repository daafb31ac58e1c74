package outlets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	calls   int
	lastDec *Decision
	err     error
	block   chan struct{}
}

func (f *fakeSubmitter) SubmitDecision(ctx context.Context, sess *session.Session, d *Decision) error {
	f.mu.Lock()
	f.calls++
	copied := *d
	f.lastDec = &copied
	err := f.err
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return err
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu        sync.Mutex
	succeeded []Decision
	failed    []string
}

func (f *fakeNotifier) DecisionSucceeded(d *Decision) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.succeeded = append(f.succeeded, *d)
}

func (f *fakeNotifier) DecisionFailed(d *Decision, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, message)
}

func draftOutlet() *Outlet {
	return &Outlet{OutletID: 7, OutletName: "Indiranagar", OutletStatus: StatusDraft}
}

func TestControllerApproveFlow(t *testing.T) {
	submitter := &fakeSubmitter{}
	notifier := &fakeNotifier{}
	refreshed := false
	ctrl := NewController(submitter, notifier, func() { refreshed = true }, zap.NewNop())

	assert.Equal(t, StateIdle, ctrl.State())

	require.NoError(t, ctrl.Open(draftOutlet(), ActionApprove))
	assert.Equal(t, StateConfirmOpen, ctrl.State())

	require.NoError(t, ctrl.Confirm(context.Background(), &session.Session{AccessToken: "t"}))

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Nil(t, ctrl.Decision())
	assert.Equal(t, 1, submitter.callCount())
	assert.Equal(t, ActionApprove, submitter.lastDec.Action)
	assert.Len(t, notifier.succeeded, 1)
	assert.True(t, refreshed)
}

func TestControllerRejectRequiresRemarks(t *testing.T) {
	submitter := &fakeSubmitter{}
	ctrl := NewController(submitter, &fakeNotifier{}, nil, zap.NewNop())

	require.NoError(t, ctrl.Open(draftOutlet(), ActionReject))

	// Whitespace-only remarks do not count.
	require.NoError(t, ctrl.UpdateRemarks("   "))
	err := ctrl.Confirm(context.Background(), &session.Session{})
	assert.ErrorIs(t, err, ErrRemarksRequired)

	// The refusal happens before any network call and the flow stays open.
	assert.Equal(t, 0, submitter.callCount())
	assert.Equal(t, StateConfirmOpen, ctrl.State())

	require.NoError(t, ctrl.UpdateRemarks("Location not viable"))
	require.NoError(t, ctrl.Confirm(context.Background(), &session.Session{}))
	assert.Equal(t, 1, submitter.callCount())
	assert.Equal(t, "Location not viable", submitter.lastDec.Remarks)
}

func TestControllerFailureKeepsRemarks(t *testing.T) {
	submitter := &fakeSubmitter{err: errors.New("upstream down")}
	notifier := &fakeNotifier{}
	ctrl := NewController(submitter, notifier, nil, zap.NewNop())

	require.NoError(t, ctrl.Open(draftOutlet(), ActionReject))
	require.NoError(t, ctrl.UpdateRemarks("Rent too high"))

	err := ctrl.Confirm(context.Background(), &session.Session{})
	require.Error(t, err)

	// The confirmation stays open with remarks intact for a retry.
	assert.Equal(t, StateConfirmOpen, ctrl.State())
	d := ctrl.Decision()
	require.NotNil(t, d)
	assert.Equal(t, "Rent too high", d.Remarks)
	assert.Len(t, notifier.failed, 1)

	// Retry succeeds without retyping.
	submitter.err = nil
	require.NoError(t, ctrl.Confirm(context.Background(), &session.Session{}))
	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, 2, submitter.callCount())
}

func TestControllerRefusesConcurrentSubmit(t *testing.T) {
	block := make(chan struct{})
	submitter := &fakeSubmitter{block: block}
	ctrl := NewController(submitter, &fakeNotifier{}, nil, zap.NewNop())

	require.NoError(t, ctrl.Open(draftOutlet(), ActionApprove))

	done := make(chan error, 1)
	go func() {
		done <- ctrl.Confirm(context.Background(), &session.Session{})
	}()

	// Wait for the first confirm to reach the submitter.
	for submitter.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, StateSubmitting, ctrl.State())

	// A second confirm while in flight is refused outright, as are opening a
	// new decision and cancelling.
	assert.ErrorIs(t, ctrl.Confirm(context.Background(), &session.Session{}), ErrSubmitInFlight)
	assert.ErrorIs(t, ctrl.Open(draftOutlet(), ActionReject), ErrSubmitInFlight)
	ctrl.Cancel()
	assert.Equal(t, StateSubmitting, ctrl.State())

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, submitter.callCount())
}

func TestControllerRefusesDecidedOutlet(t *testing.T) {
	ctrl := NewController(&fakeSubmitter{}, &fakeNotifier{}, nil, zap.NewNop())

	approved := &Outlet{OutletID: 3, OutletStatus: StatusApproved}
	assert.ErrorIs(t, ctrl.Open(approved, ActionReject), ErrAlreadyDecided)

	rejected := &Outlet{OutletID: 4, OutletStatus: StatusRejected}
	assert.ErrorIs(t, ctrl.Open(rejected, ActionApprove), ErrAlreadyDecided)
}

func TestControllerOpenReplacesPendingDecision(t *testing.T) {
	ctrl := NewController(&fakeSubmitter{}, &fakeNotifier{}, nil, zap.NewNop())

	require.NoError(t, ctrl.Open(draftOutlet(), ActionReject))
	require.NoError(t, ctrl.UpdateRemarks("old remarks"))

	// Opening again replaces the decision and discards its remarks.
	require.NoError(t, ctrl.Open(draftOutlet(), ActionApprove))
	d := ctrl.Decision()
	require.NotNil(t, d)
	assert.Equal(t, ActionApprove, d.Action)
	assert.Empty(t, d.Remarks)
}

func TestControllerCancel(t *testing.T) {
	ctrl := NewController(&fakeSubmitter{}, &fakeNotifier{}, nil, zap.NewNop())

	require.NoError(t, ctrl.Open(draftOutlet(), ActionApprove))
	ctrl.Cancel()

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Nil(t, ctrl.Decision())
	assert.ErrorIs(t, ctrl.UpdateRemarks("x"), ErrNoDecision)
	assert.ErrorIs(t, ctrl.Confirm(context.Background(), &session.Session{}), ErrNoDecision)
}

func TestValidateRemarks(t *testing.T) {
	assert.NoError(t, ValidateRemarks(ActionApprove, ""))
	assert.NoError(t, ValidateRemarks(ActionReject, "reason"))
	assert.ErrorIs(t, ValidateRemarks(ActionReject, ""), ErrRemarksRequired)
	assert.ErrorIs(t, ValidateRemarks(ActionReject, "  \t "), ErrRemarksRequired)
}
