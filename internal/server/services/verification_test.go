package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/common"
	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verificationFixture struct {
	svc      *VerificationService
	contacts *ContactService
	sender   *recordingSender
	clock    *fakeClock
}

func newVerificationFixture(t *testing.T, codes ...string) *verificationFixture {
	t.Helper()
	db, m := newTestStore(t)

	f := &verificationFixture{sender: &recordingSender{}, clock: newFakeClock()}
	f.svc = NewVerificationService(db, m, f.sender, logging.Nop(), 30*time.Minute)
	f.svc.now = f.clock.Now
	if len(codes) > 0 {
		f.svc.generateCode = codeSequence(codes...)
	}
	f.contacts = NewContactService(db, m, logging.Nop())
	f.contacts.now = f.clock.Now
	return f
}

func TestVerification_InitiateThenConfirm(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t)

	p, err := f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, p.VerificationCode, 6)
	assert.Equal(t, f.clock.Now().Add(30*time.Minute), p.ExpiresAt)

	msgs := f.sender.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "ann@example.com", msgs[0].Email)
	assert.Equal(t, p.VerificationCode, msgs[0].Code)

	c, err := f.svc.ConfirmVerification(ctx, "ann@example.com", p.VerificationCode)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Ann", c.Name)
	assert.Equal(t, "ann@example.com", c.Email)

	_, err = f.svc.PendingVerification(ctx, "ann@example.com")
	assert.ErrorIs(t, err, common.ErrPendingContactNotFound)

	list, err := f.contacts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestVerification_ConfirmRejectsWrongCode(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, "123456")

	_, err := f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)

	_, err = f.svc.ConfirmVerification(ctx, "ann@example.com", "654321")
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)

	list, err := f.contacts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// the pending registration survives a wrong guess
	_, err = f.svc.ConfirmVerification(ctx, "ann@example.com", "123456")
	assert.NoError(t, err)
}

func TestVerification_ConfirmRejectsExpiredCode(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		wantErr bool
	}{
		{"just before expiry", 30*time.Minute - time.Second, false},
		{"exactly at expiry", 30 * time.Minute, true},
		{"after expiry", 31 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newVerificationFixture(t, "123456")

			_, err := f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
			require.NoError(t, err)

			f.clock.Advance(tt.advance)
			_, err = f.svc.ConfirmVerification(ctx, "ann@example.com", "123456")
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)
				list, lerr := f.contacts.List(ctx)
				require.NoError(t, lerr)
				assert.Empty(t, list)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerification_ConfirmWithoutPending(t *testing.T) {
	f := newVerificationFixture(t)

	_, err := f.svc.ConfirmVerification(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)

	_, err = f.svc.ConfirmVerification(context.Background(), "", "123456")
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)

	_, err = f.svc.ConfirmVerification(context.Background(), "nobody@example.com", "")
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)
}

func TestVerification_ReissueInvalidatesFirstCode(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, "111111", "222222")

	first, err := f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	second, err := f.svc.InitiateVerification(ctx, "Ann B.", "ann@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, f.clock.Now().Add(30*time.Minute), second.ExpiresAt)

	_, err = f.svc.ConfirmVerification(ctx, "ann@example.com", "111111")
	assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)

	c, err := f.svc.ConfirmVerification(ctx, "ann@example.com", "222222")
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", c.Name)
}

func TestVerification_InitiateForRegisteredEmail(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t)

	_, err := f.contacts.Create(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)

	_, err = f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	assert.ErrorIs(t, err, common.ErrAlreadyRegistered)
	assert.Empty(t, f.sender.Messages())

	// lookups are exact, so a differently cased address is a new email
	_, err = f.svc.InitiateVerification(ctx, "Ann", "Ann@example.com")
	assert.NoError(t, err)
}

func TestVerification_ConfirmAfterDirectCreate(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, "123456")

	_, err := f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)
	_, err = f.contacts.Create(ctx, "Ann (admin)", "ann@example.com")
	require.NoError(t, err)

	_, err = f.svc.ConfirmVerification(ctx, "ann@example.com", "123456")
	assert.ErrorIs(t, err, common.ErrAlreadyRegistered)

	// the transaction rolled back, the pending row is still there
	p, err := f.svc.PendingVerification(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", p.VerificationCode)
}

func TestVerification_InitiateValidation(t *testing.T) {
	f := newVerificationFixture(t)
	ctx := context.Background()

	for _, tc := range []struct{ name, email string }{
		{"", "ann@example.com"},
		{"Ann", ""},
		{"Ann", "not-an-email"},
		{"Ann", " ann@example.com"},
	} {
		_, err := f.svc.InitiateVerification(ctx, tc.name, tc.email)
		assert.ErrorIs(t, err, common.ErrInvalidInput, "%q/%q", tc.name, tc.email)
	}
	assert.Empty(t, f.sender.Messages())
}

func TestVerification_CodeGeneratorFailure(t *testing.T) {
	f := newVerificationFixture(t)
	f.svc.generateCode = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := f.svc.InitiateVerification(context.Background(), "Ann", "ann@example.com")
	require.Error(t, err)
	assert.Equal(t, common.KindInternal, common.KindOf(err))
}

func TestVerification_ConcurrentConfirmCreatesOneContact(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, "123456")

	_, err := f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		others    []error
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := f.svc.ConfirmVerification(ctx, "ann@example.com", "123456")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			others = append(others, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	for _, err := range others {
		assert.ErrorIs(t, err, common.ErrInvalidOrExpiredCode)
	}

	list, err := f.contacts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVerification_PendingVerification(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, "123456")

	_, err := f.svc.PendingVerification(ctx, "ann@example.com")
	assert.ErrorIs(t, err, common.ErrPendingContactNotFound)

	_, err = f.svc.InitiateVerification(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)

	p, err := f.svc.PendingVerification(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)

	f.clock.Advance(time.Hour)
	_, err = f.svc.PendingVerification(ctx, "ann@example.com")
	assert.ErrorIs(t, err, common.ErrPendingContactNotFound)
}
