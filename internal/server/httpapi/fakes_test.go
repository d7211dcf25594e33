package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/todopoc/internal/logging"
	"github.com/dmitrijs2005/todopoc/internal/server/models"
	"github.com/stretchr/testify/require"
)

type fakeContacts struct {
	list      []*models.Contact
	created   *models.Contact
	err       error
	gotID     string
	gotName   string
	gotEmail  string
	deletedID string
}

func (f *fakeContacts) List(context.Context) ([]*models.Contact, error) { return f.list, f.err }

func (f *fakeContacts) Create(_ context.Context, name, email string) (*models.Contact, error) {
	f.gotName, f.gotEmail = name, email
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeContacts) Update(_ context.Context, id, name, email string) (*models.Contact, error) {
	f.gotID, f.gotName, f.gotEmail = id, name, email
	if f.err != nil {
		return nil, f.err
	}
	return &models.Contact{ID: id, Name: name, Email: email}, nil
}

func (f *fakeContacts) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return f.err
}

type fakeVerification struct {
	pending  *models.PendingContact
	contact  *models.Contact
	err      error
	gotEmail string
	gotCode  string
}

func (f *fakeVerification) InitiateVerification(_ context.Context, name, email string) (*models.PendingContact, error) {
	f.gotEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return f.pending, nil
}

func (f *fakeVerification) ConfirmVerification(_ context.Context, email, code string) (*models.Contact, error) {
	f.gotEmail, f.gotCode = email, code
	if f.err != nil {
		return nil, f.err
	}
	return f.contact, nil
}

func (f *fakeVerification) PendingVerification(_ context.Context, email string) (*models.PendingContact, error) {
	f.gotEmail = email
	if f.err != nil {
		return nil, f.err
	}
	return f.pending, nil
}

type fakeTasks struct {
	list     []*models.TaskView
	view     *models.TaskView
	err      error
	gotText  string
	gotDue   *models.Date
	gotEmail string
	gotID    string
	gotPatch models.TaskPatch
}

func (f *fakeTasks) List(context.Context) ([]*models.TaskView, error) { return f.list, f.err }

func (f *fakeTasks) Create(_ context.Context, text string, due *models.Date, email string) (*models.TaskView, error) {
	f.gotText, f.gotDue, f.gotEmail = text, due, email
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeTasks) Update(_ context.Context, id string, p models.TaskPatch) (*models.TaskView, error) {
	f.gotID, f.gotPatch = id, p
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeTasks) Delete(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testServer struct {
	*HTTPServer
	contacts     *fakeContacts
	verification *fakeVerification
	tasks        *fakeTasks
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		contacts:     &fakeContacts{},
		verification: &fakeVerification{},
		tasks:        &fakeTasks{},
	}
	s, err := NewHTTPServer("127.0.0.1:0", time.Second, logging.Nop(), ts.contacts, ts.verification, ts.tasks, fakePinger{})
	require.NoError(t, err)
	ts.HTTPServer = s
	return ts
}

var errStore = errors.New("db error: connection refused")
