package dialog

import (
	"context"
	"errors"
	"eventdesk/common/errs"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type vendorForm struct {
	Name  string
	Email string
}

func validateVendor(v vendorForm) error {
	fields := map[string]string{}
	if v.Name == "" {
		fields["name"] = "required"
	}
	if len(fields) > 0 {
		return errs.Validation(fields)
	}
	return nil
}

type DialogTestSuite struct {
	suite.Suite

	calls    int
	result   error
	dialog   *Dialog[vendorForm, string]
	defaults vendorForm
}

func (s *DialogTestSuite) SetupTest() {
	s.calls = 0
	s.result = nil
	s.defaults = vendorForm{Email: "ops@example.com"}
	s.dialog = New(s.defaults, validateVendor, func(ctx context.Context, v vendorForm) (string, error) {
		s.calls++
		if s.result != nil {
			return "", s.result
		}
		return "created " + v.Name, nil
	})
}

func (s *DialogTestSuite) TestSubmitSuccessResets() {
	s.dialog.Open(vendorForm{Name: "Acme"})
	s.Equal(Editing, s.dialog.State())

	res, err := s.dialog.Submit(context.Background())
	s.Require().NoError(err)
	s.Equal("created Acme", res)
	s.Equal(1, s.calls)
	s.Equal(Closed, s.dialog.State())
	s.Equal(s.defaults, s.dialog.Values())
}

func (s *DialogTestSuite) TestValidationBlocksCall() {
	s.dialog.Open(vendorForm{})

	_, err := s.dialog.Submit(context.Background())
	s.Error(err)
	s.Equal(0, s.calls)
	s.Equal(Editing, s.dialog.State())
	s.Equal(map[string]string{"name": "required"}, s.dialog.FieldErrors())
	s.Empty(s.dialog.Banner())

	s.Require().NoError(s.dialog.Update(vendorForm{Name: "Acme"}))
	_, err = s.dialog.Submit(context.Background())
	s.NoError(err)
	s.Nil(s.dialog.FieldErrors())
}

func (s *DialogTestSuite) TestUpstreamFieldErrors() {
	s.result = &errs.HttpError{Code: http.StatusUnprocessableEntity, Message: "The email has already been taken.",
		Data: map[string]string{"email": "The email has already been taken."}}
	s.dialog.Open(vendorForm{Name: "Acme", Email: "taken@example.com"})

	_, err := s.dialog.Submit(context.Background())
	s.Error(err)
	s.Equal(1, s.calls)
	s.Equal(Editing, s.dialog.State())
	s.Equal(map[string]string{"email": "The email has already been taken."}, s.dialog.FieldErrors())
	s.Empty(s.dialog.Banner())
	s.Equal(vendorForm{Name: "Acme", Email: "taken@example.com"}, s.dialog.Values())
}

func (s *DialogTestSuite) TestUpstreamFailureBanner() {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "upstream message", err: &errs.HttpError{Code: http.StatusBadGateway, Message: "Vendor service unavailable"}, expected: "Vendor service unavailable"},
		{name: "plain error", err: errors.New("dial tcp: connection refused"), expected: errs.DefaultMessage},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.result = tc.err
			s.dialog.Open(vendorForm{Name: "Acme"})

			_, err := s.dialog.Submit(context.Background())
			s.ErrorIs(err, tc.err)
			s.Equal(Editing, s.dialog.State())
			s.Equal(tc.expected, s.dialog.Banner())
			s.Nil(s.dialog.FieldErrors())
		})
	}
}

func (s *DialogTestSuite) TestClosedDialog() {
	_, err := s.dialog.Submit(context.Background())
	s.ErrorIs(err, ErrNotOpen)
	s.ErrorIs(s.dialog.Update(vendorForm{}), ErrNotOpen)
	s.Equal(0, s.calls)
}

func (s *DialogTestSuite) TestCloseResets() {
	s.dialog.Open(vendorForm{})
	_, _ = s.dialog.Submit(context.Background())
	s.NotNil(s.dialog.FieldErrors())

	s.dialog.Close()
	s.Equal(Closed, s.dialog.State())
	s.Nil(s.dialog.FieldErrors())
	s.Equal(s.defaults, s.dialog.Values())
}

func TestDialogTestSuite(t *testing.T) {
	suite.Run(t, new(DialogTestSuite))
}

func TestSubmitWhileSubmitting(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	d := New(0, nil, func(ctx context.Context, v int) (int, error) {
		close(started)
		<-release
		return v * 2, nil
	})
	d.Open(21)

	var (
		wg  sync.WaitGroup
		res int
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err = d.Submit(context.Background())
	}()

	<-started
	assert.Equal(t, Submitting, d.State())

	_, second := d.Submit(context.Background())
	assert.ErrorIs(t, second, ErrSubmitting)
	assert.ErrorIs(t, d.Update(1), ErrSubmitting)

	close(release)
	wg.Wait()

	require.NoError(t, err)
	assert.Equal(t, 42, res)
	assert.Equal(t, Closed, d.State())
}

func TestRun(t *testing.T) {
	res, err := Run(context.Background(), vendorForm{Name: "Acme"}, validateVendor, func(ctx context.Context, v vendorForm) (string, error) {
		return v.Name, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", res)

	_, err = Run(context.Background(), vendorForm{}, validateVendor, func(ctx context.Context, v vendorForm) (string, error) {
		t.Fatal("submit must not run for invalid values")
		return "", nil
	})
	assert.Equal(t, map[string]string{"name": "required"}, errs.FieldErrors(err))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "editing", Editing.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "unknown", State(9).String())
}
