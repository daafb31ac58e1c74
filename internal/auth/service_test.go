package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

type fakeIdentityAPI struct {
	status   int
	response any
	err      error
	gotBody  any
	calls    int
}

func (f *fakeIdentityAPI) Post(ctx context.Context, sess *session.Session, path string, body, out any) (int, error) {
	f.calls++
	f.gotBody = body
	if f.err != nil {
		return 0, f.err
	}
	if f.response != nil && out != nil {
		data, _ := json.Marshal(f.response)
		json.Unmarshal(data, out)
	}
	return f.status, nil
}

func TestLogin(t *testing.T) {
	api := &fakeIdentityAPI{
		status: http.StatusCreated,
		response: map[string]any{
			"accessToken":  "tok",
			"refreshToken": "ref",
			"name":         "Asha",
			"empId":        "EMP42",
			"id":           9,
		},
	}
	svc := NewService(api, zap.NewNop())

	sess, err := svc.Login(context.Background(), Credentials{EmailOrID: "asha@example.com", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "tok", sess.AccessToken)
	assert.Equal(t, "ref", sess.RefreshToken)
	assert.Equal(t, "Asha", sess.Name)
	assert.Equal(t, "EMP42", sess.EmpID)
	assert.Equal(t, "9", sess.UserID)

	assert.Equal(t, map[string]string{"email": "asha@example.com", "password": "pw"}, api.gotBody)
}

func TestLoginMissingFields(t *testing.T) {
	api := &fakeIdentityAPI{status: http.StatusCreated}
	svc := NewService(api, zap.NewNop())

	_, err := svc.Login(context.Background(), Credentials{EmailOrID: "", Password: "pw"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Login(context.Background(), Credentials{EmailOrID: "asha@example.com"})
	assert.ErrorIs(t, err, ErrMissingFields)

	// The validation happens before any network call.
	assert.Equal(t, 0, api.calls)
}

func TestLoginRequiresAcknowledgement(t *testing.T) {
	// The identity API acknowledges a successful login with 201; anything
	// else is a failed login.
	api := &fakeIdentityAPI{status: http.StatusOK}
	svc := NewService(api, zap.NewNop())

	_, err := svc.Login(context.Background(), Credentials{EmailOrID: "a@b.c", Password: "pw"})
	assert.Error(t, err)
}

func TestLoginWithoutNumericID(t *testing.T) {
	api := &fakeIdentityAPI{
		status:   http.StatusCreated,
		response: map[string]any{"accessToken": "tok", "name": "Asha"},
	}
	svc := NewService(api, zap.NewNop())

	sess, err := svc.Login(context.Background(), Credentials{EmailOrID: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, sess.UserID)
}
