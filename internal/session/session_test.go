package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"citycut/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func testUser(role model.Role) *model.User {
	return &model.User{ID: uuid.New(), Email: "sales@citycut.com", Role: role}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	u := testUser(model.RoleSalesRep)

	tok, err := m.Issue(u)
	require.NoError(t, err)

	p, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, model.RoleSalesRep, p.Role)
	assert.NotEqual(t, model.RoleAdmin, p.Role)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager(testSecret, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue(testUser(model.RoleAdmin))
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := NewManager("another_secret_that_is_long_enough", time.Hour).Issue(testUser(model.RoleAdmin))
	require.NoError(t, err)

	_, err = NewManager(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_UnknownRoleRejected(t *testing.T) {
	claims := Claims{
		UserID: uuid.NewString(),
		Role:   "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewManager(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_NoneAlgorithmRejected(t *testing.T) {
	claims := jwt.MapClaims{"user_id": uuid.NewString(), "role": "ADMIN", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager(testSecret, time.Hour).Verify(tok)
	assert.Error(t, err)
}

func TestTokenOracle_CookieThenBearer(t *testing.T) {
	m := NewManager(testSecret, time.Hour)
	o := NewTokenOracle(m)
	admin := testUser(model.RoleAdmin)
	tok, err := m.Issue(admin)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	_, err = o.Session(r)
	assert.ErrorIs(t, err, ErrNoSession)

	r.AddCookie(&http.Cookie{Name: CookieName, Value: tok})
	p, err := o.Session(r)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, p.Role)

	r2 := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r2.Header.Set("Authorization", "Bearer "+tok)
	p, err = o.Session(r2)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, p.UserID)
}
