package controllers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFacebookLogin_ReplayKeepsOneCredential(t *testing.T) {
	f := newFixture(t)
	first := f.signUp("fb-user")
	second := f.login("fb-user")
	assert.NotEqual(t, first, second)

	var users []models.User
	f.find(database.EnabledUsers, bson.M{"externalAccountId": "fb-user"}, &users)
	require.Len(t, users, 1)

	var credentials []models.Credential
	f.find(database.Credentials, bson.M{"subjectId": users[0].ID}, &credentials)
	require.Len(t, credentials, 1)
	assert.Equal(t, models.RoleUser, credentials[0].Role)
	assert.Equal(t, f.clock.T.Add(72*time.Hour).UnixMilli(), credentials[0].ExpiresAt)

	w := f.do(http.MethodGet, "/login/user", first, nil)
	assertError(t, w, http.StatusUnauthorized, "Credential was invalid")

	w = f.do(http.MethodGet, "/login/user", second, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[models.User](t, w)
	assert.Equal(t, users[0].ID, me.ID)
	assert.Equal(t, "fb-user", me.ExternalAccountID)
	assert.Empty(t, me.Events)
}

func TestFacebookLogin_Rejections(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/login", "", facebookLogin("nobody"))
	assertError(t, w, http.StatusBadRequest, "User does not exist")

	w = f.do(http.MethodPost, "/login", "", gin.H{"externalUserId": "fb-user", "token": "forged"})
	assertError(t, w, http.StatusBadRequest, "Input was invalid")

	w = f.do(http.MethodPost, "/login", "", gin.H{"externalUserId": "fb-user", "token": "broken-token"})
	assertError(t, w, http.StatusBadRequest, "Input was invalid")

	w = f.do(http.MethodPost, "/login", "", gin.H{"externalUserId": "fb-user"})
	assertError(t, w, http.StatusBadRequest, "Input was invalid")

	w = f.do(http.MethodPost, "/login", "", "not json")
	assertError(t, w, http.StatusBadRequest, "Input was invalid")
}

func TestCredentialExpiry(t *testing.T) {
	f := newFixture(t)
	header := f.signUp("fb-user")

	f.clock.T = f.clock.T.Add(72 * time.Hour)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/login/user", header, nil).Code)

	f.clock.T = f.clock.T.Add(time.Millisecond)
	assertError(t, f.do(http.MethodGet, "/login/user", header, nil), http.StatusUnauthorized, "Credential was invalid")
}

func TestCredentialOfDisabledUser(t *testing.T) {
	f := newFixture(t)
	header := f.signUp("fb-user")

	var users []models.User
	f.find(database.EnabledUsers, bson.M{}, &users)
	require.Len(t, users, 1)
	w := f.do(http.MethodPost, "/users/"+users[0].ID+"/disable", adminHeader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assertError(t, f.do(http.MethodGet, "/login/user", header, nil), http.StatusUnauthorized, "Credential was invalid")
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/login/admin", "", adminHeader)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, adminHeader, w.Body.String())

	w = f.do(http.MethodPost, "/login/admin", "", gin.H{"username": "administrator", "password": "guess"})
	assertError(t, w, http.StatusUnauthorized, "Invalid admin login")

	w = f.do(http.MethodPost, "/login/admin", "", gin.H{"username": "administrator"})
	assertError(t, w, http.StatusUnauthorized, "Invalid admin login")
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	f := newFixture(t)

	for _, header := range []string{"", "administrator", `{"username":"administrator","password":"guess"}`} {
		w := f.do(http.MethodGet, "/events/pending", header, nil)
		assertError(t, w, http.StatusUnauthorized, "Invalid admin login")
	}
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/events/pending", adminHeader, nil).Code)
}

func TestPasswordLogin(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/users/accounts", "", gin.H{
		"avatar":   "data:image/png;base64,aGVsbG8=",
		"email":    "someone@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/login/password", "", gin.H{"email": "someone@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	account := decode[map[string]any](t, w)
	assert.Equal(t, "someone@example.com", account["email"])
	assert.NotContains(t, account, "passwordHash")

	w = f.do(http.MethodPost, "/login/password", "", gin.H{"email": "someone@example.com", "password": "wrong"})
	assertError(t, w, http.StatusUnauthorized, "Invalid login")
}

func TestPasswordLogin_MultibytePassword(t *testing.T) {
	f := newFixture(t)
	password := strings.Repeat("密", 30)
	w := f.do(http.MethodPost, "/users/accounts", "", gin.H{
		"avatar":   "data:image/png;base64,aGVsbG8=",
		"email":    "cjk@example.com",
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodPost, "/login/password", "", gin.H{"email": "cjk@example.com", "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cjk@example.com", decode[models.Account](t, w).Email)

	w = f.do(http.MethodPost, "/login/password", "", gin.H{"email": "cjk@example.com", "password": strings.Repeat("密", 29)})
	assertError(t, w, http.StatusUnauthorized, "Invalid login")
}
