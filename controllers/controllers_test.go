package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/dto"
	"github.com/princinho/eventbackend/models"
	"github.com/princinho/eventbackend/utils"
	"github.com/princinho/eventbackend/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const adminHeader = `{"username":"administrator","password":"some-password"}`

// fakeFacebook accepts "valid-token" for any user and fails introspection
// for "broken-token".
type fakeFacebook struct{}

func (fakeFacebook) LoadData(_ context.Context, login dto.FacebookLoginDTO) (*utils.TokenData, error) {
	if login.Token == "broken-token" {
		return nil, errors.New("graph unavailable")
	}
	return &utils.TokenData{UserID: login.ExternalUserID, IsValid: true}, nil
}

func (fakeFacebook) ValidateData(login dto.FacebookLoginDTO, _ []string, data *utils.TokenData) bool {
	return login.Token == "valid-token" && data.UserID == login.ExternalUserID
}

type fixture struct {
	t      *testing.T
	app    *App
	db     *database.MemoryDatabase
	clock  *utils.FixedClock
	router *gin.Engine
	logs   *bytes.Buffer
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewMemoryDatabase()
	clock := &utils.FixedClock{T: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	factory := utils.NewFactory(clock)
	fields := validation.NewFields()
	logs := &bytes.Buffer{}

	app := &App{
		Store:       database.NewStore(db),
		Factory:     factory,
		Credentials: validation.NewCredentials(db, clock, fakeFacebook{}, fields),
		Inputs:      validation.NewInputs(db, fields),
		Images:      utils.NewCollectionImageStore(db.Collection(database.Images), factory),
		Logger:      log.New(logs, "", 0),
	}

	ctx := context.Background()
	require.NoError(t, utils.SeedAdministrator(ctx, db.Collection(database.Administrators), factory, "administrator", "some-password"))
	require.NoError(t, utils.SeedSettings(ctx, db.Collection(database.Settings), factory))

	r := gin.New()
	app.RegisterRoutes(r)
	return &fixture{t: t, app: app, db: db, clock: clock, router: r, logs: logs}
}

func (f *fixture) do(method, path, authorization string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) insert(collection string, docs ...any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Collection(collection).Insert(context.Background(), docs...))
}

func (f *fixture) find(collection string, filter bson.M, out any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Collection(collection).Find(context.Background(), filter, out))
}

func facebookLogin(externalUserID string) gin.H {
	return gin.H{"externalUserId": externalUserID, "token": "valid-token"}
}

// signUp registers and logs in a Facebook user and returns the
// Authorization header for user routes.
func (f *fixture) signUp(externalUserID string) string {
	f.t.Helper()
	w := f.do(http.MethodPost, "/users/enabled", "", facebookLogin(externalUserID))
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	return f.login(externalUserID)
}

func (f *fixture) login(externalUserID string) string {
	f.t.Helper()
	w := f.do(http.MethodPost, "/login", "", facebookLogin(externalUserID))
	require.Equal(f.t, http.StatusOK, w.Code, w.Body.String())
	var credential models.StrippedCredential
	require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &credential))
	header, err := json.Marshal(credential)
	require.NoError(f.t, err)
	return string(header)
}

func (f *fixture) addEventType(id, name string) {
	f.t.Helper()
	f.insert(database.EventTypes, models.EventType{ID: id, Name: name, Color: models.Color{R: 10, G: 20, B: 30, A: 1}})
}

func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	assert.JSONEq(t, `{"error":`+quote(message)+`}`, w.Body.String())
}

func assertMessage(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	assert.Equal(t, status, w.Code)
	assert.JSONEq(t, `{"message":`+quote(message)+`}`, w.Body.String())
}

func quote(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
