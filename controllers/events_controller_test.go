package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/princinho/eventbackend/database"
	"github.com/princinho/eventbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func eventBody(title string, start, end float64) gin.H {
	return gin.H{
		"type":        "type-id",
		"title":       title,
		"description": "A night under the stars",
		"location": gin.H{
			"address":     "Forest road 1",
			"coordinates": gin.H{"latitude": 55.5, "longitude": 12.25},
		},
		"startDate": start,
		"endDate":   end,
	}
}

func (f *fixture) owner(externalUserID string) models.User {
	f.t.Helper()
	var users []models.User
	f.find(database.EnabledUsers, bson.M{"externalAccountId": externalUserID}, &users)
	require.Len(f.t, users, 1)
	return users[0]
}

func (f *fixture) submit(header string, body gin.H) models.Event {
	f.t.Helper()
	w := f.do(http.MethodPost, "/events/pending", header, body)
	require.Equal(f.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Event](f.t, w)
}

func (f *fixture) eventsIn(p database.Partition) []models.Event {
	f.t.Helper()
	var events []models.Event
	f.find(string(p), bson.M{}, &events)
	return events
}

func TestEvents_SubmitEchoesInput(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	header := f.signUp("fb-user")

	w := f.do(http.MethodPost, "/events/pending", header, eventBody("Camping", 300, 200))
	assertError(t, w, http.StatusBadRequest, "'startDate' is later than 'endDate'")
	assert.Empty(t, f.eventsIn(database.Pending))

	event := f.submit(header, eventBody("Camping", 100, 200))
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.Event{
		ID:          event.ID,
		Type:        "type-id",
		Title:       "Camping",
		Description: "A night under the stars",
		Location: models.Location{
			Address:     "Forest road 1",
			Coordinates: models.Coordinates{Latitude: 55.5, Longitude: 12.25},
		},
		StartDate: 100,
		EndDate:   200,
	}, event)

	pending := f.eventsIn(database.Pending)
	require.Len(t, pending, 1)
	assert.Equal(t, event, pending[0])
	assert.Equal(t, []string{event.ID}, f.owner("fb-user").Events)
}

func TestEvents_SubmitRequiresUserCredential(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")

	w := f.do(http.MethodPost, "/events/pending", `{"token":"made-up"}`, eventBody("Camping", 100, 200))
	assertError(t, w, http.StatusUnauthorized, "Credential was invalid")

	w = f.do(http.MethodPost, "/events/pending", adminHeader, eventBody("Camping", 100, 200))
	assertError(t, w, http.StatusUnauthorized, "Credential was invalid")
}

func TestEvents_SubmitValidationMessages(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	header := f.signUp("fb-user")

	body := eventBody(strings.Repeat("t", 101), 100, 200)
	assertError(t, f.do(http.MethodPost, "/events/pending", header, body), http.StatusBadRequest, "'title' is too long")

	body = eventBody("Camping", 100, 200)
	body["type"] = "unknown"
	assertError(t, f.do(http.MethodPost, "/events/pending", header, body), http.StatusBadRequest, "Event type does not exist")

	body = eventBody("Camping", 100, 200)
	delete(body, "location")
	assertError(t, f.do(http.MethodPost, "/events/pending", header, body), http.StatusBadRequest, "Does not specify exactly the required fields")

	assertError(t, f.do(http.MethodPost, "/events/pending", header, "[]"), http.StatusBadRequest, "No input")
}

func TestEvents_SubmitValidatesBeforeOwnerLookup(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	r := gin.New()
	r.POST("/events/pending", func(c *gin.Context) {
		c.Set("credential", &models.Credential{ID: "credential-id", Role: models.RoleUser, SubjectID: "gone"})
	}, f.app.SubmitEvent())

	send := func(body gin.H) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/events/pending", bytes.NewReader(raw)))
		return w
	}

	assertError(t, send(eventBody("Camping", 300, 200)), http.StatusBadRequest, "'startDate' is later than 'endDate'")
	assertError(t, send(eventBody("Camping", 100, 200)), http.StatusInternalServerError, "User does not exist")
	assert.Empty(t, f.eventsIn(database.Pending))
}

func TestEvents_ApproveAndReject(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	event := f.submit(f.signUp("fb-user"), eventBody("Camping", 100, 200))

	assertMessage(t, f.do(http.MethodPost, "/events/"+event.ID+"/approve", adminHeader, nil), http.StatusOK, "The event was approved")
	assertError(t, f.do(http.MethodPost, "/events/"+event.ID+"/approve", adminHeader, nil), http.StatusBadRequest, "The event was already approved")
	assert.Empty(t, f.eventsIn(database.Pending))
	assert.Len(t, f.eventsIn(database.Approved), 1)

	w := f.do(http.MethodGet, "/events/approved", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.Event{event}, decode[[]models.Event](t, w))

	assertMessage(t, f.do(http.MethodPost, "/events/"+event.ID+"/reject", adminHeader, nil), http.StatusOK, "The event was rejected")
	assertError(t, f.do(http.MethodPost, "/events/"+event.ID+"/reject", adminHeader, nil), http.StatusBadRequest, "The event was already rejected")
	assert.Empty(t, f.eventsIn(database.Approved))

	w = f.do(http.MethodGet, "/events/rejected", adminHeader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.Event{event}, decode[[]models.Event](t, w))

	assertMessage(t, f.do(http.MethodPost, "/events/"+event.ID+"/approve", adminHeader, nil), http.StatusOK, "The event was approved")
	assertError(t, f.do(http.MethodPost, "/events/ghost/approve", adminHeader, nil), http.StatusBadRequest, "The event could not be found")
}

func TestEvents_AdminCreatesApproved(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")

	w := f.do(http.MethodPost, "/events/approved", adminHeader, eventBody("Concert", 100, 100))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	event := decode[models.Event](t, w)
	assert.Equal(t, []models.Event{event}, f.eventsIn(database.Approved))
}

func TestEvents_Update(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	event := f.submit(f.signUp("fb-user"), eventBody("Camping", 100, 200))

	w := f.do(http.MethodPut, "/events/"+event.ID, adminHeader, gin.H{"title": "Glamping"})
	assertMessage(t, w, http.StatusOK, "Successfully edited the event")

	pending := f.eventsIn(database.Pending)
	require.Len(t, pending, 1)
	assert.Equal(t, "Glamping", pending[0].Title)
	assert.Equal(t, event.Description, pending[0].Description)

	w = f.do(http.MethodPut, "/events/"+event.ID, adminHeader, gin.H{"startDate": 500.0})
	assertError(t, w, http.StatusBadRequest, "'endDate' is not a number")

	w = f.do(http.MethodPut, "/events/"+event.ID, adminHeader, gin.H{})
	assertError(t, w, http.StatusBadRequest, "No fields specified")

	w = f.do(http.MethodPut, "/events/ghost", adminHeader, gin.H{"title": "Glamping"})
	assertError(t, w, http.StatusBadRequest, "The event could not be found")
}

func TestEvents_DeleteOwnEvent(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	owner := f.signUp("owner")
	stranger := f.signUp("stranger")
	event := f.submit(owner, eventBody("Camping", 100, 200))

	assertError(t, f.do(http.MethodDelete, "/events/"+event.ID, stranger, nil), http.StatusUnauthorized, "User does not own the event")
	assertError(t, f.do(http.MethodDelete, "/events/"+event.ID, owner, nil), http.StatusBadRequest, "No matching events")

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/events/"+event.ID+"/approve", adminHeader, nil).Code)
	assertMessage(t, f.do(http.MethodDelete, "/events/"+event.ID, owner, nil), http.StatusOK, "Deleted the event")
	assert.Empty(t, f.eventsIn(database.Approved))
	assert.Empty(t, f.owner("owner").Events)
}

func TestEvents_AdminDeleteEverywhere(t *testing.T) {
	f := newFixture(t)
	f.addEventType("type-id", "Outdoors")
	event := f.submit(f.signUp("fb-user"), eventBody("Camping", 100, 200))

	assertMessage(t, f.do(http.MethodDelete, "/events/admin/"+event.ID, adminHeader, nil), http.StatusOK, "Deleted the event")
	assert.Empty(t, f.eventsIn(database.Pending))
	assert.Empty(t, f.owner("fb-user").Events)

	assertError(t, f.do(http.MethodDelete, "/events/admin/"+event.ID, adminHeader, nil), http.StatusBadRequest, "No matching events")
}
