package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Validation failures must be rejected before any store access, so these
// tests run against a zero-value controller.

func postJSON(t *testing.T, handler gin.HandlerFunc, body string, params gin.Params) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = params
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestCreateIssueRejectsMissingFields(t *testing.T) {
	ic := &IssueController{}
	w := postJSON(t, ic.CreateIssue, `{"title":"Pothole"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestCreateIssueRejectsUnknownCategory(t *testing.T) {
	ic := &IssueController{}
	body := `{"title":"Pothole","description":"deep","category":"sinkhole","address":"Main St","reporterName":"Asha"}`
	w := postJSON(t, ic.CreateIssue, body, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid category")
}

func TestUpdateIssueStatusRejectsBadID(t *testing.T) {
	ic := &IssueController{}
	w := postJSON(t, ic.UpdateIssueStatus, `{"status":"resolved"}`, gin.Params{{Key: "id", Value: "not-a-hex-id"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid issue ID")
}

func TestUpdateIssueStatusRejectsUnknownStatus(t *testing.T) {
	ic := &IssueController{}
	w := postJSON(t, ic.UpdateIssueStatus, `{"status":"done"}`, gin.Params{{Key: "id", Value: "5f1d7f9a2cda4b0001a1b2c3"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}

func TestClaimIssueRequiresNGOName(t *testing.T) {
	ic := &IssueController{}
	w := postJSON(t, ic.ClaimIssue, `{}`, gin.Params{{Key: "id", Value: "5f1d7f9a2cda4b0001a1b2c3"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddIssueUpdateRequiresText(t *testing.T) {
	ic := &IssueController{}
	w := postJSON(t, ic.AddIssueUpdate, `{}`, gin.Params{{Key: "id", Value: "5f1d7f9a2cda4b0001a1b2c3"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
