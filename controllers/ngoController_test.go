package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNGOSignupRejectsWrongPasscode(t *testing.T) {
	n := &NGOController{passcode: "letmein"}
	body := `{"name":"GreenCity","email":"green@city.org","password":"secret1","passcode":"wrong"}`
	w := postJSON(t, n.Signup, body, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid NGO passcode")
}

func TestNGOSignupRejectsWhenPasscodeUnconfigured(t *testing.T) {
	n := &NGOController{}
	body := `{"name":"GreenCity","email":"green@city.org","password":"secret1","passcode":"anything"}`
	w := postJSON(t, n.Signup, body, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNGOClaimRejectsBadIssueID(t *testing.T) {
	n := &NGOController{passcode: "letmein"}
	w := postJSON(t, n.ClaimIssue, `{"ngoEmail":"green@city.org"}`, gin.Params{{Key: "id", Value: "nope"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid issue ID")
}

func TestNGOUpdateRejectsUnknownStatus(t *testing.T) {
	n := &NGOController{}
	body := `{"ngoEmail":"green@city.org","text":"progress","status":"finished"}`
	w := postJSON(t, n.UpdateIssue, body, gin.Params{{Key: "id", Value: "5f1d7f9a2cda4b0001a1b2c3"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")
}
