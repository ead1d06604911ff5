package controllers

import (
	"net/http"
	"testing"

	"civiclens-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// Handler tests against the driver's mock deployment: responses are queued
// per store call, and the impact-counter writes are observed through the
// command monitor.

func newMockNGOController(mt *mtest.T) *NGOController {
	return &NGOController{
		ngos:     mt.DB.Collection("ngos"),
		users:    mt.DB.Collection("users"),
		issues:   mt.DB.Collection("issues"),
		profiles: mt.DB.Collection("profiles"),
	}
}

func ngoDoc(name, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "name", Value: name},
		{Key: "email", Value: email},
	}
}

func issueDoc(id primitive.ObjectID, status models.IssueStatus, claimedBy string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Pothole on Main St"},
		{Key: "status", Value: string(status)},
		{Key: "claimedByNgo", Value: claimedBy},
		{Key: "reporterName", Value: "Asha"},
	}
}

// ngoCounterWrites returns the update commands that targeted the ngos
// collection.
func ngoCounterWrites(mt *mtest.T) []string {
	var out []string
	for _, evt := range mt.GetAllStartedEvents() {
		if evt.CommandName != "update" {
			continue
		}
		if evt.Command.Lookup("update").StringValue() != "ngos" {
			continue
		}
		out = append(out, evt.Command.String())
	}
	return out
}

func TestNGOClaimIncrementsClaimedCounterOnce(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("claim", func(mt *mtest.T) {
		n := newMockNGOController(mt)
		issueID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "civiclens.ngos", mtest.FirstBatch, ngoDoc("GreenCity", "green@city.org")),
			mtest.CreateCursorResponse(0, "civiclens.issues", mtest.FirstBatch, issueDoc(issueID, models.StatusInProgress, "")),
			mtest.CreateSuccessResponse(), // issue claim write
			mtest.CreateSuccessResponse(), // claimed counter write
		)

		w := postJSON(mt.T, n.ClaimIssue, `{"ngoEmail":"green@city.org"}`, gin.Params{{Key: "id", Value: issueID.Hex()}})
		require.Equal(mt.T, http.StatusOK, w.Code)

		body := w.Body.String()
		assert.Contains(mt.T, body, `"claimedByNgo":"GreenCity"`)
		assert.Contains(mt.T, body, `"claimStatus":"claimed"`)
		assert.Contains(mt.T, body, `"status":"community-in-progress"`)

		writes := ngoCounterWrites(mt)
		require.Len(mt.T, writes, 1)
		assert.Contains(mt.T, writes[0], "impactStats.issuesClaimed")
	})
}

func TestNGOUpdateSolvedCounter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("solved by the claimant credits once", func(mt *mtest.T) {
		n := newMockNGOController(mt)
		issueID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "civiclens.ngos", mtest.FirstBatch, ngoDoc("GreenCity", "green@city.org")),
			mtest.CreateCursorResponse(0, "civiclens.issues", mtest.FirstBatch, issueDoc(issueID, models.StatusCommunityInProgress, "GreenCity")),
			mtest.CreateSuccessResponse(), // issue update write
			mtest.CreateSuccessResponse(), // solved counter write
		)

		body := `{"ngoEmail":"green@city.org","text":"patched and sealed","status":"solved"}`
		w := postJSON(mt.T, n.UpdateIssue, body, gin.Params{{Key: "id", Value: issueID.Hex()}})
		require.Equal(mt.T, http.StatusOK, w.Code)
		assert.Contains(mt.T, w.Body.String(), `"claimStatus":"solved"`)

		writes := ngoCounterWrites(mt)
		require.Len(mt.T, writes, 1)
		assert.Contains(mt.T, writes[0], "impactStats.issuesSolved")
	})

	mt.Run("no credit for a different claimant", func(mt *mtest.T) {
		n := newMockNGOController(mt)
		issueID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "civiclens.ngos", mtest.FirstBatch, ngoDoc("GreenCity", "green@city.org")),
			mtest.CreateCursorResponse(0, "civiclens.issues", mtest.FirstBatch, issueDoc(issueID, models.StatusCommunityInProgress, "BlueTown")),
			mtest.CreateSuccessResponse(), // issue update write
		)

		body := `{"ngoEmail":"green@city.org","text":"looked into it","status":"solved"}`
		w := postJSON(mt.T, n.UpdateIssue, body, gin.Params{{Key: "id", Value: issueID.Hex()}})
		require.Equal(mt.T, http.StatusOK, w.Code)

		assert.Empty(mt.T, ngoCounterWrites(mt))
	})

	mt.Run("no credit on an unclaimed issue", func(mt *mtest.T) {
		n := newMockNGOController(mt)
		issueID := primitive.NewObjectID()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "civiclens.ngos", mtest.FirstBatch, ngoDoc("GreenCity", "green@city.org")),
			mtest.CreateCursorResponse(0, "civiclens.issues", mtest.FirstBatch, issueDoc(issueID, models.StatusInProgress, "")),
			mtest.CreateSuccessResponse(), // issue update write
		)

		body := `{"ngoEmail":"green@city.org","text":"resolved upstream","status":"resolved"}`
		w := postJSON(mt.T, n.UpdateIssue, body, gin.Params{{Key: "id", Value: issueID.Hex()}})
		require.Equal(mt.T, http.StatusOK, w.Code)

		assert.Empty(mt.T, ngoCounterWrites(mt))
	})
}

func TestNGOSignupRollsBackUserOnNGOInsertFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("orphaned user removed", func(mt *mtest.T) {
		n := newMockNGOController(mt)
		n.passcode = "letmein"

		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "civiclens.ngos", mtest.FirstBatch), // no existing NGO
			mtest.CreateSuccessResponse(),                                     // user insert
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(), // compensating user delete
		)

		body := `{"name":"GreenCity","email":"green@city.org","password":"secret1","passcode":"letmein"}`
		w := postJSON(mt.T, n.Signup, body, nil)
		require.Equal(mt.T, http.StatusInternalServerError, w.Code)

		deletes := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "delete" && evt.Command.Lookup("delete").StringValue() == "users" {
				deletes++
			}
		}
		assert.Equal(mt.T, 1, deletes)
	})
}
