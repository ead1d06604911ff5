package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"civiclens-be/models"
	"civiclens-be/notify"
	authUtils "civiclens-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NGOController handles NGO registration, public profiles and the NGO-scoped
// claim/update operations that maintain impact counters.
type NGOController struct {
	ngos     *mongo.Collection
	users    *mongo.Collection
	issues   *mongo.Collection
	profiles *mongo.Collection
	tokens   *authUtils.TokenManager
	notifier *notify.Dispatcher
	passcode string
}

func NewNGOController(db *mongo.Database, tokens *authUtils.TokenManager, notifier *notify.Dispatcher, passcode string) *NGOController {
	return &NGOController{
		ngos:     db.Collection("ngos"),
		users:    db.Collection("users"),
		issues:   db.Collection("issues"),
		profiles: db.Collection("profiles"),
		tokens:   tokens,
		notifier: notifier,
		passcode: passcode,
	}
}

// Signup registers an NGO. Gated by the shared passcode; creates both the
// auth identity and the public NGO record under the same email.
func (n *NGOController) Signup(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Profile  string `json:"profile,omitempty" binding:"max=2000"`
		Passcode string `json:"passcode" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if n.passcode == "" || input.Passcode != n.passcode {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid NGO passcode"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := n.ngos.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		log.Println("Error checking existing NGO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NGO with this email already exists"})
		return
	}

	user := models.User{
		FullName:     input.Name,
		Email:        input.Email,
		Password:     input.Password,
		Role:         models.RoleNGO,
		Organization: input.Name,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	result, err := n.users.InsertOne(ctx, user)
	if err != nil {
		log.Println("Error inserting NGO user:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	ngo := models.NGO{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Profile:   input.Profile,
		Followers: []string{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := n.ngos.InsertOne(ctx, ngo); err != nil {
		log.Println("Error inserting NGO record:", err)
		// roll back the auth identity so the signup can be retried
		if _, derr := n.users.DeleteOne(ctx, bson.M{"_id": result.InsertedID}); derr != nil {
			log.Println("Error removing orphaned NGO user:", derr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	userID := result.InsertedID.(primitive.ObjectID)
	token, err := n.tokens.Generate(userID.Hex(), string(models.RoleNGO))
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    ngo.ID,
		"name":  ngo.Name,
		"email": ngo.Email,
		"token": token,
	})
}

// Login authenticates an NGO user
func (n *NGOController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := n.users.FindOne(ctx, bson.M{"email": input.Email, "role": models.RoleNGO}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !user.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	var ngo models.NGO
	if err := n.ngos.FindOne(ctx, bson.M{"email": input.Email}).Decode(&ngo); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
		return
	}

	token, err := n.tokens.Generate(user.ID.Hex(), string(models.RoleNGO))
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	setAuthCookie(c, token)

	c.JSON(http.StatusOK, gin.H{
		"id":    ngo.ID,
		"name":  ngo.Name,
		"email": ngo.Email,
		"token": token,
	})
}

// GetNGO returns an NGO's public profile
func (n *NGOController) GetNGO(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ngo, ok := n.findNGO(ctx, c, c.Param("email"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ngo)
}

// FollowNGO adds an email to the NGO's follower set. Following twice is a
// no-op thanks to $addToSet.
func (n *NGOController) FollowNGO(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := n.ngos.UpdateOne(ctx, bson.M{"email": c.Param("email")}, bson.M{
		"$addToSet": bson.M{"followers": input.Email},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to follow NGO"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Now following"})
}

// GetNGOStats returns the NGO's impact counters plus live issue counts
func (n *NGOController) GetNGOStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ngo, ok := n.findNGO(ctx, c, c.Param("email"))
	if !ok {
		return
	}

	activeClaims, err := n.issues.CountDocuments(ctx, bson.M{
		"claimedByNgo": ngo.Name,
		"status":       bson.M{"$nin": []models.IssueStatus{models.StatusResolved, models.StatusSolved, models.StatusRejected}},
	})
	if err != nil {
		activeClaims = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"name":         ngo.Name,
		"email":        ngo.Email,
		"impactStats":  ngo.Impact,
		"followers":    len(ngo.Followers),
		"activeClaims": activeClaims,
	})
}

// ClaimIssue is the NGO-scoped claim: it resolves the NGO by email, applies
// the claim to the issue, then bumps issuesClaimed by one. The two writes
// are separate; a failure between them leaves the counter behind and is
// logged, not surfaced. Re-claiming an already-claimed issue overwrites the
// claim and increments again.
func (n *NGOController) ClaimIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		NGOEmail string `json:"ngoEmail" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ngo, ok := n.findNGO(ctx, c, input.NGOEmail)
	if !ok {
		return
	}

	var issue models.Issue
	err = n.issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	now := time.Now()
	change := issue.ApplyClaim(ngo.Name, now)

	_, err = n.issues.UpdateOne(ctx, bson.M{"_id": issue.ID}, bson.M{
		"$set": bson.M{
			"status":       issue.Status,
			"claimedByNgo": issue.ClaimedByNGO,
			"claimStatus":  issue.ClaimStatus,
			"updatedAt":    now,
		},
		"$push": bson.M{"statusHistory": change},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to claim issue"})
		return
	}

	_, err = n.ngos.UpdateOne(ctx, bson.M{"_id": ngo.ID}, bson.M{
		"$inc": bson.M{"impactStats.issuesClaimed": 1},
		"$set": bson.M{"updatedAt": now},
	})
	if err != nil {
		log.Printf("Failed to bump claimed counter for NGO %s: %v", ngo.Name, err)
	}

	notifyReporter(n.profiles, n.notifier, issue,
		fmt.Sprintf("Your issue %q was claimed by %s", issue.Title, ngo.Name),
		fmt.Sprintf("Hello %s,\n\n%s has taken responsibility for your reported issue %q.\n", issue.ReporterName, ngo.Name, issue.Title))

	c.JSON(http.StatusOK, issue)
}

// UpdateIssue is the NGO progress update: appends a free-text entry, and if
// a status is supplied it follows the lifecycle rules. Moving a claimed
// issue into solved/resolved credits the claiming NGO's solved counter
// exactly once per transition.
func (n *NGOController) UpdateIssue(c *gin.Context) {
	issueID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		NGOEmail string `json:"ngoEmail" binding:"required,email"`
		Text     string `json:"text" binding:"required,max=1000"`
		Status   string `json:"status,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Status != "" && !models.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ngo, ok := n.findNGO(ctx, c, input.NGOEmail)
	if !ok {
		return
	}

	var issue models.Issue
	err = n.issues.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	now := time.Now()
	entry := issue.AddUpdate(input.Text, ngo.Name, now)

	set := bson.M{"updatedAt": now}
	push := bson.M{"updates": entry}

	statusChanged := false
	if input.Status != "" {
		change := issue.ApplyStatus(models.IssueStatus(input.Status), ngo.Name, now)
		set["status"] = issue.Status
		push["statusHistory"] = change
		statusChanged = true

		if issue.ShouldCreditSolved(ngo.Name) {
			set["claimStatus"] = models.ClaimSolved
			issue.ClaimStatus = models.ClaimSolved
		} else if issue.ClaimedByNGO == ngo.Name && issue.Status == models.StatusCommunityInProgress {
			set["claimStatus"] = models.ClaimCommunityInProgress
			issue.ClaimStatus = models.ClaimCommunityInProgress
		}
	}

	_, err = n.issues.UpdateOne(ctx, bson.M{"_id": issue.ID}, bson.M{"$set": set, "$push": push})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	if statusChanged && issue.ShouldCreditSolved(ngo.Name) {
		_, err = n.ngos.UpdateOne(ctx, bson.M{"_id": ngo.ID}, bson.M{
			"$inc": bson.M{"impactStats.issuesSolved": 1},
			"$set": bson.M{"updatedAt": now},
		})
		if err != nil {
			log.Printf("Failed to bump solved counter for NGO %s: %v", ngo.Name, err)
		}
	}

	if statusChanged {
		notifyReporter(n.profiles, n.notifier, issue,
			fmt.Sprintf("Your issue %q is now %s", issue.Title, issue.Status),
			fmt.Sprintf("Hello %s,\n\n%s posted an update on your reported issue %q:\n\n%s\n", issue.ReporterName, ngo.Name, issue.Title, input.Text))
	}

	c.JSON(http.StatusOK, issue)
}

// findNGO loads an NGO by email or writes the error response and returns false
func (n *NGOController) findNGO(ctx context.Context, c *gin.Context, email string) (models.NGO, bool) {
	var ngo models.NGO
	err := n.ngos.FindOne(ctx, bson.M{"email": email}).Decode(&ngo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "NGO not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve NGO"})
		}
		return ngo, false
	}
	return ngo, true
}
