package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yallahq/yalla-api/internal/constants"
	"github.com/yallahq/yalla-api/internal/middleware"
	"github.com/yallahq/yalla-api/internal/models"
	"github.com/yallahq/yalla-api/internal/repository"
	"github.com/yallahq/yalla-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// YallaHandlerTestSuite defines the test suite for YallaHandler
type YallaHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

// SetupTest runs before each test
func (suite *YallaHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Circle{},
		&models.CircleMember{},
		&models.Yalla{},
		&models.Vote{},
		&models.Notification{},
		&models.Board{},
		&models.Column{},
		&models.Item{},
	)
	suite.Require().NoError(err)

	circleRepo := repository.NewCircleRepository(suite.db)
	yallaRepo := repository.NewYallaRepository(suite.db)
	notificationRepo := repository.NewNotificationRepository(suite.db)
	boardRepo := repository.NewBoardRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)

	notificationService := services.NewNotificationService(notificationRepo, yallaRepo, circleRepo, boardRepo, userRepo)
	yallaService := services.NewYallaService(yallaRepo, circleRepo, notificationService)
	handler := NewYallaHandler(yallaService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	yallas := suite.router.Group("/api/yallas", middleware.RequireAuth())
	yallas.GET("", handler.ListUserYallas)
	yallas.POST("", handler.CreateYalla)
	yallas.PATCH("/:yallaId", handler.UpdateYalla)
	yallas.DELETE("/:yallaId", handler.DeleteYalla)
	yallas.POST("/:yallaId/votes", handler.VoteOnYalla)
	yallas.DELETE("/:yallaId/votes", handler.RemoveVote)

	circles := suite.router.Group("/api/circles", middleware.RequireAuth())
	circles.GET("/:circleId/yallas", handler.ListCircleYallas)
}

// TearDownTest runs after each test
func (suite *YallaHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *YallaHandlerTestSuite) request(method, url string, body interface{}, authUserID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if authUserID != "" {
		req.Header.Set(constants.HeaderAuthUserID, authUserID)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *YallaHandlerTestSuite) createTestCircle(adminID string, policy models.AssignmentPolicy, memberIDs ...string) *models.Circle {
	circle := &models.Circle{
		ID:                    "circle-" + adminID,
		Name:                  "Circle",
		Color:                 "#00ff00",
		AdminID:               adminID,
		AssignmentPermissions: policy,
	}
	suite.db.Create(circle)

	suite.db.Create(&models.CircleMember{
		CircleID: circle.ID,
		UserID:   adminID,
		Role:     models.CircleRoleAdmin,
	})
	for _, id := range memberIDs {
		suite.db.Create(&models.CircleMember{
			CircleID: circle.ID,
			UserID:   id,
			Role:     models.CircleRoleMember,
		})
	}
	return circle
}

func (suite *YallaHandlerTestSuite) createTestYalla(id, circleID, creatorID string, yallaType models.YallaType) *models.Yalla {
	yalla := &models.Yalla{
		ID:        id,
		Title:     "Do the thing",
		Type:      yallaType,
		CreatorID: creatorID,
		CircleID:  circleID,
		Status:    models.YallaStatusPending,
		Priority:  1,
	}
	suite.db.Create(yalla)
	return yalla
}

// TestCreateYalla_NonMemberForbidden tests the membership gate on creation
func (suite *YallaHandlerTestSuite) TestCreateYalla_NonMemberForbidden() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers)

	w := suite.request("POST", "/api/yallas", map[string]interface{}{
		"title":    "Outsider task",
		"type":     "community",
		"circleId": circle.ID,
	}, "user_outsider")

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCreateYalla_AssignedAdminOnly tests that a member cannot create an
// assigned yalla under the admin-only policy
func (suite *YallaHandlerTestSuite) TestCreateYalla_AssignedAdminOnly() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAdminOnly, "user_member")

	w := suite.request("POST", "/api/yallas", map[string]interface{}{
		"title":      "Assigned task",
		"type":       "assigned",
		"circleId":   circle.ID,
		"assignedTo": []string{"user_member"},
	}, "user_member")

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Only admins can create assigned yallas in this circle", response["message"])
}

// TestCreateYalla_AssignedNotifiesAssignees tests the assignment fan-out:
// every assignee except the creator gets a notification
func (suite *YallaHandlerTestSuite) TestCreateYalla_AssignedNotifiesAssignees() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAdminOnly, "user_a", "user_b")

	w := suite.request("POST", "/api/yallas", map[string]interface{}{
		"title":      "Team task",
		"type":       "assigned",
		"circleId":   circle.ID,
		"assignedTo": []string{"user_a", "user_b", "user_admin"},
	}, "user_admin")

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var count int64
	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotificationAssignment).Count(&count)
	assert.Equal(suite.T(), int64(2), count)

	// The triggering admin is never notified
	suite.db.Model(&models.Notification{}).Where("user_id = ?", "user_admin").Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateYalla_CompletionImageAtCreation tests that an image reference
// supplied on create is stored with the yalla
func (suite *YallaHandlerTestSuite) TestCreateYalla_CompletionImageAtCreation() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers)

	w := suite.request("POST", "/api/yallas", map[string]interface{}{
		"title":           "Show and tell",
		"type":            "community",
		"circleId":        circle.ID,
		"completionImage": "storage-ref-1",
	}, "user_admin")

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	var yalla models.Yalla
	err = suite.db.Where("id = ?", response["id"]).First(&yalla).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "storage-ref-1", *yalla.CompletionImage)
}

// TestVoteOnYalla_UpsertLastWriteWins tests that a repeat vote replaces the
// previous value instead of adding a row
func (suite *YallaHandlerTestSuite) TestVoteOnYalla_UpsertLastWriteWins() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": 1,
	}, "user_member")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": -1,
	}, "user_member")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var votes []models.Vote
	suite.db.Where("yalla_id = ?", yalla.ID).Find(&votes)
	assert.Len(suite.T(), votes, 1)
	assert.Equal(suite.T(), -1, votes[0].Value)
}

// TestVoteOnYalla_CommunityOnly tests that assigned yallas reject votes
func (suite *YallaHandlerTestSuite) TestVoteOnYalla_CommunityOnly() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-a", circle.ID, "user_admin", models.YallaTypeAssigned)

	w := suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": 1,
	}, "user_member")

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Can only vote on community yallas", response["message"])
}

// TestVoteOnYalla_NonMemberThenMember tests that a vote is rejected before
// membership and accepted after
func (suite *YallaHandlerTestSuite) TestVoteOnYalla_NonMemberThenMember() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers)
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": 1,
	}, "user_late")
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	suite.db.Create(&models.CircleMember{
		CircleID: circle.ID,
		UserID:   "user_late",
		Role:     models.CircleRoleMember,
	})

	w = suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": 1,
	}, "user_late")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestVoteOnYalla_NotifiesCreator tests the vote fan-out: the creator is
// notified unless they voted themselves
func (suite *YallaHandlerTestSuite) TestVoteOnYalla_NotifiesCreator() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": 1,
	}, "user_member")
	suite.Require().Equal(http.StatusOK, w.Code)

	var notifications []models.Notification
	suite.db.Where("type = ?", models.NotificationVote).Find(&notifications)
	assert.Len(suite.T(), notifications, 1)
	assert.Equal(suite.T(), "user_admin", notifications[0].UserID)
	assert.Equal(suite.T(), "New vote on your yalla! 👍", notifications[0].Title)
}

// TestVoteOnYalla_SelfVoteNoNotification tests that voting on your own yalla
// produces no notification
func (suite *YallaHandlerTestSuite) TestVoteOnYalla_SelfVoteNoNotification() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers)
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("POST", "/api/yallas/"+yalla.ID+"/votes", map[string]interface{}{
		"value": 1,
	}, "user_admin")
	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Notification{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestRemoveVote_Idempotent tests that removing an absent vote succeeds
func (suite *YallaHandlerTestSuite) TestRemoveVote_Idempotent() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("DELETE", "/api/yallas/"+yalla.ID+"/votes", nil, "user_member")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request("DELETE", "/api/yallas/"+yalla.ID+"/votes", nil, "user_member")
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestUpdateYalla_CompletionFanOut tests that completing a yalla notifies
// every circle member except the completer
func (suite *YallaHandlerTestSuite) TestUpdateYalla_CompletionFanOut() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_a", "user_b")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("PATCH", "/api/yallas/"+yalla.ID, map[string]interface{}{
		"status": "completed",
	}, "user_admin")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var notifications []models.Notification
	suite.db.Where("type = ?", models.NotificationCompletion).Find(&notifications)
	assert.Len(suite.T(), notifications, 2)
	for _, n := range notifications {
		assert.NotEqual(suite.T(), "user_admin", n.UserID)
	}

	// Completion timestamp is filled when absent from the patch
	var updated models.Yalla
	suite.db.Where("id = ?", yalla.ID).First(&updated)
	assert.NotNil(suite.T(), updated.CompletedAt)
}

// TestUpdateYalla_RepeatCompletionNoFanOut tests that re-patching an already
// completed yalla does not notify again
func (suite *YallaHandlerTestSuite) TestUpdateYalla_RepeatCompletionNoFanOut() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_a")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("PATCH", "/api/yallas/"+yalla.ID, map[string]interface{}{
		"status": "completed",
	}, "user_admin")
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.request("PATCH", "/api/yallas/"+yalla.ID, map[string]interface{}{
		"status": "completed",
	}, "user_admin")
	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotificationCompletion).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestUpdateYalla_StrangerForbidden tests that only the creator or an
// assignee may edit
func (suite *YallaHandlerTestSuite) TestUpdateYalla_StrangerForbidden() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("PATCH", "/api/yallas/"+yalla.ID, map[string]interface{}{
		"title": "Hijacked",
	}, "user_member")

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteYalla_CascadesVotes tests that deleting a yalla removes its votes
func (suite *YallaHandlerTestSuite) TestDeleteYalla_CascadesVotes() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	suite.db.Create(&models.Vote{ID: "vote-1", UserID: "user_member", YallaID: yalla.ID, Value: 1})

	w := suite.request("DELETE", "/api/yallas/"+yalla.ID, nil, "user_admin")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Vote{}).Where("yalla_id = ?", yalla.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteYalla_NonCreatorForbidden tests the creator gate on deletion
func (suite *YallaHandlerTestSuite) TestDeleteYalla_NonCreatorForbidden() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")
	yalla := suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("DELETE", "/api/yallas/"+yalla.ID, nil, "user_member")

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListCircleYallas_NonMemberForbidden tests the membership gate on the
// circle listing
func (suite *YallaHandlerTestSuite) TestListCircleYallas_NonMemberForbidden() {
	circle := suite.createTestCircle("user_admin", models.AssignmentAllMembers)
	suite.createTestYalla("yalla-1", circle.ID, "user_admin", models.YallaTypeCommunity)

	w := suite.request("GET", "/api/circles/"+circle.ID+"/yallas", nil, "user_outsider")

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListUserYallas_SpansCircles tests that the aggregate listing covers
// every circle the caller belongs to and includes votes
func (suite *YallaHandlerTestSuite) TestListUserYallas_SpansCircles() {
	circleA := suite.createTestCircle("user_admin", models.AssignmentAllMembers, "user_member")

	circleB := &models.Circle{
		ID:                    "circle-b",
		Name:                  "Other",
		Color:                 "#0000ff",
		AdminID:               "user_other",
		AssignmentPermissions: models.AssignmentAllMembers,
	}
	suite.db.Create(circleB)
	suite.db.Create(&models.CircleMember{CircleID: circleB.ID, UserID: "user_other", Role: models.CircleRoleAdmin})
	suite.db.Create(&models.CircleMember{CircleID: circleB.ID, UserID: "user_member", Role: models.CircleRoleMember})

	suite.createTestYalla("yalla-a", circleA.ID, "user_admin", models.YallaTypeCommunity)
	suite.createTestYalla("yalla-b", circleB.ID, "user_other", models.YallaTypeCommunity)
	suite.db.Create(&models.Vote{ID: "vote-1", UserID: "user_other", YallaID: "yalla-b", Value: 1})

	w := suite.request("GET", "/api/yallas", nil, "user_member")
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var yallas []models.Yalla
	err := json.Unmarshal(w.Body.Bytes(), &yallas)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), yallas, 2)

	voteCount := 0
	for _, y := range yallas {
		voteCount += len(y.Votes)
	}
	assert.Equal(suite.T(), 1, voteCount)
}

// TestSuite runs the test suite
func TestYallaHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(YallaHandlerTestSuite))
}
