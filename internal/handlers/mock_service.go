package handlers

import (
	"context"
	"net/http"

	"techblog/internal/models"
	"techblog/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  *models.User
	signUpErr   error
	signInToken string
	signInUser  *models.User
	signInErr   error
	parseClaims *service.Claims
	parseErr    error

	lastSignUpUsername string
	lastSignUpPassword string
	lastSignInUsername string
	lastSignInPassword string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (*models.User, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, username, password string) (string, *models.User, error) {
	m.lastSignInUsername = username
	m.lastSignInPassword = password
	return m.signInToken, m.signInUser, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.lastParseToken = token
	return m.parseClaims, m.parseErr
}

type mockPosts struct {
	listResp   []models.Post
	listErr    error
	getResp    *models.Post
	getErr     error
	createResp *models.Post
	createErr  error
	updateResp *models.Post
	updateErr  error
	deleteErr  error

	lastCreateAuthor int
	lastCreateInput  service.PostInput
	lastCreateUpload service.Upload
	lastUpdateActor  int
	lastUpdateID     int
	lastUpdateInput  service.PostInput
	lastUpdateUpload *service.Upload
	lastDeleteActor  int
	lastDeleteID     int
	lastGetID        int
}

func (m *mockPosts) List(_ context.Context) ([]models.Post, error) {
	return m.listResp, m.listErr
}

func (m *mockPosts) GetByID(_ context.Context, id int) (*models.Post, error) {
	m.lastGetID = id
	return m.getResp, m.getErr
}

func (m *mockPosts) Create(_ context.Context, authorID int, in service.PostInput, cover service.Upload) (*models.Post, error) {
	m.lastCreateAuthor = authorID
	m.lastCreateInput = in
	m.lastCreateUpload = cover
	return m.createResp, m.createErr
}

func (m *mockPosts) Update(_ context.Context, actorID, id int, in service.PostInput, cover *service.Upload) (*models.Post, error) {
	m.lastUpdateActor = actorID
	m.lastUpdateID = id
	m.lastUpdateInput = in
	m.lastUpdateUpload = cover
	return m.updateResp, m.updateErr
}

func (m *mockPosts) Delete(_ context.Context, actorID, id int) error {
	m.lastDeleteActor = actorID
	m.lastDeleteID = id
	return m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Config{AllowedOrigins: []string{"http://localhost:3000"}})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{Name: sessionCookieName, Value: token}
}
