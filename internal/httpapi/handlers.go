package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/query"
	"github.com/dmitrijs2005/arsip/internal/services"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type extractRequest struct {
	Letter models.Letter `json:"letter"`
	Text   string        `json:"text"`
}

type newUserRequest struct {
	Username string          `json:"username" binding:"required"`
	Password string          `json:"password" binding:"required"`
	FullName string          `json:"fullName"`
	Role     models.UserRole `json:"role"`
}

type passwordRequest struct {
	Password string `json:"password" binding:"required"`
}

type profileRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username" binding:"required"`
}

type titleRequest struct {
	Title string `json:"title" binding:"required"`
}

// bind decodes the JSON body into v; decoding failures are validation errors.
func (s *Server) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return false
	}
	return true
}

func criteriaFrom(c *gin.Context) query.Criteria {
	return query.Criteria{
		Text:     c.Query("q"),
		Type:     c.DefaultQuery("type", query.AllTypes),
		Category: c.DefaultQuery("category", query.AllCategories),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}
}

func attach(c *gin.Context, f services.File) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	c.Data(http.StatusOK, f.ContentType, f.Data)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if !s.bind(c, &req) {
		return
	}

	u, err := s.svc.Auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	token, err := GenerateToken(u.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token, User: u})
}

// handleLogout has nothing to revoke; tokens lapse at expiry.
func (s *Server) handleLogout(c *gin.Context) {
	s.log.Info(c.Request.Context(), "logged out", "user_id", actor(c).ID)
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, actor(c))
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if !s.bind(c, &req) {
		return
	}
	u, err := s.svc.Users.UpdateProfile(c.Request.Context(), actor(c), req.FullName, req.Username)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) handleListLetters(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Letters.List(criteriaFrom(c)))
}

func (s *Server) handleCreateLetter(c *gin.Context) {
	var l models.Letter
	if !s.bind(c, &l) {
		return
	}
	l.ID = ""

	created, err := s.svc.Letters.Create(c.Request.Context(), actor(c), l)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetLetter(c *gin.Context) {
	l, err := s.svc.Letters.Get(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) handleUpdateLetter(c *gin.Context) {
	var l models.Letter
	if !s.bind(c, &l) {
		return
	}
	l.ID = c.Param("id")

	updated, err := s.svc.Letters.Update(c.Request.Context(), actor(c), l)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteLetter(c *gin.Context) {
	if err := s.svc.Letters.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSummarize(c *gin.Context) {
	l, err := s.svc.Letters.Summarize(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// handleExtract fills a draft from text when given, else from the draft's
// attachment. The draft is not saved.
func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if !s.bind(c, &req) {
		return
	}

	var (
		draft models.Letter
		err   error
	)
	if req.Text != "" {
		draft, err = s.svc.Letters.ExtractFromText(c.Request.Context(), req.Letter, req.Text)
	} else {
		draft, err = s.svc.Letters.ExtractFromAttachment(c.Request.Context(), req.Letter)
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Letters.Stats())
}

func (s *Server) handleExportCSV(c *gin.Context) {
	f, err := s.svc.Archive.ExportCSV(s.svc.Letters.List(criteriaFrom(c)))
	if err != nil {
		s.writeError(c, err)
		return
	}
	attach(c, f)
}

func (s *Server) handleExportBackup(c *gin.Context) {
	f, err := s.svc.Archive.Backup(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	attach(c, f)
}

func (s *Server) handleUploadBackup(c *gin.Context) {
	res, err := s.svc.Archive.UploadBackup(c.Request.Context(), actor(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": res.Key, "url": res.DownloadURL})
}

func (s *Server) handleRestore(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}
	if err := s.svc.Archive.Restore(c.Request.Context(), actor(c), data); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleStorage(c *gin.Context) {
	usage, err := s.svc.Archive.StorageUsage(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.svc.Users.List(actor(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleAddUser(c *gin.Context) {
	var req newUserRequest
	if !s.bind(c, &req) {
		return
	}
	u, err := s.svc.Users.Add(c.Request.Context(), actor(c), services.NewUser{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) handleResetPassword(c *gin.Context) {
	var req passwordRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.svc.Users.ResetPassword(c.Request.Context(), actor(c), c.Param("id"), req.Password); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if err := s.svc.Users.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetTitle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"title": s.svc.Users.AppTitle()})
}

func (s *Server) handleSetTitle(c *gin.Context) {
	var req titleRequest
	if !s.bind(c, &req) {
		return
	}
	if err := s.svc.Users.SetAppTitle(c.Request.Context(), actor(c), req.Title); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": s.svc.Users.AppTitle()})
}
