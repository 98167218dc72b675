// admin.go - cookie-token admin for the content database
package main

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peerzada/portfolio/internal/content"
)

const adminCookie = "admin_token"

// adminAuth holds the per-process admin session token and the salt used to
// hash client addresses before they are logged.
type adminAuth struct {
	token    string
	salt     string
	username string
	password string
}

func newAdminAuth(username, password string) (*adminAuth, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}
	return &adminAuth{token: token, salt: salt, username: username, password: password}, nil
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// Hash IP address so logs never hold the raw value (consistent per IP)
func (a *adminAuth) hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// sign binds a visitor id to this process so cookies can't be minted by clients.
func (a *adminAuth) sign(id string) string {
	mac := hmac.New(sha256.New, []byte(a.salt))
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))[:32]
}

// verify returns the id inside a value produced by sign.
func (a *adminAuth) verify(value string) (string, bool) {
	id, _, ok := strings.Cut(value, ".")
	if !ok || !hmac.Equal([]byte(a.sign(id)), []byte(value)) {
		return "", false
	}
	return id, true
}

func (a *adminAuth) valid(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

// Middleware to check admin authentication
func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Setup all admin routes
func (s *server) setupAdminRoutes(r *gin.Engine) {
	r.POST("/admin/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login request"})
			return
		}

		if !s.admin.valid(req.Username, req.Password) {
			s.logger.Warn("failed admin login", zap.String("client", s.admin.hashIP(c.ClientIP())))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		// Set secure cookie (24 hours)
		c.SetCookie(adminCookie, s.admin.token, 3600*24, "/admin", "", false, true)
		s.logger.Info("admin login", zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"message": "logged in"})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		s.logger.Info("admin logout", zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	})

	adminGroup := r.Group("/admin/api")
	adminGroup.Use(s.admin.middleware(), s.requireStore())

	adminGroup.GET("/projects", func(c *gin.Context) {
		projects, err := s.store.Projects(c.Request.Context())
		if err != nil {
			s.internalError(c, "list projects", err)
			return
		}
		c.JSON(http.StatusOK, nonNil(projects))
	})

	adminGroup.POST("/projects", func(c *gin.Context) {
		var p content.Project
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := s.store.CreateProject(c.Request.Context(), p)
		if err != nil {
			s.storeError(c, "create project", err)
			return
		}
		s.logger.Info("project created", zap.Int("id", created.ID), zap.String("title", created.Title))
		c.JSON(http.StatusCreated, created)
	})

	adminGroup.DELETE("/projects/:id", func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := s.store.DeleteProject(c.Request.Context(), id); err != nil {
			s.storeError(c, "delete project", err)
			return
		}
		s.logger.Info("project deleted", zap.Int("id", id), zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
	})

	adminGroup.GET("/achievements", func(c *gin.Context) {
		var all []content.Achievement
		for _, cat := range content.Categories {
			items, err := s.store.Achievements(c.Request.Context(), cat)
			if err != nil {
				s.internalError(c, "list achievements", err)
				return
			}
			all = append(all, items...)
		}
		c.JSON(http.StatusOK, nonNil(all))
	})

	adminGroup.POST("/achievements", func(c *gin.Context) {
		var a content.Achievement
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		created, err := s.store.CreateAchievement(c.Request.Context(), a)
		if err != nil {
			s.storeError(c, "create achievement", err)
			return
		}
		s.logger.Info("achievement created", zap.Int("id", created.ID), zap.String("title", created.Title))
		c.JSON(http.StatusCreated, created)
	})

	adminGroup.DELETE("/achievements/:id", func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := s.store.DeleteAchievement(c.Request.Context(), id); err != nil {
			s.storeError(c, "delete achievement", err)
			return
		}
		s.logger.Info("achievement deleted", zap.Int("id", id), zap.String("client", s.admin.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"message": "Achievement deleted successfully"})
	})
}

// requireStore rejects admin content calls when no database is configured.
func (s *server) requireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.store == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": AdminUnavailable})
			return
		}
		c.Next()
	}
}

func (s *server) storeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, content.ErrInvalidCatalog):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.internalError(c, op, err)
	}
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
