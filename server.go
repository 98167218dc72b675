package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peerzada/portfolio/internal/choreo"
	"github.com/peerzada/portfolio/internal/config"
	"github.com/peerzada/portfolio/internal/contact"
	"github.com/peerzada/portfolio/internal/content"
)

const visitorCookie = "visitor_id"

type server struct {
	cfg     *config.Config
	logger  *zap.Logger
	content content.Provider
	store   *content.SQLStore
	likes   *content.Likes
	admin   *adminAuth
	choreo  atomic.Pointer[choreo.Config]
}

// newServer loads the catalog and choreography named by cfg. With
// ContentDB set the catalog lives in SQLite, seeded from the YAML catalog
// on first use.
func newServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*server, error) {
	admin, err := newAdminAuth(cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}
	s := &server{cfg: cfg, logger: logger, likes: content.NewLikes(content.DefaultMaxLikes), admin: admin}

	catalog, err := loadCatalog(cfg.ContentFile)
	if err != nil {
		return nil, err
	}
	s.content = catalog

	if cfg.ContentDB != "" {
		store, err := content.OpenSQL(ctx, cfg.ContentDB)
		if err != nil {
			return nil, err
		}
		seeded, err := store.Seed(ctx, catalog.Catalog())
		if err != nil {
			store.Close()
			return nil, err
		}
		logger.Info("content database ready", zap.String("path", cfg.ContentDB), zap.Bool("seeded", seeded))
		s.store = store
		s.content = store
		if cfg.DefaultCredentials {
			logger.Warn(AdminDefaultCredentials)
		}
	}

	ch, err := loadChoreography(cfg.ChoreographyFile)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.choreo.Store(ch)
	return s, nil
}

func loadCatalog(path string) (*content.Static, error) {
	if path == "" {
		return content.Default()
	}
	return content.LoadFile(path)
}

func loadChoreography(path string) (*choreo.Config, error) {
	if path == "" {
		return choreo.Default()
	}
	return choreo.LoadFile(path)
}

// reloadChoreography swaps in the override file. An invalid file keeps the
// previous choreography.
func (s *server) reloadChoreography() {
	ch, err := loadChoreography(s.cfg.ChoreographyFile)
	if err != nil {
		s.logger.Error("choreography reload failed", zap.String("path", s.cfg.ChoreographyFile), zap.Error(err))
		return
	}
	s.choreo.Store(ch)
	s.logger.Info("choreography reloaded", zap.String("path", s.cfg.ChoreographyFile), zap.Int("sections", len(ch.Sections)))
}

func (s *server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/about", s.getAbout)
	api.GET("/projects", s.getProjects)
	api.GET("/projects/:id", s.getProject)
	api.GET("/achievements", s.getAchievements)
	api.POST("/achievements/:id/like", s.likeAchievement)
	api.GET("/choreography", s.getChoreography)
	api.POST("/contact", s.postContact)

	s.setupAdminRoutes(r)
	return r
}

// requestLogger logs one line per request with the client address hashed.
func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", s.admin.hashIP(c.ClientIP())),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			s.logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			s.logger.Warn("request", fields...)
		default:
			s.logger.Info("request", fields...)
		}
	}
}

func (s *server) internalError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	s.logger.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (s *server) getAbout(c *gin.Context) {
	about, err := s.content.About(c.Request.Context())
	if err != nil {
		s.internalError(c, "load about", err)
		return
	}
	c.JSON(http.StatusOK, about)
}

func (s *server) getProjects(c *gin.Context) {
	projects, err := s.content.Projects(c.Request.Context())
	if err != nil {
		s.internalError(c, "list projects", err)
		return
	}
	c.JSON(http.StatusOK, nonNil(projects))
}

func (s *server) getProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := s.content.Project(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}
	if err != nil {
		s.internalError(c, "load project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type tab struct {
	ID    content.Category `json:"id"`
	Label string           `json:"label"`
}

type achievementView struct {
	content.Achievement
	Liked          bool `json:"liked"`
	HasCertificate bool `json:"hasCertificate"`
}

func (s *server) getAchievements(c *gin.Context) {
	category, err := content.ParseCategory(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, err := s.content.Achievements(c.Request.Context(), category)
	if err != nil {
		s.internalError(c, "list achievements", err)
		return
	}

	visitor, _ := s.visitor(c)
	counted, liked := s.likes.Apply(items, visitor)
	views := make([]achievementView, len(counted))
	for i, a := range counted {
		views[i] = achievementView{Achievement: a, Liked: liked[a.ID], HasCertificate: a.HasCertificate()}
	}

	tabs := make([]tab, len(content.Categories))
	for i, cat := range content.Categories {
		tabs[i] = tab{ID: cat, Label: cat.Label()}
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "tabs": tabs, "achievements": views})
}

func (s *server) likeAchievement(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := s.content.Achievement(c.Request.Context(), id)
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "achievement not found"})
		return
	}
	if err != nil {
		s.internalError(c, "load achievement", err)
		return
	}

	visitor, ok := s.visitor(c)
	if !ok {
		// Only returning visitors are counted.
		s.issueVisitor(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "liked": false, "likes": a.Likes + s.likes.Count(id)})
		return
	}
	liked, err := s.likes.Toggle(id, visitor)
	if errors.Is(err, content.ErrLikeLimit) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "liked": liked, "likes": a.Likes + s.likes.Count(id)})
}

// visitor returns the id carried by a signed visitor cookie.
func (s *server) visitor(c *gin.Context) (string, bool) {
	v, err := c.Cookie(visitorCookie)
	if err != nil {
		return "", false
	}
	return s.admin.verify(v)
}

func (s *server) issueVisitor(c *gin.Context) {
	c.SetCookie(visitorCookie, s.admin.sign(uuid.NewString()), 0, "/", "", false, true)
}

func (s *server) getChoreography(c *gin.Context) {
	counts, err := s.counts(c.Request.Context())
	if err != nil {
		s.internalError(c, "count content", err)
		return
	}
	plan, err := choreo.BuildPlan(s.choreo.Load(), counts)
	if err != nil {
		s.internalError(c, "build choreography", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// counts sizes the choreography's staggered groups from the live catalog.
func (s *server) counts(ctx context.Context) (choreo.Counts, error) {
	about, err := s.content.About(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.content.Projects(ctx)
	if err != nil {
		return nil, err
	}
	return choreo.Counts{"projects": len(projects), "skills": len(about.Skills)}, nil
}

func (s *server) postContact(c *gin.Context) {
	var m contact.Message
	if err := c.ShouldBind(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ContactInvalid})
		return
	}
	link, err := contact.MailtoLink(s.cfg.ContactEmail, m)
	if errors.Is(err, contact.ErrInvalidTo) {
		s.internalError(c, "contact recipient", err)
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ContactInvalid, "details": strings.Split(err.Error(), "\n")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mailto": link, "message": ContactSuccess})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
