// Package web serves a JSON view of the hosted to-do lists.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vtodo/internal/slogger"
	"vtodo/internal/todo"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP view of a registry.
type Server struct {
	lists  *todo.Registry
	logger slogger.Logger
	router *gin.Engine
}

// NewServer creates a server over lists.
func NewServer(lists *todo.Registry, logger slogger.Logger) *Server {
	s := &Server{
		lists:  lists,
		logger: slogger.OrDevNull(logger),
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.logRequests)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "lists": s.lists.Len()})
	})

	api := s.router.Group("/api")
	{
		api.GET("/lists", s.handleLists)
		api.GET("/lists/:uid/items", s.handleItems)
		api.PATCH("/lists/:uid/items/:item", s.handleUpdateItem)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("http view listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("http request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"took", time.Since(start),
	)
}
