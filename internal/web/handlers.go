package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vtodo/internal/remote"
	"vtodo/internal/todo"
)

type listResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
	Items     *int   `json:"items"`
}

type itemResponse struct {
	UID         string     `json:"uid"`
	Summary     string     `json:"summary"`
	Status      string     `json:"status"`
	Due         *time.Time `json:"due,omitempty"`
	Description string     `json:"description,omitempty"`
}

type updateItemRequest struct {
	Status string `json:"status" binding:"required"`
}

func toItemResponse(item todo.Item) itemResponse {
	return itemResponse{
		UID:         item.UID,
		Summary:     item.Summary,
		Status:      item.Status.String(),
		Due:         item.Due,
		Description: item.Description,
	}
}

func (s *Server) handleLists(c *gin.Context) {
	lists := s.lists.Lists()
	resp := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		r := listResponse{UID: l.UniqueID(), Name: l.Name(), Available: l.Available()}
		if items, ok := l.Items(); ok {
			n := len(items)
			r.Items = &n
		}
		resp = append(resp, r)
	}
	c.JSON(http.StatusOK, gin.H{"lists": resp})
}

func (s *Server) handleItems(c *gin.Context) {
	l, ok := s.lists.Get(c.Param("uid"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": todo.ErrNotFound.Error()})
		return
	}
	items, ok := l.Items()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data yet"})
		return
	}
	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"name": l.Name(), "available": l.Available(), "items": resp})
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	l, ok := s.lists.Get(c.Param("uid"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": todo.ErrNotFound.Error()})
		return
	}
	if !l.SupportedFeatures().Has(todo.FeatureUpdateItem) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "list does not support updates"})
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := todo.ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, ok := findItem(l, c.Param("item"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	item.Status = status

	if err := l.UpdateItem(c.Request.Context(), item); err != nil {
		s.logger.Warn("update item failed", "list", l.Name(), "uid", item.UID, "error", err)
		code := http.StatusBadGateway
		if remote.IsAuth(err) {
			code = http.StatusUnauthorized
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}

	if updated, ok := findItem(l, item.UID); ok {
		item = updated
	}
	c.JSON(http.StatusOK, toItemResponse(item))
}

func findItem(l todo.List, uid string) (todo.Item, bool) {
	items, _ := l.Items()
	for _, item := range items {
		if item.UID == uid {
			return item, true
		}
	}
	return todo.Item{}, false
}
