package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/buildtall-systems/bankid-mock/internal/commands"
	"github.com/buildtall-systems/bankid-mock/internal/order"
	"github.com/buildtall-systems/bankid-mock/internal/rp"
)

type completeRequest struct {
	PersonalNumber string `json:"personalNumber" binding:"required"`
	Name           string `json:"name" binding:"required"`
}

type quickCompleteRequest struct {
	Label string `json:"label" binding:"required"`
}

type subStatusRequest struct {
	HintCode string `json:"hintCode" binding:"required"`
}

type commandRequest struct {
	Command string `json:"command" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAuth(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.StartAuth(c.Request.Context(), clientAddr(c)))
}

func (s *Server) handleCollect(c *gin.Context) {
	var req rp.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errorCode": "invalidParameters", "details": "orderRef is required"})
		return
	}
	c.JSON(http.StatusOK, s.svc.Collect(c.Request.Context(), req.OrderRef))
}

func (s *Server) handleOrigins(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.ListOrigins())
}

func (s *Server) handleAliases(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.ListAliases())
}

func (s *Server) handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Presets())
}

func (s *Server) handleOrdersByOrigin(c *gin.Context) {
	addr, err := netip.ParseAddr(c.Param("ip"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ip address"})
		return
	}
	c.JSON(http.StatusOK, s.svc.PendingByOrigin(addr.Unmap()))
}

func (s *Server) handleOrdersByAlias(c *gin.Context) {
	orders, err := s.svc.PendingByAlias(c.Param("alias"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleIdentity(c *gin.Context) {
	id, err := s.svc.GenerateIdentity()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (s *Server) handleComplete(c *gin.Context) {
	id, err := rp.ParseOrderRef(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "personalNumber and name are required"})
		return
	}
	if err := s.svc.CompleteOrder(c.Request.Context(), id, req.PersonalNumber, req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleQuickComplete(c *gin.Context) {
	id, err := rp.ParseOrderRef(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req quickCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "label is required"})
		return
	}
	if err := s.svc.QuickComplete(c.Request.Context(), id, req.Label); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSubStatus(c *gin.Context) {
	id, err := rp.ParseOrderRef(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	var req subStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hintCode is required"})
		return
	}
	status, err := order.ParseSubStatus(req.HintCode)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.svc.AdvanceSubStatus(c.Request.Context(), id, status); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleJournal(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := s.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleOrderJournal(c *gin.Context) {
	if s.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "journal disabled"})
		return
	}
	id, err := rp.ParseOrderRef(c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	events, err := s.journal.ForOrder(c.Request.Context(), id.String())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (s *Server) handleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}
	cmd := commands.Parse(req.Command)
	if cmd == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	result := commands.Execute(c.Request.Context(), s.svc, cmd)
	if result.Error != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Error.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": result.Message})
}

// handleEventStream pushes a "changed" event whenever order state changes.
// Clients re-query the listings on each event.
func (s *Server) handleEventStream(c *gin.Context) {
	sub := s.bus.Subscribe()
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	heartbeat := time.NewTicker(s.opts.KeepAlive)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case _, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent("changed", "")
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, rp.ErrUnknownAlias),
		errors.Is(err, rp.ErrUnknownPreset),
		errors.Is(err, rp.ErrNoNamePool):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, order.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, rp.ErrInvalidOrderRef), errors.Is(err, order.ErrUnknownSubStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
