// pkg/network/api.go
package network

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opd-ai/go-orrery/pkg/engine"
	"github.com/opd-ai/go-orrery/pkg/validation"
)

// commandTimeout bounds how long a request waits for the loop to apply
// its command.
const commandTimeout = 2 * time.Second

// BodyDetail is a body's state with its long description.
type BodyDetail struct {
	engine.BodyState
	Title      string   `json:"title,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
}

// CommandResponse reports an applied command.
type CommandResponse struct {
	Command string `json:"command"`
	Frame   uint64 `json:"frame"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Server) getSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.Snapshot())
}

func (s *Server) getBodies(c *gin.Context) {
	snap := s.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"data":  snap.Bodies,
		"count": len(snap.Bodies),
		"frame": snap.Frame,
	})
}

func (s *Server) getBody(c *gin.Context) {
	name := normalizeName(c.Param("name"))
	for _, b := range s.Snapshot().Bodies {
		if normalizeName(b.Name) != name {
			continue
		}
		desc := s.descriptions[name]
		c.JSON(http.StatusOK, gin.H{"data": BodyDetail{
			BodyState:  b,
			Title:      desc.Title,
			Paragraphs: desc.Paragraphs,
		}})
		return
	}
	c.JSON(http.StatusNotFound, ErrorResponse{Error: "body not found"})
}

func (s *Server) getSpacecraft(c *gin.Context) {
	snap := s.Snapshot()
	if snap.Spacecraft == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no spacecraft"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap.Spacecraft})
}

// postCommand decodes a command request and applies it through the loop.
func (s *Server) postCommand(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, s.cfg.MaxRequestBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot read request body"})
		return
	}

	cmd, err := s.validator.Decode(data, c.ClientIP())
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
		err = s.Submit(ctx, cmd)
		cancel()
	}
	if err != nil {
		s.logger.Debug(c.Request.Context(), "command refused",
			"client", c.ClientIP(),
			"error", err.Error(),
		)
		c.JSON(commandStatus(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, CommandResponse{Command: cmd.Name(), Frame: s.Snapshot().Frame})
}

// commandStatus maps a command error to its HTTP status.
func commandStatus(err error) int {
	switch {
	case errors.Is(err, validation.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrUnknownBody):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrJourneyRejected):
		return http.StatusConflict
	case errors.Is(err, engine.ErrInvalidCommand):
		return http.StatusBadRequest
	case errors.Is(err, ErrServerStopped),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
