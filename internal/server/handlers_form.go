package server

import (
	"fmt"
	"net/http"

	"postergen/internal/form"

	"github.com/gin-gonic/gin"
)

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) getUsage(c *gin.Context) {
	c.JSON(http.StatusOK, s.usage.Stats())
}

func (s *Server) resetUsage(c *gin.Context) {
	s.usage.Reset()
	c.JSON(http.StatusOK, s.usage.Stats())
}

func (s *Server) getForm(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Form().Snapshot())
}

func (s *Server) patchForm(c *gin.Context) {
	var p form.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	f, err := s.session.Form().UpdateKeepingImages(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) resetForm(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Form().Reset())
}

func (s *Server) toggleTopic(c *gin.Context) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		fail(c, fmt.Errorf("%w: topic is required", errBadRequest))
		return
	}
	f, err := s.session.Form().ToggleTopic(req.Topic)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) setFormat(c *gin.Context) {
	var req struct {
		Online *bool `json:"online"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Online == nil {
		fail(c, fmt.Errorf("%w: online is required", errBadRequest))
		return
	}
	f, err := s.session.Form().SetOnline(*req.Online)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// =============================================================================
// SPEAKERS
// =============================================================================

func (s *Server) addSpeaker(c *gin.Context) {
	sp, err := s.session.Form().AddSpeaker()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sp)
}

func (s *Server) updateSpeaker(c *gin.Context) {
	var p form.SpeakerPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	sp, err := s.session.Form().UpdateSpeaker(c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (s *Server) removeSpeaker(c *gin.Context) {
	if err := s.session.Form().RemoveSpeaker(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setSpeakerImage(c *gin.Context) {
	b, err := s.readUpload(c, true)
	if err != nil {
		fail(c, err)
		return
	}
	sp, err := s.session.Form().SetSpeakerImage(c.Param("id"), b)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (s *Server) clearSpeakerImage(c *gin.Context) {
	sp, err := s.session.Form().SetSpeakerImage(c.Param("id"), nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sp)
}

// =============================================================================
// AGENDA
// =============================================================================

func (s *Server) addAgendaItem(c *gin.Context) {
	c.JSON(http.StatusCreated, s.session.Form().AddAgendaItem())
}

func (s *Server) updateAgendaItem(c *gin.Context) {
	var p form.AgendaPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	item, err := s.session.Form().UpdateAgendaItem(c.Param("id"), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) removeAgendaItem(c *gin.Context) {
	if err := s.session.Form().RemoveAgendaItem(c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// =============================================================================
// FILES
// =============================================================================

func (s *Server) setLogo(c *gin.Context) {
	slot, err := form.ParseLogoSlot(c.Param("slot"))
	if err != nil {
		fail(c, err)
		return
	}
	b, err := s.readUpload(c, true)
	if err != nil {
		fail(c, err)
		return
	}
	f, err := s.session.Form().SetLogo(slot, b)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) clearLogo(c *gin.Context) {
	slot, err := form.ParseLogoSlot(c.Param("slot"))
	if err != nil {
		fail(c, err)
		return
	}
	f, err := s.session.Form().SetLogo(slot, nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) setQRCode(c *gin.Context) {
	b, err := s.readUpload(c, true)
	if err != nil {
		fail(c, err)
		return
	}
	f, err := s.session.Form().SetQRCode(b)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) clearQRCode(c *gin.Context) {
	f, err := s.session.Form().SetQRCode(nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// setUpload accepts any document type; extraction handles PDFs as well as images.
func (s *Server) setUpload(c *gin.Context) {
	b, err := s.readUpload(c, false)
	if err != nil {
		fail(c, err)
		return
	}
	f, err := s.session.Form().SetUpload(b)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
