package server

import (
	"fmt"
	"net/http"
	"strconv"

	"postergen/internal/session"
	"postergen/internal/templates"

	"github.com/gin-gonic/gin"
)

type attachmentView struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
}

type historyView struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
	MimeType  string `json:"mimeType"`
	FileName  string `json:"fileName"`
	URL       string `json:"url"`
}

func (s *Server) historyView(item session.HistoryItem) historyView {
	return historyView{
		ID:        item.ID,
		CreatedAt: item.CreatedAtMillis(),
		MimeType:  item.Image.MimeType,
		FileName:  s.session.HistoryFileName(item),
		URL:       "/api/history/" + item.ID,
	}
}

func (s *Server) extract(c *gin.Context) {
	f, err := s.session.Extract(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) listTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, templates.List())
}

func (s *Server) selectTemplate(c *gin.Context) {
	tpl, err := templates.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	f, err := s.session.Form().SelectBackground(tpl.DataURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// setBackground uses an uploaded image as the forced background. With
// ?clean=true the image is first stripped of text and logos by the model.
func (s *Server) setBackground(c *gin.Context) {
	b, err := s.readUpload(c, true)
	if err != nil {
		fail(c, err)
		return
	}

	clean, _ := strconv.ParseBool(c.Query("clean"))
	if !clean {
		f, err := s.session.UseBackground(b)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, f)
		return
	}

	if _, err := s.session.CleanBackground(c.Request.Context(), b); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.session.Form().Snapshot())
}

func (s *Server) clearBackground(c *gin.Context) {
	f, err := s.session.Form().ClearBackground()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (s *Server) getPrompt(c *gin.Context) {
	compiled, err := s.session.Preview(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	views := make([]attachmentView, len(compiled.Attachments))
	for i, a := range compiled.Attachments {
		views[i] = attachmentView{Index: i + 1, Label: a.Label, MimeType: a.MimeType, Size: len(a.Data)}
	}
	c.JSON(http.StatusOK, gin.H{
		"attachments": views,
		"instruction": compiled.Instruction,
	})
}

func (s *Server) generate(c *gin.Context) {
	item, err := s.session.Generate(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.historyView(*item))
}

func (s *Server) getPoster(c *gin.Context) {
	item, err := s.session.Poster()
	if err != nil {
		fail(c, err)
		return
	}
	s.sendImage(c, item, s.session.PosterFileName(item))
}

func (s *Server) listHistory(c *gin.Context) {
	items := s.session.History()
	views := make([]historyView, len(items))
	for i, item := range items {
		views[i] = s.historyView(item)
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getHistoryItem(c *gin.Context) {
	item, err := s.session.HistoryItem(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	s.sendImage(c, item, s.session.HistoryFileName(item))
}

func (s *Server) openHistoryItem(c *gin.Context) {
	item, err := s.session.Open(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.historyView(item))
}

func (s *Server) sendImage(c *gin.Context, item session.HistoryItem, name string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, item.Image.MimeType, item.Image.Data)
}
