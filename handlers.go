package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"payhelper/pkg/ocr"
	"payhelper/pkg/payslip"
	"payhelper/pkg/sheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type server struct {
	cfg        Config
	sessions   *sessionRegistry
	store      *payslip.Store
	recognizer ocr.Recognizer
	jwtSecret  []byte
}

func newServer(cfg Config, store *payslip.Store, recognizer ocr.Recognizer) *server {
	return &server{
		cfg:        cfg,
		sessions:   newSessionRegistry(),
		store:      store,
		recognizer: recognizer,
		jwtSecret:  []byte(cfg.JWTSecret),
	}
}

func (s *server) setupRoutes(r *gin.Engine) {
	r.POST("/session", s.createSessionHandler)

	authGroup := r.Group("")
	authGroup.Use(s.sessionMiddleware())
	authGroup.POST("/records", s.appendRecordHandler)
	authGroup.GET("/records", s.listRecordsHandler)
	authGroup.DELETE("/records", s.clearRecordsHandler)
	authGroup.POST("/records/import", s.importRecordsHandler)
	authGroup.GET("/summary", s.summaryHandler)
	authGroup.GET("/export", s.exportHandler)
	authGroup.GET("/templates", s.listTemplatesHandler)
	authGroup.GET("/templates/:name/placeholders", s.placeholdersHandler)
	authGroup.POST("/templates/fetch", s.fetchTemplateHandler)
	authGroup.GET("/institutions", s.institutionsHandler)
	authGroup.POST("/payslip", s.payslipHandler)
	authGroup.POST("/payslip/batch", s.payslipBatchHandler)
	authGroup.POST("/ocr", s.ocrHandler)
	authGroup.GET("/ocr/progress", s.ocrProgressHandler)
}

func (s *server) createSessionHandler(c *gin.Context) {
	id := s.sessions.create()
	token, err := s.issueSessionToken(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// appendRecordHandler adds one manually entered row. Validation problems
// are recorded on the row itself, never returned as a request failure.
func (s *server) appendRecordHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	var req struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.mu.Lock()
	rec := sess.roster.Append(req.Name, req.Amount)
	sess.mu.Unlock()
	c.JSON(http.StatusOK, rec)
}

func (s *server) listRecordsHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	sess.mu.Lock()
	recs := sess.roster.Records()
	sess.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": recs})
}

func (s *server) clearRecordsHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	sess.mu.Lock()
	sess.roster.Clear()
	sess.ocrProgress = 0
	sess.gen++
	sess.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "cleared"})
}

// importRecordsHandler replaces the whole collection from an uploaded
// salary table.
func (s *server) importRecordsHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	rows, err := sheet.ReadRows(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.mu.Lock()
	sess.roster.ReplaceFromTable(rows)
	recs := sess.roster.Records()
	sess.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": recs})
}

func (s *server) summaryHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	sess.mu.Lock()
	sum := sess.roster.Aggregate()
	sess.mu.Unlock()
	c.JSON(http.StatusOK, sum)
}

func (s *server) exportHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	sess.mu.Lock()
	recs := sess.roster.Records()
	sum := sess.roster.Aggregate()
	sess.mu.Unlock()
	if sum.Rows == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no exportable records"})
		return
	}
	var buf bytes.Buffer
	if err := sheet.WriteWorkbook(&buf, recs, sum); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="cash-breakdown.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *server) listTemplatesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": s.store.List()})
}

func (s *server) placeholdersHandler(c *gin.Context) {
	tags, err := s.store.Placeholders(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"placeholders": tags})
}

// fetchTemplateHandler pulls a template asset from a static URL into the
// store. Best effort: a failure is reported once, not retried.
func (s *server) fetchTemplateHandler(c *gin.Context) {
	var req struct {
		URL  string `json:"url" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := url.ParseRequestURI(req.URL); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
		return
	}
	if err := s.store.Fetch(req.URL, req.Name); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template stored", "name": req.Name})
}

func (s *server) institutionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"institutions": payslip.Institutions})
}

// payslipHandler renders a single receipt.
func (s *server) payslipHandler(c *gin.Context) {
	var req struct {
		Template string `json:"template" binding:"required"`
		Name     string `json:"name" binding:"required"`
		Salary   string `json:"salary" binding:"required"`
		IDNo     string `json:"idno"`
		Org      string `json:"org"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	stripped := strings.Map(func(r rune) rune {
		if r == ',' || r == '，' || r == ' ' {
			return -1
		}
		return r
	}, strings.TrimSpace(req.Salary))
	n, err := strconv.ParseFloat(stripped, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "薪資需為數字"})
		return
	}
	tpl, err := s.store.Path(req.Template)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	data := payslip.RenderData(req.Name, n, req.IDNo, req.Org, time.Now())
	var buf bytes.Buffer
	if err := payslip.Render(tpl, data, &buf); err != nil {
		// render failure blocks this document only; session state is intact
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	base := strings.TrimSuffix(req.Template, filepath.Ext(req.Template))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.docx"`, base, req.Name))
	c.Data(http.StatusOK, docxContentType, buf.Bytes())
}

// payslipBatchHandler renders one receipt per row of the uploaded salary
// table and returns them zipped. Rows that fail to render are skipped and
// listed in the response header; the batch always completes.
func (s *server) payslipBatchHandler(c *gin.Context) {
	tplName := c.PostForm("template")
	org := c.PostForm("org")
	if tplName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template missing"})
		return
	}
	if org == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請先選擇機構"})
		return
	}
	tpl, err := s.store.Path(tplName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	rows, err := sheet.ReadRows(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	base := strings.TrimSuffix(tplName, filepath.Ext(tplName))
	var buf bytes.Buffer
	failures, err := payslip.RenderBatch(tpl, base, rows, org, time.Now(), &buf)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(failures) > 0 {
		// one JSON header, percent-escaped: header values must be ASCII and
		// a Set per failure would keep only the last one
		raw, err := json.Marshal(failures)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("X-Render-Failures", url.QueryEscape(string(raw)))
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-批次輸出.zip"`, base))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// ocrHandler runs the uploaded images through the recognition pipeline in
// order and appends the parsed rows to the session roster.
func (s *server) ocrHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no images uploaded"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload dir failed"})
		return
	}
	tmpDir, err := os.MkdirTemp(s.cfg.UploadDir, "ocr-*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload dir failed"})
		return
	}
	defer os.RemoveAll(tmpDir)

	var paths []string
	for i, fh := range files {
		// numbered subdirectories keep the original base names for
		// provenance without upload name collisions
		dst := filepath.Join(tmpDir, fmt.Sprintf("%03d", i), filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
		paths = append(paths, dst)
	}

	sess.mu.Lock()
	sess.ocrProgress = 0
	gen := sess.gen
	sess.mu.Unlock()

	batch := &ocr.Batch{Recognizer: s.recognizer}
	records, failed := batch.Run(paths, sess.setProgress)

	sess.mu.Lock()
	if sess.gen == gen {
		sess.roster.AppendParsed(records...)
	} else {
		// workspace was cleared mid-batch; its results are stale
		records = nil
	}
	recs := sess.roster.Records()
	sess.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"records": recs, "parsed": len(records), "failed": failed})
}

func (s *server) ocrProgressHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": sess.progress()})
}
