package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/spacesedan/sentiboard/internal/ingest"
	"github.com/spacesedan/sentiboard/internal/models"
	"github.com/spacesedan/sentiboard/internal/report"
	"github.com/spacesedan/sentiboard/internal/sentiment"
)

var templateFuncs = template.FuncMap{
	"score": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"pct":   func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
	"num":   func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) },
}

type pageData struct {
	RowOptions   []int
	SelectedRows int
	Text         string

	Warning string
	Errors  []string

	Table      *models.ResultTable
	Slices     []report.Slice
	ExportJSON string
}

func (s *Server) newPage() pageData {
	options := make([]int, s.maxRows)
	for i := range options {
		options[i] = i + 1
	}
	return pageData{RowOptions: options, SelectedRows: s.maxRows}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		slog.Error("[Web] Failed to render page", slog.String("error", err.Error()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) withTable(data pageData, table models.ResultTable) pageData {
	data.Table = &table
	data.Slices = report.Donut(table.Summary)
	if payload, err := json.Marshal(table); err == nil {
		data.ExportJSON = string(payload)
	}
	return data
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.newPage())
}

func (s *Server) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	data := s.newPage()
	data.Text = r.FormValue("text")

	result, err := s.analyzer.AnalyzeText(r.Context(), data.Text)
	if errors.Is(err, sentiment.ErrEmptyInput) {
		data.Warning = "Please enter a sentence to analyze."
		s.render(w, http.StatusOK, data)
		return
	}
	if err != nil {
		data.Errors = []string{err.Error()}
		s.render(w, http.StatusInternalServerError, data)
		return
	}

	if result.IsFailed() {
		data.Errors = []string{"Sentiment analysis failed: " + result.Detail}
	}
	s.render(w, http.StatusOK, s.withTable(data, report.Single(strings.TrimSpace(data.Text), result)))
}

func (s *Server) handleAnalyzeFile(w http.ResponseWriter, r *http.Request) {
	data := s.newPage()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		data.Errors = []string{"Could not read the upload: " + err.Error()}
		s.render(w, http.StatusBadRequest, data)
		return
	}
	data.SelectedRows = s.parseRows(r.FormValue("rows"))

	file, header, err := r.FormFile("file")
	if err != nil {
		data.Warning = "Please choose a CSV or Excel file to analyze."
		s.render(w, http.StatusOK, data)
		return
	}
	defer file.Close()

	rows, err := ingest.Load(header.Filename, file, data.SelectedRows)
	switch {
	case errors.Is(err, ingest.ErrWrongSchema):
		data.Errors = []string{fmt.Sprintf("Wrong file format: the file must contain the columns %q and %q. Download the template for an example.", ingest.IDColumn, ingest.TextColumn)}
		s.render(w, http.StatusUnprocessableEntity, data)
		return
	case errors.Is(err, ingest.ErrNoValidRows):
		data.Warning = "The file has no rows with review text to analyze."
		s.render(w, http.StatusOK, data)
		return
	case err != nil:
		data.Errors = []string{"Could not read the file: " + err.Error()}
		s.render(w, http.StatusBadRequest, data)
		return
	}

	batch, err := s.analyzer.AnalyzeBatch(r.Context(), ingest.Texts(rows))
	if err != nil {
		data.Errors = []string{err.Error()}
		s.render(w, http.StatusInternalServerError, data)
		return
	}

	table, err := report.Build(rows, batch)
	if err != nil {
		data.Errors = []string{err.Error()}
		s.render(w, http.StatusInternalServerError, data)
		return
	}

	for _, f := range batch.ChunkFailures {
		first, last := report.FailureRange(rows, f)
		data.Errors = append(data.Errors, fmt.Sprintf("Rows with ID %s to %s could not be analyzed: %s", first, last, f.Detail))
	}
	s.render(w, http.StatusOK, s.withTable(data, table))
}

// parseRows clamps the row selector to [1, maxRows], defaulting to maxRows.
func (s *Server) parseRows(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n > s.maxRows {
		return s.maxRows
	}
	if n < 1 {
		return 1
	}
	return n
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxExportBytes)

	var table models.ResultTable
	if err := json.Unmarshal([]byte(r.FormValue("results")), &table); err != nil {
		http.Error(w, "invalid results payload", http.StatusBadRequest)
		return
	}
	table.Summary = report.Summarize(table.Rows)

	var buf bytes.Buffer
	switch r.FormValue("format") {
	case "csv":
		if err := report.WriteCSV(&buf, table); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeDownload(w, "sentiment_results.csv", "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := report.WriteXLSX(&buf, table); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeDownload(w, "sentiment_results.xlsx", xlsxContentType, buf.Bytes())
	default:
		http.Error(w, "format must be csv or xlsx", http.StatusBadRequest)
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleTemplateCSV(w http.ResponseWriter, r *http.Request) {
	writeDownload(w, "sample_reviews.csv", "text/csv; charset=utf-8", ingest.TemplateCSV())
}

func (s *Server) handleTemplateXLSX(w http.ResponseWriter, r *http.Request) {
	content, err := ingest.TemplateXLSX()
	if err != nil {
		slog.Error("[Web] Failed to build template", slog.String("error", err.Error()))
		http.Error(w, "failed to build template", http.StatusInternalServerError)
		return
	}
	writeDownload(w, "sample_reviews.xlsx", xlsxContentType, content)
}

func writeDownload(w http.ResponseWriter, filename, contentType string, content []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	_, _ = w.Write(content)
}

type healthResponse struct {
	Status        string `json:"status"`
	TextAnalytics string `json:"text_analytics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", TextAnalytics: "unmonitored"}
	status := http.StatusOK
	if s.healthy != nil {
		if s.healthy.Load() {
			resp.TextAnalytics = "reachable"
		} else {
			resp.Status = "degraded"
			resp.TextAnalytics = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
