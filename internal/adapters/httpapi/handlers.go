package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"evidence-lens/internal/adapters/report"
	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/core/guidance"
	perrors "evidence-lens/internal/platform/errors"
	"evidence-lens/internal/platform/logx"
)

const (
	msgNoEvidence     = "Either text or file evidence is required"
	msgNoQuery        = "Query is required"
	msgProvidersDown  = "Both Gemini and OpenAI services failed. Please try again later."
	msgAnalysisFailed = "Analysis failed"
)

type errorBody struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type guidanceBody struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Guidance string `json:"guidance"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logx.Warnf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Status: "error", Error: message})
}

// stagedFile es un archivo subido, copiado a disco con el nombre del cliente.
type stagedFile struct {
	name string
	path string
}

func (f stagedFile) Name() string { return f.name }

func (f stagedFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	in, cleanup, status, err := s.readEvidence(w, r)
	defer cleanup()
	if err != nil {
		logx.Debug("analyze: bad request", logx.Fields{"error": err.Error()})
		respondError(w, status, err.Error())
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, msgNoEvidence)
		return
	}

	rep, err := s.analyzer.Analyze(r.Context(), in)
	if err != nil {
		if errors.Is(err, perrors.ErrNoEvidence) {
			respondError(w, http.StatusBadRequest, msgNoEvidence)
			return
		}
		logx.Error("analyze failed", logx.Fields{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, msgAnalysisFailed)
		return
	}
	respondJSON(w, http.StatusOK, report.NewEnvelope(rep))
}

// readEvidence acepta multipart (evidence_text + evidence_file) o JSON
// {"evidence_text": ...}. cleanup siempre es invocable.
func (s *Server) readEvidence(w http.ResponseWriter, r *http.Request) (analysis.EvidenceInput, func(), int, error) {
	noop := func() {}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return analysis.EvidenceInput{}, noop, http.StatusRequestEntityTooLarge, errors.New("upload too large")
			}
			return analysis.EvidenceInput{}, noop, http.StatusBadRequest, errors.New("failed to parse form")
		}
		removeForm := func() { _ = r.MultipartForm.RemoveAll() }

		in := analysis.EvidenceInput{Text: r.FormValue("evidence_text")}
		file, header, err := r.FormFile("evidence_file")
		if errors.Is(err, http.ErrMissingFile) {
			return in, removeForm, 0, nil
		}
		if err != nil {
			return in, removeForm, http.StatusBadRequest, errors.New("failed to read evidence_file")
		}
		defer file.Close()

		staged, err := s.stage(file, header.Filename)
		if err != nil {
			logx.Error("stage upload", logx.Fields{"error": err.Error()})
			return in, removeForm, http.StatusInternalServerError, errors.New("failed to store evidence_file")
		}
		in.File = staged
		return in, func() {
			_ = os.Remove(staged.path)
			removeForm()
		}, 0, nil

	case mediaType == "application/json" || mediaType == "":
		var body struct {
			EvidenceText string `json:"evidence_text"`
		}
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return analysis.EvidenceInput{}, noop, http.StatusBadRequest, errors.New("invalid JSON body")
		}
		return analysis.EvidenceInput{Text: body.EvidenceText}, noop, 0, nil

	default:
		return analysis.EvidenceInput{}, noop, http.StatusUnsupportedMediaType, errors.New("unsupported content type")
	}
}

func (s *Server) stage(src io.Reader, clientName string) (stagedFile, error) {
	dst, err := os.CreateTemp(s.tempDir, "evidence-*")
	if err != nil {
		return stagedFile{}, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return stagedFile{}, err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return stagedFile{}, err
	}
	name := filepath.Base(strings.ReplaceAll(clientName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return stagedFile{name: name, path: dst.Name()}, nil
}

func (s *Server) guide(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		respondError(w, http.StatusBadRequest, msgNoQuery)
		return
	}

	g, err := s.advisor.Guide(r.Context(), body.Query)
	if err != nil {
		if errors.Is(err, guidance.ErrEmptyQuery) {
			respondError(w, http.StatusBadRequest, msgNoQuery)
			return
		}
		logx.Warn("guidance failed", logx.Fields{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, msgProvidersDown)
		return
	}
	respondJSON(w, http.StatusOK, guidanceBody{Status: "success", Provider: g.Provider, Guidance: g.Guidance})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
