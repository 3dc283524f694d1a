package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/ocrsynth/pkg/errors"
	"github.com/matzehuels/ocrsynth/pkg/httputil"
	"github.com/matzehuels/ocrsynth/pkg/io"
	"github.com/matzehuels/ocrsynth/pkg/pipeline"
	"github.com/matzehuels/ocrsynth/pkg/render"
)

// Provenance headers on a synthesize response.
const (
	HeaderCondition = "X-Ocrsynth-Condition"
	HeaderSeed      = "X-Ocrsynth-Seed"
	HeaderFont      = "X-Ocrsynth-Font"
	HeaderStages    = "X-Ocrsynth-Stages"
	HeaderCache     = "X-Ocrsynth-Cache"
)

// SynthesizeRequest is the POST /v1/synthesize body. Render fields are
// inlined; omitted fields take their defaults.
type SynthesizeRequest struct {
	render.Request
	Condition string  `json:"condition,omitempty"`
	Seed      *uint64 `json:"seed,omitempty"`
	Format    string  `json:"format,omitempty"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	var body SynthesizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if body.Text == "" {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "text is required"))
		return
	}
	if body.Condition == "" {
		body.Condition = pipeline.DefaultCondition
	}
	seed := pipeline.DefaultSeed
	if body.Seed != nil {
		seed = *body.Seed
	}
	format, err := io.ParseFormat(body.Format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.Synthesize(r.Context(), body.Request, body.Condition, seed, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(res.Image)))
	h.Set(HeaderCondition, res.Provenance.Condition)
	h.Set(HeaderSeed, strconv.FormatUint(res.Provenance.Seed, 10))
	h.Set(HeaderFont, res.Provenance.Font)
	h.Set(HeaderStages, stageList(res.Provenance))
	if res.CacheHit {
		h.Set(HeaderCache, "hit")
	} else {
		h.Set(HeaderCache, "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Image)
}

func stageList(p io.Provenance) string {
	var out []byte
	for i, st := range p.Stages {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, st.Kind...)
	}
	return string(out)
}

// ProfileInfo describes a condition in GET /v1/profiles.
type ProfileInfo struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Font        string      `json:"font"`
	Stages      []StageInfo `json:"stages"`
}

// StageInfo is one stage of a ProfileInfo.
type StageInfo struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params"`
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	names := s.runner.Engine.Conditions()
	out := make([]ProfileInfo, 0, len(names))
	for _, name := range names {
		p, err := s.runner.Engine.ResolveProfile(name)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		info := ProfileInfo{Name: p.Name, Description: p.Description, Font: string(p.FontStyle)}
		for _, st := range p.Stages {
			info.Stages = append(info.Stages, StageInfo{Kind: st.Kind.String(), Params: st.Params.Values()})
		}
		out = append(out, info)
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "path", r.URL.Path, "err", err)
		return
	}
	s.logger.Debug("request rejected", "id", RequestID(r.Context()), "status", status, "err", err)
}
