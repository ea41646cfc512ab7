package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tokenlogo/pkg/banner"
	"github.com/matzehuels/tokenlogo/pkg/buildinfo"
	"github.com/matzehuels/tokenlogo/pkg/core/pngenc"
	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/pipeline"
)

// immutableCache is sent with PNG responses; a name/symbol pair always
// renders the same image.
const immutableCache = "public, max-age=31536000, immutable"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

// handleStats reports in-process counters. Without counters it is 404 so
// the route does not advertise data it cannot provide.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Stats == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "stats are not enabled")
		return
	}
	writeJSON(w, http.StatusOK, s.Stats.Snapshot())
}

// handleLogo serves the PNG when the symbol segment ends in ".png" and the
// JSON description otherwise.
func (s *Server) handleLogo(w http.ResponseWriter, r *http.Request) {
	name, symbol, err := pairParams(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	symbol, wantPNG := strings.CutSuffix(symbol, ".png")

	res, err := s.Runner.Execute(r.Context(), pipeline.Options{
		Name:    name,
		Symbol:  symbol,
		Refresh: r.URL.Query().Get("refresh") == "true",
		Persist: s.Persist,
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	if wantPNG {
		writePNG(w, r, res)
		return
	}
	body, err := describe(name, symbol, res)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func writePNG(w http.ResponseWriter, r *http.Request, res *pipeline.Result) {
	etag := `"` + res.SHA256 + `"`
	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Cache-Control", immutableCache)
	if match := r.Header.Get("If-None-Match"); match == etag || match == "*" {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(res.PNG)))
	if res.CacheHit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// LogoInfo is the JSON description of a logo.
type LogoInfo struct {
	Name     string      `json:"name"`
	Symbol   string      `json:"symbol"`
	Seed     uint32      `json:"seed"`
	Palette  PaletteInfo `json:"palette"`
	Grid     []string    `json:"grid"`
	SHA256   string      `json:"sha256"`
	Size     int         `json:"size"`
	CacheHit bool        `json:"cache_hit"`
	Chunks   []ChunkInfo `json:"chunks"`
}

// PaletteInfo lists hues in degrees and colors as #rrggbb.
type PaletteInfo struct {
	Hue1      int    `json:"hue1"`
	Hue2      int    `json:"hue2"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Tint      string `json:"tint"`
}

// ChunkInfo describes one PNG chunk.
type ChunkInfo struct {
	Type   string `json:"type"`
	Length int    `json:"length"`
	CRC    string `json:"crc"`
}

func describe(name, symbol string, res *pipeline.Result) (*LogoInfo, error) {
	chunks, err := pngenc.ReadChunks(res.PNG)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "generated PNG is malformed")
	}
	info := &LogoInfo{
		Name:   name,
		Symbol: symbol,
		Seed:   res.Seed,
		Palette: PaletteInfo{
			Hue1:      res.Palette.Hue1,
			Hue2:      res.Palette.Hue2,
			Primary:   res.Palette.Primary.Hex(),
			Secondary: res.Palette.Secondary.Hex(),
			Tint:      res.Palette.Tint.Hex(),
		},
		Grid:     res.Grid.Rows(),
		SHA256:   res.SHA256,
		Size:     len(res.PNG),
		CacheHit: res.CacheHit,
	}
	for _, c := range chunks {
		info.Chunks = append(info.Chunks, ChunkInfo{
			Type:   c.Type,
			Length: len(c.Data),
			CRC:    fmt.Sprintf("%08x", c.CRC),
		})
	}
	return info, nil
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	name, symbol, err := pairParams(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	rec, err := s.Runner.Lookup(r.Context(), name, symbol)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// BannerRequest is the body of POST /v1/banners.
type BannerRequest struct {
	Agents []*banner.Agent `json:"agents"`
}

// BannerResponse returns the agents with BannerURL filled where resolved.
type BannerResponse struct {
	Agents  []*banner.Agent `json:"agents"`
	Summary banner.Summary  `json:"summary"`
}

func (s *Server) handleBanners(w http.ResponseWriter, r *http.Request) {
	if s.Resolver == nil {
		writeError(w, http.StatusServiceUnavailable, "UNSUPPORTED", "banner resolution is not configured")
		return
	}

	var req BannerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBannerBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeErr(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if len(req.Agents) == 0 {
		s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "agents cannot be empty"))
		return
	}
	for i, a := range req.Agents {
		if a == nil {
			s.writeErr(w, r, errors.New(errors.ErrCodeInvalidInput, "agent %d is null", i))
			return
		}
	}

	summary, err := s.Resolver.Resolve(r.Context(), req.Agents)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BannerResponse{Agents: req.Agents, Summary: summary})
}

// pairParams decodes and validates the {name} and {symbol} path segments.
// The symbol may still carry a ".png" suffix; it is validated without it.
func pairParams(r *http.Request) (string, string, error) {
	name, err := pathParam(r, "name")
	if err != nil {
		return "", "", err
	}
	symbol, err := pathParam(r, "symbol")
	if err != nil {
		return "", "", err
	}
	if err := errors.ValidateName(name); err != nil {
		return "", "", err
	}
	if err := errors.ValidateSymbol(strings.TrimSuffix(symbol, ".png")); err != nil {
		return "", "", err
	}
	return name, symbol, nil
}

// pathParam returns a decoded URL parameter. chi matches against the raw
// path when the request has one, leaving parameters percent-encoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidIdentifier, err, "malformed %s", key)
	}
	return decoded, nil
}
