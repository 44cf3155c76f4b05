package server

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/piwi3910/BoxCut/internal/design"
	"github.com/piwi3910/BoxCut/internal/engine"
	"github.com/piwi3910/BoxCut/internal/export"
	"github.com/piwi3910/BoxCut/internal/gcode"
	"github.com/piwi3910/BoxCut/internal/model"
)

// BoxRequest is the body of every /v1/boxes call. Omitted fields keep the
// defaults of model.DefaultBoxParams. Mill only matters for GCode.
type BoxRequest struct {
	model.BoxParams
	Mill *model.MillSettings `json:"mill,omitempty"`
}

// Bounds is the canvas extent of a result.
type Bounds struct {
	Min model.Point2D `json:"min"`
	Max model.Point2D `json:"max"`
}

// BoxResponse is the JSON rendering of a generated box.
type BoxResponse struct {
	Success    bool                    `json:"success"`
	DesignID   string                  `json:"design_id"`
	Params     model.BoxParams         `json:"params"`
	Dimensions model.Dimensions        `json:"dimensions"`
	Walls      model.WallConfiguration `json:"walls"`
	Placements []engine.Placement      `json:"placements"`
	Paths      []model.Path            `json:"paths"`
	Splits     []model.SplitPlan       `json:"splits,omitempty"`
	Pieces     []model.SplitPiece      `json:"pieces,omitempty"`
	Bounds     Bounds                  `json:"bounds"`
	CutLength  float64                 `json:"cut_length"`
	Nesting    *model.NestResult       `json:"nesting,omitempty"`
	Warnings   []string                `json:"warnings,omitempty"`
}

// ValidateResponse reports whether a parameter set would generate.
type ValidateResponse struct {
	Valid          bool                     `json:"valid"`
	Error          *ErrorBody               `json:"error,omitempty"`
	Dimensions     *model.Dimensions        `json:"dimensions,omitempty"`
	Walls          *model.WallConfiguration `json:"walls,omitempty"`
	LengthDividers *model.DividerLayout     `json:"length_dividers,omitempty"`
	WidthDividers  *model.DividerLayout     `json:"width_dividers,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
}

// ScenarioSummary is one row of a comparison.
type ScenarioSummary struct {
	Name       string     `json:"name"`
	Error      *ErrorBody `json:"error,omitempty"`
	PathCount  int        `json:"path_count"`
	PointCount int        `json:"point_count"`
	CutLength  float64    `json:"cut_length"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Warnings   int        `json:"warnings"`
}

func decodeBox(r *http.Request) (BoxRequest, error) {
	req := BoxRequest{BoxParams: model.DefaultBoxParams()}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		return req, err
	}
	return req, nil
}

// generate decodes the request and runs the generator, writing the error
// response itself on failure.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*engine.Result, BoxRequest, bool) {
	req, err := decodeBox(r)
	if err != nil {
		writeRequestError(w, r, err)
		return nil, req, false
	}
	res, err := engine.New(req.BoxParams).Generate()
	if err != nil {
		if model.IsDesignError(err) {
			writeRequestError(w, r, err)
		} else {
			s.log.WithContext(r.Context()).Error("generation failed", "error", err)
			writeError(w, r, http.StatusInternalServerError, CodeInternal, "generation failed", "")
		}
		return nil, req, false
	}
	s.log.WithContext(r.Context()).Debug("box generated",
		"design_id", res.DesignID,
		"panels", len(res.Placements),
		"paths", len(res.Paths),
	)
	return res, req, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "healthy",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.generate(w, r)
	if !ok {
		return
	}
	lo, hi, _ := res.Bounds()
	// Only bounded material has a sheet size to nest on.
	var nest *model.NestResult
	if p := res.Design.Params; p.MaxMaterialWidth > 0 && p.MaxMaterialHeight > 0 {
		n, err := engine.Nest(export.CutListPanels(res), p.MaxMaterialWidth, p.MaxMaterialHeight, p.Kerf)
		if err != nil {
			s.log.WithContext(r.Context()).Warn("nesting failed", "design_id", res.DesignID, "error", err)
		} else {
			nest = &n
		}
	}
	render.JSON(w, r, BoxResponse{
		Success:    true,
		DesignID:   res.DesignID,
		Params:     res.Design.Params,
		Dimensions: res.Design.Dimensions,
		Walls:      res.Design.Walls,
		Placements: res.Placements,
		Paths:      res.Paths,
		Splits:     res.Splits,
		Pieces:     res.Pieces,
		Bounds:     Bounds{Min: lo, Max: hi},
		CutLength:  model.TotalCutLength(res.Paths),
		Nesting:    nest,
		Warnings:   res.Warnings,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBox(r)
	if err == nil {
		var d *design.Design
		if d, err = design.New(req.BoxParams); err == nil {
			render.JSON(w, r, ValidateResponse{
				Valid:          true,
				Dimensions:     &d.Dimensions,
				Walls:          &d.Walls,
				LengthDividers: &d.LengthDividers,
				WidthDividers:  &d.WidthDividers,
				Warnings:       d.Warnings,
			})
			return
		}
	}
	if !model.IsDesignError(err) {
		writeRequestError(w, r, err)
		return
	}
	body := designErrorBody(err)
	render.JSON(w, r, ValidateResponse{Error: &body})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBox(r)
	if err != nil {
		writeRequestError(w, r, err)
		return
	}
	results := engine.CompareScenarios(engine.BuildDefaultScenarios(req.BoxParams))
	out := make([]ScenarioSummary, 0, len(results))
	for _, cr := range results {
		row := ScenarioSummary{
			Name:       cr.Scenario.Name,
			PathCount:  cr.PathCount,
			PointCount: cr.PointCount,
			CutLength:  cr.CutLength,
			Width:      cr.Width,
			Height:     cr.Height,
			Warnings:   cr.Warnings,
		}
		if cr.Err != nil {
			body := designErrorBody(cr.Err)
			row.Error = &body
		}
		out = append(out, row)
	}
	render.JSON(w, r, map[string]any{"scenarios": out})
}

// writeFile renders a generated result through an exporter into the
// response body.
func (s *Server) writeFile(w http.ResponseWriter, r *http.Request, contentType, filename string, write func(io.Writer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		s.log.WithContext(r.Context()).Error("export failed", "file", filename, "error", err)
		writeError(w, r, http.StatusInternalServerError, CodeInternal, "export failed", "")
		return
	}
	w.Header().Set("Content-Type", contentType)
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.generate(w, r)
	if !ok {
		return
	}
	s.writeFile(w, r, "image/svg+xml", "", func(out io.Writer) error {
		return export.WriteSVG(out, res)
	})
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.generate(w, r)
	if !ok {
		return
	}
	s.writeFile(w, r, "application/pdf", res.DesignID+".pdf", func(out io.Writer) error {
		return export.WritePDF(out, res)
	})
}

func (s *Server) handleCutList(w http.ResponseWriter, r *http.Request) {
	res, _, ok := s.generate(w, r)
	if !ok {
		return
	}
	s.writeFile(w, r, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		res.DesignID+".xlsx", func(out io.Writer) error {
			return export.WriteCutList(out, res)
		})
}

func (s *Server) handleGCode(w http.ResponseWriter, r *http.Request) {
	res, req, ok := s.generate(w, r)
	if !ok {
		return
	}
	settings := s.mill
	if req.Mill != nil {
		settings = *req.Mill
	}
	code, err := gcode.New(settings).Generate(res)
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error(), "mill")
		return
	}
	s.writeFile(w, r, "text/plain; charset=utf-8", res.DesignID+".nc", func(out io.Writer) error {
		_, err := io.WriteString(out, code)
		return err
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, CodeNotFound, "the requested resource was not found", "")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "the requested method is not allowed for this resource", "")
}
