package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/config"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/errors"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/observability"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/pipeline"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/plan"
)

func newTestServer(t *testing.T) (*httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := observability.NewPrometheus(reg)
	observability.SetPipelineHooks(m)
	observability.SetHTTPHooks(m)
	t.Cleanup(observability.Reset)

	logger := log.New(io.Discard)
	s := &Server{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Config:   config.Default(),
		Logger:   logger,
		Gatherer: reg,
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, reg
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "response should carry a generated request ID")
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts, _ := newTestServer(t)
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
}

func TestCreatePlan(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := post(t, ts.URL+"/v1/plans", `{"width_cells": 20, "height_cells": 20, "prefix": "garage_"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var p plan.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, 20, p.Board.WidthCells)
	assert.Equal(t, 7, p.Size.Width)
	assert.Equal(t, 9, p.TileCount())
	require.Len(t, p.Stacks, 1)
	assert.Equal(t, "garage_4x7x7_core-4x7x6_top-6x6_corner", p.Stacks[0].Name)
}

func TestCreatePlanMM(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := post(t, ts.URL+"/v1/plans", `{"width_mm": 220, "height_mm": 220}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p plan.Plan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	require.Len(t, p.Stacks, 1)
	assert.Equal(t, "8x8_corner", p.Stacks[0].Name)
}

func TestCreatePlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", `{"width_mm":`, http.StatusBadRequest, errors.ErrCodeUsage},
		{"unknown field", `{"width_mm": 100, "height_mm": 100, "colour": "red"}`, http.StatusBadRequest, errors.ErrCodeUsage},
		{"both units", `{"width_mm": 100, "width_cells": 4, "height_cells": 4}`, http.StatusBadRequest, errors.ErrCodeUsage},
		{"bad fit", `{"width_cells": 4, "height_cells": 4, "fit": "loose"}`, http.StatusBadRequest, errors.ErrCodeUsage},
		{"bad prefix", `{"width_cells": 4, "height_cells": 4, "prefix": "../x"}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"undersized tiles", `{"width_cells": 10, "height_cells": 25, "tile_width": 5, "tile_height": 8}`, http.StatusUnprocessableEntity, errors.ErrCodeGeometry},
	}

	ts, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/plans", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestOversizedBoardsAreRejected(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"huge board preview", "/v1/plans/preview.svg", `{"width_cells": 1048576, "height_cells": 1048576, "tile_width": 2}`},
		{"too many tiles preview", "/v1/plans/preview.svg", `{"width_cells": 4000, "height_cells": 4000, "tile_width": 2}`},
		{"width near max int", "/v1/plans", `{"width_cells": 9223372036854775804, "height_cells": 10}`},
		{"huge width mm", "/v1/plans", `{"width_mm": 2e20, "height_cells": 10}`},
		{"huge pinned tile", "/v1/plans/preview.svg", `{"width_cells": 100, "height_cells": 100, "tile_width": 100000}`},
	}

	ts, _ := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(errors.ErrCodeUsage), body.Code)
		})
	}
}

func TestPreviewSVG(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := post(t, ts.URL+"/v1/plans/preview.svg", `{"width_cells": 20, "height_cells": 16}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("<svg")), "body should be an SVG document")
}

func TestMetrics(t *testing.T) {
	ts, _ := newTestServer(t)

	post(t, ts.URL+"/v1/plans", `{"width_cells": 8, "height_cells": 8}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `multiboard_pipeline_plans_total{result="ok"} 1`)
	assert.Contains(t, body, `multiboard_http_requests_total{method="POST",route="/v1/plans",status="200"} 1`)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeUsage, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeGeometry, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeExternalTool, "x"), http.StatusBadGateway},
		{io.EOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
