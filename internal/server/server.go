// Package server exposes the schedule calculator over HTTP.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/iwvelando/amortization/internal/config"
	"github.com/iwvelando/amortization/internal/metrics"
	"github.com/iwvelando/amortization/internal/schedule"
	"github.com/iwvelando/amortization/pkg/constants"
	"github.com/iwvelando/amortization/pkg/format"
	"github.com/iwvelando/amortization/pkg/loans"
	"github.com/iwvelando/amortization/pkg/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI, the schedule
// API and the Prometheus metrics.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	router := mux.NewRouter()

	// Schedule API endpoint (file upload)
	router.HandleFunc("/api/schedule", h.handleSchedule).Methods(http.MethodPost)

	// Schedule API endpoint for editor-driven updates
	router.HandleFunc("/api/editor/schedule", h.handleScheduleEditor).Methods(http.MethodPost)

	// Config serialization endpoint for editor downloads
	router.HandleFunc("/api/editor/export", h.handleConfigExport).Methods(http.MethodPost)

	// HTML chart of the editor configuration
	router.HandleFunc("/api/chart", h.handleChart).Methods(http.MethodPost)

	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	// Everything outside the API falls through to the web UI. Method mismatches
	// on registered routes never reach this handler, so they stay 405.
	router.NotFoundHandler = staticHandler(http.FileServer(http.FS(sub)))

	return router
}

func staticHandler(files http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		files.ServeHTTP(w, r)
	})
}

type scheduleResponse struct {
	Scenarios  []scenarioPayload      `json:"scenarios"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type scenarioPayload struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Policy            string        `json:"policy"`
	PeriodRate        float64       `json:"periodRate"`
	PeriodRatePercent string        `json:"periodRatePercent"`
	Rows              []scheduleRow `json:"rows"`
	Summary           loans.Summary `json:"summary"`
}

type scheduleRow struct {
	loans.PeriodRecord
	Date  string   `json:"date"`
	Notes []string `json:"notes,omitempty"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	start := time.Now()

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runSchedule(w, configBytes, configMap, start, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleScheduleEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleEditor"
	start := time.Now()

	configBytes, configMap, ok := h.decodeEditorConfig(w, r, op)
	if !ok {
		return
	}

	h.runSchedule(w, configBytes, configMap, start, op)
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChart"
	start := time.Now()

	configBytes, _, ok := h.decodeEditorConfig(w, r, op)
	if !ok {
		return
	}

	results, _, status, err := h.compute(configBytes)
	if err != nil {
		h.respondError(w, status, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := output.RenderChart(&buf, results); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err), op)
		return
	}

	metrics.Requests.WithLabelValues(op, strconv.Itoa(http.StatusOK)).Inc()
	metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write chart response", zap.String("op", op), zap.Error(err))
	}
}

// decodeJSONBody decodes a JSON object body no larger than maxUploadSize.
func (h *handler) decodeJSONBody(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, true
}

// decodeEditorConfig reads a JSON body holding either the configuration itself
// or an object with the configuration under "config".
func (h *handler) decodeEditorConfig(w http.ResponseWriter, r *http.Request, op string) ([]byte, map[string]interface{}, bool) {
	payload, ok := h.decodeJSONBody(w, r, op)
	if !ok {
		return nil, nil, false
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondError(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, nil, false
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return nil, nil, false
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), op)
		return nil, nil, false
	}

	return configBytes, configMap, true
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	payload, ok := h.decodeJSONBody(w, r, op)
	if !ok {
		return
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// exportKeyOrder lists the top-level keys written first, in the order of the
// example configuration.
var exportKeyOrder = []string{"logging", "output", "loan", "scenarios"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range exportKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// compute loads the configuration and generates its schedules. On failure it
// returns the HTTP status matching the error.
func (h *handler) compute(configBytes []byte) ([]schedule.Result, []string, int, error) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		return nil, nil, http.StatusBadRequest, err
	}

	warnings := cfg.ValidateConfiguration()

	results, err := schedule.GetSchedules(h.logger, *cfg)
	if err != nil {
		errorType := metrics.ErrorType(err)
		metrics.CalculationErrors.WithLabelValues(errorType).Inc()
		if errorType == "internal" {
			return nil, nil, http.StatusInternalServerError, fmt.Errorf("failed to compute schedule: %w", err)
		}
		return nil, nil, http.StatusBadRequest, err
	}

	for _, result := range results {
		metrics.SchedulesComputed.WithLabelValues(string(result.Policy)).Inc()
	}

	return results, warnings, http.StatusOK, nil
}

func (h *handler) runSchedule(w http.ResponseWriter, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	results, warnings, status, err := h.compute(configBytes)
	if err != nil {
		h.respondError(w, status, err.Error(), op)
		return
	}

	csv, err := output.CsvString(results)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render csv: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := scheduleResponse{
		Scenarios:  buildScenarios(results),
		CSV:        csv,
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	metrics.Requests.WithLabelValues(op, strconv.Itoa(http.StatusOK)).Inc()
	metrics.RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	h.writeJSON(w, http.StatusOK, response)
}

func buildScenarios(results []schedule.Result) []scenarioPayload {
	scenarios := make([]scenarioPayload, 0, len(results))
	for _, result := range results {
		rows := make([]scheduleRow, 0, len(result.Schedule.Records))
		for _, record := range result.Schedule.Records {
			rows = append(rows, scheduleRow{
				PeriodRecord: record,
				Date:         record.Date.Format(constants.DateLayout),
				Notes:        result.Notes[record.Period],
			})
		}

		scenarios = append(scenarios, scenarioPayload{
			ID:                result.ID,
			Name:              result.Name,
			Policy:            string(result.Policy),
			PeriodRate:        result.PeriodRate,
			PeriodRatePercent: format.Percent(result.PeriodRate),
			Rows:              rows,
			Summary:           result.Schedule.Summary,
		})
	}
	return scenarios
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("schedule request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	metrics.Requests.WithLabelValues(op, strconv.Itoa(status)).Inc()

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
