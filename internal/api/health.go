package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	pgPool              *pgxpool.Pool
	redis               *redis.Client
	env                 string
	version             string
	telephonyConfigured bool
}

func NewHealthHandler(pgPool *pgxpool.Pool, rdb *redis.Client, env, version string, telephonyConfigured bool) *HealthHandler {
	return &HealthHandler{
		pgPool:              pgPool,
		redis:               rdb,
		env:                 env,
		version:             version,
		telephonyConfigured: telephonyConfigured,
	}
}

type LivenessResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

// Root answers the liveness probe on GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Service: "dental-receptionist-api",
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.Root(w, r)
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	status := "ok"

	pgCtx, pgCancel := context.WithTimeout(ctx, 1*time.Second)
	err := h.pgPool.Ping(pgCtx)
	pgCancel()
	if err != nil {
		deps["postgres"] = "down"
		status = "error"
	} else {
		deps["postgres"] = "ok"
	}

	redisCtx, redisCancel := context.WithTimeout(ctx, 1*time.Second)
	err = h.redis.Ping(redisCtx).Err()
	redisCancel()
	if err != nil {
		deps["redis"] = "down"
		if status == "ok" {
			status = "degraded"
		} else {
			status = "error"
		}
	} else {
		deps["redis"] = "ok"
	}

	resp := ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, resp)
}

type ProbeResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
	Telephony        string   `json:"telephony"`
}

// Probe answers GET /test: a descriptive store/telephony configuration
// report. Connectivity failures are reported in the body, never raised.
func (h *HealthHandler) Probe(w http.ResponseWriter, r *http.Request) {
	resp := ProbeResponse{
		Backend:          "running",
		Database:         "not available",
		DatabaseURL:      "set",
		ConnectionStatus: "not connected",
		Collections:      []string{},
		Telephony:        "not configured",
	}
	if h.telephonyConfigured {
		resp.Telephony = "configured"
	}

	if h.pgPool == nil {
		resp.DatabaseURL = "not set"
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pgPool.Ping(ctx); err != nil {
		resp.Database = "error: " + err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.ConnectionStatus = "connected"
	resp.Database = "connected"

	rows, err := h.pgPool.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)
	if err != nil {
		resp.Database = "connected but error: " + err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			resp.Database = "connected but error: " + err.Error()
			writeJSON(w, http.StatusOK, resp)
			return
		}
		resp.Collections = append(resp.Collections, name)
	}

	writeJSON(w, http.StatusOK, resp)
}
