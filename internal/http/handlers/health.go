package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	rdb *goredis.Client
	gdb *gorm.DB
}

func NewHealthHandler(rdb *goredis.Client, gdb *gorm.DB) *HealthHandler {
	return &HealthHandler{rdb: rdb, gdb: gdb}
}

type healthStatus struct {
	Redis    string `json:"redis"`
	Postgres string `json:"postgres"`
}

// GET /healthz reports Redis and Postgres reachability independently so
// an operator can tell which dependency, if any, is the problem.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := healthStatus{Redis: "ok", Postgres: "ok"}
	ok := true

	if err := h.rdb.Ping(ctx).Err(); err != nil {
		status.Redis = err.Error()
		ok = false
	}

	sqlDB, err := h.gdb.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		status.Postgres = "unreachable"
		ok = false
	}

	if !ok {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}
