package handler

import (
	"context"
	"net/http"
	"time"

	"tiendapos/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Health checks Postgres, MongoDB and Redis connectivity plus the carrier
// circuit breaker state. Never exposes credentials or internals.
func Health(db *gorm.DB, mdb *mongo.Database, rdb *redis.Client, carrierCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		mongoStatus := "connected"
		if err := mdb.Client().Ping(ctx, nil); err != nil {
			mongoStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || mongoStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		resp := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"mongo": mongoStatus,
			"redis": redisStatus,
		}
		if carrierCB != nil {
			resp["carrier_breaker"] = carrierCB.State().String()
		}
		c.JSON(status, resp)
	}
}
