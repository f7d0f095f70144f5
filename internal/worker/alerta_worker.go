package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertas: composes a notification
// email and sends it to the configured inventory address via SMTP.
// A Redis SETNX cooldown key suppresses repeat alerts for the same product
// while the condition persists.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiendapos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	alertaCooldown   = 6 * time.Hour
	alertaMaxRetries = 3
)

// AlertaStockPayload is the job envelope sent to QueueAlertas.
type AlertaStockPayload struct {
	ProductoID string `json:"producto_id"`
	SKU        string `json:"sku"`
	Nombre     string `json:"nombre"`
	StockQty   int    `json:"stock_qty"`
	MinStock   int    `json:"min_stock"`
}

// AlertaWorker sends low-stock alert emails.
type AlertaWorker struct {
	mailer     *infra.Mailer
	alertEmail string
}

func NewAlertaWorker(mailer *infra.Mailer, alertEmail string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, alertEmail: alertEmail}
}

// Process sends the alert, with retries and DLQ on exhaustion.
func (w *AlertaWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if w.alertEmail == "" {
		log.Warn().Msg("alerta_worker: ALERT_EMAIL not configured — skipping")
		return
	}

	// Cooldown: one alert per product per window
	cooldownKey := "alerta:enviada:" + payload.ProductoID
	ok, err := rdb.SetNX(ctx, cooldownKey, 1, alertaCooldown).Result()
	if err == nil && !ok {
		log.Debug().Str("producto_id", payload.ProductoID).Msg("alerta_worker: cooldown active — skipping")
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s (%s)", payload.Nombre, payload.SKU)
	body := fmt.Sprintf(
		"El producto %s (SKU %s) quedó con %d unidades, por debajo del mínimo de %d.\n"+
			"Revisar el inventario y reponer stock.\n",
		payload.Nombre, payload.SKU, payload.StockQty, payload.MinStock)

	var sendErr error
	for attempt := 1; attempt <= alertaMaxRetries; attempt++ {
		sendErr = w.mailer.Send(w.alertEmail, subject, body, "")
		if sendErr == nil {
			log.Info().Str("producto_id", payload.ProductoID).Str("to", w.alertEmail).
				Msg("alerta_worker: low-stock alert sent")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}

	// Retries exhausted — release the cooldown so the next adjustment can retry
	rdb.Del(ctx, cooldownKey)
	SendToDLQ(ctx, rdb, QueueAlertas, "alerta_stock", raw, sendErr.Error(), alertaMaxRetries)
}
