package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/freelancermujtabaa/PicassoPet/internal/adapters/shopify"
	"github.com/freelancermujtabaa/PicassoPet/internal/app/fulfillment"
	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
	"github.com/freelancermujtabaa/PicassoPet/internal/logging"
	"github.com/freelancermujtabaa/PicassoPet/internal/metrics"
)

type fulfillmentService interface {
	ProcessOrder(ctx context.Context, ev domain.OrderEvent) fulfillment.Report
	EnqueueOrder(ctx context.Context, queue fulfillment.ItemQueue, ev domain.OrderEvent) (int, error)
}

type WebhookHandlers struct {
	verifier *shopify.Verifier
	svc      fulfillmentService
	queue    fulfillment.ItemQueue // nil means inline submission
}

func NewWebhookHandlers(verifier *shopify.Verifier, svc fulfillmentService, queue fulfillment.ItemQueue) *WebhookHandlers {
	return &WebhookHandlers{verifier: verifier, svc: svc, queue: queue}
}

// OrderCreated is the order-creation webhook: verify → parse → fan out per
// line item → acknowledge. The 200 only means the request was valid and
// every item was attempted (or enqueued); per-item outcomes live in the
// report and never change the status, because a non-200 makes Shopify
// redeliver the whole order and would duplicate the items that succeeded.
func (h *WebhookHandlers) OrderCreated(w http.ResponseWriter, r *http.Request) {
	metrics.WebhooksReceivedTotal.Inc()

	ev, ok := h.verifyAndDecode(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if h.queue != nil {
		enqueued, err := h.svc.EnqueueOrder(ctx, h.queue, ev)
		if err != nil {
			// Nothing has reached the provider yet, so a redelivery
			// after this 500 is safe.
			logging.LogError("enqueue failed", err, logrus.Fields{
				"order_id": ev.ID, "enqueued": enqueued,
			})
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		logging.LogInfo("order enqueued for fulfillment", logrus.Fields{
			"order_id": ev.ID, "items": enqueued,
		})
	} else {
		report := h.svc.ProcessOrder(ctx, ev)
		logging.LogInfo("order processed", report.Fields())
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// OrderUpdated handles order-update webhooks. Verified and decoded like the
// create route, but only logged: updates carry nothing to fulfill.
func (h *WebhookHandlers) OrderUpdated(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.verifyAndDecode(w, r)
	if !ok {
		return
	}
	logging.LogInfo("order update received", logrus.Fields{
		"order_id": ev.ID, "line_items": len(ev.LineItems),
	})
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// verifyAndDecode reads the raw body, checks the HMAC header against the
// exact wire bytes, then decodes. Verification has to happen before any
// JSON handling: a parsed-then-reserialized body hashes differently.
func (h *WebhookHandlers) verifyAndDecode(w http.ResponseWriter, r *http.Request) (domain.OrderEvent, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		logging.LogError("webhook body read failed", err, logrus.Fields{"path": r.URL.Path})
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return domain.OrderEvent{}, false
	}

	if !h.verifier.Verify(body, r.Header.Get(shopify.SignatureHeader)) {
		logging.LogWarn("webhook signature invalid", logrus.Fields{"path": r.URL.Path})
		metrics.WebhooksUnauthorizedTotal.Inc()
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return domain.OrderEvent{}, false
	}

	var dto webhookOrder
	if err := json.Unmarshal(body, &dto); err != nil {
		logging.LogError("webhook body decode failed", err, logrus.Fields{"path": r.URL.Path})
		metrics.WebhooksMalformedTotal.Inc()
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return domain.OrderEvent{}, false
	}
	return dto.ToModel(), true
}

// WebhookTest answers webhook registration probes.
func WebhookTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "OK",
		"message": "Shopify webhooks endpoint is working",
	})
}
