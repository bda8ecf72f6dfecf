package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	domain "github.com/freelancermujtabaa/PicassoPet/internal/domain/order"
	"github.com/freelancermujtabaa/PicassoPet/internal/logging"
	"github.com/freelancermujtabaa/PicassoPet/internal/metrics"
	"github.com/freelancermujtabaa/PicassoPet/internal/validation"
)

type ItemStatus string

const (
	StatusSubmitted       ItemStatus = "submitted"
	StatusMappingNotFound ItemStatus = "mapping_not_found"
	StatusInvalid         ItemStatus = "invalid"
	StatusDuplicate       ItemStatus = "duplicate"
	StatusSubmitFailed    ItemStatus = "submit_failed"
)

type ItemResult struct {
	LineItemID      int64
	VariantID       string
	Status          ItemStatus
	ProviderOrderID int64
	Err             error
}

// Report collects one result per attempted line item. The webhook HTTP
// status reflects only request-level validity; item outcomes live here.
type Report struct {
	OrderID int64
	Results []ItemResult
}

func (r Report) Count(status ItemStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

func (r Report) Fields() logrus.Fields {
	return logrus.Fields{
		"order_id":          r.OrderID,
		"items_attempted":   len(r.Results),
		"submitted":         r.Count(StatusSubmitted),
		"mapping_not_found": r.Count(StatusMappingNotFound),
		"invalid":           r.Count(StatusInvalid),
		"duplicate":         r.Count(StatusDuplicate),
		"submit_failed":     r.Count(StatusSubmitFailed),
	}
}

type Service struct {
	resolver      VariantResolver
	submitter     OrderSubmitter
	ledger        Ledger
	submitTimeout time.Duration
}

func NewService(resolver VariantResolver, submitter OrderSubmitter, ledger Ledger, submitTimeout time.Duration) *Service {
	if submitTimeout <= 0 {
		submitTimeout = 10 * time.Second
	}
	return &Service{
		resolver:      resolver,
		submitter:     submitter,
		ledger:        ledger,
		submitTimeout: submitTimeout,
	}
}

// ProcessOrder attempts every actionable line item of the event and returns
// a report. One item's failure never blocks its siblings.
func (s *Service) ProcessOrder(ctx context.Context, ev domain.OrderEvent) Report {
	report := Report{OrderID: ev.ID}
	items := ActionableItems(ev)

	logging.LogInfo("processing order event", logrus.Fields{
		"order_id":         ev.ID,
		"line_items":       len(ev.LineItems),
		"actionable_items": len(items),
	})

	for _, ai := range items {
		report.Results = append(report.Results, s.ProcessItem(ctx, ev, ai))
	}
	return report
}

// ProcessItem runs map → reserve → submit for one line item.
func (s *Service) ProcessItem(ctx context.Context, ev domain.OrderEvent, ai ActionableItem) ItemResult {
	res := ItemResult{LineItemID: ai.Item.ID, VariantID: ai.Item.VariantID}

	if err := validation.IsValidSubmission(ev, ai.Item, ai.ArtworkURL); err != nil {
		logging.LogError("item failed pre-submission validation", err, logrus.Fields{
			"order_id": ev.ID, "line_item_id": ai.Item.ID,
		})
		metrics.ItemsSkippedTotal.WithLabelValues("invalid").Inc()
		res.Status = StatusInvalid
		res.Err = fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		return res
	}

	syncVariantID, err := s.resolver.Resolve(ctx, ai.Item.VariantID)
	if err != nil {
		if errors.Is(err, ErrMappingNotFound) {
			logging.LogWarn("no provider mapping for variant", logrus.Fields{
				"order_id": ev.ID, "line_item_id": ai.Item.ID, "variant_id": ai.Item.VariantID,
			})
			metrics.ItemsSkippedTotal.WithLabelValues("mapping_not_found").Inc()
			res.Status = StatusMappingNotFound
		} else {
			logging.LogError("variant resolution failed", err, logrus.Fields{
				"order_id": ev.ID, "line_item_id": ai.Item.ID, "variant_id": ai.Item.VariantID,
			})
			metrics.ItemsFailedTotal.WithLabelValues("resolver").Inc()
			res.Status = StatusSubmitFailed
		}
		res.Err = err
		return res
	}

	reserved, err := s.ledger.Reserve(ctx, ev.ID, ai.Item.ID)
	if err != nil {
		logging.LogError("ledger reserve failed", err, logrus.Fields{
			"order_id": ev.ID, "line_item_id": ai.Item.ID,
		})
		metrics.ItemsFailedTotal.WithLabelValues("ledger").Inc()
		res.Status = StatusSubmitFailed
		res.Err = err
		return res
	}
	if !reserved {
		logging.LogWarn("skipping already-submitted item", logrus.Fields{
			"order_id": ev.ID, "line_item_id": ai.Item.ID,
		})
		metrics.ItemsSkippedTotal.WithLabelValues("duplicate").Inc()
		res.Status = StatusDuplicate
		res.Err = ErrDuplicateSubmission
		return res
	}

	subCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	start := time.Now()
	providerOrderID, err := s.submitter.SubmitItem(subCtx, ev, ai.Item, ai.ArtworkURL, ai.Email, syncVariantID)
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logging.LogError("provider submission failed", err, logrus.Fields{
			"order_id": ev.ID, "line_item_id": ai.Item.ID, "sync_variant_id": syncVariantID,
		})
		metrics.ItemsFailedTotal.WithLabelValues("provider").Inc()
		// Free the pair so a manual redelivery retries exactly this item.
		if relErr := s.ledger.Release(ctx, ev.ID, ai.Item.ID); relErr != nil {
			logging.LogError("ledger release failed", relErr, logrus.Fields{
				"order_id": ev.ID, "line_item_id": ai.Item.ID,
			})
		}
		res.Status = StatusSubmitFailed
		res.Err = err
		return res
	}

	if err := s.ledger.MarkSubmitted(ctx, ev.ID, ai.Item.ID, providerOrderID); err != nil {
		logging.LogError("ledger mark failed", err, logrus.Fields{
			"order_id": ev.ID, "line_item_id": ai.Item.ID, "provider_order_id": providerOrderID,
		})
	}

	logging.LogInfo("item submitted to provider", logrus.Fields{
		"order_id": ev.ID, "line_item_id": ai.Item.ID,
		"sync_variant_id": syncVariantID, "provider_order_id": providerOrderID,
	})
	metrics.ItemsSubmittedTotal.Inc()
	res.Status = StatusSubmitted
	res.ProviderOrderID = providerOrderID
	return res
}

// EnqueueOrder publishes one queue event per actionable item instead of
// submitting inline. An enqueue failure is returned so the webhook can be
// redelivered; nothing has reached the provider yet at that point.
func (s *Service) EnqueueOrder(ctx context.Context, queue ItemQueue, ev domain.OrderEvent) (int, error) {
	items := ActionableItems(ev)
	for i, ai := range items {
		if err := queue.EnqueueItem(ctx, ev, ai); err != nil {
			return i, err
		}
	}
	return len(items), nil
}
