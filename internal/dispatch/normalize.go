package dispatch

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/hivebridge/thehive-mcp/internal/bulk"
	"github.com/hivebridge/thehive-mcp/internal/hive"
	"github.com/hivebridge/thehive-mcp/internal/registry"
)

// Classify maps an error to its envelope kind. Upstream HTTP statuses are
// folded into the taxonomy here, in one place, so that handlers never
// inspect status codes themselves.
func Classify(err error) ErrorKind {
	var verr *registry.ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}
	if errors.Is(err, registry.ErrUnknownOperation) {
		return KindUnknownOperation
	}

	var apiErr *hive.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 401 || apiErr.Status == 403:
			return KindAuthentication
		case apiErr.Status == 404:
			return KindNotFound
		case apiErr.Status == 409:
			return KindConflict
		case apiErr.Status == 429 || apiErr.Status >= 500:
			return KindTransientUpstream
		default:
			return KindUnexpected
		}
	}

	// Network-level failures: connection refused, timeouts, DNS. These are
	// retried inside the client; by the time they surface here the retry
	// budget is spent, but they remain transient from the caller's view.
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return KindTransientUpstream
	}

	return KindUnexpected
}

// FromBulk converts per-item bulk outcomes into the bulk result payload,
// classifying each item error independently. Order follows the input.
func FromBulk(res *bulk.Result) BulkPayload {
	payload := BulkPayload{
		Succeeded: []string{},
		Failed:    []BulkFailure{},
		Total:     len(res.Items),
	}
	for _, it := range res.Items {
		if it.Err == nil {
			payload.Succeeded = append(payload.Succeeded, it.Key)
			continue
		}
		payload.Failed = append(payload.Failed, BulkFailure{
			ID:      it.Key,
			Kind:    Classify(it.Err),
			Message: it.Err.Error(),
		})
	}
	return payload
}
