package reclaimer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"github.com/aws/smithy-go"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/chainguard-dev/eip-reclaimer/internal/reclaimer"

// Attribute keys used on span attributes and log records.
const (
	AttrPublicIP     = "public_ip"
	AttrAllocationID = "allocation_id"
	AttrErrorCode    = "error_code"
	AttrReleased     = "released"
)

// Result is the summary returned to the invoker. The JSON field names are
// those expected by Lambda callers.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

func newResult(released int) *Result {
	return &Result{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("Released %d unassociated EIP(s).", released),
	}
}

type Reclaimer struct {
	client AddressClient
	tracer trace.Tracer
}

// New returns a Reclaimer which enumerates and releases addresses through
// 'client'.
func New(client AddressClient) (*Reclaimer, error) {
	if client == nil {
		return nil, fmt.Errorf("address client is required")
	}
	return &Reclaimer{
		client: client,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Addresses returns the VPC Elastic IP addresses in scope, in the order EC2
// returns them. A failed enumeration is yielded once as a non-nil error.
func (r *Reclaimer) Addresses(ctx context.Context) iter.Seq2[Address, error] {
	return elasticIPList(ctx, r.client)
}

// Run releases every address with no bound instance and reports how many
// releases succeeded.
//
// A failed release is logged and skipped; it never changes the status code.
// Only an enumeration failure or cancellation of 'ctx' returns an error.
func (r *Reclaimer) Run(ctx context.Context) (*Result, error) {
	ctx, span := r.tracer.Start(ctx, "reclaimer.Run")
	defer span.End()

	log := clog.FromContext(ctx)

	released := 0
	for addr, err := range r.Addresses(ctx) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		if addr.Associated() {
			continue
		}

		if err := r.release(ctx, addr); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				log.Error("invocation cancelled, stopping", "error", ctxErr, AttrReleased, released)
				span.SetStatus(codes.Error, ctxErr.Error())
				return nil, ctxErr
			}
			args := []any{AttrAllocationID, addr.AllocationID, "error", err}
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) {
				args = append(args, AttrErrorCode, apiErr.ErrorCode())
			}
			log.Error("error releasing EIP", args...)
			continue
		}

		released++
		log.Info("released unassociated EIP", AttrPublicIP, addr.PublicIP, AttrAllocationID, addr.AllocationID)
	}

	span.SetAttributes(attribute.Int(AttrReleased, released))
	return newResult(released), nil
}

func (r *Reclaimer) release(ctx context.Context, addr Address) error {
	ctx, span := r.tracer.Start(ctx, "reclaimer.release", trace.WithAttributes(
		attribute.String(AttrPublicIP, addr.PublicIP),
		attribute.String(AttrAllocationID, addr.AllocationID),
	))
	defer span.End()

	if err := elasticIPRelease(ctx, r.client, addr.AllocationID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
