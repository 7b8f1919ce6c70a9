// Package responses renders the gateway's response envelopes. Success
// bodies wrap under "data", failures under "error" with a stable code.
// What a client may see is driven by the error taxonomy, never by the
// raw error text.
package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
	"github.com/nexusmart/storefront-gateway/pkg/logger"
	"github.com/nexusmart/storefront-gateway/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError classifies err, logs the full chain when a logger is
// provided, and writes the public envelope for the resulting code.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if logg != nil {
		logUpstreamError(ctx, logg, err)
	}
	writeJSON(w, meta.HTTPStatus, errorEnvelope(typed, meta))
}

func errorEnvelope(typed *pkgerrors.Error, meta pkgerrors.Metadata) types.ErrorEnvelope {
	payload := types.ErrorEnvelope{
		Error: types.APIError{
			Code:    string(typed.Code()),
			Message: publicMessage(typed, meta),
		},
	}
	if meta.DetailsAllowed {
		payload.Error.Details = typed.Details()
	}
	return payload
}

// publicMessage surfaces the error's own message only for codes where
// the text is client-actionable. Upstream and internal failures always
// fall back to the generic message so nothing sensitive leaks.
func publicMessage(typed *pkgerrors.Error, meta pkgerrors.Metadata) string {
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeOrderRejected,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}

func logUpstreamError(ctx context.Context, logg *logger.Logger, err error) {
	dump := pkgerrors.Dump(err)
	ctx = logg.WithFields(ctx, map[string]any{
		"error":        dump.TopMessage,
		"error_code":   dump.Code,
		"error_chain":  dump.Chain,
		"upstream_op":  dump.UpstreamOp,
		"upstream_url": dump.UpstreamURL,
	})
	logg.Error(ctx, "request.error", err)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
