package handler

import (
	"net/http"

	"onboard/internal/organization/models"
	"onboard/internal/organization/outcome"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
)

// Response is the transport form of a registration outcome.
type Response struct {
	Status   int
	Location string
	Body     any
}

// MapOutcome converts an outcome to its response. Every outcome kind has
// exactly one response; it panics on nil.
func MapOutcome(o outcome.Outcome) Response {
	return outcome.Match[Response](o, responseMapper{})
}

type responseMapper struct{}

func (responseMapper) Registered(o outcome.Registered) Response {
	return Response{
		Status:   http.StatusCreated,
		Location: models.ResourcePath(o.Organization.Code),
		Body:     o.Organization,
	}
}

func (responseMapper) NotFound(outcome.NotFound) Response {
	return errorResponse(dErrors.CodeNotFound, "no registry record for the given ipa_code")
}

func (responseMapper) Internal(outcome.Internal) Response {
	return errorResponse(dErrors.CodeInternal, "")
}

func (responseMapper) Conflict(outcome.Conflict) Response {
	return errorResponse(dErrors.CodeConflict, "organization already registered for the given ipa_code")
}

func (responseMapper) Rejected(o outcome.Rejected) Response {
	return errorResponse(dErrors.CodeValidation, o.Reason)
}

func errorResponse(code dErrors.Code, description string) Response {
	body := httputil.ErrorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = description
	}
	return Response{Status: httputil.StatusFor(code), Body: body}
}

func (r Response) write(w http.ResponseWriter) {
	if r.Location != "" {
		w.Header().Set("Location", r.Location)
	}
	httputil.WriteJSON(w, r.Status, r.Body)
}
