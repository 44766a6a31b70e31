package controllers

import (
	"net/http"
	"strings"

	"github.com/adiletbaev/distribo-backend/api/responses"
	"github.com/adiletbaev/distribo-backend/api/validators"
	"github.com/adiletbaev/distribo-backend/internal/defects"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// ReportDefect files a defect claim against an accepted order line.
func ReportDefect(svc defects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input defects.ReportInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		defect, err := svc.Report(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, defect)
	}
}

// DecideDefect approves or rejects a pending claim.
func DecideDefect(svc defects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defectID, err := pathUUID(r, "defectID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input defects.DecideInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		defect, err := svc.Decide(r.Context(), actor, defectID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, defect)
	}
}

// GetDefect returns one claim, scoped to the caller.
func GetDefect(svc defects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defectID, err := pathUUID(r, "defectID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		defect, err := svc.Get(r.Context(), actor, defectID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, defect)
	}
}

// ListDefects returns claims visible to the caller.
func ListDefects(svc defects.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters := defects.Filters{}
		if filters.OrderID, err = validators.ParseQueryUUID(r, "order_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.StoreID, err = validators.ParseQueryUUID(r, "store_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.DefectStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown defect status"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), actor, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
