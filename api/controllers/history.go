package controllers

import (
	"net/http"
	"strings"

	"github.com/adiletbaev/distribo-backend/api/responses"
	"github.com/adiletbaev/distribo-backend/api/validators"
	"github.com/adiletbaev/distribo-backend/internal/history"
	internalorders "github.com/adiletbaev/distribo-backend/internal/orders"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// OrderHistory returns the audit trail for one order. Visibility follows the
// order itself, so the lookup goes through the orders service first.
func OrderHistory(orders internalorders.Service, recorder history.Recorder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := orders.GetOrder(r.Context(), actor, orderID); err != nil {
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

		entries, err := recorder.List(r.Context(), enums.OrderRefTypeStoreOrder, orderID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}
