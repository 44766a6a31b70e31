package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adiletbaev/distribo-backend/api/responses"
	"github.com/adiletbaev/distribo-backend/api/validators"
	internalorders "github.com/adiletbaev/distribo-backend/internal/orders"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// CreateOrder places a new store order in PENDING state.
func CreateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns one order with its items, scoped to the caller.
func GetOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		order, err := svc.GetOrder(r.Context(), actor, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListOrders returns a page of orders visible to the caller.
func ListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
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

		filters := internalorders.Filters{}
		if filters.StoreID, err = validators.ParseQueryUUID(r, "store_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.PartnerID, err = validators.ParseQueryUUID(r, "partner_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.StoreOrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status"))
				return
			}
			filters.Status = &status
		}
		if filters.From, err = validators.ParseQueryTime(r, "from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.To, err = validators.ParseQueryTime(r, "to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), actor, filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ApproveOrder moves a pending order to IN_TRANSIT, optionally assigning a
// partner in the same step.
func ApproveOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, func(r *http.Request, svc internalorders.Service, orderID uuid.UUID) (any, error) {
		actor, err := actorFrom(r)
		if err != nil {
			return nil, err
		}
		var input internalorders.ApproveInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return svc.AdminApprove(r.Context(), actor, orderID, input)
	})
}

// RejectOrder terminally rejects a pending order with a reason.
func RejectOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, func(r *http.Request, svc internalorders.Service, orderID uuid.UUID) (any, error) {
		actor, err := actorFrom(r)
		if err != nil {
			return nil, err
		}
		var input internalorders.RejectInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return svc.AdminReject(r.Context(), actor, orderID, input)
	})
}

// AssignPartner sets the delivering partner on an unassigned in-transit order.
func AssignPartner(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, func(r *http.Request, svc internalorders.Service, orderID uuid.UUID) (any, error) {
		actor, err := actorFrom(r)
		if err != nil {
			return nil, err
		}
		var input internalorders.AssignPartnerInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return svc.AssignPartner(r.Context(), actor, orderID, input)
	})
}

// ConfirmOrder lets the assigned partner settle the delivery terms and move
// the order to ACCEPTED.
func ConfirmOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, func(r *http.Request, svc internalorders.Service, orderID uuid.UUID) (any, error) {
		actor, err := actorFrom(r)
		if err != nil {
			return nil, err
		}
		var input internalorders.ConfirmInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return svc.PartnerConfirm(r.Context(), actor, orderID, input)
	})
}

// CancelOrderItems cancels lines on a pending order and recomputes its total.
func CancelOrderItems(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return orderTransition(svc, logg, func(r *http.Request, svc internalorders.Service, orderID uuid.UUID) (any, error) {
		actor, err := actorFrom(r)
		if err != nil {
			return nil, err
		}
		var input internalorders.CancelItemsInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return svc.StoreCancelItems(r.Context(), actor, orderID, input)
	})
}

func orderTransition(svc internalorders.Service, logg *logger.Logger, fn func(*http.Request, internalorders.Service, uuid.UUID) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := pathUUID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := fn(r, svc, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
