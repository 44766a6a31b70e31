package controllers

import (
	"net/http"

	"github.com/adiletbaev/distribo-backend/api/responses"
	"github.com/adiletbaev/distribo-backend/api/validators"
	"github.com/adiletbaev/distribo-backend/internal/inventory"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/logger"
)

// StoreInventoryLevels returns the stock counters for a store. Store users
// see their own store; admins may pass store_id.
func StoreInventoryLevels(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := validators.ParseQueryUUID(r, "store_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch actor.Role {
		case enums.UserRoleAdmin:
			if storeID == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "store_id is required"))
				return
			}
		case enums.UserRoleStore:
			if actor.StoreID == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing"))
				return
			}
			storeID = actor.StoreID
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "store inventory is not visible to this role"))
			return
		}

		levels, err := svc.StoreLevels(r.Context(), *storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, levels)
	}
}

// PartnerInventoryLevels returns the stock counters for a partner. Partners
// see their own; admins may pass partner_id.
func PartnerInventoryLevels(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		partnerID, err := validators.ParseQueryUUID(r, "partner_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch actor.Role {
		case enums.UserRoleAdmin:
			if partnerID == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "partner_id is required"))
				return
			}
		case enums.UserRolePartner:
			id := actor.UserID
			partnerID = &id
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "partner inventory is not visible to this role"))
			return
		}

		levels, err := svc.PartnerLevels(r.Context(), *partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, levels)
	}
}
